// Package config renders the effective configuration and saved preferences.
package config

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rshep3087/lunchtogo/storage"
)

// Settings is what the configuration view shows.
type Settings struct {
	// Debug enables debug logging
	Debug bool
	// Token is the Lunch Money API token
	Token string
	// BaseURL is the Lunch Money API endpoint
	BaseURL string
	// DataDir holds preferences and the encrypted API key
	DataDir string
	// ConfigFile is the config file that was read, if any
	ConfigFile string
	// Preferences are the saved dashboard preferences
	Preferences storage.Preferences
}

// Model represents the config view model.
type Model struct {
	configTable table.Model
}

// New creates a new config view model.
func New() Model {
	configTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Setting", Width: 20},
			{Title: "Value", Width: 40},
			{Title: "Description", Width: 50},
		}),
	)

	tableStyle := table.DefaultStyles()
	tableStyle.Selected = tableStyle.Selected.
		Foreground(lipgloss.Color("#ffd644"))

	configTable.SetStyles(tableStyle)

	return Model{configTable: configTable}
}

// SetFocus sets the focus state of the config table.
func (m *Model) SetFocus(focus bool) {
	if focus {
		m.configTable.Focus()
	} else {
		m.configTable.Blur()
	}
}

// SetSize sets the size of the config table.
func (m *Model) SetSize(width, height int) {
	m.configTable.SetHeight(height)
	m.configTable.SetWidth(width)
}

func maskSensitiveValue(value string) string {
	if value == "" {
		return "(not set)"
	}

	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}

	return value[:4] + strings.Repeat("*", len(value)-4)
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

// SetSettings sets the configuration data for the view.
func (m *Model) SetSettings(s Settings) {
	p := s.Preferences

	lastVerified := "never"
	if p.LastVerifiedAt != nil {
		lastVerified = p.LastVerifiedAt.Local().Format("2006-01-02 15:04")
	}

	rows := []table.Row{
		{"Debug", strconv.FormatBool(s.Debug), "Enable debug logging"},
		{"Token", maskSensitiveValue(s.Token), "Lunch Money API token"},
		{"API Base URL", orUnset(s.BaseURL), "Lunch Money API endpoint override"},
		{"Data Directory", orUnset(s.DataDir), "Where preferences and the API key are kept"},
		{"Config File", orUnset(s.ConfigFile), "Configuration file in use"},
		{"Theme", string(p.Theme), "system, light or dark"},
		{"Accent Color", string(p.AccentColor), "Highlight color"},
		{"Account Sort", string(p.AccountSort), "Order of accounts within a type (s)"},
		{"Currency Mode", string(p.CurrencyMode), "Show primary or account currency balances (c)"},
		{"Demo Mode", strconv.FormatBool(p.DemoMode), "Show the demo dataset instead of live data"},
		{"Verification", string(p.VerificationStatus), "Whether the stored API key was accepted"},
		{"Last Verified", lastVerified, "When the API key was last checked"},
	}

	m.configTable.SetRows(rows)
}

// Init initializes the config view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles updates to the config view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.configTable, cmd = m.configTable.Update(msg)
	return m, cmd
}

// View renders the config view.
func (m Model) View() string {
	return m.configTable.View()
}
