package overview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/conversion"
	"github.com/Rshep3087/lunchtogo/dashboard"
)

var titleCaser = cases.Title(language.English)

// Model defines the state for the account overview widget.
type Model struct {
	Styles       Styles
	Viewport     viewport.Model
	snapshot     dashboard.Snapshot
	currencyMode accounts.CurrencyMode
	accountTree  *tree.Tree
}

type Styles struct {
	AssetStyle     lipgloss.Style
	LiabilityStyle lipgloss.Style
	TreeRootStyle  lipgloss.Style
	GroupStyle     lipgloss.Style
	TypeStyle      lipgloss.Style
	AccountStyle   lipgloss.Style
	StaleStyle     lipgloss.Style
	TooltipStyle   lipgloss.Style
	BoxStyle       lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		AssetStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")),
		LiabilityStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")),
		TreeRootStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")),
		GroupStyle:     lipgloss.NewStyle().Bold(true),
		TypeStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("#bbbbbb")),
		AccountStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#d29b1d")),
		StaleStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#e05951")),
		TooltipStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#7f7d78")).Italic(true),

		BoxStyle: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
	}
}

type Option func(*Model)

func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.Styles = s
	}
}

func WithCurrencyMode(mode accounts.CurrencyMode) Option {
	return func(m *Model) {
		m.currencyMode = mode
	}
}

func New(opts ...Option) Model {
	m := Model{
		Styles:       defaultStyles(),
		Viewport:     viewport.New(0, 20),
		currencyMode: accounts.CurrencyPrimary,
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.updateAccountTree()
	m.UpdateViewport()

	return m
}

// SetSnapshot replaces the accounts shown.
func (m *Model) SetSnapshot(s dashboard.Snapshot) {
	m.snapshot = s
	m.updateAccountTree()
	m.UpdateViewport()
}

// SetCurrencyMode switches between primary and account currency balances.
func (m *Model) SetCurrencyMode(mode accounts.CurrencyMode) {
	m.currencyMode = mode
	m.updateAccountTree()
	m.UpdateViewport()
}

func (m *Model) SetStyles(s Styles) {
	m.Styles = s
	m.updateAccountTree()
	m.UpdateViewport()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.Viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.Viewport.Width = width
	m.Viewport.Height = height
}

func (m *Model) UpdateViewport() {
	accountTreeContent := m.Styles.BoxStyle.Render(m.accountTree.String())

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top,
		m.summaryView(),
		accountTreeContent,
	)

	m.Viewport.SetContent(
		lipgloss.JoinVertical(lipgloss.Top,
			m.headerView(),
			mainContent,
		),
	)
}

func (m *Model) headerView() string {
	if m.snapshot.Profile == nil || m.snapshot.Profile.Name == "" {
		if m.snapshot.Source == "" {
			return "Overview"
		}
		return fmt.Sprintf("Overview - %s data", titleCaser.String(string(m.snapshot.Source)))
	}

	return fmt.Sprintf("Welcome - %s!", m.snapshot.Profile.Name)
}

func (m Model) summaryView() string {
	primary := m.snapshot.PrimaryCurrency
	totals := m.snapshot.Totals
	format := func(v float64) string { return conversion.FormatCurrency(v, primary, primary) }

	var b strings.Builder

	b.WriteString(fmt.Sprintf("Assets: %s\n", m.Styles.AssetStyle.Render(format(totals.Assets))))
	b.WriteString(fmt.Sprintf("Liabilities: %s\n", m.Styles.LiabilityStyle.Render(format(totals.Liabilities))))
	if totals.Net < 0 {
		b.WriteString(fmt.Sprintf("Net Worth: %s\n", m.Styles.LiabilityStyle.Render(format(totals.Net))))
	} else {
		b.WriteString(fmt.Sprintf("Net Worth: %s\n", m.Styles.AssetStyle.Render(format(totals.Net))))
	}

	b.WriteString(fmt.Sprintf("\nAccounts: %d", len(m.snapshot.Accounts)))
	if !m.snapshot.LoadedAt.IsZero() {
		b.WriteString(fmt.Sprintf("\nLoaded: %s", m.snapshot.LoadedAt.Local().Format("Jan 2 15:04")))
	}

	return m.Styles.BoxStyle.Render(b.String())
}

// updateAccountTree rebuilds the Assets / Liabilities tree, one branch per account type.
func (m *Model) updateAccountTree() {
	m.accountTree = tree.New().Root(m.Styles.TreeRootStyle.Render("Accounts"))

	if len(m.snapshot.Groups) == 0 {
		m.accountTree.Child(m.Styles.TypeStyle.Render("No accounts to show"))
		return
	}

	for _, g := range m.snapshot.Groups {
		groupTree := tree.New().Root(m.Styles.GroupStyle.Render(g.Label))

		for _, tg := range g.TypeGroups {
			typeTree := tree.New().Root(
				m.Styles.TypeStyle.Render(fmt.Sprintf("%s (%d)", tg.AccountType, len(tg.Accounts))),
			)
			for _, a := range tg.Accounts {
				typeTree.Child(m.accountLine(a))
			}
			groupTree.Child(typeTree)
		}

		m.accountTree.Child(groupTree)
	}
}

func (m Model) accountLine(a accounts.Account) string {
	value, code := a.DisplayBalance(m.currencyMode)
	balanceStyle := m.Styles.AssetStyle
	if !a.IsAsset {
		balanceStyle = m.Styles.LiabilityStyle
	}

	freshness := accounts.FormatDaysSinceUpdate(a.DaysSinceUpdate)
	if a.IsStale() {
		freshness = m.Styles.StaleStyle.Render(freshness)
	}

	line := fmt.Sprintf("%s %s  %s  %s",
		accounts.Icon(a.IconKey),
		m.Styles.AccountStyle.Render(a.Name),
		balanceStyle.Render(conversion.FormatCurrency(value, code, a.PrimaryCurrencyCode)),
		freshness,
	)

	if institution := a.Institution(); institution != "" {
		line += " · " + institution
	}

	if conversion.ShouldShowTooltip(a, m.currencyMode) {
		line += "\n" + m.Styles.TooltipStyle.Render("↳ "+conversion.AccountTooltip(a))
	}

	return line
}
