package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/storage"
)

type keyMap struct {
	overview     key.Binding
	config       key.Binding
	sort         key.Binding
	currencyMode key.Binding
	demoMode     key.Binding
	refresh      key.Binding
	escape       key.Binding
	fullHelp     key.Binding
	quit         key.Binding
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		km.overview,
		km.sort,
		km.currencyMode,
		km.refresh,
		km.quit,
		km.fullHelp,
	}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			km.overview,
			km.config,
			km.refresh,
			km.quit,
			km.fullHelp,
		},
		{
			km.sort,
			km.currencyMode,
			km.demoMode,
		},
	}
}

func initializeKeyMap() keyMap {
	return keyMap{
		overview: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "overview"),
		),
		config: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "configuration"),
		),
		sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		currencyMode: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "currency"),
		),
		demoMode: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "demo data"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "escape"),
		),
		fullHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func handleKeyPress(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	log.Debug("key pressed", "key", msg.String())

	// Handle special keys first
	if model, cmd := handleSpecialKeys(msg, m); cmd != nil {
		return model, cmd
	}

	if isInputBlocked(msg, m) {
		return *m, nil
	}

	if model, cmd := handlePreferenceKeys(msg, m); cmd != nil {
		return model, cmd
	}

	return handleSessionStateKeys(msg, m)
}

func handleSpecialKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return *m, tea.Quit
	}

	if key.Matches(msg, m.keys.escape) {
		return handleEscape(m)
	}

	return *m, nil
}

// isInputBlocked reports whether msg should be ignored in the current state. Only
// quit works while loading. After a failed load only refresh and demo mode do.
func isInputBlocked(msg tea.KeyMsg, m *model) bool {
	switch m.sessionState {
	case loading:
		return true
	case errorState:
		return !key.Matches(msg, m.keys.refresh) && !key.Matches(msg, m.keys.demoMode)
	}

	return false
}

func handlePreferenceKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.sort):
		next := accounts.SortBalance
		if m.prefs.AccountSort == accounts.SortBalance {
			next = accounts.SortAlpha
		}
		return *m, m.savePreferences(storage.Update{AccountSort: &next}, false)

	case key.Matches(msg, m.keys.currencyMode):
		next := accounts.CurrencyAccount
		if m.prefs.CurrencyMode == accounts.CurrencyAccount {
			next = accounts.CurrencyPrimary
		}
		return *m, m.savePreferences(storage.Update{CurrencyMode: &next}, false)

	case key.Matches(msg, m.keys.demoMode):
		next := !m.prefs.DemoMode
		return *m, m.savePreferences(storage.Update{DemoMode: &next}, true)
	}

	return *m, nil
}

func handleSessionStateKeys(msg tea.KeyMsg, m *model) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.overview):
		if m.sessionState != overviewState {
			m.previousSessionState = m.sessionState
			m.configView.SetFocus(false)
			m.sessionState = overviewState
		}

	case key.Matches(msg, m.keys.config):
		if m.sessionState != configView {
			m.previousSessionState = m.sessionState
			m.configView.SetFocus(true)
			m.sessionState = configView
		}

	case key.Matches(msg, m.keys.refresh):
		return m.refresh()

	case key.Matches(msg, m.keys.fullHelp):
		m.help.ShowAll = !m.help.ShowAll
	}

	return *m, nil
}

// handleEscape returns to the overview.
func handleEscape(m *model) (tea.Model, tea.Cmd) {
	if m.sessionState == loading {
		return *m, nil
	}

	// nothing to go back to without a successful load
	if m.sessionState == errorState && m.snapshot == nil {
		return *m, nil
	}

	m.configView.SetFocus(false)
	m.previousSessionState = m.sessionState
	m.sessionState = overviewState
	return *m, nil
}
