package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/api"
	"github.com/Rshep3087/lunchtogo/dashboard"
	"github.com/Rshep3087/lunchtogo/storage"
)

const (
	loadTimeout = 30 * time.Second
	saveTimeout = 5 * time.Second
)

// Message types for loads and saves.
type (
	preferencesMsg struct {
		prefs storage.Preferences
	}

	snapshotMsg struct {
		snapshot dashboard.Snapshot
	}

	loadErrMsg struct {
		err error
	}

	preferencesSavedMsg struct {
		prefs storage.Preferences
		// reload is set when the change needs fresh data, not just a re-render
		reload bool
	}

	preferencesErrMsg struct {
		err error
	}
)

// Message handlers.
func (m model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	h, v := m.styles.docStyle.GetFrameSize()

	takenHeight := 5
	m.overview.SetSize(msg.Width-h, msg.Height-v-takenHeight)
	m.configView.SetSize(msg.Width-h, msg.Height-v-takenHeight)

	m.help.Width = msg.Width

	return m, nil
}

func (m model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if m.sessionState != loading {
		return m, nil
	}

	var cmd tea.Cmd
	m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
	return m, cmd
}

func (m model) handlePreferences(msg preferencesMsg) (tea.Model, tea.Cmd) {
	m.applyPreferences(msg.prefs)
	m.loadingState.set(preferencesKey)
	m.sessionState = m.checkIfLoading()

	return m, nil
}

func (m model) handleSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	snap := msg.snapshot
	m.snapshot = &snap
	m.overview.SetSnapshot(snap)
	m.errorMsg = ""

	m.loadingState.set(accountsKey)
	m.sessionState = m.checkIfLoading()

	return m, tea.WindowSize()
}

func (m model) handleLoadError(msg loadErrMsg) (tea.Model, tea.Cmd) {
	desc := api.Describe(msg.err)
	m.errorMsg = fmt.Sprintf("%s: %s", desc.Title, desc.Description)
	if api.IsKind(msg.err, api.KindAuthentication) {
		m.errorMsg += " Run `lunchtogo auth login`, or press 'd' for demo data."
	}

	// an error is still the end of the load
	m.loadingState.set(accountsKey)
	m.sessionState = errorState

	return m, nil
}

func (m model) handlePreferencesSaved(msg preferencesSavedMsg) (tea.Model, tea.Cmd) {
	m.applyPreferences(msg.prefs)
	m.statusMsg = "Preferences saved"

	if msg.reload {
		return m.refresh()
	}

	// sorting needs no new data
	if m.snapshot != nil {
		snap := *m.snapshot
		snap.Groups = accounts.GroupAccounts(snap.Accounts, msg.prefs.AccountSort)
		m.snapshot = &snap
		m.overview.SetSnapshot(snap)
	}

	return m, nil
}

func (m model) handlePreferencesError(msg preferencesErrMsg) (tea.Model, tea.Cmd) {
	log.Debug("saving preferences failed", "err", msg.err)
	m.statusMsg = msg.err.Error()
	return m, nil
}

// applyPreferences pushes prefs to every view that depends on them.
func (m *model) applyPreferences(prefs storage.Preferences) {
	m.prefs = prefs
	m.overview.SetCurrencyMode(prefs.CurrencyMode)

	m.settings.Preferences = prefs
	m.configView.SetSettings(m.settings)
}

// refresh starts a new account load.
func (m model) refresh() (tea.Model, tea.Cmd) {
	m.loadingState.unset(accountsKey)
	m.previousSessionState = m.sessionState
	m.sessionState = loading
	m.statusMsg = ""

	return m, tea.Batch(m.getSnapshot(m.prefs), m.loadingSpinner.Tick)
}

// Load and save commands.
func (m model) getPreferences() tea.Msg {
	return preferencesMsg{prefs: m.session.Preferences()}
}

func (m model) getSnapshot(prefs storage.Preferences) tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		snap, err := loader.Load(ctx, prefs)
		if err != nil {
			log.Debug("loading accounts failed", "err", err)
			return loadErrMsg{err: err}
		}

		log.Debug("loaded accounts", "source", snap.Source, "count", len(snap.Accounts))
		return snapshotMsg{snapshot: snap}
	}
}

func (m model) savePreferences(u storage.Update, reload bool) tea.Cmd {
	store := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		prefs, err := store.Patch(ctx, u)
		if err != nil {
			return preferencesErrMsg{err: err}
		}

		return preferencesSavedMsg{prefs: prefs, reload: reload}
	}
}
