package main

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Rshep3087/lunchtogo/config"
	"github.com/Rshep3087/lunchtogo/dashboard"
	"github.com/Rshep3087/lunchtogo/overview"
	"github.com/Rshep3087/lunchtogo/session"
	"github.com/Rshep3087/lunchtogo/storage"
)

type model struct {
	// loadingSpinner is a spinner model for the loading state
	loadingSpinner spinner.Model

	keys   keyMap
	help   help.Model
	styles styles

	overview   overview.Model
	configView config.Model

	// sessionState is the current state of the session
	sessionState         sessionState
	previousSessionState sessionState
	loadingState         loadingState
	// errorMsg is shown in the error state
	errorMsg string
	// statusMsg is a one-line note under the view, such as a failed save
	statusMsg string

	// session holds preferences and the stored API key
	session *session.Store
	// loader builds snapshots from the API or the demo dataset
	loader   dashboard.Loader
	settings config.Settings
	prefs    storage.Preferences
	// snapshot is nil until the first successful load
	snapshot *dashboard.Snapshot
}

func newModel(a *app) model {
	prefs := a.session.Preferences()
	theme := newTheme(prefs.Theme, prefs.AccentColor)

	dataDir, _ := a.config.resolveDataDir()
	settings := config.Settings{
		Debug:       a.config.Debug,
		Token:       a.config.Token,
		BaseURL:     a.config.BaseURL,
		DataDir:     dataDir,
		ConfigFile:  a.config.configPathUsed,
		Preferences: prefs,
	}

	m := model{
		loadingSpinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:           initializeKeyMap(),
		help:           createHelpModel(theme),
		styles:         createStyles(theme),
		overview: overview.New(
			overview.WithStyles(createOverviewStyles(theme)),
			overview.WithCurrencyMode(prefs.CurrencyMode),
		),
		configView:   config.New(),
		sessionState: loading,
		loadingState: newLoadingState(preferencesKey, accountsKey),
		session:      a.session,
		loader:       a.loader,
		settings:     settings,
		prefs:        prefs,
	}
	m.configView.SetSettings(settings)

	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.getPreferences,
		m.getSnapshot(m.prefs),
		m.loadingSpinner.Tick,
	)
}

// checkIfLoading returns the state to show once a load finishes.
func (m model) checkIfLoading() sessionState {
	if loaded, key := m.loadingState.allLoaded(); !loaded {
		log.Debug("still loading", "key", key)
		return loading
	}

	if m.errorMsg != "" {
		return errorState
	}

	return overviewState
}

// rootAction runs the dashboard TUI.
func rootAction(ctx context.Context, a *app) error {
	// anything written to the terminal would tear the alt screen
	if a.config.Debug {
		f, err := tea.LogToFile("lunchtogo.log", "lunchtogo")
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(newModel(a), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

func main() {
	Execute()
}
