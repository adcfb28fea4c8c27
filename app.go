package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Rshep3087/lunchtogo/api"
	"github.com/Rshep3087/lunchtogo/dashboard"
	"github.com/Rshep3087/lunchtogo/demo"
	"github.com/Rshep3087/lunchtogo/session"
	"github.com/Rshep3087/lunchtogo/storage"
)

// app is everything a command needs: the session, the API client and the loader.
type app struct {
	config  Config
	session *session.Store
	// client is nil when no API token is known.
	client *api.Client
	loader dashboard.Loader
	logger *log.Logger
}

func newApp(ctx context.Context, config Config) (*app, error) {
	dir, err := config.resolveDataDir()
	if err != nil {
		return nil, err
	}

	logger := log.Default()
	adapters := storage.NewFileAdapters(dir)
	if fs, ok := adapters.Secure.(*storage.FileSecure); ok {
		fs.Logger = logger
	}

	return assembleApp(ctx, config, adapters, logger)
}

// assembleApp wires an app over the given storage adapters.
func assembleApp(ctx context.Context, config Config, adapters storage.Adapters, logger *log.Logger) (*app, error) {
	store := session.New(adapters)
	if err := store.Hydrate(ctx); err != nil {
		return nil, err
	}

	a := &app{
		config:  config,
		session: store,
		logger:  logger,
	}

	if config.DemoFile != "" {
		a.loader.DemoData = demo.FileFetcher{Path: config.DemoFile}
	}
	a.loader.Logger = logger

	if err := a.connect(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

// connect builds the API client when a token is available, from the config first
// and the secure store second.
func (a *app) connect(ctx context.Context) error {
	key := a.config.Token
	if key == "" {
		stored, err := a.session.LoadAPIKey(ctx)
		if err != nil {
			return err
		}
		key = stored
	}

	if key == "" {
		log.Debug("no API token found, only demo data is available")
		a.client = nil
		a.loader.Client = nil
		return nil
	}

	a.client = a.newClient(api.StaticToken(key))
	a.loader.Client = a.client

	return nil
}

func (a *app) newClient(ts api.TokenSource) *api.Client {
	opts := []api.ClientOption{
		api.WithHTTPClient(&http.Client{
			Timeout:   30 * time.Second,
			Transport: newLoggingTransport(http.DefaultTransport, a.logger),
		}),
		api.WithTokenSource(ts),
		api.WithLogger(a.logger),
	}
	if a.config.BaseURL != "" {
		opts = append(opts, api.WithBaseURL(a.config.BaseURL))
	}

	return api.NewClient(opts...)
}

// requireClient fails commands that only make sense against the live API.
func (a *app) requireClient() error {
	if a.client == nil {
		return errors.New("API token is required (set via --token flag, " +
			"LUNCHMONEY_API_TOKEN environment variable, config file, or `lunchtogo auth login`)")
	}

	return nil
}

// load fetches a snapshot. forceDemo shows demo data even when a client exists.
func (a *app) load(ctx context.Context, prefs storage.Preferences, forceDemo bool) (dashboard.Snapshot, error) {
	if forceDemo {
		prefs.DemoMode = true
	}

	snap, err := a.loader.Load(ctx, prefs)
	if err != nil {
		return dashboard.Snapshot{}, fmt.Errorf("failed to load accounts: %w", err)
	}

	return snap, nil
}
