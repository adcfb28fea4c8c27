// Package dashboard fetches account data from Lunch Money or the demo dataset and
// shapes it into what the views render.
package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/api"
	"github.com/Rshep3087/lunchtogo/demo"
	"github.com/Rshep3087/lunchtogo/storage"
)

// Source says where a Snapshot came from.
type Source string

const (
	SourceLive Source = "live"
	SourceDemo Source = "demo"
)

// Snapshot is one load of the dashboard.
type Snapshot struct {
	Source Source `json:"source"`
	// Profile is nil for demo data.
	Profile         *api.Profile       `json:"profile,omitempty"`
	PrimaryCurrency string             `json:"primary_currency"`
	Accounts        []accounts.Account `json:"accounts"`
	Groups          []accounts.Group   `json:"groups"`
	Totals          accounts.Summary   `json:"totals"`
	LoadedAt        time.Time          `json:"loaded_at"`
}

// Loader builds snapshots. A nil Client means only demo data is available.
type Loader struct {
	Client   api.Getter
	DemoData demo.Fetcher
	Now      func() time.Time
	Logger   *log.Logger
}

func (l Loader) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l Loader) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}

// Live fetches the profile, assets and linked accounts concurrently and normalizes
// them under the profile's primary currency. The first error is returned as is.
func (l Loader) Live(ctx context.Context, sort accounts.SortMode) (Snapshot, error) {
	var (
		profile api.Profile
		assets  []api.Asset
		plaid   []api.PlaidAccount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = api.FetchMe(gctx, l.Client)
		return err
	})
	g.Go(func() error {
		var err error
		assets, err = api.FetchAssets(gctx, l.Client)
		return err
	})
	g.Go(func() error {
		var err error
		plaid, err = api.FetchPlaidAccounts(gctx, l.Client)
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	normalized := accounts.Normalize(accounts.Batch{
		Assets:          assets,
		PlaidAccounts:   plaid,
		PrimaryCurrency: profile.PrimaryCurrency,
	}, accounts.WithClock(l.now))

	l.logger().Debug("loaded live accounts",
		"assets", len(assets),
		"plaid_accounts", len(plaid),
		"open", len(normalized),
	)

	return l.snapshot(SourceLive, &profile, profile.PrimaryCurrency, normalized, sort), nil
}

// Demo loads the demo dataset priced in primaryCurrency, or demo.DefaultPrimaryCurrency
// when it is empty.
func (l Loader) Demo(ctx context.Context, primaryCurrency string, sort accounts.SortMode) (Snapshot, error) {
	if primaryCurrency == "" {
		primaryCurrency = demo.DefaultPrimaryCurrency
	}

	fetcher := l.DemoData
	if fetcher == nil {
		fetcher = demo.Embedded()
	}

	loaded, err := demo.Load(ctx, fetcher, primaryCurrency,
		demo.WithClock(l.now),
		demo.WithLogger(l.logger()),
	)
	if err != nil {
		return Snapshot{}, err
	}

	l.logger().Debug("loaded demo accounts", "count", len(loaded))

	return l.snapshot(SourceDemo, nil, strings.ToUpper(primaryCurrency), loaded, sort), nil
}

// Load picks the demo dataset when demo mode is on or there is no client, and the
// live API otherwise.
func (l Loader) Load(ctx context.Context, prefs storage.Preferences) (Snapshot, error) {
	if prefs.DemoMode || l.Client == nil {
		primary := ""
		if prefs.Profile != nil {
			primary = prefs.Profile.PrimaryCurrency
		}
		return l.Demo(ctx, primary, prefs.AccountSort)
	}

	return l.Live(ctx, prefs.AccountSort)
}

func (l Loader) snapshot(source Source, profile *api.Profile, primary string, list []accounts.Account, sort accounts.SortMode) Snapshot {
	return Snapshot{
		Source:          source,
		Profile:         profile,
		PrimaryCurrency: primary,
		Accounts:        list,
		Groups:          accounts.GroupAccounts(list, sort),
		Totals:          accounts.Totals(list),
		LoadedAt:        l.now(),
	}
}
