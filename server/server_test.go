package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/carlmjohnson/be"
	"github.com/charmbracelet/log"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/api"
	"github.com/Rshep3087/lunchtogo/dashboard"
	"github.com/Rshep3087/lunchtogo/session"
	"github.com/Rshep3087/lunchtogo/storage"
)

type loaderFunc func(ctx context.Context, prefs storage.Preferences) (dashboard.Snapshot, error)

func (f loaderFunc) Load(ctx context.Context, prefs storage.Preferences) (dashboard.Snapshot, error) {
	return f(ctx, prefs)
}

func newTestServer(t *testing.T, loader Loader) *httptest.Server {
	t.Helper()

	store := session.New(storage.NewMemoryAdapters())
	be.NilErr(t, store.Hydrate(context.Background()))

	if loader == nil {
		loader = dashboard.Loader{
			Now:    func() time.Time { return time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC) },
			Logger: log.New(io.Discard),
		}
	}

	ts := httptest.NewServer(New(store, loader, log.New(io.Discard)).Handler())
	t.Cleanup(ts.Close)

	return ts
}

func do(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	be.NilErr(t, err)

	resp, err := http.DefaultClient.Do(req)
	be.NilErr(t, err)
	defer resp.Body.Close()

	be.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out map[string]any
	be.NilErr(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	status, body := do(t, http.MethodGet, ts.URL+"/api/health", "")
	be.Equal(t, http.StatusOK, status)
	be.Equal(t, "ok", body["status"])
}

func TestAccountsDemo(t *testing.T) {
	ts := newTestServer(t, nil)

	status, body := do(t, http.MethodGet, ts.URL+"/api/accounts", "")
	be.Equal(t, http.StatusOK, status)
	be.Equal(t, "demo", body["source"])
	be.Equal(t, "CAD", body["primary_currency"])
	be.Equal(t, 12, len(body["accounts"].([]any)))
}

func TestGroupsSortOverride(t *testing.T) {
	var gotSort accounts.SortMode
	loader := loaderFunc(func(_ context.Context, prefs storage.Preferences) (dashboard.Snapshot, error) {
		gotSort = prefs.AccountSort
		return dashboard.Snapshot{Source: dashboard.SourceDemo, PrimaryCurrency: "CAD"}, nil
	})
	ts := newTestServer(t, loader)

	status, _ := do(t, http.MethodGet, ts.URL+"/api/groups?sort=balance", "")
	be.Equal(t, http.StatusOK, status)
	be.Equal(t, accounts.SortBalance, gotSort)

	status, body := do(t, http.MethodGet, ts.URL+"/api/groups?sort=size", "")
	be.Equal(t, http.StatusBadRequest, status)
	errBody := body["error"].(map[string]any)
	be.Equal(t, "invalid_request", errBody["kind"])
}

func TestTotals(t *testing.T) {
	loader := loaderFunc(func(context.Context, storage.Preferences) (dashboard.Snapshot, error) {
		return dashboard.Snapshot{
			Source:          dashboard.SourceLive,
			PrimaryCurrency: "CAD",
			Totals:          accounts.Summary{Assets: 100, Liabilities: 40, Net: 60},
		}, nil
	})
	ts := newTestServer(t, loader)

	status, body := do(t, http.MethodGet, ts.URL+"/api/totals", "")
	be.Equal(t, http.StatusOK, status)
	be.Equal(t, "live", body["source"])
	be.Equal(t, 100.0, body["assets"])
	be.Equal(t, 40.0, body["liabilities"])
	be.Equal(t, 60.0, body["net"])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantTitle  string
	}{
		{
			name:       "authentication",
			err:        api.NewAuthenticationError(401, nil),
			wantStatus: http.StatusUnauthorized,
			wantKind:   "authentication",
			wantTitle:  "Authentication failed",
		},
		{
			name:       "network",
			err:        api.NewNetworkError(errors.New("dial tcp: refused")),
			wantStatus: http.StatusBadGateway,
			wantKind:   "network",
			wantTitle:  "Connectivity issue",
		},
		{
			name:       "http",
			err:        api.NewHTTPError(500, "boom"),
			wantStatus: http.StatusBadGateway,
			wantKind:   "http",
			wantTitle:  "Lunch Money returned an error",
		},
		{
			name:       "parse",
			err:        api.NewParseError("Invalid /v1/assets response", nil),
			wantStatus: http.StatusBadGateway,
			wantKind:   "parse",
			wantTitle:  "Unexpected response",
		},
		{
			name:       "other",
			err:        errors.New("something else"),
			wantStatus: http.StatusInternalServerError,
			wantKind:   "internal",
			wantTitle:  "Connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := loaderFunc(func(context.Context, storage.Preferences) (dashboard.Snapshot, error) {
				return dashboard.Snapshot{}, tt.err
			})
			ts := newTestServer(t, loader)

			status, body := do(t, http.MethodGet, ts.URL+"/api/accounts", "")
			be.Equal(t, tt.wantStatus, status)

			errBody := body["error"].(map[string]any)
			be.Equal(t, tt.wantKind, errBody["kind"].(string))
			be.Equal(t, tt.wantTitle, errBody["title"].(string))
		})
	}
}

func TestPreferences(t *testing.T) {
	ts := newTestServer(t, nil)

	status, body := do(t, http.MethodGet, ts.URL+"/api/preferences", "")
	be.Equal(t, http.StatusOK, status)
	be.Equal(t, "system", body["theme"])
	be.Equal(t, "alpha", body["account_sort"])

	status, body = do(t, http.MethodPatch, ts.URL+"/api/preferences", `{"theme":"dark","currency_mode":"account"}`)
	be.Equal(t, http.StatusOK, status)
	be.Equal(t, "dark", body["theme"])
	be.Equal(t, "account", body["currency_mode"])

	status, body = do(t, http.MethodGet, ts.URL+"/api/preferences", "")
	be.Equal(t, http.StatusOK, status)
	be.Equal(t, "dark", body["theme"])

	status, body = do(t, http.MethodPatch, ts.URL+"/api/preferences", `{"theme":"sepia"}`)
	be.Equal(t, http.StatusBadRequest, status)
	be.Equal(t, "invalid_request", body["error"].(map[string]any)["kind"])

	status, _ = do(t, http.MethodPatch, ts.URL+"/api/preferences", `{not json`)
	be.Equal(t, http.StatusBadRequest, status)
}
