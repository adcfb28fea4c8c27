package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carlmjohnson/be"
	"github.com/charmbracelet/log"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]ClientOption{
		WithBaseURL(srv.URL + "/v1"),
		WithHTTPClient(srv.Client()),
		WithLogger(log.New(io.Discard)),
	}, opts...)

	return NewClient(opts...)
}

func TestClientGet(t *testing.T) {
	var gotAuth, gotAccept, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"assets": []}`))
	}, WithTokenSource(StaticToken("secret-token")))

	body, err := c.Get(context.Background(), "/assets")
	be.NilErr(t, err)
	be.Equal(t, `{"assets": []}`, string(body))
	be.Equal(t, "Bearer secret-token", gotAuth)
	be.Equal(t, "application/json", gotAccept)
	be.Equal(t, "/v1/assets", gotPath)
}

func TestClientRequestOverridesToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}, WithTokenSource(StaticToken("stored")))

	override := "fresh"
	body, err := c.Request(context.Background(), RequestConfig{Path: "me", AuthToken: &override})
	be.NilErr(t, err)
	be.True(t, body == nil)
	be.Equal(t, "Bearer fresh", gotAuth)
}

func TestClientErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantKind    Kind
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			contentType: "application/json",
			body:        `{"error": "Access token does not exist."}`,
			wantKind:    KindAuthentication,
			wantStatus:  401,
			wantMessage: "Authentication failed",
		},
		{
			name:        "forbidden",
			status:      http.StatusForbidden,
			wantKind:    KindAuthentication,
			wantStatus:  403,
			wantMessage: "Authentication failed",
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			contentType: "text/plain",
			body:        "boom",
			wantKind:    KindHTTP,
			wantStatus:  500,
			wantMessage: "HTTP error 500",
		},
		{
			name:        "html body",
			status:      http.StatusOK,
			contentType: "text/html",
			body:        "<html></html>",
			wantKind:    KindParse,
			wantMessage: "Unexpected response content type",
		},
		{
			name:        "invalid json",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"assets": [`,
			wantKind:    KindParse,
			wantMessage: "Failed to parse response body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Get(context.Background(), "/me")
			apiErr, ok := err.(*Error)
			be.True(t, ok)
			be.Equal(t, tt.wantKind, apiErr.Kind)
			be.Equal(t, tt.wantStatus, apiErr.Status)
			be.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := NewClient(WithBaseURL(baseURL), WithLogger(log.New(io.Discard)))
	_, err := c.Get(context.Background(), "/me")
	be.True(t, IsKind(err, KindNetwork))
}

func TestFetchEndpointsPassErrorsThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := FetchMe(context.Background(), c)
	be.True(t, IsKind(err, KindAuthentication))

	_, err = FetchAssets(context.Background(), c)
	be.True(t, IsKind(err, KindAuthentication))

	_, err = FetchPlaidAccounts(context.Background(), c)
	be.True(t, IsKind(err, KindAuthentication))
}

func TestFetchMe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		be.Equal(t, "/v1/me", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_name": "Jordan", "primary_currency": "usd", "budget_name": "Home"}`))
	})

	profile, err := FetchMe(context.Background(), c)
	be.NilErr(t, err)
	be.Equal(t, "Jordan", profile.Name)
	be.Equal(t, "USD", profile.PrimaryCurrency)
	be.Equal(t, "Home", profile.BudgetName)
}
