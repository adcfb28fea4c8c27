package demo

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Rshep3087/lunchtogo/accounts"
)

//go:embed demo_accounts_data.csv
var embeddedDataset string

// Fetcher returns the raw dataset text.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context) (string, error) {
	return f(ctx)
}

// Embedded serves the dataset compiled into the binary.
func Embedded() Fetcher {
	return FetcherFunc(func(context.Context) (string, error) {
		return embeddedDataset, nil
	})
}

// FileFetcher reads the dataset from disk.
type FileFetcher struct {
	Path string
}

func (f FileFetcher) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read demo data: %w", err)
	}

	return string(data), nil
}

// HTTPFetcher downloads the dataset. A nil Client uses http.DefaultClient.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to load demo data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to load demo data: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read demo data: %w", err)
	}

	return string(body), nil
}

// Load fetches the dataset once and parses it. Fetch errors are returned as is.
func Load(ctx context.Context, f Fetcher, primaryCurrency string, opts ...Option) ([]accounts.Account, error) {
	if primaryCurrency == "" {
		primaryCurrency = DefaultPrimaryCurrency
	}

	text, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return Parse(text, primaryCurrency, opts...)
}
