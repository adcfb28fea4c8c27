// Package session holds the preferences and API key of the running app and keeps
// them in step with storage.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/storage"
)

// Store is safe for concurrent use. The API key is cached after the first read.
type Store struct {
	prefsStore storage.PreferenceStore
	secure     storage.SecureStore
	now        func() time.Time

	mu        sync.Mutex
	hydrated  bool
	prefs     storage.Preferences
	apiKey    string
	keyCached bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for verification timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns a Store over the given adapters, starting from storage.Defaults.
func New(adapters storage.Adapters, opts ...Option) *Store {
	s := &Store{
		prefsStore: adapters.Preferences,
		secure:     adapters.Secure,
		now:        time.Now,
		prefs:      storage.Defaults(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Hydrated reports whether Hydrate has completed.
func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hydrated
}

// Preferences returns a copy of the current preferences.
func (s *Store) Preferences() storage.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.prefs
}

// Hydrate loads stored preferences once. Later calls do nothing.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return nil
	}

	stored, err := s.prefsStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	s.prefs = storage.Defaults()
	if stored != nil {
		s.prefs = *stored
	}
	s.hydrated = true

	return nil
}

func (s *Store) patch(ctx context.Context, u storage.Update) error {
	next, err := s.prefsStore.Patch(ctx, u)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	s.prefs = next
	return nil
}

// Patch applies an arbitrary update.
func (s *Store) Patch(ctx context.Context, u storage.Update) (storage.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.patch(ctx, u); err != nil {
		return storage.Preferences{}, err
	}

	return s.prefs, nil
}

func (s *Store) SetTheme(ctx context.Context, theme storage.Theme) error {
	_, err := s.Patch(ctx, storage.Update{Theme: &theme})
	return err
}

func (s *Store) SetAccentColor(ctx context.Context, accent storage.AccentColor) error {
	_, err := s.Patch(ctx, storage.Update{AccentColor: &accent})
	return err
}

func (s *Store) SetAccountSort(ctx context.Context, sort accounts.SortMode) error {
	_, err := s.Patch(ctx, storage.Update{AccountSort: &sort})
	return err
}

func (s *Store) SetCurrencyMode(ctx context.Context, mode accounts.CurrencyMode) error {
	_, err := s.Patch(ctx, storage.Update{CurrencyMode: &mode})
	return err
}

func (s *Store) SetDemoMode(ctx context.Context, enabled bool) error {
	_, err := s.Patch(ctx, storage.Update{DemoMode: &enabled})
	return err
}

// Verification carries the optional parts of SetVerification.
type Verification struct {
	Profile *storage.ProfileSnapshot
	// APIKey is stored when the status is verified and it is non-empty.
	APIKey string
	// VerifiedAt defaults to now.
	VerifiedAt *time.Time
}

// SetVerification records the outcome of checking an API key. Marking the session
// unverified drops the profile and the stored key.
func (s *Store) SetVerification(ctx context.Context, status storage.VerificationStatus, v Verification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := storage.Update{VerificationStatus: &status}

	switch status {
	case storage.Verified:
		at := s.now().UTC()
		if v.VerifiedAt != nil {
			at = v.VerifiedAt.UTC()
		}
		u.LastVerifiedAt = &at
		u.Profile = v.Profile
	case storage.Unverified:
		u.ClearProfile = true
		u.ClearLastVerifiedAt = true
	}

	if err := s.patch(ctx, u); err != nil {
		return err
	}

	switch {
	case status == storage.Verified && v.APIKey != "":
		return s.saveAPIKey(ctx, v.APIKey)
	case status == storage.Unverified:
		return s.deleteAPIKey(ctx)
	}

	return nil
}

// ResetVerification forgets the profile, the verification time and the API key.
func (s *Store) ResetVerification(ctx context.Context) error {
	return s.SetVerification(ctx, storage.Unverified, Verification{})
}

// Logout is ResetVerification under the name the CLI uses.
func (s *Store) Logout(ctx context.Context) error {
	return s.ResetVerification(ctx)
}

// LoadAPIKey returns the cached key, reading it from secure storage the first time.
// It returns "" when no key is stored.
func (s *Store) LoadAPIKey(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keyCached {
		return s.apiKey, nil
	}

	key, err := s.secure.ReadAPIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	s.apiKey = key
	s.keyCached = key != ""
	return key, nil
}

func (s *Store) SaveAPIKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveAPIKey(ctx, key)
}

func (s *Store) saveAPIKey(ctx context.Context, key string) error {
	if err := s.secure.WriteAPIKey(ctx, key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	s.apiKey = key
	s.keyCached = true
	return nil
}

func (s *Store) DeleteAPIKey(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteAPIKey(ctx)
}

func (s *Store) deleteAPIKey(ctx context.Context) error {
	if err := s.secure.DeleteAPIKey(ctx); err != nil {
		return fmt.Errorf("failed to delete API key: %w", err)
	}

	s.apiKey = ""
	s.keyCached = false
	return nil
}
