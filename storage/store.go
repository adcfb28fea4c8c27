package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Rshep3087/lunchtogo/accounts"
)

// PreferenceStore loads and saves Preferences.
type PreferenceStore interface {
	// Load returns nil when nothing has been saved yet.
	Load(ctx context.Context) (*Preferences, error)
	Save(ctx context.Context, p Preferences) error
	// Patch applies u to the stored preferences, or to Defaults when none are stored.
	Patch(ctx context.Context, u Update) (Preferences, error)
	Clear(ctx context.Context) error
}

// SecureStore keeps the API key.
type SecureStore interface {
	// ReadAPIKey returns "" when no key is stored.
	ReadAPIKey(ctx context.Context) (string, error)
	WriteAPIKey(ctx context.Context, key string) error
	DeleteAPIKey(ctx context.Context) error
}

// ErrEmptyAPIKey is returned when writing an empty key.
var ErrEmptyAPIKey = errors.New("API key value must be a non-empty string")

// Adapters bundles both stores.
type Adapters struct {
	Preferences PreferenceStore
	Secure      SecureStore
}

// PreferencesFile and the key file names live under the data directory.
const (
	PreferencesFile = "preferences.toml"
	apiKeyFile      = "api-key.enc"
	secretKeyFile   = "api-key.secret"
)

// NewFileAdapters stores everything under dir.
func NewFileAdapters(dir string) Adapters {
	return Adapters{
		Preferences: &FilePreferences{Path: filepath.Join(dir, PreferencesFile)},
		Secure:      &FileSecure{Dir: dir},
	}
}

// NewMemoryAdapters keeps everything in process.
func NewMemoryAdapters() Adapters {
	return Adapters{
		Preferences: &MemoryPreferences{},
		Secure:      &MemorySecure{},
	}
}

// preferencesFile is the TOML layout of Preferences.
type preferencesFile struct {
	Theme              Theme                 `toml:"theme"`
	AccentColor        AccentColor           `toml:"accent_color"`
	AccountSort        accounts.SortMode     `toml:"account_sort"`
	CurrencyMode       accounts.CurrencyMode `toml:"currency_mode"`
	VerificationStatus VerificationStatus    `toml:"verification_status"`
	DemoMode           bool                  `toml:"demo_mode"`
	Profile            *ProfileSnapshot      `toml:"profile,omitempty"`
	LastVerifiedAt     *fileTime             `toml:"last_verified_at,omitempty"`
}

func newPreferencesFile(p Preferences) preferencesFile {
	rec := preferencesFile{
		Theme:              p.Theme,
		AccentColor:        p.AccentColor,
		AccountSort:        p.AccountSort,
		CurrencyMode:       p.CurrencyMode,
		VerificationStatus: p.VerificationStatus,
		DemoMode:           p.DemoMode,
		Profile:            p.Profile,
	}
	if p.LastVerifiedAt != nil {
		at := fileTime(*p.LastVerifiedAt)
		rec.LastVerifiedAt = &at
	}
	return rec
}

func (rec preferencesFile) preferences() Preferences {
	p := Preferences{
		Theme:              rec.Theme,
		AccentColor:        rec.AccentColor,
		AccountSort:        rec.AccountSort,
		CurrencyMode:       rec.CurrencyMode,
		VerificationStatus: rec.VerificationStatus,
		DemoMode:           rec.DemoMode,
		Profile:            rec.Profile,
	}
	if rec.LastVerifiedAt != nil {
		at := time.Time(*rec.LastVerifiedAt).UTC()
		p.LastVerifiedAt = &at
	}
	return p
}

// fileTime is stored as an RFC 3339 string. go-toml writes a *time.Time as
// text but only decodes a TOML datetime into time.Time.
type fileTime time.Time

func (t fileTime) MarshalText() ([]byte, error) {
	return []byte(time.Time(t).UTC().Format(time.RFC3339Nano)), nil
}

func (t *fileTime) UnmarshalText(text []byte) error {
	at, err := time.Parse(time.RFC3339Nano, string(text))
	if err != nil {
		return fmt.Errorf("invalid last_verified_at %q: %w", text, err)
	}
	*t = fileTime(at)
	return nil
}

// FilePreferences stores preferences as TOML. Writes replace the file atomically.
type FilePreferences struct {
	Path string

	mu sync.Mutex
}

func (f *FilePreferences) Load(ctx context.Context) (*Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.load(ctx)
}

func (f *FilePreferences) load(ctx context.Context) (*Preferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences %s: %w", f.Path, err)
	}

	// fields missing from the file keep their defaults
	rec := newPreferencesFile(Defaults())
	if err := toml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", f.Path, err)
	}

	p := rec.preferences()
	return &p, nil
}

func (f *FilePreferences) Save(ctx context.Context, p Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.save(ctx, p)
}

func (f *FilePreferences) save(ctx context.Context, p Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(newPreferencesFile(p))
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	return writeFileAtomic(f.Path, data, 0o600)
}

func (f *FilePreferences) Patch(ctx context.Context, u Update) (Preferences, error) {
	if err := u.Validate(); err != nil {
		return Preferences{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load(ctx)
	if err != nil {
		return Preferences{}, err
	}

	base := Defaults()
	if current != nil {
		base = *current
	}

	next := Apply(base, u)
	if err := f.save(ctx, next); err != nil {
		return Preferences{}, err
	}

	return next, nil
}

func (f *FilePreferences) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove preferences %s: %w", f.Path, err)
	}

	return nil
}

// MemoryPreferences is a PreferenceStore for tests and throwaway sessions.
type MemoryPreferences struct {
	mu    sync.Mutex
	prefs *Preferences
}

func (m *MemoryPreferences) Load(context.Context) (*Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.prefs == nil {
		return nil, nil
	}
	p := *m.prefs
	return &p, nil
}

func (m *MemoryPreferences) Save(_ context.Context, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.prefs = &p
	return nil
}

func (m *MemoryPreferences) Patch(_ context.Context, u Update) (Preferences, error) {
	if err := u.Validate(); err != nil {
		return Preferences{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	base := Defaults()
	if m.prefs != nil {
		base = *m.prefs
	}

	next := Apply(base, u)
	m.prefs = &next
	return next, nil
}

func (m *MemoryPreferences) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prefs = nil
	return nil
}

// MemorySecure is a SecureStore for tests and throwaway sessions.
type MemorySecure struct {
	mu  sync.Mutex
	key string
}

func (m *MemorySecure) ReadAPIKey(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.key, nil
}

func (m *MemorySecure) WriteAPIKey(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyAPIKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.key = key
	return nil
}

func (m *MemorySecure) DeleteAPIKey(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.key = ""
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
