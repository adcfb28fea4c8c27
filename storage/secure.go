package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	secretKeySize = 32
	nonceSize     = 24
)

// FileSecure keeps the API key sealed with NaCl secretbox. The secret key is
// generated on first write and stored next to the sealed key, both mode 0600.
type FileSecure struct {
	Dir    string
	Logger *log.Logger

	mu sync.Mutex
}

func (f *FileSecure) logger() *log.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return log.Default()
}

// ReadAPIKey returns "" when nothing is stored. A record that no longer opens is
// deleted and treated as missing.
func (f *FileSecure) ReadAPIKey(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	sealed, err := os.ReadFile(f.path(apiKeyFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	key, err := f.secretKey(false)
	if err != nil {
		return "", err
	}

	plain, ok := open(sealed, key)
	if !ok {
		f.logger().Error("Failed to decrypt API key", "path", f.path(apiKeyFile))
		if err := os.Remove(f.path(apiKeyFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to remove unreadable API key: %w", err)
		}
		return "", nil
	}

	return string(plain), nil
}

func (f *FileSecure) WriteAPIKey(ctx context.Context, value string) error {
	if value == "" {
		return ErrEmptyAPIKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key, err := f.secretKey(true)
	if err != nil {
		return err
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(value), &nonce, key)
	return writeFileAtomic(f.path(apiKeyFile), sealed, 0o600)
}

func (f *FileSecure) DeleteAPIKey(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(apiKeyFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete API key: %w", err)
	}

	return nil
}

func (f *FileSecure) path(name string) string {
	return filepath.Join(f.Dir, name)
}

// secretKey reads the secret key, creating it when create is set.
// A missing key without create yields an all-zero key, which opens nothing.
func (f *FileSecure) secretKey(create bool) (*[secretKeySize]byte, error) {
	var key [secretKeySize]byte

	data, err := os.ReadFile(f.path(secretKeyFile))
	switch {
	case err == nil && len(data) == secretKeySize:
		copy(key[:], data)
		return &key, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read secret key: %w", err)
	case !create:
		return &key, nil
	}

	if _, err := rand.Read(key[:]); err != nil {
		return nil, fmt.Errorf("failed to generate secret key: %w", err)
	}
	if err := writeFileAtomic(f.path(secretKeyFile), key[:], 0o600); err != nil {
		return nil, err
	}

	return &key, nil
}

func open(sealed []byte, key *[secretKeySize]byte) ([]byte, bool) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, false
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	return secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
}
