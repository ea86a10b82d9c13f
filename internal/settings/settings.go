// Package settings stores user preferences that live next to the event data,
// currently only the API key for the description generator.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/onbeventi/internal/storage"
)

// Source tells where a resolved credential came from.
type Source string

const (
	SourceStored      Source = "stored"
	SourceEnvironment Source = "environment"
	SourceNone        Source = "none"
)

type Store struct {
	kv       storage.Store
	fallback string
}

// New binds settings to kv. fallback is the environment-provided key used when
// nothing is stored.
func New(kv storage.Store, fallback string) *Store {
	return &Store{kv: kv, fallback: strings.TrimSpace(fallback)}
}

// APIKey returns the stored key, or "" when none is stored.
func (s *Store) APIKey(ctx context.Context) (string, error) {
	v, err := s.kv.Get(ctx, storage.SettingsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read api key: %w", err)
	}
	return strings.TrimSpace(string(v)), nil
}

// SetAPIKey stores key. An empty key removes the stored value so the
// environment default applies again.
func (s *Store) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		if err := s.kv.Delete(ctx, storage.SettingsKey); err != nil {
			return fmt.Errorf("failed to clear api key: %w", err)
		}
		slog.InfoContext(ctx, "API key cleared")
		return nil
	}
	if err := s.kv.Put(ctx, storage.SettingsKey, []byte(key)); err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}
	slog.InfoContext(ctx, "API key updated")
	return nil
}

// Resolve returns the key to use: the stored one first, then the fallback.
// A failed read is logged and treated as "nothing stored".
func (s *Store) Resolve(ctx context.Context) (string, Source) {
	stored, err := s.APIKey(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read stored api key", "error", err)
	}
	if stored != "" {
		return stored, SourceStored
	}
	if s.fallback != "" {
		return s.fallback, SourceEnvironment
	}
	return "", SourceNone
}

// Mask hides all but the last four characters of key.
func Mask(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
