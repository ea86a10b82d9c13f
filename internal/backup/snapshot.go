// Package backup writes periodic JSON snapshots of the event collection.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmynk/onbeventi/internal/clock"
	"github.com/mmynk/onbeventi/internal/metrics"
	"github.com/mmynk/onbeventi/internal/models"
)

const (
	filePrefix = "events-"
	fileSuffix = ".json"
	// Lexically sortable, so the newest snapshot sorts last.
	stampLayout = "20060102-150405.000"
	DefaultKeep = 14
)

// Source provides the collection to snapshot. *repository.Repository
// implements it.
type Source interface {
	List(ctx context.Context) []models.Event
}

type Snapshotter struct {
	src     Source
	dir     string
	keep    int
	clock   clock.Clock
	metrics *metrics.Metrics
}

// NewSnapshotter writes into dir and retains the newest keep files
// (DefaultKeep when keep <= 0).
func NewSnapshotter(src Source, dir string, keep int, clk clock.Clock, m *metrics.Metrics) *Snapshotter {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Snapshotter{src: src, dir: dir, keep: keep, clock: clk, metrics: m}
}

// Snapshot writes the current collection and prunes old files. It returns the
// path of the new snapshot.
func (s *Snapshotter) Snapshot(ctx context.Context) (path string, err error) {
	defer func() { s.metrics.ObserveSnapshot(err) }()

	events := s.src.List(ctx)
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := filePrefix + s.clock.Now().UTC().Format(stampLayout) + fileSuffix
	path = filepath.Join(s.dir, name)
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}

	removed, err := s.prune()
	if err != nil {
		// The snapshot itself is safe on disk.
		slog.WarnContext(ctx, "Failed to prune old snapshots", "dir", s.dir, "error", err)
	}

	slog.InfoContext(ctx, "Snapshot written",
		"path", path,
		"events", len(events),
		"pruned", removed,
	)
	return path, nil
}

// Snapshots lists existing snapshot files, oldest first.
func (s *Snapshotter) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), fileSuffix) {
			names = append(names, filepath.Join(s.dir, e.Name()))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Snapshotter) prune() (int, error) {
	files, err := s.Snapshots()
	if err != nil {
		return 0, err
	}
	if len(files) <= s.keep {
		return 0, nil
	}
	var errs []error
	stale := files[:len(files)-s.keep]
	for _, f := range stale {
		if err := os.Remove(f); err != nil {
			errs = append(errs, err)
		}
	}
	return len(stale) - len(errs), errors.Join(errs...)
}

// writeFileAtomic writes to a temp file in the same directory, syncs it and
// renames it over path, so readers never see a partial snapshot.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to chmod snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}
