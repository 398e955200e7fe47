package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReferencedFunc returns the set of stored filenames currently referenced
// by catalog records.
type ReferencedFunc func() (map[string]bool, error)

// Watch runs an fsnotify watcher on the uploads directory until ctx is
// cancelled. External create/remove events are logged, and each burst of
// events schedules a debounced orphan scan: blobs on disk that no item
// references are reported (a failed metadata write after a durable blob
// write leaves exactly this condition behind).
func (s *Store) Watch(ctx context.Context, referenced ReferencedFunc, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(s.dir); err != nil {
		return err
	}
	logger.Info("blob watcher: started", slog.String("dir", s.dir))

	// Debounce the scan so a batch of uploads triggers one pass.
	var scanTimer *time.Timer
	var scanCh <-chan time.Time
	scheduleScan := func() {
		if scanTimer == nil {
			scanTimer = time.NewTimer(500 * time.Millisecond)
			scanCh = scanTimer.C
		} else {
			scanTimer.Reset(500 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if scanTimer != nil {
				scanTimer.Stop()
			}
			logger.Info("blob watcher: stopped")
			return nil

		case <-scanCh:
			orphans, scanErr := s.Orphans(referenced)
			if scanErr != nil {
				logger.Warn("blob watcher: orphan scan failed", slog.String("error", scanErr.Error()))
				continue
			}
			for _, name := range orphans {
				logger.Warn("blob watcher: orphaned blob on disk", slog.String("filename", name))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			switch {
			case ev.Op&fsnotify.Create != 0:
				logger.Debug("blob watcher: blob appeared", slog.String("filename", name))
				scheduleScan()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("blob watcher: blob removed", slog.String("filename", name))
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("blob watcher: error", slog.String("error", err.Error()))
		}
	}
}

// Orphans lists stored blobs that no catalog record references.
func (s *Store) Orphans(referenced ReferencedFunc) ([]string, error) {
	refs, err := referenced()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !refs[e.Name()] {
			out = append(out, e.Name())
		}
	}
	return out, nil
}
