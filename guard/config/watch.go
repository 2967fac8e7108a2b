package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store when the config file changes on disk, so operators
// can hand-edit the document without restarting. Events arriving shortly
// after one of our own saves are skipped. Blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// watch the directory: editors and our own saves replace the file
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != filepath.Clean(s.path) {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}
			s.mu.RLock()
			selfWrite := time.Since(s.lastSave) < time.Second
			s.mu.RUnlock()
			if selfWrite {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Error("config reload failed", "err", err, "path", s.path)
			} else {
				s.logger.Info("config reloaded from disk", "path", s.path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("config watcher error", "err", err)
		}
	}
}
