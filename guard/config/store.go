package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store owns the live Config. All reads go through Read/EffectiveSettings and
// all writes through Mutate, which serializes mutations and persists the full
// document after each one. Write failures are logged and swallowed: the
// in-memory state stays authoritative for the running process.
type Store struct {
	mu     sync.RWMutex
	path   string
	logger *slog.Logger
	cfg    *Config

	// lastSave lets the file watcher skip reload events caused by our own
	// writes.
	lastSave time.Time
}

// NewMemStore wraps an in-memory config with no backing file; mutations are
// not persisted anywhere. Used by tests and fixtures.
func NewMemStore(cfg *Config, logger *slog.Logger) *Store {
	if cfg == nil {
		cfg = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger, cfg: cfg}
	s.normalize()
	return s
}

// Load reads the config document from path, or starts from defaults if the
// file does not exist yet. A malformed file is an error; silently discarding
// operator state would be worse than refusing to start.
func Load(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		path:   path,
		logger: logger,
		cfg:    NewConfig(),
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("no config file yet, starting from defaults", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(raw, s.cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	s.normalize()
	logger.Info("loaded config", "path", path, "groups", len(s.cfg.Groups))
	return s, nil
}

// maps may be nil after unmarshaling an older document
func (s *Store) normalize() {
	if s.cfg.Groups == nil {
		s.cfg.Groups = make(map[string]*GroupSettings)
	}
	if s.cfg.EmojiReactGroups == nil {
		s.cfg.EmojiReactGroups = make(map[string][]string)
	}
	if s.cfg.CardLocks == nil {
		s.cfg.CardLocks = make(map[string]string)
	}
}

// Read runs fn with read access to the config. fn must not retain or mutate
// the pointer.
func (s *Store) Read(fn func(c *Config)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.cfg)
}

// Mutate applies fn under the write lock, then persists the full document.
// Every admin command funnels through here, which is what makes per-group
// serialization a localized change later.
func (s *Store) Mutate(fn func(c *Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cfg)
	s.saveLocked()
}

func (s *Store) saveLocked() {
	if s.path == "" {
		return
	}
	raw, err := json.MarshalIndent(s.cfg, "", "  ")
	if err != nil {
		s.logger.Error("encoding config failed", "err", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("creating config dir failed", "err", err, "path", s.path)
		return
	}
	s.lastSave = time.Now()
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		// best-effort persistence: memory stays authoritative
		s.logger.Error("persisting config failed", "err", err, "path", s.path)
	}
}

// Reload re-reads the document from disk, replacing in-memory state. Used by
// the file watcher; a parse failure keeps the current state.
func (s *Store) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	next := NewConfig()
	if err := json.Unmarshal(raw, next); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = next
	s.normalize()
	return nil
}

// IsOwner reports whether userID is one of the configured root principals.
func (s *Store) IsOwner(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Contains(s.cfg.Owners(), userID)
}

// Owners returns the configured root principal identifiers.
func (s *Store) Owners() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Owners()
}

// IsBlacklisted reports global blacklist membership.
func (s *Store) IsBlacklisted(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Contains(s.cfg.Blacklist, userID)
}

// IsWhitelisted reports global whitelist membership.
func (s *Store) IsWhitelisted(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Contains(s.cfg.Whitelist, userID)
}

// CardLock returns the pinned card for (group, user). The second return
// distinguishes "locked to empty string" from "no lock".
func (s *Store) CardLock(groupID, userID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cfg.CardLocks[CardLockKey(groupID, userID)]
	return v, ok
}
