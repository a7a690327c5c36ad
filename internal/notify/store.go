package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spiffcs/tunnelview/internal/log"
)

// TokenEntry records when an only-once notification was presented.
type TokenEntry struct {
	PresentedAt time.Time `json:"presentedAt"`
}

// Token is a consumed only-once token.
type Token struct {
	ID          ID
	PresentedAt time.Time
}

// Store persists only-once tokens. An empty path keeps tokens in memory.
type Store struct {
	path    string
	entries map[ID]TokenEntry
	mu      sync.RWMutex
}

// NewStore creates a token store in the user cache directory.
func NewStore() (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(cacheDir, "tunnelview")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return NewStoreFromPath(filepath.Join(dir, "notifications.json")), nil
}

// NewStoreFromPath creates a token store backed by path.
func NewStoreFromPath(path string) *Store {
	s := &Store{
		path:    path,
		entries: make(map[ID]TokenEntry),
	}
	if err := s.load(); err != nil {
		log.Debug("could not load notification tokens, starting fresh", "error", err)
	}
	return s
}

func (s *Store) load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &s.entries)
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write notification tokens: %w", err)
	}
	return nil
}

// Consume records the token for id. It reports false if the token was
// already taken.
func (s *Store) Consume(id ID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.entries[id]; taken {
		return false, nil
	}
	s.entries[id] = TokenEntry{PresentedAt: at}
	return true, s.save()
}

// Consumed reports whether the token for id has been taken.
func (s *Store) Consumed(id ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, taken := s.entries[id]
	return taken
}

// Clear drops every token.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[ID]TokenEntry)
	return s.save()
}

// Tokens returns the consumed tokens ordered by presentation time.
func (s *Store) Tokens() []Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := make([]Token, 0, len(s.entries))
	for id, e := range s.entries {
		tokens = append(tokens, Token{ID: id, PresentedAt: e.PresentedAt})
	}
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].PresentedAt.Equal(tokens[j].PresentedAt) {
			return tokens[i].ID < tokens[j].ID
		}
		return tokens[i].PresentedAt.Before(tokens[j].PresentedAt)
	})
	return tokens
}

// Count returns the number of consumed tokens.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
