package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/birrama/careers/internal/wizard"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrFileNotFound = errors.New("pending file not found or expired")
)

// Store keeps wizard state between requests. Implementations must hand out independent
// copies: mutating a loaded wizard never affects the stored one until Save.
type Store interface {
	Load(ctx context.Context, id string) (*wizard.Wizard, error)
	Save(ctx context.Context, id string, w *wizard.Wizard) error
	Delete(ctx context.Context, id string) error
}

// FileStore holds the bytes of attachments picked in the wizard until a submit uploads them.
// Files expire after the same TTL as sessions.
type FileStore interface {
	PutFile(ctx context.Context, id string, data []byte) error
	GetFile(ctx context.Context, id string) ([]byte, error)
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is the single-process store used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	files   map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		files:   make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*wizard.Wizard, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	w := wizard.New()
	if err := json.Unmarshal(entry.data, w); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return w, nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, w *wizard.Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	s.mu.Lock()
	s.entries[id] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) PutFile(ctx context.Context, id string, data []byte) error {
	s.mu.Lock()
	s.files[id] = memoryEntry{data: append([]byte(nil), data...), expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetFile(ctx context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.files[id]
	if !ok || s.now().After(entry.expiresAt) {
		delete(s.files, id)
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	return append([]byte(nil), entry.data...), nil
}

// Sweep drops every expired session and pending file and reports how many went away.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for _, m := range []map[string]memoryEntry{s.entries, s.files} {
		for id, entry := range m {
			if now.After(entry.expiresAt) {
				delete(m, id)
				removed++
			}
		}
	}
	return removed
}

// StartJanitor sweeps expired sessions every interval until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Printf("🧹 Session janitor: dropped %d expired sessions", n)
				}
			}
		}
	}()
}
