// Package session keeps each browser's display slot: the transcript from its
// latest upload, or the message explaining why that upload failed.
package session

import (
	"context"
	"sync"
	"time"
)

// State is one session's display slot. A zero State is an empty slot.
type State struct {
	Transcript   string    `json:"transcript,omitempty"`
	SourceName   string    `json:"source_name,omitempty"`
	DownloadName string    `json:"download_name,omitempty"`
	Stage        string    `json:"stage,omitempty"`
	Messages     []string  `json:"messages,omitempty"`
	Error        string    `json:"error,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// HasTranscript reports whether the slot holds a downloadable transcript.
func (s State) HasTranscript() bool {
	return s.Transcript != "" && s.DownloadName != ""
}

// Store loads and replaces display slots by session id. Load of an unknown
// id returns a zero State and no error.
type Store interface {
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	state   State
	expires time.Time
}

// MemoryStore is a process-local Store. Entries expire ttl after their last save.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, id string) (State, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return State{}, nil
	}
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return State{}, nil
	}
	return entry.state, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, state State) error {
	entry := memoryEntry{state: state}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[id] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
