package store

import (
	"sync"

	"golang.org/x/oauth2"
)

// Store is a pluggable persistence layer for session credentials. Exactly one
// token pair is held at a time; the authentication service is the only
// mutator.
type Store interface {
	// SetTokens replaces the held token pair.
	SetTokens(token *oauth2.Token) error
	// Lookup returns the held token pair, if any.
	Lookup() (*oauth2.Token, bool)
	// Clear removes the held token pair.
	Clear() error
	// HasRefreshToken reports whether a refresh token is held.
	HasRefreshToken() bool
}

type memoryStore struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

// NewMemoryStore creates an in-memory credential store.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) SetTokens(token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = cloneToken(token)
	return nil
}

func (m *memoryStore) Lookup() (*oauth2.Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return nil, false
	}
	return cloneToken(m.token), true
}

func (m *memoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
	return nil
}

func (m *memoryStore) HasRefreshToken() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != nil && m.token.RefreshToken != ""
}

func cloneToken(token *oauth2.Token) *oauth2.Token {
	if token == nil {
		return nil
	}
	cloned := *token
	return &cloned
}
