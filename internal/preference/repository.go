// Package preference persists the user's route priority. The stored value
// is a single scalar per session; absence always reads as the safe default.
package preference

import (
	"context"
	"errors"
	"sync"

	"github.com/saferoute/saferoute/internal/recommend"
)

// Repository errors.
var (
	ErrNotFound = errors.New("preference not found")
)

// Repository defines the interface for preference persistence.
type Repository interface {
	// Get retrieves the stored preference for a session.
	Get(ctx context.Context, sessionID string) (recommend.Preference, error)

	// Set stores the preference for a session, replacing any prior value.
	Set(ctx context.Context, sessionID string, pref recommend.Preference) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for local development and tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	prefs map[string]recommend.Preference
}

// NewInMemoryRepository creates a new in-memory preference repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		prefs: make(map[string]recommend.Preference),
	}
}

// Get retrieves the stored preference for a session.
func (r *InMemoryRepository) Get(_ context.Context, sessionID string) (recommend.Preference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pref, ok := r.prefs[sessionID]
	if !ok {
		return "", ErrNotFound
	}
	return pref, nil
}

// Set stores the preference for a session.
func (r *InMemoryRepository) Set(_ context.Context, sessionID string, pref recommend.Preference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs[sessionID] = pref
	return nil
}
