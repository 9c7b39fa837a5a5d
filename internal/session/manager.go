package session

import (
	"context"
	"sync"
	"time"

	"github.com/saferoute/saferoute/internal/daypart"
)

// Manager hands out one Coordinator per session id and keeps a shared
// time-of-day context fresh. Coordinators are created on first use and live
// until Drop; the server holds exactly one Manager.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Coordinator
	tc       daypart.Context

	refresher *TimeRefresher
}

// NewManager creates an empty manager. Call Start to begin the periodic
// time context refresh; until then the context is built once at creation.
func NewManager() *Manager {
	m := &Manager{
		sessions: make(map[string]*Coordinator),
		tc:       daypart.Build(time.Now(), nil, nil),
	}
	m.refresher = NewTimeRefresher(0, m.setTimeContext)
	return m
}

// Start launches the periodic time context refresh.
func (m *Manager) Start(ctx context.Context) {
	m.refresher.Start(ctx)
}

// Stop halts the time context refresh.
func (m *Manager) Stop() {
	m.refresher.Stop()
}

// Get returns the coordinator for a session, creating it when absent.
func (m *Manager) Get(sessionID string) *Coordinator {
	m.mu.RLock()
	coord, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return coord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the write lock.
	if coord, ok := m.sessions[sessionID]; ok {
		return coord
	}

	coord = NewCoordinator()
	m.sessions[sessionID] = coord
	return coord
}

// Drop removes a session's coordinator entirely. In-flight fetches against
// the dropped coordinator become stale.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if coord, ok := m.sessions[sessionID]; ok {
		coord.Clear()
		delete(m.sessions, sessionID)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// TimeContext returns the most recently built time-of-day context.
func (m *Manager) TimeContext() daypart.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tc
}

func (m *Manager) setTimeContext(tc daypart.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tc = tc
}
