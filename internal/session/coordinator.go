// Package session owns the live route-selection state: the current
// candidate set, the active selection, and the recommendation. State is
// replaced wholesale, never patched, so every reader observes a consistent
// snapshot.
package session

import (
	"sync"

	"github.com/saferoute/saferoute/internal/recommend"
	"github.com/saferoute/saferoute/internal/route"
)

// Snapshot is a consistent view of the coordinator state.
type Snapshot struct {
	Routes         []route.Route
	ActiveRouteID  string
	Recommendation *recommend.Recommendation
}

// Coordinator holds the route set and active selection for one session.
// Route fetches are guarded by a generation counter: a fetch started before
// the most recent BeginFetch call is stale, and its result is discarded on
// arrival regardless of arrival order.
type Coordinator struct {
	mu             sync.RWMutex
	generation     uint64
	routes         []route.Route
	activeRouteID  string
	recommendation *recommend.Recommendation
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// BeginFetch marks the start of a route fetch and returns its token.
// Any previously issued token becomes stale.
func (c *Coordinator) BeginFetch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return c.generation
}

// CompleteFetch installs a fetch result. The result is accepted only when
// token belongs to the most recently initiated fetch; stale results are
// dropped and the method reports false.
func (c *Coordinator) CompleteFetch(token uint64, routes []route.Route, rec *recommend.Recommendation) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.generation {
		return false
	}

	c.routes = routes
	c.recommendation = rec
	c.activeRouteID = ""
	if rec != nil {
		c.activeRouteID = rec.RouteID
	} else if len(routes) > 0 {
		c.activeRouteID = routes[0].ID
	}

	return true
}

// SetActive changes the active selection. It reports false when no route
// with the given id is present.
func (c *Coordinator) SetActive(routeID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.routes {
		if c.routes[i].ID == routeID {
			c.activeRouteID = routeID
			return true
		}
	}
	return false
}

// Clear drops all state. In-flight fetches become stale.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.routes = nil
	c.activeRouteID = ""
	c.recommendation = nil
}

// State returns a copy of the current state.
func (c *Coordinator) State() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	routes := make([]route.Route, len(c.routes))
	copy(routes, c.routes)

	var rec *recommend.Recommendation
	if c.recommendation != nil {
		r := *c.recommendation
		rec = &r
	}

	return Snapshot{
		Routes:         routes,
		ActiveRouteID:  c.activeRouteID,
		Recommendation: rec,
	}
}

// ActiveRoute returns the currently selected route, if any.
func (c *Coordinator) ActiveRoute() (route.Route, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.routes {
		if c.routes[i].ID == c.activeRouteID {
			return c.routes[i], true
		}
	}
	return route.Route{}, false
}
