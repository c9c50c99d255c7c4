package lifecycle

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// DraftIDParam is the query parameter carrying the draft id.
const DraftIDParam = "draftId"

// Route is a navigation location.
type Route struct {
	Path  string
	Query url.Values
}

// ParseRoute splits a "path?query" string into a Route.
func ParseRoute(s string) (Route, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Route{}, err
	}
	return Route{Path: u.Path, Query: u.Query()}, nil
}

func (r Route) String() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// DraftID returns the draftId query value, or 0 when absent or not a number.
func (r Route) DraftID() int {
	id, err := strconv.Atoi(r.Query.Get(DraftIDParam))
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// WithDraftID returns a copy of r with draftId set in the query.
func (r Route) WithDraftID(id int) Route {
	q := make(url.Values, len(r.Query)+1)
	for k, v := range r.Query {
		q[k] = slices.Clone(v)
	}
	q.Set(DraftIDParam, strconv.Itoa(id))
	return Route{Path: r.Path, Query: q}
}

// FirstPage returns r's path with its last segment replaced by "page1" and
// no query.
func (r Route) FirstPage() Route {
	parts := strings.Split(r.Path, "/")
	parts[len(parts)-1] = "page1"
	return Route{Path: strings.Join(parts, "/")}
}

// Navigator changes the current location. Replace swaps the current entry
// and never adds a history entry.
type Navigator interface {
	Current() Route
	Replace(ctx context.Context, r Route) error
}

// MemoryNavigator is a Navigator holding the location in memory.
type MemoryNavigator struct {
	mu       sync.Mutex
	route    Route
	replaces int
}

func NewMemoryNavigator(start Route) *MemoryNavigator {
	return &MemoryNavigator{route: start}
}

func (n *MemoryNavigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

func (n *MemoryNavigator) Replace(_ context.Context, r Route) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.route = r
	n.replaces++
	return nil
}

// Replaces returns how many times Replace was called.
func (n *MemoryNavigator) Replaces() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.replaces
}
