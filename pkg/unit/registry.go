// Package unit defines the query interface, input schemas, error codes and
// registry shared by every modelrun domain.
package unit

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrQueryAlreadyRegistered = errors.New("query already registered")
	ErrQueryNotFound          = errors.New("query not found")
)

// Registry is the central registry of queries. It is safe for concurrent use
// so the HTTP server can share one instance across handlers.
type Registry struct {
	queries map[string]Query
	mu      sync.RWMutex
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		queries: make(map[string]Query),
	}
}

// RegisterQuery registers a Query with the registry.
// Returns ErrQueryAlreadyRegistered if a query with the same name exists.
// Returns ErrQueryNotFound if q is nil.
func (r *Registry) RegisterQuery(q Query) error {
	if q == nil {
		return ErrQueryNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := q.Name()
	if _, exists := r.queries[name]; exists {
		return ErrQueryAlreadyRegistered
	}

	r.queries[name] = q
	return nil
}

// GetQuery retrieves a Query by name. Returns nil if not found.
func (r *Registry) GetQuery(name string) Query {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.queries[name]
}

// ListQueries returns all registered queries sorted by name.
func (r *Registry) ListQueries() []Query {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Query, 0, len(r.queries))
	for _, q := range r.queries {
		result = append(result, q)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// UnregisterQuery removes a Query by name.
// Returns true if the query was found and removed, false otherwise.
func (r *Registry) UnregisterQuery(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.queries[name]; exists {
		delete(r.queries, name)
		return true
	}
	return false
}

// QueryCount returns the number of registered queries.
func (r *Registry) QueryCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.queries)
}
