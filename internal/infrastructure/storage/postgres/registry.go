package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
)

// Querier is the part of a pool the executor needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Pinger checks data source reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrUnknownSource is returned for a data source name that was never configured.
var ErrUnknownSource = errors.New("unknown data source")

// Source is a queryable, pingable data source such as a *Pool.
type Source interface {
	Querier
	Pinger
}

// Registry maps data source names to their pools.
// It is filled at startup and read-only afterwards.
type Registry struct {
	sources map[string]Source
	closers []func()
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Open creates a pool per configured data source. On failure every pool
// opened so far is closed.
func Open(ctx context.Context, cfgs []PoolConfig) (*Registry, error) {
	r := NewRegistry()
	for _, cfg := range cfgs {
		pool, err := NewPool(ctx, cfg)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.Add(cfg.Name, pool)
		r.closers = append(r.closers, pool.Close)
	}
	return r, nil
}

// Add registers a source under name, replacing any previous one.
func (r *Registry) Add(name string, s Source) {
	r.sources[name] = s
}

// Querier returns the named source.
func (r *Registry) Querier(name string) (Querier, error) {
	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return s, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.sources[name]
	return ok
}

// Names returns the registered source names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ping checks every source. The result has one entry per source, nil when
// the source answered.
func (r *Registry) Ping(ctx context.Context) map[string]error {
	out := make(map[string]error, len(r.sources))
	for _, name := range r.Names() {
		out[name] = r.sources[name].Ping(ctx)
	}
	return out
}

// LogStats logs the pool statistics of every pool-backed source.
func (r *Registry) LogStats(ctx context.Context) {
	for _, name := range r.Names() {
		if p, ok := r.sources[name].(*Pool); ok {
			LogPoolStats(ctx, p)
		}
	}
}

// Close closes every pool opened by Open.
func (r *Registry) Close() {
	for _, c := range r.closers {
		c()
	}
	r.closers = nil
}
