package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry owns one Store per client session. Sessions live in memory only
// and disappear after sitting idle for longer than the token TTL.
type Registry struct {
	tokens   *TokenIssuer
	newStore func() *Store
	onEvict  func(id string)
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	store    *Store
	lastSeen time.Time
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithEvictHook registers fn to run for every session removed by Sweep.
func WithEvictHook(fn func(id string)) RegistryOption {
	return func(r *Registry) { r.onEvict = fn }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(tokens *TokenIssuer, newStore func() *Store, opts ...RegistryOption) *Registry {
	if newStore == nil {
		newStore = func() *Store { return New() }
	}
	r := &Registry{
		tokens:   tokens,
		newStore: newStore,
		now:      time.Now,
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the session named by token. An empty, invalid or unknown
// token yields a brand new session; fresh reports that case so the caller
// can hand out a new token.
func (r *Registry) Resolve(token string) (id string, store *Store, fresh bool) {
	now := r.now()
	if token != "" {
		if sid, err := r.tokens.Parse(token); err == nil {
			r.mu.Lock()
			e, ok := r.entries[sid]
			if ok {
				e.lastSeen = now
			}
			r.mu.Unlock()
			if ok {
				return sid, e.store, false
			}
		}
	}

	id = uuid.NewString()
	store = r.newStore()
	r.mu.Lock()
	r.entries[id] = &entry{store: store, lastSeen: now}
	r.mu.Unlock()
	return id, store, true
}

// Lookup returns an existing session without creating one.
func (r *Registry) Lookup(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.store, true
}

// Token signs a cookie token for the session id.
func (r *Registry) Token(id string) (string, error) {
	return r.tokens.Issue(id)
}

// Sweep evicts sessions idle since before now minus the token TTL and
// returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.tokens.TTL())

	r.mu.Lock()
	var evicted []string
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()

	if r.onEvict != nil {
		for _, id := range evicted {
			r.onEvict(id)
		}
	}
	return len(evicted)
}

// Run sweeps on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(r.now())
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// TTL is how long a session token, and an idle session, stays valid.
func (r *Registry) TTL() time.Duration {
	return r.tokens.TTL()
}
