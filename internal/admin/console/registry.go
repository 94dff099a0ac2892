package console

import (
	"sync"
	"time"
)

// DefaultIdleTimeout evicts consoles that have not been used for this long.
const DefaultIdleTimeout = 30 * time.Minute

// Registry keeps one Shell per browser session.
type Registry struct {
	mu      sync.Mutex
	shells  map[string]*registryEntry
	factory func() *Shell
	idle    time.Duration
	now     func() time.Time
}

type registryEntry struct {
	shell    *Shell
	lastUsed time.Time
}

// NewRegistry returns a registry that builds shells with factory.
func NewRegistry(factory func() *Shell, idle time.Duration) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{
		shells:  make(map[string]*registryEntry),
		factory: factory,
		idle:    idle,
		now:     time.Now,
	}
}

// Get returns the shell for sessionID, creating it on first use.
func (r *Registry) Get(sessionID string) *Shell {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.pruneLocked(now)

	entry, ok := r.shells[sessionID]
	if !ok {
		entry = &registryEntry{shell: r.factory()}
		r.shells[sessionID] = entry
	}
	entry.lastUsed = now
	return entry.shell
}

// Reset discards the session's shell and returns a fresh one.
func (r *Registry) Reset(sessionID string) *Shell {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.pruneLocked(now)

	if entry, ok := r.shells[sessionID]; ok {
		entry.shell.Close()
	}
	entry := &registryEntry{shell: r.factory(), lastUsed: now}
	r.shells[sessionID] = entry
	return entry.shell
}

// Len returns the number of live shells.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shells)
}

// Close stops every shell.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.shells {
		entry.shell.Close()
		delete(r.shells, id)
	}
}

func (r *Registry) pruneLocked(now time.Time) {
	for id, entry := range r.shells {
		if now.Sub(entry.lastUsed) > r.idle {
			entry.shell.Close()
			delete(r.shells, id)
		}
	}
}
