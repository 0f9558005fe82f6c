package studio

import (
	"sync"
	"time"
)

// Registry owns the sessions of all connected browsers.
type Registry struct {
	mu           sync.RWMutex
	sessions     map[string]*Studio
	defaultVoice func() string
	now          func() time.Time
}

// NewRegistry creates an empty registry. defaultVoice is consulted for each
// new session so that catalog reloads apply to later sessions.
func NewRegistry(defaultVoice func() string) *Registry {
	return &Registry{
		sessions:     make(map[string]*Studio),
		defaultVoice: defaultVoice,
		now:          time.Now,
	}
}

// Get returns the session with id, creating it on first use.
func (r *Registry) Get(id string) *Studio {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.Touch()
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s = New(id, r.defaultVoice())
	s.now = r.now
	s.lastSeen = r.now()
	r.sessions[id] = s
	return s
}

// Lookup returns the session with id without creating it.
func (r *Registry) Lookup(id string) (*Studio, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Each calls fn for every session.
func (r *Registry) Each(fn func(*Studio)) {
	r.mu.RLock()
	list := make([]*Studio, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.RUnlock()

	for _, s := range list {
		fn(s)
	}
}

// Sweep drops sessions idle for longer than ttl and returns how many went.
// Sessions with a generation in flight are kept.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.idleSince(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
