package cache

import (
	"sort"
	"sync"
	"time"
)

// Registry hands out one Family per name. Families are created lazily and
// each has its own lock, so contention is limited to callers of one family.
type Registry struct {
	ttl time.Duration

	mu       sync.Mutex
	families map[string]*Family

	onRefresh func(family string)
}

// NewRegistry creates a registry whose families use ttl for their tokens.
// onRefresh, if not nil, is called after every effective refresh.
func NewRegistry(ttl time.Duration, onRefresh func(family string)) *Registry {
	return &Registry{
		ttl:       ttl,
		families:  make(map[string]*Family),
		onRefresh: onRefresh,
	}
}

func (r *Registry) Family(name string) *Family {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.families[name]
	if !ok {
		f = NewFamily(name, r.ttl)
		f.onRefresh = r.onRefresh
		r.families[name] = f
	}
	return f
}

// Refresh invalidates every named family.
func (r *Registry) Refresh(names ...string) {
	for _, name := range names {
		r.Family(name).Refresh()
	}
}

// Lookup returns a family only if it already exists.
func (r *Registry) Lookup(name string) (*Family, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.families[name]
	return f, ok
}

// Snapshot lists every known family sorted by name.
func (r *Registry) Snapshot() []FamilyState {
	r.mu.Lock()
	families := make([]*Family, 0, len(r.families))
	for _, f := range r.families {
		families = append(families, f)
	}
	r.mu.Unlock()

	states := make([]FamilyState, 0, len(families))
	for _, f := range families {
		states = append(states, f.State())
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
	return states
}
