package auth

import "sync"

const (
	DefaultRevocationHighWater = 10000
	DefaultRevocationKeep      = 5000
)

// RevocationRegistry is an in-process set of revoked refresh tokens.
//
// The set is bounded: when a Revoke pushes it past highWater entries, only
// the keep most recently revoked tokens survive. Older tokens become usable
// again until they expire on their own. Revocations are not shared between
// replicas and do not survive a restart; a multi-instance deployment needs a
// shared expiring store instead.
type RevocationRegistry struct {
	mu        sync.RWMutex
	set       map[string]struct{}
	order     []string
	highWater int
	keep      int
}

// NewRevocationRegistry returns an empty registry. Non-positive or
// inconsistent bounds fall back to the defaults.
func NewRevocationRegistry(highWater, keep int) *RevocationRegistry {
	if highWater <= 0 || keep <= 0 || keep >= highWater {
		highWater, keep = DefaultRevocationHighWater, DefaultRevocationKeep
	}
	return &RevocationRegistry{
		set:       make(map[string]struct{}),
		highWater: highWater,
		keep:      keep,
	}
}

// Revoke adds token to the set. Revoking a token twice is a no-op.
func (r *RevocationRegistry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.set[token]; ok {
		return
	}
	r.set[token] = struct{}{}
	r.order = append(r.order, token)

	if len(r.order) > r.highWater {
		r.evictLocked()
	}
}

// IsRevoked reports whether token has been revoked and not yet evicted.
func (r *RevocationRegistry) IsRevoked(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.set[token]
	return ok
}

// Len returns the number of tokens currently held.
func (r *RevocationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *RevocationRegistry) evictLocked() {
	recent := make([]string, r.keep)
	copy(recent, r.order[len(r.order)-r.keep:])

	set := make(map[string]struct{}, r.keep)
	for _, t := range recent {
		set[t] = struct{}{}
	}
	r.order = recent
	r.set = set
}
