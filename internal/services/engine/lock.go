package engine

import (
	"sync"
	"time"

	rberr "github.com/rollbound/rollbound/internal/errors"
)

// timeNow is swappable in tests
var timeNow = func() time.Time { return time.Now().UTC() }

// keyedMutex serializes commands per key. Combat commands key on the combat
// id; StartCombat keys on the game id so two concurrent starts for the same
// game cannot both pass the single-active-combat check.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock function.
// Entries are never evicted; the map is bounded by the number of
// encounters the process has touched.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// idempotencyGuard tracks command tokens already applied to a key. A token
// is recorded only after its command commits, so a failed command may be
// retried with the same token.
type idempotencyGuard struct {
	mu      sync.Mutex
	applied map[string]map[string]struct{}
}

// check rejects a token that was already applied to the key. Empty tokens
// are accepted; idempotency is opt-in per command.
func (g *idempotencyGuard) check(key, token string) error {
	if token == "" {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, seen := g.applied[key][token]; seen {
		return rberr.StateConflictf("command token '%s' was already applied", token)
	}
	return nil
}

// record marks a token as applied to the key
func (g *idempotencyGuard) record(key, token string) {
	if token == "" {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.applied == nil {
		g.applied = make(map[string]map[string]struct{})
	}
	if g.applied[key] == nil {
		g.applied[key] = make(map[string]struct{})
	}
	g.applied[key][token] = struct{}{}
}

// clear drops all tokens for a key, used when an encounter ends
func (g *idempotencyGuard) clear(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.applied, key)
}
