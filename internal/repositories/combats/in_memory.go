package combats

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rollbound/rollbound/internal/domain/combat"
	rberr "github.com/rollbound/rollbound/internal/errors"
)

type inMemoryRepository struct {
	mu      sync.RWMutex
	combats map[string]*combat.Combat
	byGame  map[string][]string // gameID -> combat IDs
}

// NewInMemoryRepository creates a new in-memory combat repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		combats: make(map[string]*combat.Combat),
		byGame:  make(map[string][]string),
	}
}

// snapshot deep-copies an aggregate through its JSON form, the same
// serialization boundary the Redis repository crosses. Readers and writers
// never share a live pointer, so lock-free reads cannot race a mutating
// command and a command's changes are invisible until Update confirms.
func snapshot(cbt *combat.Combat) (*combat.Combat, error) {
	data, err := json.Marshal(cbt)
	if err != nil {
		return nil, rberr.WrapWithCode(err, rberr.CodeInternal, "failed to snapshot combat")
	}

	var copied combat.Combat
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, rberr.WrapWithCode(err, rberr.CodeInternal, "failed to restore combat snapshot")
	}

	return &copied, nil
}

// Create stores a new combat
func (r *inMemoryRepository) Create(ctx context.Context, cbt *combat.Combat) error {
	stored, err := snapshot(cbt)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.combats[cbt.ID]; exists {
		return rberr.AlreadyExists("combat with ID " + cbt.ID + " already exists")
	}

	r.combats[cbt.ID] = stored
	r.byGame[cbt.GameID] = append(r.byGame[cbt.GameID], cbt.ID)

	return nil
}

// Get retrieves a combat by ID
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*combat.Combat, error) {
	r.mu.RLock()
	cbt, exists := r.combats[id]
	r.mu.RUnlock()

	if !exists {
		return nil, rberr.NotFoundf("combat not found: %s", id)
	}

	return snapshot(cbt)
}

// Update modifies an existing combat
func (r *inMemoryRepository) Update(ctx context.Context, cbt *combat.Combat) error {
	stored, err := snapshot(cbt)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.combats[cbt.ID]; !exists {
		return rberr.NotFoundf("combat not found: %s", cbt.ID)
	}

	r.combats[cbt.ID] = stored
	return nil
}

// Delete removes a combat
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cbt, exists := r.combats[id]
	if !exists {
		return rberr.NotFoundf("combat not found: %s", id)
	}

	delete(r.combats, id)

	gameCombats := r.byGame[cbt.GameID]
	for i, cid := range gameCombats {
		if cid == id {
			r.byGame[cbt.GameID] = append(gameCombats[:i], gameCombats[i+1:]...)
			break
		}
	}

	return nil
}

// GetActiveByGame retrieves the active combat for a game
func (r *inMemoryRepository) GetActiveByGame(ctx context.Context, gameID string) (*combat.Combat, error) {
	r.mu.RLock()
	var found *combat.Combat
	for _, id := range r.byGame[gameID] {
		if cbt, exists := r.combats[id]; exists && cbt.Status == combat.StatusActive {
			found = cbt
			break
		}
	}
	r.mu.RUnlock()

	if found == nil {
		return nil, nil
	}

	return snapshot(found)
}
