package characters

import (
	"context"
	"sync"

	"github.com/rollbound/rollbound/internal/domain/character"
	rberr "github.com/rollbound/rollbound/internal/errors"
)

type inMemoryRepository struct {
	mu         sync.RWMutex
	characters map[string]*character.Character
}

// NewInMemoryRepository creates a new in-memory character repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		characters: make(map[string]*character.Character),
	}
}

// Create stores a new character record
func (r *inMemoryRepository) Create(ctx context.Context, char *character.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[char.ID]; exists {
		return rberr.AlreadyExists("character with ID " + char.ID + " already exists")
	}

	r.characters[char.ID] = char
	return nil
}

// Get retrieves a character by ID
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	char, exists := r.characters[id]
	if !exists {
		return nil, rberr.NotFoundf("character not found: %s", id)
	}

	return char, nil
}

// Update modifies an existing character record
func (r *inMemoryRepository) Update(ctx context.Context, char *character.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[char.ID]; !exists {
		return rberr.NotFoundf("character not found: %s", char.ID)
	}

	r.characters[char.ID] = char
	return nil
}

// Delete removes a character record
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[id]; !exists {
		return rberr.NotFoundf("character not found: %s", id)
	}

	delete(r.characters, id)
	return nil
}
