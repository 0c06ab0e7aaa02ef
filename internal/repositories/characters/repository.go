package characters

import (
	"context"

	"github.com/rollbound/rollbound/internal/domain/character"
)

// Repository defines the interface for character record storage. The combat
// engine only ever reads from it; writes belong to the character-sheet
// subsystem.
type Repository interface {
	// Create stores a new character record
	Create(ctx context.Context, char *character.Character) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// Update modifies an existing character record
	Update(ctx context.Context, char *character.Character) error

	// Delete removes a character record
	Delete(ctx context.Context, id string) error
}
