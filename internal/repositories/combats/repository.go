package combats

import (
	"context"

	"github.com/rollbound/rollbound/internal/domain/combat"
)

// Repository defines the interface for combat storage operations. The store
// must hold one Combat aggregate per id and answer the active-combat-by-game
// lookup; GetActiveByGame returns (nil, nil) when no combat is active, which
// is a normal empty result, not an error.
type Repository interface {
	// Create stores a new combat
	Create(ctx context.Context, cbt *combat.Combat) error

	// Get retrieves a combat by ID
	Get(ctx context.Context, id string) (*combat.Combat, error)

	// Update modifies an existing combat
	Update(ctx context.Context, cbt *combat.Combat) error

	// Delete removes a combat
	Delete(ctx context.Context, id string) error

	// GetActiveByGame retrieves the active combat for a game, nil when none
	GetActiveByGame(ctx context.Context, gameID string) (*combat.Combat, error)
}
