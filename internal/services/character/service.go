package character

//go:generate mockgen -destination=mock/mock_service.go -package=mockcharacter -source=service.go

import (
	"context"
	"strings"

	"github.com/rollbound/rollbound/internal/domain/character"
	rberr "github.com/rollbound/rollbound/internal/errors"
	"github.com/rollbound/rollbound/internal/repositories/characters"
)

// Service is the combat engine's boundary to the character-sheet subsystem.
// Combat only ever reads records through it.
type Service interface {
	// GetByID retrieves a character record
	GetByID(ctx context.Context, characterID string) (*character.Character, error)

	// Put stores or replaces a character record
	Put(ctx context.Context, char *character.Character) error
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository characters.Repository
}

type service struct {
	repository characters.Repository
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}

	return &service{repository: cfg.Repository}
}

// GetByID retrieves a character record
func (s *service) GetByID(ctx context.Context, characterID string) (*character.Character, error) {
	if strings.TrimSpace(characterID) == "" {
		return nil, rberr.Validation("character ID is required")
	}

	char, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return nil, rberr.Wrapf(err, "failed to get character '%s'", characterID)
	}

	return char, nil
}

// Put stores or replaces a character record
func (s *service) Put(ctx context.Context, char *character.Character) error {
	if char == nil {
		return rberr.Validation("character cannot be nil")
	}
	if strings.TrimSpace(char.ID) == "" {
		return rberr.Validation("character ID is required")
	}
	if char.MaxLife < 1 {
		return rberr.Validation("character max life must be at least 1")
	}

	if err := s.repository.Create(ctx, char); err != nil {
		if !rberr.IsAlreadyExists(err) {
			return rberr.Wrap(err, "failed to create character")
		}
		if err := s.repository.Update(ctx, char); err != nil {
			return rberr.Wrap(err, "failed to update character")
		}
	}

	return nil
}
