// Package engine implements the combat orchestration commands. Every
// mutating command runs under a per-combat lock, so commands against the
// same encounter are serialized while distinct encounters proceed in
// parallel.
package engine

import (
	"context"
	"strings"

	"github.com/rollbound/rollbound/internal/dice"
	"github.com/rollbound/rollbound/internal/domain/combat"
	rberr "github.com/rollbound/rollbound/internal/errors"
	"github.com/rollbound/rollbound/internal/events"
	"github.com/rollbound/rollbound/internal/repositories/combats"
	charService "github.com/rollbound/rollbound/internal/services/character"
	"github.com/rollbound/rollbound/internal/uuid"
	"github.com/rollbound/rollbound/internal/view"
)

// Service orchestrates combat encounters for the GM
type Service interface {
	// StartCombat opens a new encounter for a game. A game can host at
	// most one active combat at a time.
	StartCombat(ctx context.Context, input *StartCombatInput) (*combat.Combat, error)

	// EndCombat marks the encounter as terminal history
	EndCombat(ctx context.Context, input *EndCombatInput) error

	// AddCombatant places a player character on the grid
	AddCombatant(ctx context.Context, input *AddCombatantInput) (*combat.PlayerCombatant, error)

	// RemoveCombatant takes a player character out of the encounter
	RemoveCombatant(ctx context.Context, input *RemoveCombatantInput) error

	// AddAdversary places a GM-authored adversary on the grid
	AddAdversary(ctx context.Context, input *AddAdversaryInput) (*combat.Adversary, error)

	// UpdateAdversary edits an adversary's stats mid-encounter
	UpdateAdversary(ctx context.Context, input *UpdateAdversaryInput) (*combat.Adversary, error)

	// RemoveAdversary takes an adversary out of the encounter
	RemoveAdversary(ctx context.Context, input *RemoveAdversaryInput) error

	// Move repositions a participant on the grid
	Move(ctx context.Context, input *MoveInput) error

	// RollInitiative rolls a participant's contested initiative exactly once
	RollInitiative(ctx context.Context, input *RollInitiativeInput) (*combat.InitiativeRoll, error)

	// Attack resolves one melee attack between two participants
	Attack(ctx context.Context, input *AttackInput) (*combat.AttackResult, error)

	// AdvanceTurn marks the current participant as having acted and
	// reports whose turn is next
	AdvanceTurn(ctx context.Context, input *AdvanceTurnInput) (*TurnState, error)

	// GetCombat returns the role-projected view of a combat, active or ended
	GetCombat(ctx context.Context, combatID string, role view.Role) (*view.CombatView, error)

	// GetActiveCombat returns the role-projected view of a game's active
	// combat, or nil when the game has none
	GetActiveCombat(ctx context.Context, gameID string, role view.Role) (*view.CombatView, error)
}

// TurnState reports where the turn sequence stands after an advance
type TurnState struct {
	Round                int    `json:"round"`
	CurrentParticipantID string `json:"current_participant_id,omitempty"`
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository       combats.Repository
	CharacterService charService.Service
	Bus              *events.Bus
	Roller           dice.Roller
	UUIDGenerator    uuid.Generator

	// Defaults applied when StartCombat and AddAdversary inputs leave
	// the corresponding fields unset
	GridSize           int
	Rules              *combat.Rules
	DefaultCloseCombat int
	DefaultDodge       int
}

type service struct {
	repository       combats.Repository
	characterService charService.Service
	bus              *events.Bus
	roller           dice.Roller
	uuidGenerator    uuid.Generator

	gridSize           int
	rules              combat.Rules
	defaultCloseCombat int
	defaultDodge       int

	locks       keyedMutex
	idempotency idempotencyGuard
}

// NewService creates a new combat orchestration service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("combat repository is required")
	}
	if cfg.CharacterService == nil {
		panic("character service is required")
	}

	svc := &service{
		repository:         cfg.Repository,
		characterService:   cfg.CharacterService,
		bus:                cfg.Bus,
		roller:             cfg.Roller,
		uuidGenerator:      cfg.UUIDGenerator,
		gridSize:           cfg.GridSize,
		rules:              combat.DefaultRules(),
		defaultCloseCombat: cfg.DefaultCloseCombat,
		defaultDodge:       cfg.DefaultDodge,
	}

	if svc.bus == nil {
		svc.bus = events.NewBus()
	}
	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.gridSize <= 0 {
		svc.gridSize = combat.DefaultGridSize
	}
	if cfg.Rules != nil {
		svc.rules = *cfg.Rules
	}
	if svc.defaultCloseCombat <= 0 {
		svc.defaultCloseCombat = 40
	}
	if svc.defaultDodge <= 0 {
		svc.defaultDodge = 30
	}

	return svc
}

// GetCombat returns the role-projected view of a combat
func (s *service) GetCombat(ctx context.Context, combatID string, role view.Role) (*view.CombatView, error) {
	if strings.TrimSpace(combatID) == "" {
		return nil, rberr.Validation("combat ID is required")
	}

	cbt, err := s.repository.Get(ctx, combatID)
	if err != nil {
		return nil, rberr.Wrapf(err, "failed to get combat '%s'", combatID)
	}

	return view.Project(cbt, role), nil
}

// GetActiveCombat returns the role-projected view of a game's active combat.
// A game without an active combat is a normal empty result, not an error.
func (s *service) GetActiveCombat(ctx context.Context, gameID string, role view.Role) (*view.CombatView, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, rberr.Validation("game ID is required")
	}

	cbt, err := s.repository.GetActiveByGame(ctx, gameID)
	if err != nil {
		return nil, rberr.Wrapf(err, "failed to look up active combat for game '%s'", gameID)
	}
	if cbt == nil {
		return nil, nil
	}

	return view.Project(cbt, role), nil
}

// getActive loads a combat and rejects commands against ended encounters
func (s *service) getActive(ctx context.Context, combatID string) (*combat.Combat, error) {
	if strings.TrimSpace(combatID) == "" {
		return nil, rberr.Validation("combat ID is required")
	}

	cbt, err := s.repository.Get(ctx, combatID)
	if err != nil {
		return nil, rberr.Wrapf(err, "failed to get combat '%s'", combatID)
	}
	if !cbt.IsActive() {
		return nil, rberr.StateConflictf("combat '%s' is not active", combatID)
	}

	return cbt, nil
}

// save persists the mutated aggregate
func (s *service) save(ctx context.Context, cbt *combat.Combat) error {
	if err := s.repository.Update(ctx, cbt); err != nil {
		return rberr.Wrap(err, "failed to save combat")
	}
	return nil
}

// emit broadcasts a state change with both role projections attached. An
// emit failure surfaces to the caller so the command is reported as failed
// even though the aggregate was saved.
func (s *service) emit(cbt *combat.Combat, event events.Event) error {
	event.CombatID = cbt.ID
	event.GameID = cbt.GameID
	event.At = timeNow()
	event.GMView = view.Project(cbt, view.RoleGM)
	event.PlayerView = view.Project(cbt, view.RolePlayer)

	if err := s.bus.Emit(event); err != nil {
		return rberr.WrapWithCode(err, rberr.CodeInternal, "failed to broadcast "+string(event.Type))
	}
	return nil
}
