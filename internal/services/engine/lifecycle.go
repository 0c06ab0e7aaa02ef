package engine

import (
	"context"
	"strings"

	"github.com/rollbound/rollbound/internal/domain/combat"
	rberr "github.com/rollbound/rollbound/internal/errors"
	"github.com/rollbound/rollbound/internal/events"
)

// StartCombatInput holds the parameters for opening an encounter
type StartCombatInput struct {
	GameID string
	GMID   string

	// Optional overrides; zero values fall back to service defaults
	GridSize int
	Rules    *combat.Rules

	IdempotencyKey string
}

// EndCombatInput identifies the encounter to close
type EndCombatInput struct {
	CombatID       string
	IdempotencyKey string
}

// StartCombat opens a new encounter. The command is serialized per game so
// the single-active-combat invariant holds under concurrent starts.
func (s *service) StartCombat(ctx context.Context, input *StartCombatInput) (*combat.Combat, error) {
	if input == nil {
		return nil, rberr.Validation("input cannot be nil")
	}
	if strings.TrimSpace(input.GameID) == "" {
		return nil, rberr.Validation("game ID is required")
	}
	if strings.TrimSpace(input.GMID) == "" {
		return nil, rberr.Validation("GM ID is required")
	}

	gameKey := "game:" + input.GameID
	unlock := s.locks.Lock(gameKey)
	defer unlock()

	if err := s.idempotency.check(gameKey, input.IdempotencyKey); err != nil {
		return nil, err
	}

	active, err := s.repository.GetActiveByGame(ctx, input.GameID)
	if err != nil {
		return nil, rberr.Wrapf(err, "failed to look up active combat for game '%s'", input.GameID)
	}
	if active != nil {
		return nil, rberr.StateConflictf("game '%s' already has an active combat", input.GameID)
	}

	gridSize := input.GridSize
	if gridSize <= 0 {
		gridSize = s.gridSize
	}
	rules := s.rules
	if input.Rules != nil {
		rules = *input.Rules
	}
	if err := validateRules(rules); err != nil {
		return nil, err
	}

	cbt := combat.NewCombat(s.uuidGenerator.New(), input.GameID, input.GMID, gridSize, rules)
	cbt.AddLogEntry("combat started")

	if err := s.repository.Create(ctx, cbt); err != nil {
		return nil, rberr.Wrap(err, "failed to create combat")
	}
	s.idempotency.record(gameKey, input.IdempotencyKey)

	if err := s.emit(cbt, events.Event{Type: events.TypeCombatStarted}); err != nil {
		return nil, err
	}

	return cbt, nil
}

// EndCombat closes an encounter. The record stays readable as history but
// accepts no further commands.
func (s *service) EndCombat(ctx context.Context, input *EndCombatInput) error {
	if input == nil {
		return rberr.Validation("input cannot be nil")
	}

	unlock := s.locks.Lock(input.CombatID)
	defer unlock()

	if err := s.idempotency.check(input.CombatID, input.IdempotencyKey); err != nil {
		return err
	}

	cbt, err := s.getActive(ctx, input.CombatID)
	if err != nil {
		return err
	}

	cbt.AddLogEntry("combat ended")
	cbt.End()

	if err := s.save(ctx, cbt); err != nil {
		return err
	}
	s.idempotency.clear(input.CombatID)

	return s.emit(cbt, events.Event{Type: events.TypeCombatEnded})
}

func validateRules(rules combat.Rules) error {
	if rules.CritThreshold < 0 || rules.CritThreshold > 100 {
		return rberr.Validation("crit threshold must be between 0 and 100")
	}
	if rules.FumbleThreshold < 1 || rules.FumbleThreshold > 101 {
		return rberr.Validation("fumble threshold must be between 1 and 101")
	}
	if rules.CritThreshold >= rules.FumbleThreshold {
		return rberr.Validation("crit threshold must be below the fumble threshold")
	}
	if rules.CritMultiplier < 1 {
		return rberr.Validation("crit multiplier must be at least 1")
	}
	return nil
}
