package engine

import (
	"context"
	"fmt"

	"github.com/rollbound/rollbound/internal/domain/combat"
	rberr "github.com/rollbound/rollbound/internal/errors"
	"github.com/rollbound/rollbound/internal/events"
)

// RollInitiativeInput identifies the participant rolling
type RollInitiativeInput struct {
	CombatID      string
	ParticipantID string

	IdempotencyKey string
}

// AttackInput identifies the attacker and defender
type AttackInput struct {
	CombatID   string
	AttackerID string
	DefenderID string

	IdempotencyKey string
}

// AdvanceTurnInput identifies the encounter whose turn to advance
type AdvanceTurnInput struct {
	CombatID       string
	IdempotencyKey string
}

// RollInitiative rolls a participant's contested percentile against their
// reflex and re-ranks the turn order. Each participant rolls at most once
// per encounter; a repeat roll is rejected.
func (s *service) RollInitiative(ctx context.Context, input *RollInitiativeInput) (*combat.InitiativeRoll, error) {
	if input == nil {
		return nil, rberr.Validation("input cannot be nil")
	}

	unlock := s.locks.Lock(input.CombatID)
	defer unlock()

	if err := s.idempotency.check(input.CombatID, input.IdempotencyKey); err != nil {
		return nil, err
	}

	cbt, err := s.getActive(ctx, input.CombatID)
	if err != nil {
		return nil, err
	}

	participant, exists := cbt.Participant(input.ParticipantID)
	if !exists {
		return nil, rberr.NotFoundf("participant not found: %s", input.ParticipantID)
	}
	if participant.Initiative() != nil {
		return nil, rberr.StateConflictf("%s has already rolled initiative", participant.Label())
	}

	roll, err := s.roller.Percentile()
	if err != nil {
		return nil, rberr.WrapWithCode(err, rberr.CodeInternal, "failed to roll initiative")
	}

	initiative := &combat.InitiativeRoll{
		Roll:      roll,
		Threshold: participant.ReflexScore(),
		Passed:    roll <= participant.ReflexScore(),
	}
	participant.SetInitiative(initiative)
	cbt.RankParticipants()

	outcome := "fails"
	if initiative.Passed {
		outcome = "passes"
	}
	cbt.AddLogEntry(fmt.Sprintf("%s rolls initiative %d vs reflex %d and %s",
		participant.Label(), initiative.Roll, initiative.Threshold, outcome))

	if err := s.save(ctx, cbt); err != nil {
		return nil, err
	}
	s.idempotency.record(input.CombatID, input.IdempotencyKey)

	if err := s.emit(cbt, events.Event{
		Type:          events.TypeInitiativeResolved,
		ParticipantID: participant.Ref(),
		Initiative:    initiative,
	}); err != nil {
		return nil, err
	}

	return initiative, nil
}

// Attack resolves one melee attack under the encounter's house rules and
// applies the damage. The turn does not advance; that stays a separate
// explicit command.
func (s *service) Attack(ctx context.Context, input *AttackInput) (*combat.AttackResult, error) {
	if input == nil {
		return nil, rberr.Validation("input cannot be nil")
	}
	if input.AttackerID == input.DefenderID {
		return nil, rberr.Validation("attacker and defender must differ")
	}

	unlock := s.locks.Lock(input.CombatID)
	defer unlock()

	if err := s.idempotency.check(input.CombatID, input.IdempotencyKey); err != nil {
		return nil, err
	}

	cbt, err := s.getActive(ctx, input.CombatID)
	if err != nil {
		return nil, err
	}

	attacker, exists := cbt.Participant(input.AttackerID)
	if !exists {
		return nil, rberr.NotFoundf("attacker not found: %s", input.AttackerID)
	}
	defender, exists := cbt.Participant(input.DefenderID)
	if !exists {
		return nil, rberr.NotFoundf("defender not found: %s", input.DefenderID)
	}

	result, err := combat.ResolveAttack(attacker, defender, cbt.Rules, s.roller)
	if err != nil {
		return nil, rberr.WrapWithCode(err, rberr.CodeInternal, "failed to resolve attack")
	}

	cbt.AddLogEntry(attackLogEntry(attacker, defender, result))
	if result.Damage > 0 && !defender.Alive() {
		cbt.AddLogEntry(fmt.Sprintf("%s goes down", defender.Label()))
	}

	if err := s.save(ctx, cbt); err != nil {
		return nil, err
	}
	s.idempotency.record(input.CombatID, input.IdempotencyKey)

	if err := s.emit(cbt, events.Event{
		Type:   events.TypeAttackResolved,
		Attack: result,
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// AdvanceTurn marks the current participant as having acted. When that was
// the last unacted participant, the round rolls over and every acted flag
// resets.
func (s *service) AdvanceTurn(ctx context.Context, input *AdvanceTurnInput) (*TurnState, error) {
	if input == nil {
		return nil, rberr.Validation("input cannot be nil")
	}

	unlock := s.locks.Lock(input.CombatID)
	defer unlock()

	if err := s.idempotency.check(input.CombatID, input.IdempotencyKey); err != nil {
		return nil, err
	}

	cbt, err := s.getActive(ctx, input.CombatID)
	if err != nil {
		return nil, err
	}

	current := cbt.CurrentParticipant()
	if current == nil {
		return nil, rberr.StateConflict("no participant is awaiting a turn")
	}

	current.SetActed(true)
	cbt.AddLogEntry(fmt.Sprintf("%s ends their turn", current.Label()))
	if cbt.RoundComplete() {
		cbt.NextRound()
		cbt.AddLogEntry("a new round begins")
	}

	if err := s.save(ctx, cbt); err != nil {
		return nil, err
	}
	s.idempotency.record(input.CombatID, input.IdempotencyKey)

	state := &TurnState{Round: cbt.Round}
	if next := cbt.CurrentParticipant(); next != nil {
		state.CurrentParticipantID = next.Ref()
	}

	if err := s.emit(cbt, events.Event{
		Type:  events.TypeTurnAdvanced,
		Round: cbt.Round,
	}); err != nil {
		return nil, err
	}

	return state, nil
}

func attackLogEntry(attacker, defender combat.Participant, result *combat.AttackResult) string {
	switch {
	case result.IsCritical:
		return fmt.Sprintf("%s critically hits %s for %d damage",
			attacker.Label(), defender.Label(), result.Damage)
	case result.IsFumble:
		return fmt.Sprintf("%s fumbles against %s", attacker.Label(), defender.Label())
	case !result.AttackSuccess:
		return fmt.Sprintf("%s misses %s", attacker.Label(), defender.Label())
	case result.DefenseSuccess:
		return fmt.Sprintf("%s dodges %s's attack", defender.Label(), attacker.Label())
	default:
		return fmt.Sprintf("%s hits %s for %d damage",
			attacker.Label(), defender.Label(), result.Damage)
	}
}
