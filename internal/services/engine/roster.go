package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/rollbound/rollbound/internal/dice"
	"github.com/rollbound/rollbound/internal/domain/combat"
	rberr "github.com/rollbound/rollbound/internal/errors"
	"github.com/rollbound/rollbound/internal/events"
)

// AddCombatantInput places a player character on the grid
type AddCombatantInput struct {
	CombatID    string
	CharacterID string
	X, Y        int

	IdempotencyKey string
}

// RemoveCombatantInput identifies a player character to remove
type RemoveCombatantInput struct {
	CombatID    string
	CharacterID string

	IdempotencyKey string
}

// AddAdversaryInput holds the GM-authored adversary stat block
type AddAdversaryInput struct {
	CombatID string
	Name     string
	MaxLife  int
	Reflex   int
	Damage   string
	X, Y     int

	// Optional; zero values fall back to service defaults
	CloseCombat int
	Dodge       int

	IdempotencyKey string
}

// UpdateAdversaryInput edits an adversary. Nil fields are left unchanged.
type UpdateAdversaryInput struct {
	CombatID    string
	AdversaryID string

	Name        *string
	MaxLife     *int
	CurrentLife *int
	Reflex      *int
	CloseCombat *int
	Dodge       *int
	Damage      *string

	IdempotencyKey string
}

// RemoveAdversaryInput identifies an adversary to remove
type RemoveAdversaryInput struct {
	CombatID    string
	AdversaryID string

	IdempotencyKey string
}

// MoveInput repositions a participant
type MoveInput struct {
	CombatID      string
	ParticipantID string
	X, Y          int

	IdempotencyKey string
}

// AddCombatant snapshots a character record into the encounter at the given
// grid position. A character can be in the roster at most once.
func (s *service) AddCombatant(ctx context.Context, input *AddCombatantInput) (*combat.PlayerCombatant, error) {
	if input == nil {
		return nil, rberr.Validation("input cannot be nil")
	}
	if strings.TrimSpace(input.CharacterID) == "" {
		return nil, rberr.Validation("character ID is required")
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

	if _, exists := cbt.PlayerByCharacter(input.CharacterID); exists {
		return nil, rberr.StateConflictf("character '%s' is already in the combat", input.CharacterID)
	}

	pos := combat.Position{X: input.X, Y: input.Y}
	if !cbt.Grid().Contains(pos) {
		return nil, outOfBoundsError(pos, cbt.GridSize)
	}

	char, err := s.characterService.GetByID(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	if char.WeaponDamage != "" {
		if _, err := dice.ParseExpression(char.WeaponDamage); err != nil {
			return nil, rberr.Wrapf(err, "character '%s' has an invalid damage expression", input.CharacterID)
		}
	}

	combatant := combat.NewPlayerCombatant(s.uuidGenerator.New(), char, pos)
	if combatant.Damage == "" {
		combatant.Damage = "1d4" // unarmed
	}
	cbt.AddPlayer(combatant)
	cbt.AddLogEntry(fmt.Sprintf("%s joins the fight at (%d,%d)", combatant.Name, pos.X, pos.Y))

	if err := s.save(ctx, cbt); err != nil {
		return nil, err
	}
	s.idempotency.record(input.CombatID, input.IdempotencyKey)

	if err := s.emit(cbt, events.Event{
		Type:          events.TypeParticipantAdded,
		ParticipantID: combatant.ID,
	}); err != nil {
		return nil, err
	}

	return combatant, nil
}

// RemoveCombatant removes the player character's combatant from the roster
func (s *service) RemoveCombatant(ctx context.Context, input *RemoveCombatantInput) error {
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

	combatant, exists := cbt.PlayerByCharacter(input.CharacterID)
	if !exists {
		return rberr.Validationf("character '%s' is not in the combat", input.CharacterID)
	}

	return s.removeParticipant(ctx, cbt, combatant, input.IdempotencyKey)
}

// AddAdversary authors an ad hoc participant directly into the encounter
func (s *service) AddAdversary(ctx context.Context, input *AddAdversaryInput) (*combat.Adversary, error) {
	if input == nil {
		return nil, rberr.Validation("input cannot be nil")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, rberr.Validation("adversary name is required")
	}
	if input.MaxLife < 1 {
		return nil, rberr.Validation("adversary max life must be at least 1")
	}
	if input.Reflex < 1 || input.Reflex > 100 {
		return nil, rberr.Validation("adversary reflex must be between 1 and 100")
	}
	if _, err := dice.ParseExpression(input.Damage); err != nil {
		return nil, rberr.Wrapf(err, "invalid damage expression '%s'", input.Damage)
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

	pos := combat.Position{X: input.X, Y: input.Y}
	if !cbt.Grid().Contains(pos) {
		return nil, outOfBoundsError(pos, cbt.GridSize)
	}

	closeCombat := input.CloseCombat
	if closeCombat <= 0 {
		closeCombat = s.defaultCloseCombat
	}
	dodge := input.Dodge
	if dodge <= 0 {
		dodge = s.defaultDodge
	}

	adversary := &combat.Adversary{
		ID:          s.uuidGenerator.New(),
		Name:        input.Name,
		CurrentLife: input.MaxLife,
		MaxLife:     input.MaxLife,
		CloseCombat: closeCombat,
		Dodge:       dodge,
		Reflex:      input.Reflex,
		Damage:      input.Damage,
		Position:    pos,
		Rank:        combat.UnrankedRank,
	}
	cbt.AddAdversary(adversary)
	cbt.AddLogEntry(fmt.Sprintf("%s enters the fight at (%d,%d)", adversary.Name, pos.X, pos.Y))

	if err := s.save(ctx, cbt); err != nil {
		return nil, err
	}
	s.idempotency.record(input.CombatID, input.IdempotencyKey)

	if err := s.emit(cbt, events.Event{
		Type:          events.TypeParticipantAdded,
		ParticipantID: adversary.ID,
	}); err != nil {
		return nil, err
	}

	return adversary, nil
}

// UpdateAdversary applies the non-nil fields to an adversary. Lowering max
// life below current life clamps current life down to the new max.
func (s *service) UpdateAdversary(ctx context.Context, input *UpdateAdversaryInput) (*combat.Adversary, error) {
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

	adversary, exists := cbt.Adversaries[input.AdversaryID]
	if !exists {
		return nil, rberr.NotFoundf("adversary not found: %s", input.AdversaryID)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, rberr.Validation("adversary name cannot be empty")
		}
		adversary.Name = *input.Name
	}
	if input.MaxLife != nil {
		if *input.MaxLife < 1 {
			return nil, rberr.Validation("adversary max life must be at least 1")
		}
		adversary.MaxLife = *input.MaxLife
	}
	if input.CurrentLife != nil {
		if *input.CurrentLife < 0 {
			return nil, rberr.Validation("adversary current life cannot be negative")
		}
		adversary.CurrentLife = *input.CurrentLife
	}
	if input.Reflex != nil {
		if *input.Reflex < 1 || *input.Reflex > 100 {
			return nil, rberr.Validation("adversary reflex must be between 1 and 100")
		}
		adversary.Reflex = *input.Reflex
	}
	if input.CloseCombat != nil {
		if *input.CloseCombat < 1 || *input.CloseCombat > 100 {
			return nil, rberr.Validation("adversary close combat must be between 1 and 100")
		}
		adversary.CloseCombat = *input.CloseCombat
	}
	if input.Dodge != nil {
		if *input.Dodge < 1 || *input.Dodge > 100 {
			return nil, rberr.Validation("adversary dodge must be between 1 and 100")
		}
		adversary.Dodge = *input.Dodge
	}
	if input.Damage != nil {
		if _, err := dice.ParseExpression(*input.Damage); err != nil {
			return nil, rberr.Wrapf(err, "invalid damage expression '%s'", *input.Damage)
		}
		adversary.Damage = *input.Damage
	}

	if input.CurrentLife != nil && adversary.CurrentLife > adversary.MaxLife {
		return nil, rberr.Validation("adversary current life cannot exceed max life")
	}
	if adversary.CurrentLife > adversary.MaxLife {
		adversary.CurrentLife = adversary.MaxLife
	}

	cbt.AddLogEntry(fmt.Sprintf("%s's stats change", adversary.Name))

	if err := s.save(ctx, cbt); err != nil {
		return nil, err
	}
	s.idempotency.record(input.CombatID, input.IdempotencyKey)

	if err := s.emit(cbt, events.Event{
		Type:          events.TypeAdversaryUpdated,
		ParticipantID: adversary.ID,
	}); err != nil {
		return nil, err
	}

	return adversary, nil
}

// RemoveAdversary removes an adversary from the roster
func (s *service) RemoveAdversary(ctx context.Context, input *RemoveAdversaryInput) error {
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

	adversary, exists := cbt.Adversaries[input.AdversaryID]
	if !exists {
		return rberr.NotFoundf("adversary not found: %s", input.AdversaryID)
	}

	return s.removeParticipant(ctx, cbt, adversary, input.IdempotencyKey)
}

// Move repositions a participant within the grid bounds. Cells are not
// exclusive; two participants may share one.
func (s *service) Move(ctx context.Context, input *MoveInput) error {
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

	participant, exists := cbt.Participant(input.ParticipantID)
	if !exists {
		return rberr.NotFoundf("participant not found: %s", input.ParticipantID)
	}

	pos := combat.Position{X: input.X, Y: input.Y}
	if !cbt.Grid().Contains(pos) {
		return outOfBoundsError(pos, cbt.GridSize)
	}

	participant.MoveTo(pos)
	cbt.AddLogEntry(fmt.Sprintf("%s moves to (%d,%d)", participant.Label(), pos.X, pos.Y))

	if err := s.save(ctx, cbt); err != nil {
		return err
	}
	s.idempotency.record(input.CombatID, input.IdempotencyKey)

	return s.emit(cbt, events.Event{
		Type:          events.TypeParticipantMoved,
		ParticipantID: participant.Ref(),
	})
}

// removeParticipant drops a participant of either kind, re-ranks the turn
// order and, when the removal completes the round, rolls the round over.
// Caller holds the combat lock.
func (s *service) removeParticipant(ctx context.Context, cbt *combat.Combat, participant combat.Participant, token string) error {
	id := participant.Ref()
	cbt.AddLogEntry(fmt.Sprintf("%s leaves the fight", participant.Label()))
	cbt.RemoveParticipant(id)

	if len(cbt.Participants()) > 0 && cbt.RoundComplete() {
		cbt.NextRound()
		cbt.AddLogEntry("a new round begins")
	}

	if err := s.save(ctx, cbt); err != nil {
		return err
	}
	s.idempotency.record(cbt.ID, token)

	return s.emit(cbt, events.Event{
		Type:          events.TypeParticipantRemoved,
		ParticipantID: id,
	})
}

func outOfBoundsError(pos combat.Position, gridSize int) error {
	return rberr.Validationf("position (%d,%d) is outside the %dx%d grid", pos.X, pos.Y, gridSize, gridSize)
}
