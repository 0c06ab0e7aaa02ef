package events

import (
	"time"

	"github.com/rollbound/rollbound/internal/domain/combat"
	"github.com/rollbound/rollbound/internal/view"
)

// Type identifies a combat state-change notification
type Type string

const (
	TypeCombatStarted      Type = "combat.started"
	TypeCombatEnded        Type = "combat.ended"
	TypeParticipantAdded   Type = "participant.added"
	TypeParticipantRemoved Type = "participant.removed"
	TypeParticipantMoved   Type = "participant.moved"
	TypeAdversaryUpdated   Type = "adversary.updated"
	TypeInitiativeResolved Type = "initiative.resolved"
	TypeAttackResolved     Type = "attack.resolved"
	TypeTurnAdvanced       Type = "turn.advanced"
)

// Event is emitted after every successful mutating command. It carries both
// projections so a transport subscriber can fan out to GM and player clients
// without re-querying the store.
type Event struct {
	Type     Type      `json:"type"`
	CombatID string    `json:"combat_id"`
	GameID   string    `json:"game_id"`
	At       time.Time `json:"at"`

	GMView     *view.CombatView `json:"gm_view"`
	PlayerView *view.CombatView `json:"player_view"`

	// Optional payloads depending on the event type
	ParticipantID string                 `json:"participant_id,omitempty"`
	Initiative    *combat.InitiativeRoll `json:"initiative,omitempty"`
	Attack        *combat.AttackResult   `json:"attack,omitempty"`
	Round         int                    `json:"round,omitempty"`
}
