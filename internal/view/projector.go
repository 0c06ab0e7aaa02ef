// Package view filters the authoritative combat state into role-specific
// projections. This is the only channel through which player clients see
// combat data; adversary numbers are omitted from player payloads entirely,
// never zeroed, so clients cannot infer remaining health.
package view

import (
	"github.com/rollbound/rollbound/internal/domain/combat"
)

// Role is the class of client observing a combat
type Role string

const (
	RoleGM     Role = "gm"
	RolePlayer Role = "player"
)

// CombatView is the projected snapshot of one combat for one viewer role
type CombatView struct {
	ID                   string            `json:"id"`
	GameID               string            `json:"game_id"`
	Status               combat.Status     `json:"status"`
	Round                int               `json:"round"`
	GridSize             int               `json:"grid_size"`
	CurrentParticipantID string            `json:"current_participant_id,omitempty"`
	Participants         []ParticipantView `json:"participants"`
	Log                  []string          `json:"log,omitempty"` // GM only
}

// ParticipantView is one roster entry. Numeric stat fields are pointers so
// redacted entries omit them from JSON instead of rendering zeroes.
type ParticipantView struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Kind     combat.Kind     `json:"kind"`
	Position combat.Position `json:"position"`
	Rank     int             `json:"rank"`
	HasActed bool            `json:"has_acted"`

	CurrentLife *int    `json:"current_life,omitempty"`
	MaxLife     *int    `json:"max_life,omitempty"`
	CloseCombat *int    `json:"close_combat,omitempty"`
	Dodge       *int    `json:"dodge,omitempty"`
	Reflex      *int    `json:"reflex,omitempty"`
	Damage      *string `json:"damage,omitempty"`
}

// Project computes the role-specific view of a combat. GM sees full
// fidelity; players see adversary name, kind and position only. Player
// combatants stay fully visible to every role.
func Project(c *combat.Combat, role Role) *CombatView {
	v := &CombatView{
		ID:       c.ID,
		GameID:   c.GameID,
		Status:   c.Status,
		Round:    c.Round,
		GridSize: c.GridSize,
	}

	if current := c.CurrentParticipant(); current != nil {
		v.CurrentParticipantID = current.Ref()
	}

	if role == RoleGM {
		v.Log = append([]string(nil), c.Log...)
	}

	order := c.TurnOrder()
	v.Participants = make([]ParticipantView, 0, len(order))
	for _, p := range order {
		pv := ParticipantView{
			ID:       p.Ref(),
			Name:     p.Label(),
			Kind:     p.ParticipantKind(),
			Position: p.Pos(),
			Rank:     p.TurnRank(),
			HasActed: p.Acted(),
		}

		if role == RoleGM || p.ParticipantKind() == combat.KindPlayer {
			current, max := p.Life()
			pv.CurrentLife = intPtr(current)
			pv.MaxLife = intPtr(max)
			pv.CloseCombat = intPtr(p.AttackSkill())
			pv.Dodge = intPtr(p.DefenseSkill())
			pv.Reflex = intPtr(p.ReflexScore())
			pv.Damage = strPtr(p.DamageExpr())
		}

		v.Participants = append(v.Participants, pv)
	}

	return v
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
