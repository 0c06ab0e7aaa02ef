package combat

import "github.com/rollbound/rollbound/internal/domain/character"

// Kind represents the kind of participant
type Kind string

const (
	KindPlayer    Kind = "player"
	KindAdversary Kind = "adversary"
)

// UnrankedRank is the turn-order sentinel for participants who have not
// rolled initiative yet; they sort after every ranked participant.
const UnrankedRank = -1

// InitiativeRoll is the result of one contested initiative roll
type InitiativeRoll struct {
	Roll      int  `json:"roll"`      // raw percentile result, 1-100
	Threshold int  `json:"threshold"` // reflex attribute the roll was tested against
	Passed    bool `json:"passed"`    // roll <= threshold
}

// Participant is one entity that can act in combat. The two concrete kinds
// are PlayerCombatant and Adversary; kind-specific data stays behind the
// concrete types, everything combat math needs is here.
type Participant interface {
	Ref() string
	Label() string
	ParticipantKind() Kind

	Pos() Position
	MoveTo(Position)

	ReflexScore() int
	AttackSkill() int
	DefenseSkill() int
	DamageExpr() string

	Life() (current, max int)
	ApplyDamage(amount int)
	Alive() bool

	Initiative() *InitiativeRoll
	SetInitiative(*InitiativeRoll)
	TurnRank() int
	SetTurnRank(int)
	Acted() bool
	SetActed(bool)
}

// PlayerCombatant is a player character inside a combat. Skills and the
// damage expression are snapshotted from the character record at join time
// and treated as read-only; only current life changes during combat.
type PlayerCombatant struct {
	ID          string `json:"id"`
	CharacterID string `json:"character_id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`

	CurrentLife int    `json:"current_life"`
	MaxLife     int    `json:"max_life"`
	CloseCombat int    `json:"close_combat"`
	Dodge       int    `json:"dodge"`
	Reflex      int    `json:"reflex"`
	Damage      string `json:"damage"`

	Position      Position        `json:"position"`
	Rank          int             `json:"rank"`
	HasActed      bool            `json:"has_acted"`
	InitiativeRes *InitiativeRoll `json:"initiative,omitempty"`
}

// NewPlayerCombatant snapshots a character record into a combatant
func NewPlayerCombatant(id string, char *character.Character, pos Position) *PlayerCombatant {
	return &PlayerCombatant{
		ID:          id,
		CharacterID: char.ID,
		OwnerID:     char.OwnerID,
		Name:        char.Name,
		CurrentLife: char.CurrentLife,
		MaxLife:     char.MaxLife,
		CloseCombat: char.CloseCombat,
		Dodge:       char.Dodge,
		Reflex:      char.Reflex,
		Damage:      char.WeaponDamage,
		Position:    pos,
		Rank:        UnrankedRank,
	}
}

func (p *PlayerCombatant) Ref() string                  { return p.ID }
func (p *PlayerCombatant) Label() string                { return p.Name }
func (p *PlayerCombatant) ParticipantKind() Kind        { return KindPlayer }
func (p *PlayerCombatant) Pos() Position                { return p.Position }
func (p *PlayerCombatant) MoveTo(pos Position)          { p.Position = pos }
func (p *PlayerCombatant) ReflexScore() int             { return p.Reflex }
func (p *PlayerCombatant) AttackSkill() int             { return p.CloseCombat }
func (p *PlayerCombatant) DefenseSkill() int            { return p.Dodge }
func (p *PlayerCombatant) DamageExpr() string           { return p.Damage }
func (p *PlayerCombatant) Life() (int, int)             { return p.CurrentLife, p.MaxLife }
func (p *PlayerCombatant) Alive() bool                  { return p.CurrentLife > 0 }
func (p *PlayerCombatant) Initiative() *InitiativeRoll  { return p.InitiativeRes }
func (p *PlayerCombatant) SetInitiative(r *InitiativeRoll) { p.InitiativeRes = r }
func (p *PlayerCombatant) TurnRank() int                { return p.Rank }
func (p *PlayerCombatant) SetTurnRank(rank int)         { p.Rank = rank }
func (p *PlayerCombatant) Acted() bool                  { return p.HasActed }
func (p *PlayerCombatant) SetActed(acted bool)          { p.HasActed = acted }

// ApplyDamage reduces current life, clamped at 0
func (p *PlayerCombatant) ApplyDamage(amount int) {
	if amount < 0 {
		amount = 0
	}
	p.CurrentLife -= amount
	if p.CurrentLife < 0 {
		p.CurrentLife = 0
	}
}

// Adversary is a GM-authored ad hoc participant, fully owned and mutated by
// the combat engine.
type Adversary struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	CurrentLife int    `json:"current_life"`
	MaxLife     int    `json:"max_life"`
	CloseCombat int    `json:"close_combat"`
	Dodge       int    `json:"dodge"`
	Reflex      int    `json:"reflex"`
	Damage      string `json:"damage"` // weapon damage expression, e.g. "2d6+1"

	Position      Position        `json:"position"`
	Rank          int             `json:"rank"`
	HasActed      bool            `json:"has_acted"`
	InitiativeRes *InitiativeRoll `json:"initiative,omitempty"`
}

func (a *Adversary) Ref() string                  { return a.ID }
func (a *Adversary) Label() string                { return a.Name }
func (a *Adversary) ParticipantKind() Kind        { return KindAdversary }
func (a *Adversary) Pos() Position                { return a.Position }
func (a *Adversary) MoveTo(pos Position)          { a.Position = pos }
func (a *Adversary) ReflexScore() int             { return a.Reflex }
func (a *Adversary) AttackSkill() int             { return a.CloseCombat }
func (a *Adversary) DefenseSkill() int            { return a.Dodge }
func (a *Adversary) DamageExpr() string           { return a.Damage }
func (a *Adversary) Life() (int, int)             { return a.CurrentLife, a.MaxLife }
func (a *Adversary) Alive() bool                  { return a.CurrentLife > 0 }
func (a *Adversary) Initiative() *InitiativeRoll  { return a.InitiativeRes }
func (a *Adversary) SetInitiative(r *InitiativeRoll) { a.InitiativeRes = r }
func (a *Adversary) TurnRank() int                { return a.Rank }
func (a *Adversary) SetTurnRank(rank int)         { a.Rank = rank }
func (a *Adversary) Acted() bool                  { return a.HasActed }
func (a *Adversary) SetActed(acted bool)          { a.HasActed = acted }

// ApplyDamage reduces current life, clamped at 0
func (a *Adversary) ApplyDamage(amount int) {
	if amount < 0 {
		amount = 0
	}
	a.CurrentLife -= amount
	if a.CurrentLife < 0 {
		a.CurrentLife = 0
	}
}
