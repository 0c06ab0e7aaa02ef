package combat

import (
	"fmt"
	"sort"
	"time"
)

// Status represents the lifecycle state of a combat
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusActive     Status = "active"
	StatusEnded      Status = "ended" // read-only history, no further commands
)

// Rules holds the GM-configurable house rules for attack resolution.
// Snapshotted onto the combat at start so changing defaults mid-campaign
// does not retroactively alter an active encounter.
type Rules struct {
	// CritThreshold: attack rolls at or below this are critical hits
	CritThreshold int `json:"crit_threshold"`
	// FumbleThreshold: attack rolls at or above this are fumbles
	FumbleThreshold int `json:"fumble_threshold"`
	// CritMultiplier scales the damage expression on a critical
	CritMultiplier int `json:"crit_multiplier"`
}

// DefaultRules returns the reference house rules
func DefaultRules() Rules {
	return Rules{
		CritThreshold:   5,
		FumbleThreshold: 96,
		CritMultiplier:  2,
	}
}

const maxLogEntries = 50

// Combat is the authoritative aggregate of one active encounter
type Combat struct {
	ID        string     `json:"id"`
	GameID    string     `json:"game_id"`
	GMID      string     `json:"gm_id"`
	Status    Status     `json:"status"`
	Round     int        `json:"round"`
	GridSize  int        `json:"grid_size"`
	Rules     Rules      `json:"rules"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	// Participants by id, split per kind so the aggregate round-trips
	// through JSON without custom marshaling
	Players     map[string]*PlayerCombatant `json:"players"`
	Adversaries map[string]*Adversary       `json:"adversaries"`

	Log []string `json:"log"`
}

// NewCombat creates an active combat with an empty roster at round 1
func NewCombat(id, gameID, gmID string, gridSize int, rules Rules) *Combat {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	return &Combat{
		ID:          id,
		GameID:      gameID,
		GMID:        gmID,
		Status:      StatusActive,
		Round:       1,
		GridSize:    gridSize,
		Rules:       rules,
		CreatedAt:   time.Now().UTC(),
		Players:     make(map[string]*PlayerCombatant),
		Adversaries: make(map[string]*Adversary),
		Log:         []string{},
	}
}

// IsActive reports whether the combat still accepts commands
func (c *Combat) IsActive() bool {
	return c.Status == StatusActive
}

// Grid returns the battle grid bounds
func (c *Combat) Grid() Grid {
	size := c.GridSize
	if size <= 0 {
		size = DefaultGridSize
	}
	return Grid{Size: size}
}

// End marks the combat as terminal history
func (c *Combat) End() {
	now := time.Now().UTC()
	c.Status = StatusEnded
	c.EndedAt = &now
}

// AddPlayer adds a player combatant to the roster
func (c *Combat) AddPlayer(p *PlayerCombatant) {
	c.Players[p.ID] = p
}

// AddAdversary adds an adversary to the roster
func (c *Combat) AddAdversary(a *Adversary) {
	c.Adversaries[a.ID] = a
}

// Participant looks up a participant of either kind by id
func (c *Combat) Participant(id string) (Participant, bool) {
	if p, ok := c.Players[id]; ok {
		return p, true
	}
	if a, ok := c.Adversaries[id]; ok {
		return a, true
	}
	return nil, false
}

// PlayerByCharacter finds the combatant backed by the given character record
func (c *Combat) PlayerByCharacter(characterID string) (*PlayerCombatant, bool) {
	for _, p := range c.Players {
		if p.CharacterID == characterID {
			return p, true
		}
	}
	return nil, false
}

// RemoveParticipant removes a participant of either kind. Removing the
// current participant behaves as if it had acted: callers should check
// RoundComplete afterwards and roll the round if needed.
func (c *Combat) RemoveParticipant(id string) bool {
	if _, ok := c.Players[id]; ok {
		delete(c.Players, id)
		c.RankParticipants()
		return true
	}
	if _, ok := c.Adversaries[id]; ok {
		delete(c.Adversaries, id)
		c.RankParticipants()
		return true
	}
	return false
}

// Participants returns the full roster in no particular order
func (c *Combat) Participants() []Participant {
	out := make([]Participant, 0, len(c.Players)+len(c.Adversaries))
	for _, p := range c.Players {
		out = append(out, p)
	}
	for _, a := range c.Adversaries {
		out = append(out, a)
	}
	return out
}

// TurnOrder returns the roster sorted by turn-order rank; participants who
// have not rolled initiative sort last, ordered by id
func (c *Combat) TurnOrder() []Participant {
	order := c.Participants()
	sort.Slice(order, func(i, j int) bool {
		ri, rj := order[i].TurnRank(), order[j].TurnRank()
		if (ri == UnrankedRank) != (rj == UnrankedRank) {
			return rj == UnrankedRank
		}
		if ri != rj {
			return ri < rj
		}
		return order[i].Ref() < order[j].Ref()
	})
	return order
}

// CurrentParticipant returns the participant whose turn it is: the first in
// turn order that has not acted this round. Returns nil when every
// participant has acted or the roster is empty.
func (c *Combat) CurrentParticipant() Participant {
	for _, p := range c.TurnOrder() {
		if !p.Acted() {
			return p
		}
	}
	return nil
}

// RoundComplete reports whether every participant has acted this round
func (c *Combat) RoundComplete() bool {
	for _, p := range c.Participants() {
		if !p.Acted() {
			return false
		}
	}
	return true
}

// NextRound increments the round and resets every participant's acted flag
func (c *Combat) NextRound() {
	c.Round++
	for _, p := range c.Participants() {
		p.SetActed(false)
	}
}

// AddLogEntry appends a round-prefixed entry to the combat log, capped to
// the most recent entries
func (c *Combat) AddLogEntry(entry string) {
	if c.Log == nil {
		c.Log = []string{}
	}
	c.Log = append(c.Log, fmt.Sprintf("Round %d: %s", c.Round, entry))
	if len(c.Log) > maxLogEntries {
		c.Log = c.Log[len(c.Log)-maxLogEntries:]
	}
}
