package combat_test

import (
	"testing"

	"github.com/rollbound/rollbound/internal/domain/character"
	"github.com/rollbound/rollbound/internal/domain/combat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCombat() *combat.Combat {
	return combat.NewCombat("cbt-1", "game-1", "gm-1", 10, combat.DefaultRules())
}

func newTestPlayer(id string, reflex int) *combat.PlayerCombatant {
	return combat.NewPlayerCombatant(id, &character.Character{
		ID:           "char-" + id,
		OwnerID:      "owner-" + id,
		Name:         "Player " + id,
		CurrentLife:  20,
		MaxLife:      20,
		CloseCombat:  55,
		Dodge:        40,
		Reflex:       reflex,
		WeaponDamage: "1d6+1",
	}, combat.Position{X: 0, Y: 0})
}

func newTestAdversary(id string, reflex int) *combat.Adversary {
	return &combat.Adversary{
		ID:          id,
		Name:        "Adversary " + id,
		CurrentLife: 12,
		MaxLife:     12,
		CloseCombat: 45,
		Dodge:       30,
		Reflex:      reflex,
		Damage:      "2d6+1",
		Position:    combat.Position{X: 5, Y: 5},
		Rank:        combat.UnrankedRank,
	}
}

func TestNewCombat(t *testing.T) {
	c := newTestCombat()

	assert.Equal(t, combat.StatusActive, c.Status)
	assert.Equal(t, 1, c.Round)
	assert.True(t, c.IsActive())
	assert.Empty(t, c.Participants())
	assert.Nil(t, c.CurrentParticipant())
}

func TestGridContains(t *testing.T) {
	g := combat.Grid{Size: 10}

	assert.True(t, g.Contains(combat.Position{X: 0, Y: 0}))
	assert.True(t, g.Contains(combat.Position{X: 9, Y: 9}))
	assert.False(t, g.Contains(combat.Position{X: 10, Y: 0}))
	assert.False(t, g.Contains(combat.Position{X: 0, Y: 10}))
	assert.False(t, g.Contains(combat.Position{X: -1, Y: 3}))
}

func TestRankParticipants_Order(t *testing.T) {
	c := newTestCombat()

	passedLow := newTestPlayer("a", 60)
	passedLow.InitiativeRes = &combat.InitiativeRoll{Roll: 30, Threshold: 60, Passed: true}
	passedHigh := newTestPlayer("b", 60)
	passedHigh.InitiativeRes = &combat.InitiativeRoll{Roll: 50, Threshold: 60, Passed: true}
	failed := newTestAdversary("c", 40)
	failed.InitiativeRes = &combat.InitiativeRoll{Roll: 50, Threshold: 40, Passed: false}
	unrolled := newTestAdversary("d", 40)

	c.AddPlayer(passedLow)
	c.AddPlayer(passedHigh)
	c.AddAdversary(failed)
	c.AddAdversary(unrolled)

	c.RankParticipants()

	order := c.TurnOrder()
	require.Len(t, order, 4)
	assert.Equal(t, "a", order[0].Ref(), "passed with lowest roll goes first")
	assert.Equal(t, "b", order[1].Ref())
	assert.Equal(t, "c", order[2].Ref(), "failed rolls sort after passed")
	assert.Equal(t, "d", order[3].Ref(), "unrolled sorts last")
	assert.Equal(t, combat.UnrankedRank, unrolled.TurnRank())
}

func TestRankParticipants_TieBreakByID(t *testing.T) {
	c := newTestCombat()

	first := newTestPlayer("aa", 60)
	first.InitiativeRes = &combat.InitiativeRoll{Roll: 25, Threshold: 60, Passed: true}
	second := newTestPlayer("zz", 60)
	second.InitiativeRes = &combat.InitiativeRoll{Roll: 25, Threshold: 60, Passed: true}

	c.AddPlayer(second)
	c.AddPlayer(first)
	c.RankParticipants()

	assert.Equal(t, 0, first.TurnRank())
	assert.Equal(t, 1, second.TurnRank())
}

func TestRoundInvariant(t *testing.T) {
	// After advancing once per roster member the round increments by exactly
	// one and every acted flag resets.
	c := newTestCombat()
	p1 := newTestPlayer("a", 60)
	p1.InitiativeRes = &combat.InitiativeRoll{Roll: 10, Threshold: 60, Passed: true}
	p2 := newTestPlayer("b", 60)
	p2.InitiativeRes = &combat.InitiativeRoll{Roll: 20, Threshold: 60, Passed: true}
	adv := newTestAdversary("c", 40)
	adv.InitiativeRes = &combat.InitiativeRoll{Roll: 70, Threshold: 40, Passed: false}

	c.AddPlayer(p1)
	c.AddPlayer(p2)
	c.AddAdversary(adv)
	c.RankParticipants()

	for i := 0; i < 3; i++ {
		cur := c.CurrentParticipant()
		require.NotNil(t, cur)
		cur.SetActed(true)
		if c.RoundComplete() {
			c.NextRound()
		}
	}

	assert.Equal(t, 2, c.Round)
	for _, p := range c.Participants() {
		assert.False(t, p.Acted())
	}
	assert.Equal(t, "a", c.CurrentParticipant().Ref())
}

func TestRemoveParticipant(t *testing.T) {
	c := newTestCombat()
	p := newTestPlayer("a", 60)
	adv := newTestAdversary("b", 40)
	c.AddPlayer(p)
	c.AddAdversary(adv)

	assert.True(t, c.RemoveParticipant("a"))
	assert.False(t, c.RemoveParticipant("a"), "second removal reports missing")

	_, ok := c.Participant("a")
	assert.False(t, ok)
	_, ok = c.Participant("b")
	assert.True(t, ok)
}

func TestApplyDamage_ClampedAtZero(t *testing.T) {
	adv := newTestAdversary("a", 40)
	adv.CurrentLife = 5

	adv.ApplyDamage(3)
	assert.Equal(t, 2, adv.CurrentLife)
	assert.True(t, adv.Alive())

	adv.ApplyDamage(100)
	assert.Equal(t, 0, adv.CurrentLife)
	assert.False(t, adv.Alive())

	adv.ApplyDamage(-7)
	assert.Equal(t, 0, adv.CurrentLife, "negative damage never heals")
}

func TestEnd(t *testing.T) {
	c := newTestCombat()
	c.End()

	assert.Equal(t, combat.StatusEnded, c.Status)
	assert.False(t, c.IsActive())
	require.NotNil(t, c.EndedAt)
}

func TestAddLogEntry_Capped(t *testing.T) {
	c := newTestCombat()
	for i := 0; i < 80; i++ {
		c.AddLogEntry("swing and a miss")
	}
	assert.Len(t, c.Log, 50)
}
