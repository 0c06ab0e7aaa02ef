package engine_test

import (
	"github.com/rollbound/rollbound/internal/domain/combat"
	"github.com/rollbound/rollbound/internal/events"
	"github.com/rollbound/rollbound/internal/services/engine"
)

// TestContestedOpening walks the reference round: both sides roll contested
// initiative, the passing side outranks the failing side, and the opening
// attack lands through a failed dodge.
func (s *engineTestSuite) TestContestedOpening() {
	s.startCombat()
	s.addKeth()  // reflex 60, close combat 55, damage 2d6+1
	s.addGhoul() // reflex 40, dodge 30, 12 life

	s.roller.SetRolls([]int{
		30, // Keth initiative vs reflex 60: passed
		50, // Ghoul initiative vs reflex 40: failed
		42, // Keth attack roll vs close combat 55: success
		70, // Ghoul defense roll vs dodge 30: failed
		3, 1, // damage dice for 2d6+1
	})

	initiative, err := s.svc.RollInitiative(s.ctx, &engine.RollInitiativeInput{
		CombatID: "cbt-1", ParticipantID: "pc-1",
	})
	s.Require().NoError(err)
	s.True(initiative.Passed)
	s.Equal(30, initiative.Roll)
	s.Equal(60, initiative.Threshold)

	initiative, err = s.svc.RollInitiative(s.ctx, &engine.RollInitiativeInput{
		CombatID: "cbt-1", ParticipantID: "adv-1",
	})
	s.Require().NoError(err)
	s.False(initiative.Passed)

	v, err := s.svc.GetCombat(s.ctx, "cbt-1", "gm")
	s.Require().NoError(err)
	s.Equal("pc-1", v.CurrentParticipantID, "passing roll outranks failing roll")
	s.Equal("pc-1", v.Participants[0].ID)
	s.Equal(0, v.Participants[0].Rank)
	s.Equal("adv-1", v.Participants[1].ID)
	s.Equal(1, v.Participants[1].Rank)

	result, err := s.svc.Attack(s.ctx, &engine.AttackInput{
		CombatID:   "cbt-1",
		AttackerID: "pc-1",
		DefenderID: "adv-1",
	})
	s.Require().NoError(err)
	s.True(result.AttackSuccess)
	s.False(result.IsCritical)
	s.Require().NotNil(result.DefenseRoll)
	s.Equal(70, *result.DefenseRoll)
	s.False(result.DefenseSuccess)
	s.Equal(5, result.Damage, "3+1 on the dice plus the +1 bonus")
	s.Equal(7, result.DefenderLife)

	// attacking never advances the turn
	v, err = s.svc.GetCombat(s.ctx, "cbt-1", "gm")
	s.Require().NoError(err)
	s.Equal("pc-1", v.CurrentParticipantID)

	event := s.listener.last()
	s.Equal(events.TypeAttackResolved, event.Type)
	s.Require().NotNil(event.Attack)
	s.Equal(5, event.Attack.Damage)
}

func (s *engineTestSuite) TestAttack_CriticalFellsDefender() {
	s.startCombat()
	s.addKeth()
	s.addGhoul()

	s.roller.SetRolls([]int{
		4,    // at or below the crit threshold of 5
		5, 2, // damage dice: (5+2+1) * 2 = 16
	})

	result, err := s.svc.Attack(s.ctx, &engine.AttackInput{
		CombatID:   "cbt-1",
		AttackerID: "pc-1",
		DefenderID: "adv-1",
	})
	s.Require().NoError(err)
	s.True(result.IsCritical)
	s.Nil(result.DefenseRoll, "criticals allow no defense")
	s.Equal(16, result.Damage)
	s.Equal(0, result.DefenderLife, "life floors at zero")
}

func (s *engineTestSuite) TestAttack_Fumble() {
	s.startCombat()
	s.addKeth()
	s.addGhoul()

	s.roller.SetRolls([]int{97})

	result, err := s.svc.Attack(s.ctx, &engine.AttackInput{
		CombatID:   "cbt-1",
		AttackerID: "adv-1",
		DefenderID: "pc-1",
	})
	s.Require().NoError(err)
	s.True(result.IsFumble)
	s.False(result.AttackSuccess)
	s.Equal(0, result.Damage)
	s.Equal(20, result.DefenderLife)
}

func (s *engineTestSuite) TestAttack_SelfTargetRejected() {
	s.startCombat()
	s.addKeth()

	_, err := s.svc.Attack(s.ctx, &engine.AttackInput{
		CombatID:   "cbt-1",
		AttackerID: "pc-1",
		DefenderID: "pc-1",
	})
	s.Error(err)
}

func (s *engineTestSuite) TestPlayerViewRedactsAdversaries() {
	s.startCombat()
	s.addKeth()
	s.addGhoul()

	v, err := s.svc.GetCombat(s.ctx, "cbt-1", "player")
	s.Require().NoError(err)
	s.Empty(v.Log, "log is GM only")

	for _, p := range v.Participants {
		if p.Kind == combat.KindAdversary {
			s.Nil(p.CurrentLife)
			s.Nil(p.Dodge)
			s.Nil(p.Damage)
		} else {
			s.NotNil(p.CurrentLife)
		}
	}
}
