package combat

import (
	"github.com/rollbound/rollbound/internal/dice"
)

// AttackResult is the ephemeral outcome of one attacker-vs-defender
// resolution. Damage has already been applied to the defender when the
// result is returned.
type AttackResult struct {
	AttackerID string `json:"attacker_id"`
	DefenderID string `json:"defender_id"`

	AttackRoll  int  `json:"attack_roll"`
	AttackSkill int  `json:"attack_skill"`
	DefenseRoll *int `json:"defense_roll,omitempty"` // nil when no defense was attempted

	IsCritical     bool `json:"is_critical"`
	IsFumble       bool `json:"is_fumble"`
	AttackSuccess  bool `json:"attack_success"`
	DefenseSuccess bool `json:"defense_success"`

	Damage       int   `json:"damage"` // final damage applied, >= 0
	DamageRolls  []int `json:"damage_rolls,omitempty"`
	DefenderLife int   `json:"defender_life"` // defender's current life after the attack
}

// ResolveAttack computes one melee attack under the combat's house rules and
// applies the resulting damage to the defender. Resolution order:
// critical check, fumble check, skill check, defense roll, damage.
// It does not advance the turn; that stays an explicit GM command.
func ResolveAttack(attacker, defender Participant, rules Rules, roller dice.Roller) (*AttackResult, error) {
	attackRoll, err := roller.Percentile()
	if err != nil {
		return nil, err
	}

	result := &AttackResult{
		AttackerID:  attacker.Ref(),
		DefenderID:  defender.Ref(),
		AttackRoll:  attackRoll,
		AttackSkill: attacker.AttackSkill(),
	}

	switch {
	case attackRoll <= rules.CritThreshold:
		// Critical: multiplied damage, no defense attempt
		result.IsCritical = true
		result.AttackSuccess = true

		dmg, err := roller.RollExpression(attacker.DamageExpr())
		if err != nil {
			return nil, err
		}
		result.Damage = dmg.Total * rules.CritMultiplier
		result.DamageRolls = dmg.Rolls

	case attackRoll >= rules.FumbleThreshold:
		// Fumble: automatic failure regardless of skill
		result.IsFumble = true

	case attackRoll <= attacker.AttackSkill():
		result.AttackSuccess = true

		defenseRoll, err := roller.Percentile()
		if err != nil {
			return nil, err
		}
		result.DefenseRoll = &defenseRoll
		result.DefenseSuccess = defenseRoll <= defender.DefenseSkill()

		if !result.DefenseSuccess {
			dmg, err := roller.RollExpression(attacker.DamageExpr())
			if err != nil {
				return nil, err
			}
			result.Damage = dmg.Total
			result.DamageRolls = dmg.Rolls
		}
	}

	if result.Damage < 0 {
		result.Damage = 0
	}
	defender.ApplyDamage(result.Damage)
	current, _ := defender.Life()
	result.DefenderLife = current

	return result, nil
}
