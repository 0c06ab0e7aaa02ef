package character

// Character is the persistent record owned by the character store. The combat
// engine reads these stats when a player joins an encounter and never writes
// them back; in-combat life changes live on the combatant snapshot.
type Character struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	GameID      string `json:"game_id"`
	Name        string `json:"name"`
	CurrentLife int    `json:"current_life"`
	MaxLife     int    `json:"max_life"`

	// Percentile skills, 1-100
	CloseCombat int `json:"close_combat"`
	Dodge       int `json:"dodge"`
	Reflex      int `json:"reflex"`

	// WeaponDamage is the dice expression rolled on a successful hit, e.g. "1d6+2"
	WeaponDamage string `json:"weapon_damage"`
}
