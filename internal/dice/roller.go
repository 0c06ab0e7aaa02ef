package dice

// Roller provides an interface for rolling dice
// This allows us to inject different implementations for testing
type Roller interface {
	// Percentile rolls a single d100, returning a value in [1,100]
	Percentile() (int, error)

	// Roll rolls a number of dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)

	// RollExpression evaluates a dice expression like "2d6+1"
	RollExpression(expr string) (*RollResult, error)
}

// RollResult holds the outcome of one dice roll
type RollResult struct {
	Total int
	Rolls []int
	Bonus int
	Count int
	Sides int
}
