package dice

import (
	"errors"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression of the form NdM or NdM+B
type Expression struct {
	Count int
	Sides int
	Bonus int
}

// ParseExpression parses a dice string like "2d6+1" into its parts
func ParseExpression(expr string) (*Expression, error) {
	var bonus int
	var err error

	dicePart := strings.TrimSpace(expr)
	parts := strings.Split(dicePart, "+")
	if len(parts) == 2 {
		bonus, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, errors.New("invalid dice expression")
		}
		dicePart = strings.TrimSpace(parts[0])
	} else if len(parts) > 2 {
		return nil, errors.New("invalid dice expression")
	}

	diceParts := strings.Split(dicePart, "d")
	if len(diceParts) != 2 {
		return nil, errors.New("invalid dice expression")
	}

	count, err := strconv.Atoi(strings.TrimSpace(diceParts[0]))
	if err != nil {
		return nil, errors.New("invalid dice expression")
	}
	sides, err := strconv.Atoi(strings.TrimSpace(diceParts[1]))
	if err != nil {
		return nil, errors.New("invalid dice expression")
	}

	if count < 1 || sides < 1 {
		return nil, errors.New("invalid dice expression")
	}

	return &Expression{Count: count, Sides: sides, Bonus: bonus}, nil
}

// Min returns the lowest total the expression can produce
func (e *Expression) Min() int {
	return e.Count + e.Bonus
}

// Max returns the highest total the expression can produce
func (e *Expression) Max() int {
	return e.Count*e.Sides + e.Bonus
}

func (e *Expression) String() string {
	s := strconv.Itoa(e.Count) + "d" + strconv.Itoa(e.Sides)
	if e.Bonus != 0 {
		s += "+" + strconv.Itoa(e.Bonus)
	}
	return s
}
