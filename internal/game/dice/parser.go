package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed "NdS+B" hit-point or damage expression. A bare
// integer parses as a flat value with no dice.
type Expression struct {
	Raw   string
	Count int
	Sides int
	Bonus int
}

// Min is the smallest value the expression can roll.
func (e Expression) Min() int { return e.Count + e.Bonus }

// Max is the largest value the expression can roll.
func (e Expression) Max() int { return e.Count*e.Sides + e.Bonus }

// Parse reads "d20", "4d8", "12d10+20", "3d6-1" or a flat "40".
//
// Postcondition: on success Count >= 0, Sides >= 1 when Count > 0.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	dIdx := strings.IndexByte(s, 'd')
	if dIdx < 0 {
		flat, err := strconv.Atoi(s)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid flat value %q: %w", expr, err)
		}
		return Expression{Raw: expr, Bonus: flat}, nil
	}

	count := 1
	if dIdx > 0 {
		n, err := strconv.Atoi(s[:dIdx])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		if n < 1 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
		}
		count = n
	}

	rest := s[dIdx+1:]
	sidesStr, bonusStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		sidesStr, bonusStr = rest[:i], rest[i:]
	}
	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
	}
	if sides < 1 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 1", expr)
	}

	bonus := 0
	if bonusStr != "" {
		if bonus, err = strconv.Atoi(bonusStr); err != nil {
			return Expression{}, fmt.Errorf("dice: invalid bonus in %q: %w", expr, err)
		}
	}
	return Expression{Raw: expr, Count: count, Sides: sides, Bonus: bonus}, nil
}
