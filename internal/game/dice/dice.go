// Package dice provides the randomness abstraction, hit-point expressions and
// the chance, weighted-choice and rounding helpers used by the melee engine.
package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Source is the randomness provider for every roll in a duel.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollResult records one evaluated expression: the individual dice and the
// flat bonus added to them.
//
// Postcondition: Total() == sum(Dice) + Bonus.
type RollResult struct {
	Expression string
	Dice       []int
	Bonus      int
}

// Total returns the sum of all die results plus the bonus.
func (r RollResult) Total() int {
	total := r.Bonus
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll for debug logs, e.g. "3d8+2: 4+7+1 +2 = 14".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String precondition violated: Expression must be non-empty")
	}
	parts := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		parts[i] = strconv.Itoa(d)
	}
	rolled := strings.Join(parts, "+")
	if rolled == "" {
		rolled = "0"
	}
	return fmt.Sprintf("%s: %s %+d = %d", r.Expression, rolled, r.Bonus, r.Total())
}
