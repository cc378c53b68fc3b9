package dice

// Roll evaluates expr with src. Each die is rolled as 1 + Random2(sides), so
// one-sided dice never consume randomness.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: expr.Min() <= result.Total() <= expr.Max().
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = RollDice(src, 1, expr.Sides)
	}
	return RollResult{Expression: expr.Raw, Dice: rolled, Bonus: expr.Bonus}
}

// RollExpr parses expr and rolls it using src in a single call.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}
