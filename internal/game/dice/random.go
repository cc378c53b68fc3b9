package dice

import "math"

// Random2 returns a uniform int in [0, n), or 0 when n <= 1.
//
// Postcondition: 0 <= result < max(n, 1).
func Random2(src Source, n int) int {
	if n <= 1 {
		return 0
	}
	return src.Intn(n)
}

// Random2Avg returns the integer mean of rolls draws, biasing the result toward
// the middle of [0, max).
//
// Precondition: rolls >= 1.
// Postcondition: 0 <= result < max(max, 1).
func Random2Avg(src Source, max, rolls int) int {
	if rolls < 1 {
		panic("dice: Random2Avg precondition violated: rolls must be >= 1")
	}
	sum := Random2(src, max)
	for i := 1; i < rolls; i++ {
		sum += Random2(src, max+1)
	}
	return sum / rolls
}

// RandomRange returns a uniform int in [lo, hi].
//
// Postcondition: lo <= result <= hi when lo <= hi; lo otherwise.
func RandomRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + Random2(src, hi-lo+1)
}

// RollDice sums num rolls of a size-sided die.
//
// Postcondition: num <= result <= num*size when num, size > 0; 0 otherwise.
func RollDice(src Source, num, size int) int {
	if num <= 0 || size <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < num; i++ {
		total += 1 + Random2(src, size)
	}
	return total
}

// OneChanceIn reports true with probability 1/n. n <= 1 is always true.
func OneChanceIn(src Source, n int) bool {
	if n <= 1 {
		return true
	}
	return src.Intn(n) == 0
}

// XChanceInY reports true with probability x/y, clamped to [0, 1].
func XChanceInY(src Source, x, y int) bool {
	if x <= 0 {
		return false
	}
	if x >= y {
		return true
	}
	return src.Intn(y) < x
}

// Coinflip reports true with probability 1/2.
func Coinflip(src Source) bool {
	return src.Intn(2) == 0
}

// DivRandRound divides num by den and rounds the remainder up with
// probability rem/den, so the expected value equals num/den exactly.
//
// Precondition: den > 0.
func DivRandRound(src Source, num, den int) int {
	if den <= 0 {
		panic("dice: DivRandRound precondition violated: den must be > 0")
	}
	rem := num % den
	if rem == 0 {
		return num / den
	}
	if rem < 0 {
		if Random2(src, den) < -rem {
			return num/den - 1
		}
		return num / den
	}
	if Random2(src, den) < rem {
		return num/den + 1
	}
	return num / den
}

// realResolution is the granularity used to draw a uniform real in [0, 1).
const realResolution = 1 << 30

// RandRound rounds x down and adds one with probability equal to its fractional part.
func RandRound(src Source, x float64) int {
	floor := math.Floor(x)
	frac := x - floor
	r := float64(src.Intn(realResolution)) / realResolution
	if r < frac {
		return int(floor) + 1
	}
	return int(floor)
}

// MaybeRandom2 returns Random2(n) when random is set, otherwise the mean n/2.
func MaybeRandom2(src Source, n float64, random bool) float64 {
	if n <= 1 {
		return 0
	}
	if random {
		return float64(Random2(src, int(n)))
	}
	return n / 2
}

// Choose returns one of the given values uniformly.
//
// Precondition: len(values) > 0.
func Choose[T any](src Source, values ...T) T {
	if len(values) == 0 {
		panic("dice: Choose precondition violated: no values")
	}
	return values[src.Intn(len(values))]
}
