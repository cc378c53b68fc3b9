package dice

// Weighted pairs a value with a non-negative selection weight.
type Weighted[T any] struct {
	Value  T
	Weight int
}

// ChooseWeighted returns one value with probability proportional to its weight.
// Entries with weight <= 0 are never chosen.
//
// Postcondition: ok is false iff the total weight is zero.
func ChooseWeighted[T any](src Source, items []Weighted[T]) (value T, ok bool) {
	total := 0
	for _, it := range items {
		if it.Weight > 0 {
			total += it.Weight
		}
	}
	if total == 0 {
		return value, false
	}
	roll := src.Intn(total)
	for _, it := range items {
		if it.Weight <= 0 {
			continue
		}
		if roll < it.Weight {
			return it.Value, true
		}
		roll -= it.Weight
	}
	// Unreachable: roll < total.
	return value, false
}

// MustChooseWeighted is ChooseWeighted for tables that are guaranteed non-empty.
//
// Precondition: at least one item has a positive weight; panics otherwise.
func MustChooseWeighted[T any](src Source, items []Weighted[T]) T {
	v, ok := ChooseWeighted(src, items)
	if !ok {
		panic("dice: MustChooseWeighted precondition violated: no positively weighted entries")
	}
	return v
}
