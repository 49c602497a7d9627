package bigmath

// Comparison is the three-state result of comparing two decimals.
type Comparison int

const (
	LowerThan  Comparison = iota - 1 // first operand is lower
	Equal                            // operands are numerically equal
	HigherThan                       // first operand is higher
)

// String returns a human-readable name for the comparison result.
func (c Comparison) String() string {
	switch c {
	case LowerThan:
		return "lower_than"
	case HigherThan:
		return "higher_than"
	default:
		return "equal"
	}
}

// Compare compares two decimals and reports the relation of a to b.
func Compare(a, b string) Comparison {
	return Comparison(mustParse(a).Cmp(mustParse(b)))
}

// IsLowerThan reports whether a < b.
func IsLowerThan(a, b string) bool {
	return Compare(a, b) == LowerThan
}

// IsEqual reports whether a == b numerically, regardless of representation.
func IsEqual(a, b string) bool {
	return Compare(a, b) == Equal
}

// IsHigherThan reports whether a > b.
func IsHigherThan(a, b string) bool {
	return Compare(a, b) == HigherThan
}
