package engine

// Bunch is a multiset of resource-kind/amount pairs. A missing kind counts
// as zero; Bunch values are never mutated in place by the algebra below.
type Bunch map[ResourceKind]int

// Single builds a one-entry bunch.
func Single(kind ResourceKind, amount int) Bunch {
	return Bunch{kind: amount}
}

// Add returns the pointwise sum of b and other. Addition is commutative and
// associative over kinds.
func (b Bunch) Add(other Bunch) Bunch {
	out := make(Bunch, len(b)+len(other))
	for kind, amount := range b {
		out[kind] = amount
	}
	for kind, amount := range other {
		out[kind] += amount
	}
	return out
}

// Contains reports whether b covers every requirement in required: for each
// kind in required, b's amount must be at least the required amount. A kind
// missing from b fails any positive requirement.
func (b Bunch) Contains(required Bunch) bool {
	for kind, amount := range required {
		if b[kind] < amount {
			return false
		}
	}
	return true
}

// Get returns the amount for kind, zero when absent.
func (b Bunch) Get(kind ResourceKind) int {
	return b[kind]
}

// IsEmpty reports whether the bunch holds no positive amount.
func (b Bunch) IsEmpty() bool {
	for _, amount := range b {
		if amount > 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (b Bunch) Clone() Bunch {
	out := make(Bunch, len(b))
	for kind, amount := range b {
		out[kind] = amount
	}
	return out
}

// Equal reports pointwise equality, treating missing kinds as zero.
func (b Bunch) Equal(other Bunch) bool {
	for kind, amount := range b {
		if other[kind] != amount {
			return false
		}
	}
	for kind, amount := range other {
		if b[kind] != amount {
			return false
		}
	}
	return true
}
