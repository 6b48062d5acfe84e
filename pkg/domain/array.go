package domain

// Array is the mutable ordered sequence of values being sorted.
type Array []int

// Clone returns an independent copy. A nil Array clones to an empty, non-nil one
// so snapshots always serialize as JSON arrays.
func (a Array) Clone() Array {
	out := make(Array, len(a))
	copy(out, a)
	return out
}

// IsSorted reports whether the array is in non-decreasing order.
func (a Array) IsSorted() bool {
	for i := 1; i < len(a); i++ {
		if a[i-1] > a[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both arrays hold the same values in the same order.
func (a Array) Equal(b Array) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Max returns the largest value, or 0 for an empty array.
func (a Array) Max() int {
	m := 0
	for i, v := range a {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// Indices returns 0..n-1 for the array.
func (a Array) Indices() []int {
	idx := make([]int, len(a))
	for i := range idx {
		idx[i] = i
	}
	return idx
}
