package domain

// ArrayDiff represents the changes between two array snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type ArrayDiff struct {
	// Length is only present when the array was resized (new array or first frame).
	Length *int `json:"length,omitempty"`

	// Changes maps index to new value for every position that differs.
	Changes map[int]int `json:"changes,omitempty"`
}

// Diff calculates the difference between old and new.
// If old is nil, or the lengths differ, it returns a diff carrying every value of new.
// It returns nil when nothing changed.
func Diff(old, new Array) *ArrayDiff {
	if new == nil {
		return nil
	}

	diff := &ArrayDiff{}
	if old == nil || len(old) != len(new) {
		n := len(new)
		diff.Length = &n
		diff.Changes = make(map[int]int, n)
		for i, v := range new {
			diff.Changes[i] = v
		}
		return diff
	}

	for i := range new {
		if old[i] != new[i] {
			if diff.Changes == nil {
				diff.Changes = make(map[int]int)
			}
			diff.Changes[i] = new[i]
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// Apply returns a copy of base with the diff applied.
func (d *ArrayDiff) Apply(base Array) Array {
	if d == nil {
		return base.Clone()
	}
	out := base.Clone()
	if d.Length != nil {
		out = make(Array, *d.Length)
		copy(out, base)
	}
	for i, v := range d.Changes {
		if i >= 0 && i < len(out) {
			out[i] = v
		}
	}
	return out
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *ArrayDiff) IsEmpty() bool {
	return d.Length == nil && len(d.Changes) == 0
}
