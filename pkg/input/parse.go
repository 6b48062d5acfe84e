package input

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/aretw0/sortstep/pkg/domain"
)

// Defaults for Generate.
const (
	DefaultSize = 30
	DefaultMin  = 10
	DefaultMax  = 109
)

// Parse reads a comma-separated list of integers. Entries that are empty or
// not integers are dropped; domain.ErrInvalidInput is returned when nothing
// usable remains.
func Parse(s string) (domain.Array, error) {
	clean, err := Sanitize(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var out domain.Array
	for _, field := range strings.Split(clean, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no integers in %q", domain.ErrInvalidInput, clean)
	}
	return out, nil
}

// Generate returns n values drawn uniformly from [lo, hi]. A nil rng uses the
// global source; n <= 0 falls back to DefaultSize. Swapped bounds are
// reordered. domain.ErrInvalidInput is returned when n exceeds the size limit
// or the range does not fit in an int.
func Generate(rng *rand.Rand, n, lo, hi int) (domain.Array, error) {
	if n <= 0 {
		n = DefaultSize
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if err := CheckBounds(n, lo, hi); err != nil {
		return nil, err
	}
	span := hi - lo + 1

	out := make(domain.Array, n)
	for i := range out {
		if rng != nil {
			out[i] = lo + rng.IntN(span)
		} else {
			out[i] = lo + rand.IntN(span)
		}
	}
	return out, nil
}

// CheckBounds reports whether Generate accepts n values in [lo, hi].
func CheckBounds(n, lo, hi int) error {
	if limit := maxGenerateSize(); n > limit {
		return fmt.Errorf("%w: size=%d limit=%d", domain.ErrInvalidInput, n, limit)
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	// hi-lo+1 must be a positive int.
	if (lo < 0 && hi > math.MaxInt+lo) || hi-lo == math.MaxInt {
		return fmt.Errorf("%w: range [%d, %d] is too wide", domain.ErrInvalidInput, lo, hi)
	}
	return nil
}

// Random returns an array with the default size and range.
func Random() domain.Array {
	out, _ := Generate(nil, DefaultSize, DefaultMin, DefaultMax)
	return out
}
