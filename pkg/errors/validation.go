package errors

import (
	"math"
)

// MinFamilies is the smallest family count for which the multigrid dual is
// a tiling. Below three families there are no rhombi to speak of.
const MinFamilies = 3

// ValidateFamilies checks that n is a usable family count.
func ValidateFamilies(n int) error {
	if n < MinFamilies {
		return New(ErrCodeInvalidFamilies, "family count must be at least %d, got %d", MinFamilies, n)
	}
	return nil
}

// ValidateSpacing checks that the line spacing is a positive finite number.
func ValidateSpacing(spacing float64) error {
	if math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return New(ErrCodeInvalidSpacing, "line spacing must be finite, got %v", spacing)
	}
	if spacing <= 0 {
		return New(ErrCodeInvalidSpacing, "line spacing must be positive, got %v", spacing)
	}
	return nil
}

// ValidateViewport checks that both viewport dimensions are positive and finite.
func ValidateViewport(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return New(ErrCodeInvalidViewport, "viewport must be positive and finite, got %vx%v", width, height)
		}
	}
	return nil
}

// ValidateLineRange checks that at least one line on each side of the
// origin is enumerated.
func ValidateLineRange(r int) error {
	if r < 1 {
		return New(ErrCodeInvalidLineRange, "line range must be at least 1, got %d", r)
	}
	return nil
}

// ValidateOffsets checks that there is one finite offset in [0,1) per family.
//
// The sum-zero constraint is not checked here: offsets are produced by the
// generator, which enforces it, and hand-built grids in tests may relax it.
func ValidateOffsets(offsets []float64, n int) error {
	if len(offsets) != n {
		return New(ErrCodeInvalidOffsets, "expected %d offsets, got %d", n, len(offsets))
	}
	for i, o := range offsets {
		if math.IsNaN(o) || math.IsInf(o, 0) {
			return New(ErrCodeInvalidOffsets, "offset %d is not finite: %v", i, o)
		}
		if o < 0 || o >= 1 {
			return New(ErrCodeInvalidOffsets, "offset %d out of range [0,1): %v", i, o)
		}
	}
	return nil
}
