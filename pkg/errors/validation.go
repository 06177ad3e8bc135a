package errors

import "math"

// ValidatePositive checks that a named numeric option is finite and strictly positive.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidOptions, "%s must be finite, got %v", name, v).WithField(name)
	}
	if v <= 0 {
		return New(ErrCodeInvalidOptions, "%s must be positive, got %v", name, v).WithField(name)
	}
	return nil
}

// ValidateFraction checks that a named option lies in the half-open interval (0, 1].
// Shrink thresholds and clearance factors are fractions of a candidate's size.
func ValidateFraction(name string, v float64) error {
	if err := ValidatePositive(name, v); err != nil {
		return err
	}
	if v > 1 {
		return New(ErrCodeInvalidOptions, "%s must be at most 1, got %v", name, v).WithField(name)
	}
	return nil
}

// ValidateCount checks that a named integer option is at least min.
func ValidateCount(name string, v, min int) error {
	if v < min {
		return New(ErrCodeInvalidOptions, "%s must be at least %d, got %d", name, min, v).WithField(name)
	}
	return nil
}
