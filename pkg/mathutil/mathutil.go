// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/study-estimator/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp bounds val to [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// NonNegative returns val, or 0 when val is negative or NaN.
func NonNegative(val float64) float64 {
	if math.IsNaN(val) || val < 0 {
		return 0
	}
	return val
}

// Ceil rounds up to the next integer, ignoring floating point noise just
// above an integer.
func Ceil(val float64) int {
	if val <= 0 || math.IsNaN(val) {
		return 0
	}
	return int(math.Ceil(val - constants.CeilTolerance))
}

// CeilDiv returns ceil(numerator / divisor). A non-positive divisor or
// numerator yields 0.
func CeilDiv(numerator, divisor float64) int {
	if divisor <= 0 || numerator <= 0 {
		return 0
	}
	return Ceil(numerator / divisor)
}

// SafeDiv divides, returning 0 when the divisor is zero.
func SafeDiv(numerator, divisor float64) float64 {
	if divisor == 0 {
		return 0
	}
	return numerator / divisor
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
