// Package money converts between decimal currency amounts and the integer
// minor-unit (pence) representation required by the payment gateway.
// All arithmetic inside the service happens in minor units, conversion to
// decimal only happens at the store/display boundary.
package money

import "math"

// ToMinorUnits converts a decimal amount to minor units (e.g. pounds to
// pence). Rounding is half-up on the exact binary value and deterministic.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}

// FromMinorUnits converts minor units back to a decimal amount.
func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
