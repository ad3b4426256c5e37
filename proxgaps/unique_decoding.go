package proxgaps

import "github.com/sp301415/soundcalc/field"

// UniqueDecoding is the unique decoding regime (UDR): delta stays within the
// unique decoding radius, so the list size is exactly one.
type UniqueDecoding struct {
	field field.Params
}

// NewUniqueDecoding creates a UniqueDecoding regime over the given field.
func NewUniqueDecoding(f field.Params) UniqueDecoding {
	return UniqueDecoding{field: f}
}

// Identifier returns "UDR".
func (UniqueDecoding) Identifier() string {
	return "UDR"
}

// ProximityParameter returns the unique decoding radius (1 - rate) / 2.
func (UniqueDecoding) ProximityParameter(rate float64, dimension int) float64 {
	return (1 - rate) / 2
}

// MaxListSize returns 1: within the unique decoding radius there is exactly
// one codeword.
func (UniqueDecoding) MaxListSize(rate float64, dimension int) float64 {
	return 1
}

// ErrorLinear follows Theorem 4.1 of BCIKS20.
func (r UniqueDecoding) ErrorLinear(rate float64, dimension int) float64 {
	return float64(dimension) / r.field.Size()
}

// ErrorPowers scales the linear-combination error by the number of batched
// functions minus one.
func (r UniqueDecoding) ErrorPowers(rate float64, dimension int, numFunctions int) float64 {
	return r.ErrorLinear(rate, dimension) * float64(numFunctions-1)
}
