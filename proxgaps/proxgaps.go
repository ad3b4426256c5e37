// Package proxgaps implements proximity-gaps regimes for Reed-Solomon codes.
//
// A regime is one analytical framework from the literature for bounding
// list-decodability and (mutual) correlated agreement of a Reed-Solomon code
// of rate rho and dimension k. Two regimes are provided: the unique decoding
// regime (UDR) and the Johnson bound regime (JBR).
package proxgaps

import "github.com/sp301415/soundcalc/field"

// Regime bounds proximity gaps and correlated agreement for Reed-Solomon
// codes over a fixed field. Implementations are stateless policies holding
// their field by value; all methods are pure.
type Regime interface {
	// Identifier returns the short name of the regime, e.g. "UDR".
	Identifier() string

	// ProximityParameter returns the maximum proximity parameter delta
	// supported by this regime for a code of the given rate and dimension.
	ProximityParameter(rate float64, dimension int) float64

	// MaxListSize returns an upper bound on the number of codewords within
	// distance delta of any word, where delta is the regime's
	// proximity parameter for the given code.
	MaxListSize(rate float64, dimension int) float64

	// ErrorLinear returns an upper bound on the correlated agreement error
	// when batching with independent random coefficients
	// 1, r_1, ..., r_{l-1}. This is batching over affine spaces in BCIKS20,
	// and the error does not depend on the batch size.
	ErrorLinear(rate float64, dimension int) float64

	// ErrorPowers returns an upper bound on the correlated agreement error
	// when batching with coefficients r^0, r^1, ..., r^{l-1}. This is
	// batching over parameterized curves in BCIKS20, and the error scales
	// with numFunctions.
	ErrorPowers(rate float64, dimension int, numFunctions int) float64
}

// ForField returns all regimes under which a circuit over the given field
// is analyzed.
func ForField(f field.Params) []Regime {
	return []Regime{
		NewUniqueDecoding(f),
		NewJohnsonBound(f),
	}
}
