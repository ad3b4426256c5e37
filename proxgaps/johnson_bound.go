package proxgaps

import (
	"fmt"
	"math"

	"github.com/sp301415/soundcalc/field"
)

// tightGapFieldSize is the field size above which the Johnson bound gap can
// be chosen tightly: the field is large enough to absorb the resulting
// list-decoding slack.
var tightGapFieldSize = math.Exp2(150)

// JohnsonBound is the Johnson bound regime (JBR): delta approaches
// 1 - sqrt(rate) up to a field-size-dependent gap, trading a larger list
// size for a stronger proximity parameter.
type JohnsonBound struct {
	field field.Params
}

// NewJohnsonBound creates a JohnsonBound regime over the given field.
func NewJohnsonBound(f field.Params) JohnsonBound {
	return JohnsonBound{field: f}
}

// Identifier returns "JBR".
func (JohnsonBound) Identifier() string {
	return "JBR"
}

// ProximityParameter returns 1 - sqrt(rate) - gap, where the gap is
// sqrt(rate)/100 for fields larger than 2^150 and max(rate/20, sqrt(rate)/100)
// otherwise. The result lies strictly between 0 and 1 - sqrt(rate).
func (r JohnsonBound) ProximityParameter(rate float64, dimension int) float64 {
	sqrtRate := math.Sqrt(rate)

	gap := sqrtRate / 100
	if r.field.Size() <= tightGapFieldSize {
		gap = math.Max(rate/20, sqrtRate/100)
	}

	delta := (1 - sqrtRate) - gap
	if delta <= 0 || delta >= 1-sqrtRate {
		panic(fmt.Sprintf("proxgaps: degenerate proximity parameter %v for rate %v", delta, rate))
	}
	return delta
}

// MaxListSize returns the Johnson bound on the list size: RS codes are
// (1 - sqrt(rate) - gap, 1/(2*gap*sqrt(rate)))-list decodable.
func (r JohnsonBound) MaxListSize(rate float64, dimension int) float64 {
	sqrtRate := math.Sqrt(rate)
	gap := (1 - sqrtRate) - r.ProximityParameter(rate, dimension)
	if gap <= 0 {
		panic(fmt.Sprintf("proxgaps: nonpositive johnson bound gap %v for rate %v", gap, rate))
	}
	return 1 / (2 * gap * sqrtRate)
}

// Multiplicity returns the auxiliary multiplicity parameter m from
// Theorem 4.2, at least 3.
func (r JohnsonBound) Multiplicity(rate float64, dimension int) int {
	sqrtRate := math.Sqrt(rate)
	delta := r.ProximityParameter(rate, dimension)
	m := math.Ceil(sqrtRate / ((1 - sqrtRate) - delta))
	return int(math.Max(m, 3))
}

// ErrorLinear follows the two-term bound of Theorem 4.2.
func (r JohnsonBound) ErrorLinear(rate float64, dimension int) float64 {
	sqrtRate := math.Sqrt(rate)
	delta := r.ProximityParameter(rate, dimension)
	mShifted := float64(r.Multiplicity(rate, dimension)) + 0.5

	// n is the codeword length.
	n := float64(dimension) / rate

	first := (2*math.Pow(mShifted, 5) + 3*mShifted*delta*rate) * n / (3 * rate * sqrtRate)
	second := mShifted / sqrtRate

	return (first + second) / r.field.Size()
}

// ErrorPowers scales the linear-combination error by the number of batched
// functions minus one.
func (r JohnsonBound) ErrorPowers(rate float64, dimension int, numFunctions int) float64 {
	return r.ErrorLinear(rate, dimension) * float64(numFunctions-1)
}
