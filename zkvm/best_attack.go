package zkvm

import (
	"math"

	"github.com/sp301415/soundcalc/soundness"
)

// bestAttackLevel returns the security level based on the best known attack.
//
// This follows the toy problem, also known as the "ethSTARK conjecture"; see
// "Toy problem security" in §5.9.1 of the ethSTARK paper. It is the simplest
// and most optimistic analysis, reported for historical reference only.
func bestAttackLevel(fieldSize float64, rho float64, numQueries int, grindingBits int) int {
	commitPhaseErr := 1 / fieldSize
	queryPhaseErr := math.Pow(rho, float64(numQueries)) * math.Exp2(-float64(grindingBits))
	return soundness.BitsOfSecurity(commitPhaseErr + queryPhaseErr)
}
