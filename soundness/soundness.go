// Package soundness implements the scalar conversions shared by all circuit
// models: turning error probabilities into bits of security, and sizing
// Merkle authentication paths.
package soundness

import (
	"fmt"
	"math"
)

// KiB is the number of bits in one kibibyte.
const KiB = 1024 * 8

// BitsOfSecurity returns the maximum k such that err <= 2^{-k}.
//
// Panics if err is not positive, since such an error probability admits no
// meaningful soundness bound.
func BitsOfSecurity(err float64) int {
	if err <= 0 {
		panic(fmt.Sprintf("soundness: error probability must be positive, got %v", err))
	}
	return int(math.Floor(-math.Log2(err)))
}

// MerklePathBits returns the size of a Merkle path in bits.
//
// The tree commits to numLeaves tuples of tupleSize elements of elementBits
// bits each, one tuple per leaf. The result counts the leaf itself and every
// sibling hash up to the root, excluding the root: callers account for the
// root commitment separately.
func MerklePathBits(numLeaves, tupleSize, elementBits, hashBits int) int {
	if numLeaves <= 0 {
		panic(fmt.Sprintf("soundness: numLeaves must be positive, got %v", numLeaves))
	}

	leafSize := tupleSize * elementBits
	sibling := min(leafSize, hashBits)
	treeDepth := int(math.Ceil(math.Log2(float64(numLeaves))))
	coPath := (treeDepth - 1) * hashBits

	return leafSize + sibling + coPath
}
