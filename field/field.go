// Package field provides read-only descriptions of the extension fields used
// by the proof systems under analysis.
package field

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"
)

// Params is a read-only structure describing an extension field GF(p^e).
type Params struct {
	// name is a human-readable label for the field.
	name string
	// p is the base field characteristic.
	// E.g., p = 2^{31} - 2^{27} + 1 for BabyBear.
	p *big.Int
	// extensionDegree is the extension degree over the base field.
	// Denoted as e, so that |F| = p^e.
	extensionDegree int
	// size is the extension field size |F| = p^e.
	// Soundness formulas divide error numerators by this value.
	size float64
	// twoAdicity is the largest v such that 2^v divides p - 1.
	// It is fixed per base field.
	twoAdicity uint
	// domains marks the log sizes of the smooth evaluation domains
	// that exist in the base field, i.e. bits 0 to twoAdicity.
	domains *bitset.BitSet
}

// NewParams creates a Params for GF(p^extensionDegree).
// The field size is computed exactly over the integers before being
// lowered to a float64.
func NewParams(name string, p *big.Int, extensionDegree int, twoAdicity uint) Params {
	sizeInt := big.NewInt(0).Exp(p, big.NewInt(int64(extensionDegree)), nil)
	size, _ := big.NewFloat(0).SetInt(sizeInt).Float64()

	domains := bitset.New(twoAdicity + 1)
	domains.FlipRange(0, twoAdicity+1)

	return Params{
		name:            name,
		p:               big.NewInt(0).Set(p),
		extensionDegree: extensionDegree,
		size:            size,
		twoAdicity:      twoAdicity,
		domains:         domains,
	}
}

// Name returns the human-readable label for the field.
func (p Params) Name() string {
	return p.name
}

// P returns the base field characteristic.
func (p Params) P() *big.Int {
	return big.NewInt(0).Set(p.p)
}

// ExtensionDegree returns the extension degree over the base field.
func (p Params) ExtensionDegree() int {
	return p.extensionDegree
}

// Size returns the extension field size |F| = p^e.
func (p Params) Size() float64 {
	return p.size
}

// TwoAdicity returns the largest v such that 2^v divides p - 1.
func (p Params) TwoAdicity() uint {
	return p.twoAdicity
}

// BaseElementBits returns the size of a base field element in bits.
func (p Params) BaseElementBits() int {
	return p.p.BitLen()
}

// ElementBits returns the size of an extension field element in bits.
func (p Params) ElementBits() int {
	return p.extensionDegree * p.BaseElementBits()
}

// SupportsDomain reports whether the base field contains a multiplicative
// subgroup of order 2^logSize.
func (p Params) SupportsDomain(logSize int) bool {
	if logSize < 0 {
		return false
	}
	return p.domains.Test(uint(logSize))
}
