// Package zkvm models zero-knowledge proof systems built on polynomial
// commitment protocols, and estimates their concrete soundness and proof
// size from closed-form bounds.
//
// A proof system is a [VM] holding one or more [Circuit] values. Two circuit
// families are provided: [FRICircuit] and [WHIRCircuit]. Circuits are
// compiled once from a configuration and are read-only afterwards, so they
// may be queried concurrently.
package zkvm

import "encoding/json"

// Levels maps a round or phase label to its bits of security. A value of k
// means the error for that phase is at most 2^{-k}. Every Levels produced by
// a circuit contains a "total" entry holding the minimum over its phases.
type Levels map[string]int

// SecurityLevels is the result of a circuit's soundness analysis: one Levels
// per proximity-gaps regime, keyed by the regime identifier.
type SecurityLevels struct {
	// Regimes maps a regime identifier, e.g. "UDR", to its per-phase levels.
	Regimes map[string]Levels

	// BestAttack is the security level of the best known attack, following
	// the "toy problem" conjecture. It sits outside the regimes since it is
	// a historical reference without a rigorous analysis behind it.
	// It is nil for circuit families that do not compute it.
	BestAttack *int
}

// MarshalJSON flattens the result into one object with the regimes keyed by
// identifier and, when present, a top-level "best attack" entry.
func (s SecurityLevels) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(s.Regimes)+1)
	for id, levels := range s.Regimes {
		flat[id] = levels
	}
	if s.BestAttack != nil {
		flat["best attack"] = *s.BestAttack
	}
	return json.Marshal(flat)
}

// Circuit models a single provable computation within a proof system.
// Implementations are immutable after compilation and all methods are pure.
type Circuit interface {
	// Name returns the name of the circuit.
	Name() string

	// ParameterSummary returns a human-readable description of the circuit
	// parameters, for display only.
	ParameterSummary() string

	// ProofSizeBits returns an estimate for the proof size, in bits.
	ProofSizeBits() int

	// SecurityLevels returns the round-by-round soundness levels of the
	// circuit under every regime.
	SecurityLevels() SecurityLevels
}

// VM is a named proof system owning an ordered list of circuits.
type VM struct {
	name     string
	circuits []Circuit
}

// NewVM creates a VM from its circuits.
func NewVM(name string, circuits ...Circuit) *VM {
	return &VM{name: name, circuits: circuits}
}

// Name returns the name of the proof system.
func (v *VM) Name() string {
	return v.name
}

// Circuits returns the circuits of this proof system, in order.
func (v *VM) Circuits() []Circuit {
	return v.circuits
}
