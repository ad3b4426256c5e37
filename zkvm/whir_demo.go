package zkvm

import "github.com/sp301415/soundcalc/field"

// DemoWHIRVM creates a demonstration proof system with a single WHIR-based
// circuit over Goldilocks², committing to a degree 2^23 batch of 100
// functions across 5 iterations of folding factor 4.
func DemoWHIRVM() *VM {
	main := mustCompileWHIR(WHIRConfig{
		Name:         "main",
		HashSizeBits: 256,
		LogInvRate:   1,

		NumIterations: 5,
		FoldingFactor: 4,
		Field:         field.Goldilocks2,
		LogDegree:     23,

		BatchSize:            100,
		PowerBatching:        true,
		GrindingBitsBatching: 10,

		ConstraintDegree: 3,
		GrindingBitsFolding: [][]int{
			{10, 10, 10, 10},
			{10, 10, 10, 10},
			{10, 10, 10, 10},
			{10, 10, 10, 10},
			{10, 10, 10, 10},
		},

		NumQueries:          []int{80, 35, 22, 12, 9},
		GrindingBitsQueries: []int{0, 0, 0, 12, 20},

		NumOODSamples:   []int{2, 2, 2, 2},
		GrindingBitsOOD: []int{0, 0, 0, 0},
	})

	return NewVM("DemoWHIR", main)
}

// mustCompileWHIR compiles a preset configuration.
// Preset parameters are guaranteed to compile without panics.
func mustCompileWHIR(config WHIRConfig) *WHIRCircuit {
	ckt, err := config.Compile()
	if err != nil {
		panic(err)
	}
	return ckt
}
