package zkvm

import "github.com/sp301415/soundcalc/field"

// MidenVM creates the Miden proof system, using the parameters of its
// RECURSIVE_96_BITS configuration: rate 1/8, 27 queries and 16 bits of
// grinding over Goldilocks².
func MidenVM() *VM {
	rho := 1 / 8.0
	traceLength := 1 << 18

	// Winterfell bounds the constraint degree as 1/rho + 1.
	airMaxDegree := 9

	foldingFactor := 4
	earlyStopDegree := 1 << 7

	domainSize := int(float64(traceLength) / rho)
	var foldingFactors []int
	for n := domainSize; n > earlyStopDegree; n /= foldingFactor {
		foldingFactors = append(foldingFactors, foldingFactor)
	}

	main := mustCompileFRI(FRIConfig{
		Name:               "main",
		HashSizeBits:       256,
		Rho:                rho,
		TraceLength:        traceLength,
		Field:              field.Goldilocks2,
		NumColumns:         100,
		BatchSize:          100,
		PowerBatching:      true,
		NumQueries:         27,
		AIRMaxDegree:       airMaxDegree,
		MaxCombo:           2,
		FoldingFactors:     foldingFactors,
		EarlyStopDegree:    earlyStopDegree,
		GrindingQueryPhase: 16,
	})

	return NewVM("Miden", main)
}
