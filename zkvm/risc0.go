package zkvm

import "github.com/sp301415/soundcalc/field"

// Risc0VM creates the RISC0 proof system, following the parameters of its
// published soundness calculator (September 2024) and Section 3.2 of the
// RISC0 proof system technical report.
func Risc0VM() *VM {
	rho := 1 / 4.0
	traceLength := 1 << 21

	numControl := 16
	numData := 223
	numAccum := 40
	numColumns := numControl + numData + numAccum
	batchSize := numColumns + 4

	// RISC0 reports a maximum degree of 5 but the DEEP-ALI error uses
	// d - 1, so 4 goes here.
	airMaxDegree := 4

	foldingFactor := 16
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
		Field:              field.BabyBear4,
		NumColumns:         numColumns,
		BatchSize:          batchSize,
		PowerBatching:      true,
		NumQueries:         50,
		AIRMaxDegree:       airMaxDegree,
		MaxCombo:           9,
		FoldingFactors:     foldingFactors,
		EarlyStopDegree:    earlyStopDegree,
		GrindingQueryPhase: 0,
	})

	return NewVM("RISC0", main)
}
