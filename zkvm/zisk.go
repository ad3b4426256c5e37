package zkvm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sp301415/soundcalc/field"
)

// ziskCircuitRow is one row of the ZisK circuit tables.
type ziskCircuitRow struct {
	name string
	// bits is log2 of the trace length.
	bits int
	// blowup is log2 of the inverse rate.
	blowup int
	// degree is the maximum AIR constraint degree.
	degree int
	// fixed and stage1 are the column counts contributing to num_columns.
	fixed, stage1 int
	// polys is the total number of polynomials in batched FRI.
	polys int
	// queries is the number of FRI queries.
	queries int
	// opens is the maximum combo of openings per column.
	opens int
	// foldingArities encodes the log2 domain sizes along the FRI fold,
	// e.g. "23-19-15-11-8-5".
	foldingArities string
}

// ziskBaseCircuits holds the base ZisK circuits.
var ziskBaseCircuits = []ziskCircuitRow{
	{"Main", 22, 1, 3, 3, 38, 61, 128, 3, "23-19-15-11-8-5"},
	{"Rom", 22, 1, 2, 1, 1, 18, 128, 3, "23-19-15-11-8-5"},
	{"Mem", 22, 1, 3, 2, 13, 29, 128, 3, "23-19-15-11-8-5"},
	{"RomData", 21, 1, 3, 2, 6, 19, 128, 3, "22-18-14-11-8-5"},
	{"InputData", 21, 1, 3, 2, 9, 27, 128, 3, "22-18-14-11-8-5"},
	{"MemAlign", 21, 1, 3, 2, 29, 59, 128, 3, "22-18-14-11-8-5"},
	{"MemAlignByte", 22, 1, 3, 1, 16, 25, 128, 3, "23-19-15-11-8-5"},
	{"MemAlignReadByte", 22, 1, 3, 1, 10, 18, 128, 3, "23-19-15-11-8-5"},
	{"MemAlignWriteByte", 22, 1, 3, 1, 14, 23, 128, 3, "23-19-15-11-8-5"},
	{"Arith", 21, 1, 3, 1, 44, 64, 128, 3, "22-18-14-11-8-5"},
	{"Binary", 22, 1, 3, 1, 39, 49, 128, 3, "23-19-15-11-8-5"},
	{"BinaryAdd", 22, 1, 3, 1, 10, 18, 128, 3, "23-19-15-11-8-5"},
	{"BinaryExtension", 22, 1, 3, 1, 29, 40, 128, 3, "23-19-15-11-8-5"},
	{"Add256", 20, 1, 3, 1, 47, 69, 128, 3, "21-17-13-9-5"},
	{"ArithEq", 20, 1, 3, 2, 39, 434, 128, 36, "21-17-13-9-5"},
	{"ArithEq384", 20, 1, 3, 2, 33, 536, 128, 54, "21-17-13-9-5"},
	{"Keccakf", 16, 1, 3, 2, 2137, 4065, 128, 26, "17-13-9-5"},
	{"Sha256f", 18, 1, 3, 2, 102, 1265, 128, 87, "19-15-11-8-5"},
	{"SpecifiedRanges", 20, 1, 3, 34, 33, 88, 128, 3, "21-17-13-9-5"},
	{"VirtualTable0", 20, 1, 3, 100, 16, 129, 128, 3, "21-17-13-9-5"},
	{"VirtualTable1", 20, 1, 3, 145, 16, 174, 128, 3, "21-17-13-9-5"},
}

// ziskRecursiveCircuits holds the recursive proving circuits.
var ziskRecursiveCircuits = []ziskCircuitRow{
	{"ArithEq Compressor", 18, 2, 3, 45, 36, 238, 64, 4, "20-16-12-8-5"},
	{"ArithEq384 Compressor", 18, 2, 3, 45, 36, 238, 64, 4, "20-16-12-8-5"},
	{"Keccakf Compressor", 21, 2, 3, 45, 36, 238, 64, 4, "23-19-15-11-8-5"},
	{"Sha256f Compressor", 19, 2, 3, 45, 36, 238, 64, 4, "21-17-13-9-5"},
	{"VirtualTable1 Compressor", 18, 2, 3, 45, 36, 238, 64, 4, "20-16-12-8-5"},
	{"Recursive1", 17, 3, 3, 45, 36, 243, 43, 4, "20-16-12-8-5"},
	{"Recursive2", 17, 3, 3, 45, 36, 243, 43, 4, "20-16-12-8-5"},
	{"Final", 16, 4, 3, 45, 42, 249, 32, 4, "20-15-10"},
}

// parseFoldingArities parses a FRI folding arity string like
// "23-19-15-11-8-5" into folding factors and an early stop degree. The
// sequence lists log2 of the domain sizes at each step, so "23-19" folds by
// 2^4 = 16 and a final value of 5 stops at degree 2^5 = 32.
func parseFoldingArities(arities string) (foldingFactors []int, earlyStopDegree int, err error) {
	parts := strings.Split(arities, "-")
	if len(parts) < 2 {
		return nil, 0, fmt.Errorf("zkvm: folding arities %q must contain at least two steps", arities)
	}

	logSizes := make([]int, len(parts))
	for i, part := range parts {
		logSizes[i], err = strconv.Atoi(part)
		if err != nil {
			return nil, 0, fmt.Errorf("zkvm: invalid folding arity %q: %w", part, err)
		}
	}

	foldingFactors = make([]int, len(logSizes)-1)
	for i := range foldingFactors {
		if logSizes[i] <= logSizes[i+1] {
			return nil, 0, fmt.Errorf("zkvm: folding arities %q must be strictly decreasing", arities)
		}
		foldingFactors[i] = 1 << (logSizes[i] - logSizes[i+1])
	}
	return foldingFactors, 1 << logSizes[len(logSizes)-1], nil
}

func (row ziskCircuitRow) compile() *FRICircuit {
	foldingFactors, earlyStopDegree, err := parseFoldingArities(row.foldingArities)
	if err != nil {
		panic(err)
	}

	return mustCompileFRI(FRIConfig{
		Name:               row.name,
		HashSizeBits:       256,
		Rho:                1 / float64(int(1)<<row.blowup),
		TraceLength:        1 << row.bits,
		Field:              field.Goldilocks3,
		NumColumns:         row.fixed + row.stage1,
		BatchSize:          row.polys,
		PowerBatching:      true,
		NumQueries:         row.queries,
		AIRMaxDegree:       row.degree,
		MaxCombo:           row.opens,
		FoldingFactors:     foldingFactors,
		EarlyStopDegree:    earlyStopDegree,
		GrindingQueryPhase: 0,
	})
}

// ZiskVM creates the ZisK proof system with its base and recursive circuits.
// The parameters follow the published ZisK circuit tables.
func ZiskVM() *VM {
	circuits := make([]Circuit, 0, len(ziskBaseCircuits)+len(ziskRecursiveCircuits))
	for _, row := range ziskBaseCircuits {
		circuits = append(circuits, row.compile())
	}
	for _, row := range ziskRecursiveCircuits {
		circuits = append(circuits, row.compile())
	}
	return NewVM("ZisK", circuits...)
}

// mustCompileFRI compiles a preset configuration.
// Preset parameters are guaranteed to compile without panics.
func mustCompileFRI(config FRIConfig) *FRICircuit {
	ckt, err := config.Compile()
	if err != nil {
		panic(err)
	}
	return ckt
}
