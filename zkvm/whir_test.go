package zkvm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sp301415/soundcalc/field"
	"github.com/sp301415/soundcalc/zkvm"
)

// demoWHIRConfig is a five-iteration fixture over Goldilocks².
func demoWHIRConfig() zkvm.WHIRConfig {
	return zkvm.WHIRConfig{
		Name:         "demo",
		HashSizeBits: 256,

		LogInvRate:    1,
		NumIterations: 5,
		FoldingFactor: 4,

		Field: field.Goldilocks2,

		LogDegree: 23,

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
	}
}

func TestWHIRCompile(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		ckt, err := demoWHIRConfig().Compile()
		assert.NoError(t, err)
		assert.Equal(t, "demo", ckt.Name())
	})

	t.Run("TooManyFoldingRounds", func(t *testing.T) {
		// 3 iterations of folding factor 5 need 15 variables, but only 10
		// are available.
		config := demoWHIRConfig()
		config.NumIterations = 3
		config.FoldingFactor = 5
		config.LogDegree = 10
		config.NumQueries = []int{80, 35, 22}
		config.GrindingBitsQueries = []int{0, 0, 0}
		config.NumOODSamples = []int{2, 2}
		config.GrindingBitsOOD = []int{0, 0}
		config.GrindingBitsFolding = [][]int{
			{0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0},
		}

		_, err := config.Compile()
		assert.Error(t, err)
		assert.ErrorAs(t, err, &zkvm.ConfigError{})

		// Two iterations fit.
		config.NumIterations = 2
		config.NumQueries = []int{80, 35}
		config.GrindingBitsQueries = []int{0, 0}
		config.NumOODSamples = []int{2}
		config.GrindingBitsOOD = []int{0}
		config.GrindingBitsFolding = config.GrindingBitsFolding[:2]

		_, err = config.Compile()
		assert.NoError(t, err)
	})

	t.Run("TwoAdicity", func(t *testing.T) {
		// With log degree 28 the first folded domain has log size
		// 28 + 1 - 4 = 25, but KoalaBear only has two-adicity 24.
		config := demoWHIRConfig()
		config.Field = field.KoalaBear4
		config.LogDegree = 28

		_, err := config.Compile()
		assert.Error(t, err)
		assert.ErrorAs(t, err, &zkvm.ConfigError{})
	})

	t.Run("ConstraintDegree", func(t *testing.T) {
		config := demoWHIRConfig()
		config.ConstraintDegree = 2

		_, err := config.Compile()
		assert.Error(t, err)
	})

	t.Run("ArrayLengths", func(t *testing.T) {
		config := demoWHIRConfig()
		config.NumQueries = config.NumQueries[:4]
		_, err := config.Compile()
		assert.Error(t, err)

		config = demoWHIRConfig()
		config.NumOODSamples = append(config.NumOODSamples, 2)
		_, err = config.Compile()
		assert.Error(t, err)

		config = demoWHIRConfig()
		config.GrindingBitsFolding[2] = []int{10, 10}
		_, err = config.Compile()
		assert.Error(t, err)
	})

	t.Run("NegativeGrinding", func(t *testing.T) {
		config := demoWHIRConfig()
		config.GrindingBitsQueries[3] = -1

		_, err := config.Compile()
		assert.Error(t, err)
	})
}

func TestWHIRSecurityLevels(t *testing.T) {
	ckt, err := demoWHIRConfig().Compile()
	assert.NoError(t, err)

	levels := ckt.SecurityLevels()

	t.Run("Shape", func(t *testing.T) {
		for _, regime := range []string{"UDR", "JBR"} {
			assert.Contains(t, levels.Regimes, regime)

			phases := levels.Regimes[regime]
			assert.Contains(t, phases, "batching")
			assert.Contains(t, phases, "fold(i=0,s=1)")
			assert.Contains(t, phases, "fold(i=4,s=4)")
			assert.Contains(t, phases, "OOD(i=1)")
			assert.Contains(t, phases, "Shift(i=4)")
			assert.Contains(t, phases, "fin")
			assert.Contains(t, phases, "total")

			// No OOD or shift terms for the initial iteration.
			assert.NotContains(t, phases, "OOD(i=0)")
			assert.NotContains(t, phases, "Shift(i=0)")
		}
		assert.Nil(t, levels.BestAttack)
	})

	t.Run("TotalIsMinimum", func(t *testing.T) {
		for regime, phases := range levels.Regimes {
			minLevel := math.MaxInt
			for phase, level := range phases {
				if phase == "total" {
					continue
				}
				minLevel = min(minLevel, level)
			}
			assert.Equal(t, minLevel, phases["total"], regime)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		assert.Equal(t, levels, ckt.SecurityLevels())
	})

	t.Run("MoreFinalQueriesNeverHurt", func(t *testing.T) {
		config := demoWHIRConfig()
		config.NumQueries[4] *= 2
		doubled, err := config.Compile()
		assert.NoError(t, err)

		for regime, phases := range doubled.SecurityLevels().Regimes {
			assert.GreaterOrEqual(t, phases["fin"], levels.Regimes[regime]["fin"], regime)
		}
	})

	t.Run("NoBatchingTermForSingleFunction", func(t *testing.T) {
		config := demoWHIRConfig()
		config.BatchSize = 1
		single, err := config.Compile()
		assert.NoError(t, err)

		for _, phases := range single.SecurityLevels().Regimes {
			assert.NotContains(t, phases, "batching")
		}
	})
}

func TestWHIRGrindingOverhead(t *testing.T) {
	ckt, err := demoWHIRConfig().Compile()
	assert.NoError(t, err)

	// Sum of 2^bits over one batching grind, 5x4 fold grinds at 10 bits,
	// query grinds {0,0,0,12,20} and four OOD grinds at 0 bits.
	sum := math.Exp2(10) + 20*math.Exp2(10) + (1 + 1 + 1 + math.Exp2(12) + math.Exp2(20)) + 4
	want := math.Round(math.Log2(sum)*100) / 100
	assert.Equal(t, want, ckt.LogGrindingOverhead())
}

func TestWHIRProofSizeBits(t *testing.T) {
	ckt, err := demoWHIRConfig().Compile()
	assert.NoError(t, err)

	size := ckt.ProofSizeBits()
	assert.Positive(t, size)
	assert.Equal(t, size, ckt.ProofSizeBits())

	// The final polynomial alone has 2^{23 - 5*4} = 8 extension elements.
	assert.Greater(t, size, 8*field.Goldilocks2.ElementBits())

	// Fewer queries into the first, largest function shrink the proof.
	config := demoWHIRConfig()
	config.NumQueries[0] /= 2
	halved, err := config.Compile()
	assert.NoError(t, err)
	assert.Less(t, halved.ProofSizeBits(), size)
}
