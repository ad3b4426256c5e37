package zkvm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sp301415/soundcalc/field"
	"github.com/sp301415/soundcalc/zkvm"
)

// ziskMainConfig is the ZisK "Main" circuit, used as a realistic fixture.
func ziskMainConfig() zkvm.FRIConfig {
	return zkvm.FRIConfig{
		Name:         "Main",
		HashSizeBits: 256,

		Rho:         0.5,
		TraceLength: 1 << 22,
		Field:       field.Goldilocks3,

		NumColumns:    41,
		BatchSize:     61,
		PowerBatching: true,

		NumQueries:   128,
		AIRMaxDegree: 3,
		MaxCombo:     3,

		FoldingFactors:  []int{16, 16, 16, 8, 8},
		EarlyStopDegree: 32,
	}
}

func TestFRICompile(t *testing.T) {
	t.Run("FoldingRounds", func(t *testing.T) {
		// D = 2^22 / (1/2) = 2^23; folding by 16, 16, 16, 8, 8 lands exactly
		// on degree 32 after five rounds.
		ckt, err := ziskMainConfig().Compile()
		assert.NoError(t, err)
		assert.Equal(t, 5, ckt.Rounds())
	})

	t.Run("EarlyStopMismatch", func(t *testing.T) {
		config := ziskMainConfig()
		config.EarlyStopDegree = 64

		_, err := config.Compile()
		assert.Error(t, err)
		assert.ErrorAs(t, err, &zkvm.ConfigError{})
	})

	t.Run("ColumnsExceedBatch", func(t *testing.T) {
		config := ziskMainConfig()
		config.NumColumns = config.BatchSize + 1

		_, err := config.Compile()
		assert.Error(t, err)
		assert.ErrorAs(t, err, &zkvm.ConfigError{})
	})

	t.Run("NegativeGrinding", func(t *testing.T) {
		config := ziskMainConfig()
		config.GrindingQueryPhase = -1

		_, err := config.Compile()
		assert.Error(t, err)
	})
}

func TestFRISecurityLevels(t *testing.T) {
	ckt, err := ziskMainConfig().Compile()
	assert.NoError(t, err)

	levels := ckt.SecurityLevels()

	t.Run("Shape", func(t *testing.T) {
		for _, regime := range []string{"UDR", "JBR"} {
			assert.Contains(t, levels.Regimes, regime)
			for _, phase := range []string{
				"batching",
				"commit round 1", "commit round 2", "commit round 3", "commit round 4", "commit round 5",
				"query phase", "ALI", "DEEP", "total",
			} {
				assert.Contains(t, levels.Regimes[regime], phase, regime)
			}
		}
		assert.NotNil(t, levels.BestAttack)
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

	t.Run("MoreQueriesNeverHurt", func(t *testing.T) {
		config := ziskMainConfig()
		config.NumQueries = 2 * config.NumQueries
		doubled, err := config.Compile()
		assert.NoError(t, err)

		for regime, phases := range doubled.SecurityLevels().Regimes {
			assert.GreaterOrEqual(t, phases["query phase"], levels.Regimes[regime]["query phase"], regime)
		}
	})

	t.Run("GrindingAddsQueryPhaseBits", func(t *testing.T) {
		config := ziskMainConfig()
		config.GrindingQueryPhase = 20
		ground, err := config.Compile()
		assert.NoError(t, err)

		for regime, phases := range ground.SecurityLevels().Regimes {
			assert.Equal(t, levels.Regimes[regime]["query phase"]+20, phases["query phase"], regime)
		}
	})
}

func TestFRIBestAttack(t *testing.T) {
	config := zkvm.FRIConfig{
		Name:         "risc0-like",
		HashSizeBits: 256,

		Rho:         0.25,
		TraceLength: 1 << 21,
		Field:       field.BabyBear4,

		NumColumns:    279,
		BatchSize:     283,
		PowerBatching: true,

		NumQueries:   50,
		AIRMaxDegree: 4,
		MaxCombo:     9,

		FoldingFactors:  []int{16, 16, 16, 16},
		EarlyStopDegree: 128,
	}

	ckt, err := config.Compile()
	assert.NoError(t, err)

	levels := ckt.SecurityLevels()
	assert.NotNil(t, levels.BestAttack)

	errAttack := 1/field.BabyBear4.Size() + math.Pow(0.25, 50)
	assert.Equal(t, int(math.Floor(-math.Log2(errAttack))), *levels.BestAttack)
}

func TestFRIProofSizeBits(t *testing.T) {
	ckt, err := ziskMainConfig().Compile()
	assert.NoError(t, err)

	size := ckt.ProofSizeBits()
	assert.Positive(t, size)
	assert.Equal(t, size, ckt.ProofSizeBits())

	// One root per commitment: the batch plus one per folding round. The
	// final polynomial is sent in the clear as rho * 32 codeword entries.
	minSize := 6*ckt.Config().HashSizeBits + 16*field.Goldilocks3.ElementBits()
	assert.Greater(t, size, minSize)

	// Halving the query count shrinks the proof.
	config := ziskMainConfig()
	config.NumQueries /= 2
	halved, err := config.Compile()
	assert.NoError(t, err)
	assert.Less(t, halved.ProofSizeBits(), size)
}
