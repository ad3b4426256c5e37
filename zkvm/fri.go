package zkvm

import (
	"fmt"
	"math"
	"strings"

	"github.com/sp301415/soundcalc/field"
	"github.com/sp301415/soundcalc/proxgaps"
	"github.com/sp301415/soundcalc/soundness"
)

// FRIConfig is the caller-supplied parameterization of a circuit whose
// polynomial commitment is FRI.
type FRIConfig struct {
	// Name is the name of the circuit.
	Name string

	// HashSizeBits is the output length, in bits, of the hash function used
	// for Merkle trees.
	HashSizeBits int

	// Rho is the code rate.
	Rho float64
	// TraceLength is the domain size before low-degree extension.
	TraceLength int
	// Field is the extension field the protocol operates in.
	Field field.Params

	// NumColumns is the total number of columns of the AIR table.
	NumColumns int
	// BatchSize is the number of functions appearing in batched FRI. It can
	// exceed NumColumns: some proof systems commit to additional segment
	// polynomials alongside the columns.
	BatchSize int
	// PowerBatching selects batching with coefficients r^0, r^1, ...,
	// r^{l-1} instead of independent coefficients 1, r_1, ..., r_{l-1}.
	PowerBatching bool

	// NumQueries is the number of FRI queries.
	NumQueries int
	// AIRMaxDegree is the maximum constraint degree.
	AIRMaxDegree int
	// MaxCombo is the maximum number of entries of a single column
	// referenced by a single constraint.
	MaxCombo int

	// FoldingFactors lists one folding factor per FRI commit round.
	FoldingFactors []int
	// EarlyStopDegree is the degree at which FRI folding stops. It must be
	// exactly the degree reached after applying every folding factor.
	EarlyStopDegree int

	// GrindingQueryPhase is the number of bits of proof-of-work grinding
	// applied to the query phase.
	GrindingQueryPhase int
}

// Compile validates the configuration and derives the read-only circuit.
// Every derived quantity is a deterministic function of the configuration.
func (c FRIConfig) Compile() (*FRICircuit, error) {
	if c.NumColumns > c.BatchSize {
		return nil, configError("NumColumns", fmt.Sprintf("at most BatchSize = %v", c.BatchSize), c.NumColumns)
	}
	if c.GrindingQueryPhase < 0 {
		return nil, configError("GrindingQueryPhase", "non-negative", c.GrindingQueryPhase)
	}

	domainSize := int(float64(c.TraceLength) / c.Rho)

	// Walk the folding schedule and check that it lands exactly on the
	// early stop degree.
	n := domainSize
	for _, factor := range c.FoldingFactors {
		n /= factor
	}
	if n != c.EarlyStopDegree {
		return nil, configError(
			"EarlyStopDegree",
			fmt.Sprintf("degree %v reached after %v folding rounds", n, len(c.FoldingFactors)),
			c.EarlyStopDegree,
		)
	}

	return &FRICircuit{
		config:     c,
		logInvRate: int(math.Round(-math.Log2(c.Rho))),
		logTrace:   int(math.Round(math.Log2(float64(c.TraceLength)))),
		domainSize: domainSize,
		rounds:     len(c.FoldingFactors),
		regimes:    proxgaps.ForField(c.Field),
	}, nil
}

// FRICircuit models a single circuit whose polynomial commitment is FRI.
// It is read-only after compilation.
type FRICircuit struct {
	config FRIConfig

	// logInvRate is k = -log2(rho).
	logInvRate int
	// logTrace is h = log2(TraceLength).
	logTrace int
	// domainSize is the domain size D after low-degree extension.
	domainSize int
	// rounds is the number of FRI folding rounds.
	rounds int

	regimes []proxgaps.Regime
}

// Name returns the name of the circuit.
func (ckt *FRICircuit) Name() string {
	return ckt.config.Name
}

// Rounds returns the number of FRI folding rounds.
func (ckt *FRICircuit) Rounds() int {
	return ckt.rounds
}

// Config returns the configuration this circuit was compiled from.
func (ckt *FRICircuit) Config() FRIConfig {
	return ckt.config
}

// ParameterSummary returns an aligned key-value description of the circuit,
// formatted to read well both on a console and inside a markdown report.
func (ckt *FRICircuit) ParameterSummary() string {
	params := [][2]string{
		{"name", ckt.config.Name},
		{"hash_size_bits", fmt.Sprint(ckt.config.HashSizeBits)},
		{"rho", fmt.Sprint(ckt.config.Rho)},
		{"k = -log2(rho)", fmt.Sprint(ckt.logInvRate)},
		{"trace_length", fmt.Sprint(ckt.config.TraceLength)},
		{"h = log2(trace_length)", fmt.Sprint(ckt.logTrace)},
		{"domain_size D = trace_length / rho", fmt.Sprint(ckt.domainSize)},
		{"num_columns", fmt.Sprint(ckt.config.NumColumns)},
		{"batch_size", fmt.Sprint(ckt.config.BatchSize)},
		{"power_batching", fmt.Sprint(ckt.config.PowerBatching)},
		{"num_queries", fmt.Sprint(ckt.config.NumQueries)},
		{"max_combo", fmt.Sprint(ckt.config.MaxCombo)},
		{"FRI_folding_factors", fmt.Sprint(ckt.config.FoldingFactors)},
		{"FRI_early_stop_degree", fmt.Sprint(ckt.config.EarlyStopDegree)},
		{"FRI_rounds_n", fmt.Sprint(ckt.rounds)},
		{"grinding_query_phase", fmt.Sprint(ckt.config.GrindingQueryPhase)},
		{"AIR_max_degree", fmt.Sprint(ckt.config.AIRMaxDegree)},
		{"field", ckt.config.Field.Name()},
		{"field_extension_degree", fmt.Sprint(ckt.config.Field.ExtensionDegree())},
	}

	keyWidth := 0
	for _, kv := range params {
		keyWidth = max(keyWidth, len(kv[0]))
	}

	var sb strings.Builder
	sb.WriteString("\n```\n")
	for _, kv := range params {
		fmt.Fprintf(&sb, "  %-*s : %s\n", keyWidth, kv[0], kv[1])
	}
	sb.WriteString("```")
	return sb.String()
}

// ProofSizeBits estimates the size of a BCS-transformed FRI proof in bits.
//
// The proof contains one Merkle root per committed function plus, for each
// query, one Merkle path per folding layer. Folding siblings are grouped in
// a single leaf, as they are always opened together.
func (ckt *FRICircuit) ProofSizeBits() int {
	elementBits := ckt.config.Field.ElementBits()
	hashBits := ckt.config.HashSizeBits

	size := 0

	// Initial round: one root for the whole batch, where leaf i holds
	// symbol i of every batched function, and one path per query.
	n := ckt.domainSize
	size += hashBits + ckt.config.NumQueries*soundness.MerklePathBits(n, ckt.config.BatchSize, elementBits, hashBits)

	// One root and one path per query for every folding round, at the
	// shrunken domain and with siblings grouped into one leaf.
	for _, factor := range ckt.config.FoldingFactors {
		numLeaves := n / factor
		size += hashBits + ckt.config.NumQueries*soundness.MerklePathBits(numLeaves, factor, elementBits, hashBits)
		n /= factor
	}

	// The final function is sent in the clear, as the coefficients of the
	// polynomial describing it.
	size += int(ckt.config.Rho * float64(n) * float64(elementBits))

	return size
}

// SecurityLevels returns the round-by-round soundness levels of the circuit
// under every regime, together with the best-known-attack level.
func (ckt *FRICircuit) SecurityLevels() SecurityLevels {
	regimes := make(map[string]Levels, len(ckt.regimes))
	for _, regime := range ckt.regimes {
		levels := ckt.levelsForRegime(regime)
		for label, level := range ckt.proofSystemLevels(regime) {
			levels[label] = level
		}

		total := math.MaxInt
		for _, level := range levels {
			total = min(total, level)
		}
		levels["total"] = total

		regimes[regime.Identifier()] = levels
	}

	bestAttack := bestAttackLevel(ckt.config.Field.Size(), ckt.config.Rho, ckt.config.NumQueries, ckt.config.GrindingQueryPhase)

	return SecurityLevels{Regimes: regimes, BestAttack: &bestAttack}
}

// levelsForRegime computes the FRI protocol levels: batching, one commit
// round per folding round, and the query phase.
func (ckt *FRICircuit) levelsForRegime(regime proxgaps.Regime) Levels {
	levels := Levels{}

	levels["batching"] = soundness.BitsOfSecurity(ckt.batchingError(regime))
	for round := 0; round < ckt.rounds; round++ {
		levels[fmt.Sprintf("commit round %d", round+1)] = soundness.BitsOfSecurity(ckt.commitRoundError(round, regime))
	}
	levels["query phase"] = soundness.BitsOfSecurity(ckt.queryPhaseError(regime))

	return levels
}

// batchingError returns the correlated agreement error of the batching step.
func (ckt *FRICircuit) batchingError(regime proxgaps.Regime) float64 {
	if ckt.config.PowerBatching {
		return regime.ErrorPowers(ckt.config.Rho, ckt.config.TraceLength, ckt.config.BatchSize)
	}
	return regime.ErrorLinear(ckt.config.Rho, ckt.config.TraceLength)
}

// commitRoundError returns the correlated agreement error of one round of
// the commit phase, at the dimension reached after the folding factors
// applied so far. The commit-phase polynomial is still treated as batched.
func (ckt *FRICircuit) commitRoundError(round int, regime proxgaps.Regime) float64 {
	dimension := ckt.config.TraceLength
	for i := 0; i <= round; i++ {
		dimension /= ckt.config.FoldingFactors[i]
	}
	return regime.ErrorPowers(ckt.config.Rho, dimension, ckt.config.BatchSize)
}

// queryPhaseError returns the error of the FRI query phase, including
// grinding. See the last term of Equation 7 in Theorem 2 of Ha22.
func (ckt *FRICircuit) queryPhaseError(regime proxgaps.Regime) float64 {
	delta := regime.ProximityParameter(ckt.config.Rho, ckt.config.TraceLength)
	err := math.Pow(1-delta, float64(ckt.config.NumQueries))
	return err * math.Exp2(-float64(ckt.config.GrindingQueryPhase))
}

// proofSystemLevels computes the ALI and DEEP error levels, added once per
// regime from that regime's list size. See Section 3.4 of the RISC0
// technical report.
func (ckt *FRICircuit) proofSystemLevels(regime proxgaps.Regime) Levels {
	listSize := regime.MaxListSize(ckt.config.Rho, ckt.config.TraceLength)
	fieldSize := ckt.config.Field.Size()
	trace := float64(ckt.config.TraceLength)

	errALI := listSize * float64(ckt.config.NumColumns) / fieldSize
	errDEEP := listSize *
		(float64(ckt.config.AIRMaxDegree)*(trace+float64(ckt.config.MaxCombo)-1) + (trace - 1)) /
		(fieldSize - trace - float64(ckt.domainSize))

	return Levels{
		"ALI":  soundness.BitsOfSecurity(errALI),
		"DEEP": soundness.BitsOfSecurity(errDEEP),
	}
}
