package zkvm

import (
	"fmt"
	"math"
	"strings"

	"github.com/sp301415/soundcalc/field"
	"github.com/sp301415/soundcalc/proxgaps"
	"github.com/sp301415/soundcalc/soundness"
)

// WHIRConfig is the caller-supplied parameterization of a circuit whose
// polynomial commitment is WHIR.
//
// A WHIR protocol run consists of NumIterations iterations, each made of
// FoldingFactor sumcheck rounds. In iteration i, the committed word is
// folded from 2^{m_i} down to 2^{m_i - FoldingFactor} coefficients.
type WHIRConfig struct {
	// Name is the name of the circuit.
	Name string

	// HashSizeBits is the output length, in bits, of the hash function used
	// for Merkle trees.
	HashSizeBits int

	// LogInvRate is log2(1/rate) of the initial code, e.g. 2 for rate 1/4.
	LogInvRate int
	// NumIterations is the number of WHIR iterations, denoted M.
	NumIterations int
	// FoldingFactor is the number of variables folded per iteration,
	// denoted k. It is the same for all iterations.
	FoldingFactor int

	// Field is the extension field the protocol operates in.
	Field field.Params

	// LogDegree is the log2 of the degree being tested, denoted m.
	LogDegree int

	// BatchSize is the number of functions checked in one go.
	BatchSize int
	// PowerBatching selects batching with coefficients r^0, r^1, ...,
	// r^{l-1} instead of independent coefficients 1, r_1, ..., r_{l-1}.
	PowerBatching bool
	// GrindingBitsBatching is the grinding applied to the batching round.
	GrindingBitsBatching int

	// ConstraintDegree is the degree d of the constraints proven on the
	// committed words, as in Construction 5.1. Note d = max{d*, 3}.
	ConstraintDegree int

	// GrindingBitsFolding holds one grinding allocation per sumcheck round,
	// shaped NumIterations x FoldingFactor.
	GrindingBitsFolding [][]int

	// NumQueries holds the number of queries per iteration, t_0 ... t_{M-1}.
	NumQueries []int
	// GrindingBitsQueries holds the grinding applied to each query round,
	// length NumIterations.
	GrindingBitsQueries []int

	// NumOODSamples holds the number of out-of-domain samples per
	// iteration, length NumIterations - 1.
	NumOODSamples []int
	// GrindingBitsOOD holds the grinding applied to each OOD round, length
	// NumIterations - 1.
	GrindingBitsOOD []int
}

// Compile validates the configuration and derives the read-only circuit.
// Every derived quantity is a deterministic function of the configuration.
func (c WHIRConfig) Compile() (*WHIRCircuit, error) {
	if c.ConstraintDegree < 3 {
		return nil, configError("ConstraintDegree", "at least 3", c.ConstraintDegree)
	}
	if c.BatchSize < 1 {
		return nil, configError("BatchSize", "at least 1", c.BatchSize)
	}
	if c.LogInvRate <= 0 {
		return nil, configError("LogInvRate", "positive", c.LogInvRate)
	}
	if c.FoldingFactor < 1 {
		return nil, configError("FoldingFactor", "at least 1", c.FoldingFactor)
	}
	if c.NumIterations < 1 {
		return nil, configError("NumIterations", "at least 1", c.NumIterations)
	}

	// There must be enough variables left to fold in every iteration.
	if c.NumIterations*c.FoldingFactor > c.LogDegree {
		return nil, configError(
			"LogDegree",
			fmt.Sprintf("at least NumIterations * FoldingFactor = %v", c.NumIterations*c.FoldingFactor),
			c.LogDegree,
		)
	}

	// The field must supply a smooth domain for the code reached after one
	// folding step.
	initialDomainLogSize := c.LogDegree + c.LogInvRate
	if !c.Field.SupportsDomain(initialDomainLogSize - c.FoldingFactor) {
		return nil, configError(
			"Field",
			fmt.Sprintf("two-adicity of at least %v", initialDomainLogSize-c.FoldingFactor),
			c.Field.TwoAdicity(),
		)
	}

	if len(c.NumOODSamples) != c.NumIterations-1 {
		return nil, configError("NumOODSamples", fmt.Sprintf("length %v", c.NumIterations-1), len(c.NumOODSamples))
	}
	if len(c.GrindingBitsOOD) != c.NumIterations-1 {
		return nil, configError("GrindingBitsOOD", fmt.Sprintf("length %v", c.NumIterations-1), len(c.GrindingBitsOOD))
	}
	if len(c.NumQueries) != c.NumIterations {
		return nil, configError("NumQueries", fmt.Sprintf("length %v", c.NumIterations), len(c.NumQueries))
	}
	if len(c.GrindingBitsQueries) != c.NumIterations {
		return nil, configError("GrindingBitsQueries", fmt.Sprintf("length %v", c.NumIterations), len(c.GrindingBitsQueries))
	}
	if len(c.GrindingBitsFolding) != c.NumIterations {
		return nil, configError("GrindingBitsFolding", fmt.Sprintf("length %v", c.NumIterations), len(c.GrindingBitsFolding))
	}
	for i, grindingBits := range c.GrindingBitsFolding {
		if len(grindingBits) != c.FoldingFactor {
			return nil, configError(
				fmt.Sprintf("GrindingBitsFolding[%v]", i),
				fmt.Sprintf("length %v", c.FoldingFactor),
				len(grindingBits),
			)
		}
	}

	if g := min(c.GrindingBitsBatching, minOf(c.GrindingBitsQueries), minOf(c.GrindingBitsOOD), minOfNested(c.GrindingBitsFolding)); g < 0 {
		return nil, configError("grinding bits", "non-negative", g)
	}

	// The log degrees are m_0, m_1 = m_0 - k, ..., m_M = m_0 - M*k.
	logDegrees := make([]int, c.NumIterations+1)
	for i := range logDegrees {
		logDegrees[i] = c.LogDegree - i*c.FoldingFactor
	}

	// The evaluation domains shrink by a factor of two per iteration, so
	// the log inverse rates grow by k - 1.
	logInvRates := make([]int, c.NumIterations+1)
	for i := range logInvRates {
		logInvRates[i] = c.LogInvRate + i*(c.FoldingFactor-1)
	}

	ckt := &WHIRCircuit{
		config:      c,
		logDegrees:  logDegrees,
		logInvRates: logInvRates,
		regimes:     proxgaps.ForField(c.Field),
	}
	ckt.logGrindingOverhead = ckt.computeLogGrindingOverhead()

	return ckt, nil
}

func minOf(values []int) int {
	m := math.MaxInt
	for _, v := range values {
		m = min(m, v)
	}
	return m
}

func minOfNested(values [][]int) int {
	m := math.MaxInt
	for _, vs := range values {
		m = min(m, minOf(vs))
	}
	return m
}

// WHIRCircuit models a single circuit whose polynomial commitment is WHIR.
// It is read-only after compilation.
type WHIRCircuit struct {
	config WHIRConfig

	// logDegrees holds m_0, ..., m_M.
	logDegrees []int
	// logInvRates holds log2(1/rate) for each iteration's code.
	logInvRates []int

	// logGrindingOverhead is the log2 of the total prover-side grinding
	// cost, i.e. of the sum of 2^bits over every grindable phase.
	logGrindingOverhead float64

	regimes []proxgaps.Regime
}

// Name returns the name of the circuit.
func (ckt *WHIRCircuit) Name() string {
	return ckt.config.Name
}

// Config returns the configuration this circuit was compiled from.
func (ckt *WHIRCircuit) Config() WHIRConfig {
	return ckt.config
}

// LogGrindingOverhead returns the log2 of the total grinding overhead to the
// prover time. This is a prover-side cost, not a security level.
func (ckt *WHIRCircuit) LogGrindingOverhead() float64 {
	return ckt.logGrindingOverhead
}

// ParameterSummary returns an aligned key-value description of the circuit,
// formatted to read well both on a console and inside a markdown report.
func (ckt *WHIRCircuit) ParameterSummary() string {
	params := [][2]string{
		{"name", ckt.config.Name},
		{"hash_size_bits", fmt.Sprint(ckt.config.HashSizeBits)},
		{"folding_factor", fmt.Sprint(ckt.config.FoldingFactor)},
		{"batch_size", fmt.Sprint(ckt.config.BatchSize)},
		{"power_batching", fmt.Sprint(ckt.config.PowerBatching)},
		{"grinding_bits_batching", fmt.Sprint(ckt.config.GrindingBitsBatching)},
		{"num_iterations", fmt.Sprint(ckt.config.NumIterations)},
		{"constraint_degree", fmt.Sprint(ckt.config.ConstraintDegree)},
		{"field", ckt.config.Field.Name()},
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
	sb.WriteString("\n  Per-round parameters:\n")
	fmt.Fprintf(&sb, "    log_degrees           : %v\n", ckt.logDegrees)
	fmt.Fprintf(&sb, "    log_inv_rates         : %v\n", ckt.logInvRates)
	fmt.Fprintf(&sb, "    num_queries           : %v\n", ckt.config.NumQueries)
	fmt.Fprintf(&sb, "    grinding_bits_queries : %v\n", ckt.config.GrindingBitsQueries)
	fmt.Fprintf(&sb, "    num_ood_samples       : %v\n", ckt.config.NumOODSamples)
	fmt.Fprintf(&sb, "    grinding_bits_ood     : %v\n", ckt.config.GrindingBitsOOD)
	fmt.Fprintf(&sb, "    grinding_bits_folding : %v\n", ckt.config.GrindingBitsFolding)
	fmt.Fprintf(&sb, "\n  Total grinding overhead (sum of 2^grinding_bits) = 2^(%v)\n", ckt.logGrindingOverhead)
	sb.WriteString("```")
	return sb.String()
}

// ProofSizeBits estimates the proof size in bits by counting prover
// messages: field elements are included directly, polynomials as coefficient
// vectors, functions as Merkle roots, and function evaluations as Merkle
// paths. Verifier messages come from Fiat-Shamir and do not count.
func (ckt *WHIRCircuit) ProofSizeBits() int {
	extElementBits := ckt.config.Field.ElementBits()
	baseElementBits := ckt.config.Field.BaseElementBits()
	hashBits := ckt.config.HashSizeBits

	// Each of the k sumcheck rounds of an iteration sends one univariate
	// polynomial of degree d, i.e. d + 1 coefficients.
	sumcheckBits := ckt.config.FoldingFactor * (ckt.config.ConstraintDegree + 1) * extElementBits

	// The initial function f_0 as a Merkle root, plus the initial sumcheck.
	size := hashBits
	size += sumcheckBits

	// Iterations i = 1, ..., M-1: one function, the OOD evaluations, and
	// the iteration's sumcheck.
	for i := 1; i < ckt.config.NumIterations; i++ {
		size += hashBits
		size += ckt.config.NumOODSamples[i-1] * extElementBits
		size += sumcheckBits
	}

	// The final polynomial is multilinear in m_M variables, i.e. it has
	// 2^{m_M} coefficients.
	size += (1 << ckt.logDegrees[ckt.config.NumIterations]) * extElementBits

	// Decision phase: each function f_0, ..., f_{M-1} is queried at t_i
	// blocks of folding siblings, with an entire block stored in one Merkle
	// leaf. Only f_0 holds base field elements.
	for i := 0; i < ckt.config.NumIterations; i++ {
		domainSize := 1 << (ckt.logDegrees[i] + ckt.logInvRates[i])
		blockSize := 1 << ckt.config.FoldingFactor

		elementBits := extElementBits
		if i == 0 {
			elementBits = baseElementBits
		}

		pathBits := soundness.MerklePathBits(domainSize/blockSize, blockSize, elementBits, hashBits)
		size += ckt.config.NumQueries[i] * pathBits
	}

	return size
}

// SecurityLevels returns the per-iteration soundness levels of the circuit
// under every regime.
func (ckt *WHIRCircuit) SecurityLevels() SecurityLevels {
	regimes := make(map[string]Levels, len(ckt.regimes))
	for _, regime := range ckt.regimes {
		regimes[regime.Identifier()] = ckt.levelsForRegime(regime)
	}
	return SecurityLevels{Regimes: regimes}
}

// levelsForRegime computes every WHIR error term for one regime, following
// Theorem 5.2: batching, then per-iteration fold, OOD and shift errors, and
// the final error.
func (ckt *WHIRCircuit) levelsForRegime(regime proxgaps.Regime) Levels {
	levels := Levels{}

	if ckt.config.BatchSize > 1 {
		levels["batching"] = soundness.BitsOfSecurity(ckt.batchingError(regime))
	}

	// The initial iteration only has fold errors.
	for round := 1; round <= ckt.config.FoldingFactor; round++ {
		levels[fmt.Sprintf("fold(i=0,s=%d)", round)] = soundness.BitsOfSecurity(ckt.foldError(0, round, regime))
	}

	for iteration := 1; iteration < ckt.config.NumIterations; iteration++ {
		levels[fmt.Sprintf("OOD(i=%d)", iteration)] = soundness.BitsOfSecurity(ckt.oodError(iteration, regime))
		levels[fmt.Sprintf("Shift(i=%d)", iteration)] = soundness.BitsOfSecurity(ckt.shiftError(iteration, regime))
		for round := 1; round <= ckt.config.FoldingFactor; round++ {
			levels[fmt.Sprintf("fold(i=%d,s=%d)", iteration, round)] = soundness.BitsOfSecurity(ckt.foldError(iteration, round, regime))
		}
	}

	levels["fin"] = soundness.BitsOfSecurity(ckt.finalError(regime))

	total := math.MaxInt
	for _, level := range levels {
		total = min(total, level)
	}
	levels["total"] = total

	return levels
}

// codeAt returns the rate and dimension of the code C_{i,s} of the given
// iteration 0 <= i <= M-1 and round 0 <= s <= k. Folding within an iteration
// shrinks the dimension but leaves the rate invariant.
func (ckt *WHIRCircuit) codeAt(iteration, round int) (rate float64, dimension int) {
	rate = math.Exp2(-float64(ckt.logInvRates[iteration]))
	dimension = 1 << (ckt.logDegrees[iteration] - round)
	return rate, dimension
}

// deltaAt returns delta_i, the largest proximity parameter supported by the
// regime on every code of the iteration. The iteration's soundness is
// governed by its weakest internal code.
func (ckt *WHIRCircuit) deltaAt(iteration int, regime proxgaps.Regime) float64 {
	delta := 1.0
	for round := 0; round <= ckt.config.FoldingFactor; round++ {
		rate, dimension := ckt.codeAt(iteration, round)
		delta = min(delta, regime.ProximityParameter(rate, dimension))
	}
	return delta
}

// listSizeAt returns ell_{i,s}, so that C_{i,s} is
// (delta_i, ell_{i,s})-list decodable.
func (ckt *WHIRCircuit) listSizeAt(iteration, round int, regime proxgaps.Regime) float64 {
	rate, dimension := ckt.codeAt(iteration, round)
	return regime.MaxListSize(rate, dimension)
}

// batchingError returns the error of the batching step, evaluated on the
// initial code C_{0,0}.
func (ckt *WHIRCircuit) batchingError(regime proxgaps.Regime) float64 {
	rate, dimension := ckt.codeAt(0, 0)

	var err float64
	if ckt.config.PowerBatching {
		err = regime.ErrorPowers(rate, dimension, ckt.config.BatchSize)
	} else {
		err = regime.ErrorLinear(rate, dimension)
	}

	return err * math.Exp2(-float64(ckt.config.GrindingBitsBatching))
}

// foldError returns epsilon^fold_{i,s} for 1 <= s <= k: the constraint-degree
// term plus the two-function proximity generator error on C_{i,s}.
func (ckt *WHIRCircuit) foldError(iteration, round int, regime proxgaps.Regime) float64 {
	err := float64(ckt.config.ConstraintDegree) * ckt.listSizeAt(iteration, round-1, regime) / ckt.config.Field.Size()

	rate, dimension := ckt.codeAt(iteration, round)
	err += regime.ErrorPowers(rate, dimension, 2)

	return err * math.Exp2(-float64(ckt.config.GrindingBitsFolding[iteration][round-1]))
}

// oodError returns epsilon^out_i for 1 <= i <= M-1. For w out-of-domain
// samples, the 2^{m_i} / (2F) factor is raised to the power w.
func (ckt *WHIRCircuit) oodError(iteration int, regime proxgaps.Regime) float64 {
	listSize := ckt.listSizeAt(iteration, 0, regime)
	mi := ckt.logDegrees[iteration]
	w := ckt.config.NumOODSamples[iteration-1]

	err := listSize * listSize * math.Pow(math.Exp2(float64(mi))/(2*ckt.config.Field.Size()), float64(w))

	return err * math.Exp2(-float64(ckt.config.GrindingBitsOOD[iteration-1]))
}

// shiftError returns epsilon^shift_i for 1 <= i <= M-1. Both terms depend on
// the number of queries t_{i-1} into the previous iteration's function.
func (ckt *WHIRCircuit) shiftError(iteration int, regime proxgaps.Regime) float64 {
	t := ckt.config.NumQueries[iteration-1]

	delta := ckt.deltaAt(iteration-1, regime)
	err := math.Pow(1-delta, float64(t))
	err += ckt.listSizeAt(iteration, 0, regime) * float64(t+1) / ckt.config.Field.Size()

	return err * math.Exp2(-float64(ckt.config.GrindingBitsQueries[iteration-1]))
}

// finalError returns epsilon^fin, the error of the queries into the last
// function.
func (ckt *WHIRCircuit) finalError(regime proxgaps.Regime) float64 {
	last := ckt.config.NumIterations - 1

	delta := ckt.deltaAt(last, regime)
	if delta <= 0 || delta >= 1 {
		panic(fmt.Sprintf("zkvm: degenerate final proximity parameter %v", delta))
	}

	err := math.Pow(1-delta, float64(ckt.config.NumQueries[last]))
	return err * math.Exp2(-float64(ckt.config.GrindingBitsQueries[last]))
}

// computeLogGrindingOverhead sums the prover cost 2^bits of every grindable
// phase and returns the log2 of the sum, rounded to two decimals.
func (ckt *WHIRCircuit) computeLogGrindingOverhead() float64 {
	sum := math.Exp2(float64(ckt.config.GrindingBitsBatching))
	for _, g := range ckt.config.GrindingBitsQueries {
		sum += math.Exp2(float64(g))
	}
	for _, g := range ckt.config.GrindingBitsOOD {
		sum += math.Exp2(float64(g))
	}
	for _, gs := range ckt.config.GrindingBitsFolding {
		for _, g := range gs {
			sum += math.Exp2(float64(g))
		}
	}
	return math.Round(math.Log2(sum)*100) / 100
}
