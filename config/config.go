// Package config loads proof system configurations from TOML files.
//
// A configuration file describes one proof system: its name and any number
// of FRI- and WHIR-based circuit tables. Field presets are referenced by
// their stable keys, e.g. "Goldilocks^2" or "BabyBear^5".
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/sp301415/soundcalc/field"
	"github.com/sp301415/soundcalc/zkvm"
)

// VMConfig is the TOML layout of one proof system.
type VMConfig struct {
	Name string `toml:"name"`

	FRI  []FRICircuitConfig  `toml:"fri"`
	WHIR []WHIRCircuitConfig `toml:"whir"`
}

// FRICircuitConfig is the TOML layout of one FRI-based circuit.
type FRICircuitConfig struct {
	Name  string `toml:"name"`
	Field string `toml:"field"`

	HashSizeBits int `toml:"hash_size_bits"`

	// LogInvRate is log2(1/rho).
	LogInvRate  int `toml:"log_inv_rate"`
	TraceLength int `toml:"trace_length"`

	NumColumns    int  `toml:"num_columns"`
	BatchSize     int  `toml:"batch_size"`
	PowerBatching bool `toml:"power_batching"`

	NumQueries   int `toml:"num_queries"`
	AIRMaxDegree int `toml:"air_max_degree"`
	MaxCombo     int `toml:"max_combo"`

	FoldingFactors  []int `toml:"folding_factors"`
	EarlyStopDegree int   `toml:"early_stop_degree"`

	GrindingQueryPhase int `toml:"grinding_query_phase"`
}

// WHIRCircuitConfig is the TOML layout of one WHIR-based circuit.
type WHIRCircuitConfig struct {
	Name  string `toml:"name"`
	Field string `toml:"field"`

	HashSizeBits int `toml:"hash_size_bits"`

	LogInvRate    int `toml:"log_inv_rate"`
	NumIterations int `toml:"num_iterations"`
	FoldingFactor int `toml:"folding_factor"`
	LogDegree     int `toml:"log_degree"`

	BatchSize            int  `toml:"batch_size"`
	PowerBatching        bool `toml:"power_batching"`
	GrindingBitsBatching int  `toml:"grinding_bits_batching"`

	ConstraintDegree    int     `toml:"constraint_degree"`
	GrindingBitsFolding [][]int `toml:"grinding_bits_folding"`

	NumQueries          []int `toml:"num_queries"`
	GrindingBitsQueries []int `toml:"grinding_bits_queries"`

	NumOODSamples   []int `toml:"num_ood_samples"`
	GrindingBitsOOD []int `toml:"grinding_bits_ood"`
}

// Load reads a proof system configuration from a TOML file and compiles
// every circuit in it.
func Load(path string) (*zkvm.VM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg VMConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg.Compile()
}

// Compile resolves field presets and compiles every circuit of this
// configuration into a VM.
func (c VMConfig) Compile() (*zkvm.VM, error) {
	circuits := make([]zkvm.Circuit, 0, len(c.FRI)+len(c.WHIR))

	for _, circuitCfg := range c.FRI {
		ckt, err := circuitCfg.Compile()
		if err != nil {
			return nil, fmt.Errorf("config: circuit %q: %w", circuitCfg.Name, err)
		}
		circuits = append(circuits, ckt)
	}
	for _, circuitCfg := range c.WHIR {
		ckt, err := circuitCfg.Compile()
		if err != nil {
			return nil, fmt.Errorf("config: circuit %q: %w", circuitCfg.Name, err)
		}
		circuits = append(circuits, ckt)
	}

	return zkvm.NewVM(c.Name, circuits...), nil
}

// Compile resolves the field preset and compiles the circuit.
func (c FRICircuitConfig) Compile() (*zkvm.FRICircuit, error) {
	fieldParams, err := field.Parse(c.Field)
	if err != nil {
		return nil, err
	}

	return zkvm.FRIConfig{
		Name:               c.Name,
		HashSizeBits:       c.HashSizeBits,
		Rho:                1 / float64(int(1)<<c.LogInvRate),
		TraceLength:        c.TraceLength,
		Field:              fieldParams,
		NumColumns:         c.NumColumns,
		BatchSize:          c.BatchSize,
		PowerBatching:      c.PowerBatching,
		NumQueries:         c.NumQueries,
		AIRMaxDegree:       c.AIRMaxDegree,
		MaxCombo:           c.MaxCombo,
		FoldingFactors:     c.FoldingFactors,
		EarlyStopDegree:    c.EarlyStopDegree,
		GrindingQueryPhase: c.GrindingQueryPhase,
	}.Compile()
}

// Compile resolves the field preset and compiles the circuit.
func (c WHIRCircuitConfig) Compile() (*zkvm.WHIRCircuit, error) {
	fieldParams, err := field.Parse(c.Field)
	if err != nil {
		return nil, err
	}

	return zkvm.WHIRConfig{
		Name:                 c.Name,
		HashSizeBits:         c.HashSizeBits,
		LogInvRate:           c.LogInvRate,
		NumIterations:        c.NumIterations,
		FoldingFactor:        c.FoldingFactor,
		Field:                fieldParams,
		LogDegree:            c.LogDegree,
		BatchSize:            c.BatchSize,
		PowerBatching:        c.PowerBatching,
		GrindingBitsBatching: c.GrindingBitsBatching,
		ConstraintDegree:     c.ConstraintDegree,
		GrindingBitsFolding:  c.GrindingBitsFolding,
		NumQueries:           c.NumQueries,
		GrindingBitsQueries:  c.GrindingBitsQueries,
		NumOODSamples:        c.NumOODSamples,
		GrindingBitsOOD:      c.GrindingBitsOOD,
	}.Compile()
}
