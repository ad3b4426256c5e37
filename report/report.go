// Package report renders markdown reports and console summaries for analyzed
// proof systems.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuneinsight/lattigo/v6/utils"

	"github.com/sp301415/soundcalc/logger"
	"github.com/sp301415/soundcalc/soundness"
	"github.com/sp301415/soundcalc/zkvm"
)

// commitRoundPrefix identifies the per-round commit phase columns of
// FRI-based circuits, which often share one value and can be collapsed.
const commitRoundPrefix = "commit round "

// BuildVMReport renders a markdown report for one proof system. With
// multiCircuit set, every circuit is inlined as its own section; otherwise
// only the first circuit is reported.
func BuildVMReport(vm *zkvm.VM, multiCircuit bool) string {
	var lines []string
	lines = append(lines,
		fmt.Sprintf("# 📊 %s", vm.Name()),
		"",
		"How to read this report:",
		"- Table rows correspond to security regimes",
		"- Table columns correspond to proof system components",
		"- Cells show bits of security per component",
		"- Proof size estimate is only indicative",
		"",
	)

	circuits := vm.Circuits()

	if multiCircuit && len(circuits) > 1 {
		lines = append(lines, "## Circuits", "")
		for _, ckt := range circuits {
			anchor := strings.ToLower(strings.ReplaceAll(ckt.Name(), " ", "-"))
			lines = append(lines, fmt.Sprintf("- [%s](#%s)", ckt.Name(), anchor))
		}
		lines = append(lines, "")

		for _, ckt := range circuits {
			lines = append(lines, fmt.Sprintf("## %s", ckt.Name()), "")
			lines = append(lines, circuitSection(ckt)...)
		}
	} else if len(circuits) > 0 {
		lines = append(lines, circuitSection(circuits[0])...)
	} else {
		lines = append(lines, "No circuits available.")
	}

	return strings.Join(lines, "\n")
}

func circuitSection(ckt zkvm.Circuit) []string {
	var lines []string

	lines = append(lines, "**Parameters:**")
	lines = append(lines, parameterLines(ckt)...)
	lines = append(lines, "")

	proofSizeKiB := ckt.ProofSizeBits() / soundness.KiB
	lines = append(lines, fmt.Sprintf("**Proof Size Estimate:** %d KiB, where 1 KiB = 1024 bytes", proofSizeKiB), "")

	lines = append(lines, securityTable(ckt.SecurityLevels()), "")
	return lines
}

func parameterLines(ckt zkvm.Circuit) []string {
	switch c := ckt.(type) {
	case *zkvm.FRICircuit:
		return friParameterLines(c)
	case *zkvm.WHIRCircuit:
		return whirParameterLines(c)
	default:
		return []string{"- Polynomial commitment scheme: Unknown"}
	}
}

func friParameterLines(ckt *zkvm.FRICircuit) []string {
	cfg := ckt.Config()
	batching := "Affine"
	if cfg.PowerBatching {
		batching = "Powers"
	}
	return []string{
		"- Polynomial commitment scheme: FRI",
		fmt.Sprintf("- Hash size (bits): %d", cfg.HashSizeBits),
		fmt.Sprintf("- Number of queries: %d", cfg.NumQueries),
		fmt.Sprintf("- Grinding (bits): %d", cfg.GrindingQueryPhase),
		fmt.Sprintf("- Field: %s", cfg.Field.Name()),
		fmt.Sprintf("- Rate (ρ): %v", cfg.Rho),
		fmt.Sprintf("- Trace length (H): $2^{%d}$", int(math.Round(math.Log2(float64(cfg.TraceLength))))),
		fmt.Sprintf("- FRI rounds: %d", ckt.Rounds()),
		fmt.Sprintf("- FRI folding factors: %v", cfg.FoldingFactors),
		fmt.Sprintf("- FRI early stop degree: %d", cfg.EarlyStopDegree),
		fmt.Sprintf("- Batching: %s", batching),
	}
}

func whirParameterLines(ckt *zkvm.WHIRCircuit) []string {
	cfg := ckt.Config()
	batching := "Affine"
	if cfg.PowerBatching {
		batching = "Powers"
	}
	return []string{
		"- Polynomial commitment scheme: WHIR",
		fmt.Sprintf("- Hash size (bits): %d", cfg.HashSizeBits),
		fmt.Sprintf("- Field: %s", cfg.Field.Name()),
		fmt.Sprintf("- Iterations (M): %d", cfg.NumIterations),
		fmt.Sprintf("- Folding factor (k): %d", cfg.FoldingFactor),
		fmt.Sprintf("- Constraint degree: %d", cfg.ConstraintDegree),
		fmt.Sprintf("- Batch size: %d", cfg.BatchSize),
		fmt.Sprintf("- Batching: %s", batching),
		fmt.Sprintf("- Queries per iteration: %v", cfg.NumQueries),
		fmt.Sprintf("- OOD samples per iteration: %v", cfg.NumOODSamples),
		fmt.Sprintf("- Total grinding overhead log2: %v", ckt.LogGrindingOverhead()),
	}
}

// securityTable builds the markdown regime-by-phase table. Column order is
// deterministic: "total" first, the remaining phases sorted.
func securityTable(levels zkvm.SecurityLevels) string {
	regimeIDs := utils.GetSortedKeys(levels.Regimes)

	// Copy so that collapsing does not touch the caller's data.
	rows := make(map[string]zkvm.Levels, len(levels.Regimes))
	columnSet := make(map[string]bool)
	for _, id := range regimeIDs {
		row := zkvm.Levels{}
		for label, level := range levels.Regimes[id] {
			row[label] = level
			columnSet[label] = true
		}
		rows[id] = row
	}

	columns := []string{"regime"}
	if columnSet["total"] {
		columns = append(columns, "total")
		delete(columnSet, "total")
	}
	columns = append(columns, utils.GetSortedKeys(columnSet)...)

	columns = collapseCommitRounds(columns, regimeIDs, rows)

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(columns)) + "\n")

	for _, id := range regimeIDs {
		cells := []string{id}
		for _, col := range columns[1:] {
			if level, ok := rows[id][col]; ok {
				cells = append(cells, fmt.Sprint(level))
			} else {
				cells = append(cells, "—")
			}
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	// The best attack level is a single number; it sits under "total".
	if levels.BestAttack != nil {
		cells := []string{"best attack"}
		for _, col := range columns[1:] {
			if col == "total" {
				cells = append(cells, fmt.Sprint(*levels.BestAttack))
			} else {
				cells = append(cells, "—")
			}
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return sb.String()
}

// collapseCommitRounds merges the per-round commit phase columns into one
// when every regime carries a single value across them, which is the common
// case whenever the regime error does not depend on the round dimension.
func collapseCommitRounds(columns []string, regimeIDs []string, rows map[string]zkvm.Levels) []string {
	var commitColumns []string
	firstIdx := -1
	for i, col := range columns {
		if strings.HasPrefix(col, commitRoundPrefix) {
			if firstIdx < 0 {
				firstIdx = i
			}
			commitColumns = append(commitColumns, col)
		}
	}
	if len(commitColumns) <= 1 {
		return columns
	}

	for _, id := range regimeIDs {
		first, hasFirst := rows[id][commitColumns[0]]
		for _, col := range commitColumns[1:] {
			if level, ok := rows[id][col]; ok && (!hasFirst || level != first) {
				return columns
			}
		}
	}

	merged := fmt.Sprintf("commit rounds (×%d)", len(commitColumns))
	for _, id := range regimeIDs {
		if level, ok := rows[id][commitColumns[0]]; ok {
			rows[id][merged] = level
		}
	}

	collapsed := make([]string, 0, len(columns)-len(commitColumns)+1)
	for i, col := range columns {
		if i == firstIdx {
			collapsed = append(collapsed, merged)
		}
		if strings.HasPrefix(col, commitRoundPrefix) {
			continue
		}
		collapsed = append(collapsed, col)
	}
	return collapsed
}

// WriteReports writes one markdown report per proof system into dir,
// creating it if needed. Systems with more than one circuit get the
// multi-circuit inline layout.
func WriteReports(dir string, vms []*zkvm.VM) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create %s: %w", dir, err)
	}

	log := logger.Logger()
	for _, vm := range vms {
		md := BuildVMReport(vm, len(vm.Circuits()) > 1)
		name := strings.ToLower(strings.ReplaceAll(vm.Name(), " ", "_")) + ".md"
		path := filepath.Join(dir, name)

		if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
			return fmt.Errorf("report: write %s: %w", path, err)
		}
		log.Info().Str("path", path).Msg("wrote report")
	}
	return nil
}

// PrintSummary prints a console summary of a proof system and its circuits.
func PrintSummary(w io.Writer, vm *zkvm.VM) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "#############################################")
	fmt.Fprintf(w, "#  zkVM: %s\n", vm.Name())
	fmt.Fprintln(w, "#############################################")

	circuits := vm.Circuits()
	if len(circuits) == 1 {
		fmt.Fprintln(w)
		printCircuitSummary(w, circuits[0])
	} else {
		for _, ckt := range circuits {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "--- Circuit: %s ---\n", ckt.Name())
			fmt.Fprintln(w)
			printCircuitSummary(w, ckt)
		}
	}
	fmt.Fprint(w, "\n\n\n")
}

func printCircuitSummary(w io.Writer, ckt zkvm.Circuit) {
	fmt.Fprintf(w, "proof size estimate: %d KiB, where 1 KiB = 1024 bytes\n\n", ckt.ProofSizeBits()/soundness.KiB)
	fmt.Fprintf(w, "parameters: \n %s\n\n", ckt.ParameterSummary())

	levelsJSON, err := json.MarshalIndent(ckt.SecurityLevels(), "", "    ")
	if err != nil {
		fmt.Fprintf(w, "security levels (rbr): <error: %v>\n", err)
		return
	}
	fmt.Fprintf(w, "security levels (rbr): \n %s\n", levelsJSON)
}
