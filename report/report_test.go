package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sp301415/soundcalc/report"
	"github.com/sp301415/soundcalc/zkvm"
)

// stubCircuit is a minimal Circuit with fixed levels, for exercising the
// table layout without a full soundness computation.
type stubCircuit struct {
	name   string
	levels zkvm.SecurityLevels
}

func (c stubCircuit) Name() string                        { return c.name }
func (c stubCircuit) ParameterSummary() string            { return "stub parameters" }
func (c stubCircuit) ProofSizeBits() int                  { return 100 * 1024 * 8 }
func (c stubCircuit) SecurityLevels() zkvm.SecurityLevels { return c.levels }

func TestBuildVMReport(t *testing.T) {
	t.Run("SingleCircuit", func(t *testing.T) {
		md := report.BuildVMReport(zkvm.MidenVM(), false)

		assert.True(t, strings.HasPrefix(md, "# 📊 Miden"))
		assert.Contains(t, md, "Polynomial commitment scheme: FRI")
		assert.Contains(t, md, "**Proof Size Estimate:**")
		assert.Contains(t, md, "| regime | total |")
		assert.Contains(t, md, "| best attack |")
		assert.NotContains(t, md, "## Circuits")
	})

	t.Run("MultiCircuit", func(t *testing.T) {
		md := report.BuildVMReport(zkvm.ZiskVM(), true)

		assert.Contains(t, md, "## Circuits")
		assert.Contains(t, md, "- [Main](#main)")
		assert.Contains(t, md, "## Recursive2")
	})

	t.Run("WHIRCircuit", func(t *testing.T) {
		md := report.BuildVMReport(zkvm.DemoWHIRVM(), false)

		assert.Contains(t, md, "Polynomial commitment scheme: WHIR")
		assert.Contains(t, md, "| fin |")
		assert.NotContains(t, md, "| best attack |")
	})

	t.Run("Empty", func(t *testing.T) {
		md := report.BuildVMReport(zkvm.NewVM("Empty"), false)
		assert.Contains(t, md, "No circuits available.")
	})
}

func TestSecurityTableLayout(t *testing.T) {
	t.Run("CollapsedCommitRounds", func(t *testing.T) {
		vm := zkvm.NewVM("collapsed", stubCircuit{
			name: "c",
			levels: zkvm.SecurityLevels{Regimes: map[string]zkvm.Levels{
				"UDR": {"batching": 40, "commit round 1": 50, "commit round 2": 50, "total": 40},
				"JBR": {"batching": 90, "commit round 1": 97, "commit round 2": 97, "total": 90},
			}},
		})

		md := report.BuildVMReport(vm, false)
		assert.Contains(t, md, "commit rounds (×2)")
		assert.NotContains(t, md, "commit round 1")
	})

	t.Run("DistinctCommitRounds", func(t *testing.T) {
		vm := zkvm.NewVM("distinct", stubCircuit{
			name: "c",
			levels: zkvm.SecurityLevels{Regimes: map[string]zkvm.Levels{
				"UDR": {"commit round 1": 50, "commit round 2": 51, "total": 50},
			}},
		})

		md := report.BuildVMReport(vm, false)
		assert.Contains(t, md, "commit round 1")
		assert.Contains(t, md, "commit round 2")
		assert.NotContains(t, md, "commit rounds (×2)")
	})

	t.Run("MissingCellsAreDashed", func(t *testing.T) {
		vm := zkvm.NewVM("ragged", stubCircuit{
			name: "c",
			levels: zkvm.SecurityLevels{Regimes: map[string]zkvm.Levels{
				"UDR": {"batching": 40, "total": 40},
				"JBR": {"batching": 90, "fin": 95, "total": 90},
			}},
		})

		md := report.BuildVMReport(vm, false)
		assert.Contains(t, md, "| UDR | 40 | 40 | — |")
		assert.Contains(t, md, "| JBR | 90 | 90 | 95 |")
	})
}

func TestWriteReports(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	vms := []*zkvm.VM{zkvm.MidenVM(), zkvm.Risc0VM()}

	assert.NoError(t, report.WriteReports(dir, vms))

	for _, name := range []string{"miden.md", "risc0.md"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		assert.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}

func TestPrintSummary(t *testing.T) {
	var sb strings.Builder
	report.PrintSummary(&sb, zkvm.DemoWHIRVM())

	out := sb.String()
	assert.Contains(t, out, "zkVM: DemoWHIR")
	assert.Contains(t, out, "proof size estimate:")
	assert.Contains(t, out, `"UDR"`)
	assert.Contains(t, out, `"total"`)
}
