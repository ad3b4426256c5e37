// soundcalc estimates the concrete soundness and proof size of FRI- and
// WHIR-based proof systems.
//
// It analyzes a set of built-in proof systems (ZisK, Miden, RISC0 and a
// WHIR demonstration), plus any systems described in TOML configuration
// files, prints a console summary for each, and writes one markdown report
// per system.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/sp301415/soundcalc/config"
	"github.com/sp301415/soundcalc/logger"
	"github.com/sp301415/soundcalc/report"
	"github.com/sp301415/soundcalc/zkvm"
)

func main() {
	app := &cli.App{
		Name:  "soundcalc",
		Usage: "estimate concrete soundness of FRI- and WHIR-based proof systems",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "print-only",
				Usage: "only print the named proof systems to the console",
			},
			&cli.StringSliceFlag{
				Name:  "config",
				Usage: "additional TOML proof system configurations to analyze",
			},
			&cli.StringFlag{
				Name:  "reports-dir",
				Value: "reports",
				Usage: "directory for the markdown reports",
			},
			&cli.BoolFlag{
				Name:  "no-reports",
				Usage: "skip writing markdown reports",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log := logger.Logger()
		log.Fatal().Err(err).Msg("soundcalc failed")
	}
}

func run(c *cli.Context) error {
	vms := []*zkvm.VM{
		zkvm.ZiskVM(),
		zkvm.MidenVM(),
		zkvm.Risc0VM(),
		zkvm.DemoWHIRVM(),
	}

	for _, path := range c.StringSlice("config") {
		vm, err := config.Load(path)
		if err != nil {
			return err
		}
		vms = append(vms, vm)
	}

	printOnly := c.StringSlice("print-only")
	for _, vm := range vms {
		if len(printOnly) > 0 && !slices.Contains(printOnly, vm.Name()) {
			continue
		}
		report.PrintSummary(os.Stdout, vm)
	}

	if c.Bool("no-reports") {
		return nil
	}
	if err := report.WriteReports(c.String("reports-dir"), vms); err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}
	return nil
}
