package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cesop-report/cesop/internal/config"
	"github.com/cesop-report/cesop/internal/render"
	"github.com/cesop-report/cesop/internal/scope"
	"github.com/cesop-report/cesop/internal/uuidsrc"
)

func runRender(args []string, logger *zap.Logger) int {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	cfg := config.Defaults()
	cf := bindCoreFlags(fs, cfg)
	fs.Usage = renderUsage
	_ = fs.Parse(args)
	cf.applyLicensedCountries(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOFailure
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	rows, err := loadRows(cfg.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOFailure
	}

	engine := scope.NewEngine(cfg.Threshold)
	for _, row := range rows {
		engine.Process(row)
	}
	groups := engine.Finalize()

	partitioner := render.NewPartitioner(cfg)
	partitions := partitioner.Partition(groups)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("cesop: create output dir: %w", err))
		return exitIOFailure
	}

	src := uuidsrc.Default{}
	var written []string
	for _, p := range partitions {
		path, err := render.WriteFile(cfg.OutputDir, p, src)
		if err != nil {
			var invErr *render.InvariantError
			if errors.As(err, &invErr) {
				fmt.Fprintln(os.Stderr, invErr)
				return exitRenderInvariant
			}
			fmt.Fprintln(os.Stderr, err)
			return exitIOFailure
		}
		written = append(written, path)
		fmt.Println(path)
	}

	logger.Info("render complete",
		logField("input", cfg.Input),
		zap.Int("groups", len(groups)),
		zap.Int("partitions", len(partitions)),
		zap.Int("unresolved_refunds", len(engine.UnresolvedRefunds)))

	return exitOK
}

func renderUsage() {
	fmt.Fprintf(os.Stderr, `Usage: cesop render --input <file> --output-dir <dir> [--threshold N]
       [--transmitting-country <MS|auto>] [--licensed-countries <csv>]

Runs the full scope/threshold pipeline over a CSV file and emits one
CESOP PaymentData XML file per (reporting PSP, transmitting country,
quarter) partition.

Exit codes: 0 success, 2 I/O failure, 3 renderer invariant violation.
`)
}
