package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cesop-report/cesop/internal/config"
	"github.com/cesop-report/cesop/internal/scope"
)

// runAnalyze prints per-payee-group aggregates without rendering, the
// read-only counterpart spec §8's scenario 3 depends on ("counter still 40,
// verifiable via analyze output").
func runAnalyze(args []string, logger *zap.Logger) int {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	cfg := config.Defaults()
	bindCoreFlags(fs, cfg)
	fs.Usage = analyzeUsage
	_ = fs.Parse(args)

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

	fmt.Printf("%-10s %-20s %-8s %-8s %-8s %-8s %-8s\n", "psp_id", "payee_id", "country", "quarter", "counter", "verdict", "tainted")
	for _, g := range groups {
		fmt.Printf("%-10s %-20s %-8s Q%d/%d   %-8d %-15s %v\n",
			g.Key.ReportingPSPID, g.Key.PayeeID, g.Key.PayeeCountry,
			g.Key.Quarter.Quarter, g.Key.Quarter.Year, g.Counter, verdictName(g.Verdict), g.Tainted)
	}

	logger.Info("analyze complete",
		logField("input", cfg.Input),
		zap.Int("rows", len(rows)),
		zap.Int("groups", len(groups)),
		zap.Int("out_of_scope", engine.OutOfScope),
		zap.Int("unresolved_refunds", len(engine.UnresolvedRefunds)))

	return exitOK
}

func verdictName(v scope.Verdict) string {
	switch v {
	case scope.VerdictReportable:
		return "REPORTABLE"
	case scope.VerdictCountedOnly:
		return "COUNTED_ONLY"
	default:
		return "BELOW_THRESHOLD"
	}
}

func analyzeUsage() {
	fmt.Fprintf(os.Stderr, `Usage: cesop analyze --input <file> [--threshold N]

Computes per-payee-group aggregates (counter, verdict, taint) without
rendering XML.

Exit codes: 0 success, 2 I/O failure.
`)
}
