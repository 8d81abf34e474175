package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cesop-report/cesop/internal/config"
	"github.com/cesop-report/cesop/internal/ingest"
	"github.com/cesop-report/cesop/internal/preflight"
)

func runPreflight(args []string, logger *zap.Logger) int {
	fs := flag.NewFlagSet("preflight", flag.ExitOnError)
	cfg := config.Defaults()
	bindCoreFlags(fs, cfg)
	fs.Usage = preflightUsage
	_ = fs.Parse(args)

	rows, err := loadRows(cfg.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOFailure
	}

	report := runPreflightChecks(rows)

	if err := writeIssueReport(cfg.Output, report); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOFailure
	}

	logger.Info("preflight complete",
		logField("input", cfg.Input),
		zap.Int("rows", len(rows)),
		zap.Int("errors", len(report.Errors())),
		zap.Int("warnings", len(report.Warnings())))

	for _, issue := range report.Issues() {
		fmt.Printf("%s %s [%s/%s] %s\n", issue.Severity, issue.RowID, issue.Rule.Code, issue.Field, issue.Message)
	}

	if report.HasErrors() {
		return exitPreflightError
	}
	return exitOK
}

// runPreflightChecks applies C5's row-level, payee-structural, and
// payee-group rules (including the folded-account primary-selection check)
// plus the unresolved-refund check, mirroring the two-independent-passes
// shape spec §9 recommends: one pass over rows, one pass over the distinct
// payee IDs seen.
func runPreflightChecks(rows []ingest.Row) *preflight.Report {
	v := preflight.NewValidator()
	seenPayees := make(map[string]bool)
	knownPayments := make(map[string]bool)

	for _, row := range rows {
		v.CheckRow(row)
		if !row.IsRefund && row.PaymentID != "" {
			knownPayments[row.PaymentID] = true
		}
		seenPayees[row.PayeeID] = true
	}

	for _, row := range rows {
		if row.IsRefund && (row.OriginalPaymentID == "" || !knownPayments[row.OriginalPaymentID]) {
			v.CheckUnresolvedRefund(row)
		}
	}

	for payeeID := range seenPayees {
		if payeeID != "" {
			v.CheckPayeeGroupName(payeeID)
			v.CheckPayeeAccounts(payeeID)
		}
	}

	return v.Report()
}

// writeIssueReport writes the issue list as CSV to path; it writes nothing
// when path is empty.
func writeIssueReport(path string, report *preflight.Report) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cesop: open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"severity", "row_id", "field", "rule_code", "message"}); err != nil {
		return err
	}
	for _, issue := range report.Issues() {
		if err := w.Write([]string{string(issue.Severity), issue.RowID, issue.Field, issue.Rule.Code, issue.Message}); err != nil {
			return err
		}
	}
	return nil
}

func preflightUsage() {
	fmt.Fprintf(os.Stderr, `Usage: cesop preflight --input <file> [--output <issues.csv>]

Validates a CSV file against the row-level, payee-structural, and
payee-group rules of the CESOP reporting regime, printing each issue and
optionally writing them as CSV.

Exit codes: 0 no errors, 1 at least one ERROR-severity issue, 2 I/O failure.
`)
}
