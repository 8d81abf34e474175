package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/cesop-report/cesop/internal/config"
	"github.com/cesop-report/cesop/internal/corrector"
	"github.com/cesop-report/cesop/internal/ingest"
)

// correctedColumns is the CSV header written by writeCorrectedCSV, matching
// every column ingest.Reader knows how to read back in.
var correctedColumns = []string{
	"payment_id", "execution_time", "amount", "currency", "payer_country",
	"payer_ms_source", "payee_country", "payee_id", "payee_name",
	"payee_account_id", "payee_account_type", "payee_psp_id", "payee_tax",
	"payee_vat", "payee_address", "payee_email", "payee_web",
	"payment_method", "physical_premises", "is_refund", "corr_payment_id",
	"psp_id", "psp_name", "psp_role",
}

func runCorrect(args []string, logger *zap.Logger) int {
	fs := flag.NewFlagSet("correct", flag.ExitOnError)
	cfg := config.Defaults()
	bindCoreFlags(fs, cfg)
	fs.Usage = correctUsage
	_ = fs.Parse(args)

	rows, err := loadRows(cfg.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOFailure
	}

	c := corrector.New()
	corrected, diffs := c.Correct(rows)

	if err := writeCorrectedCSV(cfg.Output, corrected); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOFailure
	}

	report := runPreflightChecks(corrected)

	logger.Info("correct complete",
		logField("input", cfg.Input),
		zap.Int("input_rows", len(rows)),
		zap.Int("output_rows", len(corrected)),
		zap.Int("diffs", len(diffs)),
		zap.Int("residual_errors", len(report.Errors())))

	for _, d := range diffs {
		fmt.Printf("%s %s: %q -> %q [%s]\n", d.RowID, d.Field, d.Before, d.After, d.RuleCode)
	}

	if report.HasErrors() {
		fmt.Fprintf(os.Stderr, "cesop: corrector left %d residual preflight error(s)\n", len(report.Errors()))
		return exitPreflightError
	}
	return exitOK
}

// writeCorrectedCSV writes rows back out in the same column shape ingest.Reader
// expects, so correct's output can be fed straight into render or preflight.
func writeCorrectedCSV(path string, rows []ingest.Row) error {
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
	if err := w.Write(correctedColumns); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.PaymentID, r.ExecutionTime.UTC().Format("2006-01-02T15:04:05Z07:00"), r.Amount, r.Currency, r.PayerCountry,
			string(r.PayerMSSource), r.PayeeCountry, r.PayeeID, r.PayeeName,
			r.PayeeAccountID, string(r.PayeeAccountType), r.PayeePSPID, r.PayeeTax,
			r.PayeeVAT, r.PayeeAddress, r.PayeeEMail, r.PayeeWeb,
			r.PaymentMethod, strconv.FormatBool(r.PhysicalPremises), strconv.FormatBool(r.IsRefund), r.OriginalPaymentID,
			r.ReportingPSPID, r.ReportingPSPName, string(r.ReportingPSPRole),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func correctUsage() {
	fmt.Fprintf(os.Stderr, `Usage: cesop correct --input <file> [--output <corrected.csv>]

Applies the nine deterministic repair rules of the corrector to a CSV file
and prints the diff log. Guarantees re-running preflight on the output
yields zero ERRORs, or reports the residual errors.

Exit codes: 0 success, 1 residual preflight errors remain, 2 I/O failure.
`)
}
