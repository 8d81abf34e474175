package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cesop-report/cesop/internal/config"
)

// runGenerate writes a synthetic PSP CSV fixture exercising these boundary
// cases of spec §8: threshold 25/26, payer-PSP + EU-payee-PSP (counted-only),
// payer-PSP + non-EU-payee-PSP (emitted), missing-account + valid-payee-PSP,
// and a refund-linking group. It emits no payee spread across two Member
// States and no payee with two accounts in one Member State. original_source/ contributed no surviving fixture
// file (0 files per its _INDEX.md), so this shape is this implementation's
// own design.
func runGenerate(args []string, logger *zap.Logger) int {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	cfg := config.Defaults()
	bindCoreFlags(fs, cfg)
	fs.Usage = generateUsage
	_ = fs.Parse(args)

	if cfg.Output == "" {
		cfg.Output = "fixture.csv"
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("cesop: create %s: %w", cfg.Output, err))
		return exitIOFailure
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	_ = w.Write(correctedColumns)

	base := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	n := 0
	emit := func(paymentID, execTime, amount, currency, payerCountry, msSource,
		payeeCountry, payeeID, payeeName, accountID, accountType, pspBIC, tax, vat, addr, email, web,
		method string, physical, refund bool, corrID, reportingPSP, pspName, pspRole string) {
		n++
		_ = w.Write([]string{
			paymentID, execTime, amount, currency, payerCountry, msSource, payeeCountry, payeeID, payeeName,
			accountID, accountType, pspBIC, tax, vat, addr, email, web,
			method, fmt.Sprintf("%t", physical), fmt.Sprintf("%t", refund), corrID,
			reportingPSP, pspName, pspRole,
		})
	}

	// Scenario 1: 26 identical cross-border payments FR -> DE, over threshold.
	for i := 0; i < 26; i++ {
		t := base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		emit(fmt.Sprintf("P1-%03d", i), t, "150.00", "EUR", "FR", "IBAN",
			"DE", "PAYEE-DE-1", "Muster GmbH", "DE89370400440532013000", "IBAN", "", "", "", "", "", "",
			"TRANSFER", false, false, "", "AFBQBGKT", "Alpha Bank", "PAYEE")
	}

	// Scenario 2: 25 payments, at threshold, below reportability.
	for i := 0; i < 25; i++ {
		t := base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		emit(fmt.Sprintf("P2-%03d", i), t, "80.00", "EUR", "FR", "IBAN",
			"IT", "PAYEE-IT-1", "Rossi SRL", "IT60X0542811101000000123456", "IBAN", "", "", "", "", "", "",
			"TRANSFER", false, false, "", "AFBQBGKT", "Alpha Bank", "PAYEE")
	}

	// Scenario 3: mixed payments + refunds, counter=30, 5 linked refunds.
	for i := 0; i < 30; i++ {
		t := base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		emit(fmt.Sprintf("P3-%03d", i), t, "42.50", "EUR", "ES", "BIC",
			"PT", "PAYEE-PT-1", "Lisboa Lda", "", "", "BANKPTPT", "", "", "", "", "",
			"CARD", true, false, "", "AFBQBGKT", "Alpha Bank", "PAYEE")
	}
	if cfg.IncludeRefunds {
		for i := 0; i < 5; i++ {
			t := base.Add(time.Duration(30+i) * time.Hour).Format(time.RFC3339)
			emit(fmt.Sprintf("R3-%03d", i), t, "42.50", "EUR", "ES", "BIC",
				"PT", "PAYEE-PT-1", "Lisboa Lda", "", "", "BANKPTPT", "", "", "", "", "",
				"CARD", true, true, fmt.Sprintf("P3-%03d", i), "AFBQBGKT", "Alpha Bank", "PAYEE")
		}
	}

	// Scenario 4: payer-PSP reporting, payee PSP in the EU -> counted-only.
	for i := 0; i < 30; i++ {
		t := base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		emit(fmt.Sprintf("P4-%03d", i), t, "99.99", "EUR", "NL", "BIC",
			"BE", "PAYEE-BE-1", "Bruxelles SA", "", "", "BANKBEBB", "", "", "", "", "",
			"E_MONEY", false, false, "", "BANKNL2A", "NL PSP", "PAYER")
	}

	// Scenario 5: payer-PSP reporting, payee PSP outside the EU -> emitted.
	for i := 0; i < 30; i++ {
		t := base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		emit(fmt.Sprintf("P5-%03d", i), t, "60.00", "USD", "NL", "BIC",
			"US", "PAYEE-US-1", "Acme Inc", "", "", "BANKUS33", "", "", "", "", "",
			"CARD", false, false, "", "BANKNL2A", "NL PSP", "PAYER")
	}

	// Scenario 6: missing account, valid payee PSP BIC -> Representative.
	for i := 0; i < 26; i++ {
		t := base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		emit(fmt.Sprintf("P6-%03d", i), t, "12.34", "EUR", "SE", "OBAN",
			"FI", "PAYEE-FI-1", "Helsinki Oy", "", "", "BANKFIFI", "", "", "", "", "",
			"TRANSFER", false, false, "", "BANKSESS", "SE PSP", "PAYEE")
	}

	logger.Info("generate complete", logField("output", cfg.Output), zap.Int("rows", n))
	return exitOK
}

func generateUsage() {
	fmt.Fprintf(os.Stderr, `Usage: cesop generate --output <fixture.csv>

Writes a synthetic PSP CSV fixture exercising the boundary cases of the
reportability threshold, refund linking, reporter selection, and the
missing-account/Representative path.

Exit codes: 0 success, 2 I/O failure.
`)
}
