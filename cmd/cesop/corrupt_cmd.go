package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cesop-report/cesop/internal/config"
	"github.com/cesop-report/cesop/internal/ingest"
)

// runCorrupt applies synthetic, deterministic corruption to a CSV file so
// the corrector's round-trip guarantee (spec §8: preflight(correct(corrupt
// (valid))) = ∅ ERROR) can be exercised end to end. Corruption is the
// mirror image of the corrector's nine repair rules.
func runCorrupt(args []string, logger *zap.Logger) int {
	fs := flag.NewFlagSet("corrupt", flag.ExitOnError)
	cfg := config.Defaults()
	bindCoreFlags(fs, cfg)
	seed := fs.Int64("seed", 1, "PRNG seed for deterministic corruption")
	rate := fs.Float64("rate", 0.3, "fraction of rows receiving a corruption")
	fs.Usage = corruptUsage
	_ = fs.Parse(args)

	rows, err := loadRows(cfg.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOFailure
	}

	rng := rand.New(rand.NewSource(*seed))
	corrupted := 0
	for i := range rows {
		if rng.Float64() > *rate {
			continue
		}
		corruptRow(&rows[i], rng)
		corrupted++
	}

	if err := writeCorrectedCSV(cfg.Output, rows); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOFailure
	}

	logger.Info("corrupt complete",
		logField("input", cfg.Input),
		zap.Int("rows", len(rows)),
		zap.Int("corrupted", corrupted),
		zap.Int64("seed", *seed))

	return exitOK
}

// corruptRow applies one randomly chosen corruption to row, each a mirror
// of one of the corrector's nine repair rules.
func corruptRow(row *ingest.Row, rng *rand.Rand) {
	switch rng.Intn(7) {
	case 0:
		row.PayerCountry = strings.ToLower(row.PayerCountry) + "  "
	case 1:
		row.Currency = "EURO"
	case 2:
		row.PayerMSSource = ingest.PayerLocationSource("Unknown")
	case 3:
		row.PayeeAccountType = ingest.AccountType("")
	case 4:
		if row.PayeeAccountID != "" {
			row.PayeeAccountID = row.PayeeAccountID[:len(row.PayeeAccountID)-1] + "9"
		}
	case 5:
		row.PayeeName = ""
	case 6:
		if row.Amount != "" {
			row.Amount = row.Amount + "00"
		}
	}
}

func corruptUsage() {
	fmt.Fprintf(os.Stderr, `Usage: cesop corrupt --input <file> --output <file> [--seed N] [--rate F]

Applies deterministic synthetic corruption to a CSV file, one of the
corrector's nine repair rules inverted per affected row, for exercising the
corrector's round-trip guarantee.

Exit codes: 0 success, 2 I/O failure.
`)
}
