// Command cesop transforms PSP payment-transaction CSV exports into
// regulator-compliant CESOP PaymentData XML reports (Directive 2020/284),
// following the subcommand-dispatch-by-flag.FlagSet shape of
// speedata/einvoice's cmd/einvoice.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cesop-report/cesop/internal/logging"
)

// Exit codes per spec §6.
const (
	exitOK              = 0
	exitPreflightError  = 1
	exitIOFailure       = 2
	exitRenderInvariant = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		usage()
		return exitIOFailure
	}

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cesop: failed to initialize logging: %v\n", err)
		return exitIOFailure
	}
	defer func() { _ = logger.Sync() }()

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "generate":
		return runGenerate(args, logger)
	case "analyze":
		return runAnalyze(args, logger)
	case "preflight":
		return runPreflight(args, logger)
	case "corrupt":
		return runCorrupt(args, logger)
	case "correct":
		return runCorrect(args, logger)
	case "render":
		return runRender(args, logger)
	case "validate":
		return runValidate(args, logger)
	default:
		fmt.Fprintf(os.Stderr, "cesop: unknown command %q\n", subcommand)
		usage()
		return exitIOFailure
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: cesop <command> [options]

Commands:
  generate    Produce a synthetic PSP CSV fixture exercising known boundary cases
  analyze     Print per-payee-group aggregates without rendering
  preflight   Validate a CSV file and report issues
  corrupt     Apply synthetic, deterministic corruption to a CSV file
  correct     Apply the deterministic corrector and emit a diff log
  render      Run the full pipeline and emit CESOP PaymentData XML files
  validate    Invoke the external CESOP validation module on rendered output

Use "cesop <command> --help" for more information about a command.
`)
}

// logField is a small helper that builds a zap string field for the
// subcommands' completion log lines.
func logField(key, value string) zap.Field {
	return zap.String(key, value)
}
