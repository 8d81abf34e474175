package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// runValidate invokes the external CESOP validation module as an opaque
// subprocess (spec §6): the core treats it as a black box, succeeding iff
// the process exits 0 and the result file is non-empty.
func runValidate(args []string, logger *zap.Logger) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	validator := fs.String("validator", "", "path to the external CESOP validation module executable")
	inputDir := fs.String("input-dir", "", "directory of rendered XML files to validate")
	resultFile := fs.String("result-file", "", "path the validator writes its result to")
	fs.Usage = validateUsage
	_ = fs.Parse(args)

	if *validator == "" || *inputDir == "" || *resultFile == "" {
		validateUsage()
		return exitIOFailure
	}

	cmd := exec.Command(*validator, *inputDir, *resultFile)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	runErr := cmd.Run()

	info, statErr := os.Stat(*resultFile)
	resultNonEmpty := statErr == nil && info.Size() > 0

	logger.Info("validate complete",
		logField("validator", *validator),
		logField("input_dir", *inputDir),
		logField("result_file", *resultFile),
		zap.Bool("result_non_empty", resultNonEmpty))

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "cesop: external validator failed: %v\n", runErr)
		return exitPreflightError
	}
	if !resultNonEmpty {
		fmt.Fprintln(os.Stderr, "cesop: external validator produced no result")
		return exitPreflightError
	}
	return exitOK
}

func validateUsage() {
	fmt.Fprintf(os.Stderr, `Usage: cesop validate --validator <path> --input-dir <dir> --result-file <path>

Invokes the external CESOP validation module as a subprocess. The core
treats it as a black box: success iff the process exits 0 and the result
file is non-empty.

Exit codes: 0 success, 1 validator reported errors, 2 I/O failure.
`)
}
