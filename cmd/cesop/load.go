package main

import (
	"fmt"
	"os"

	"github.com/cesop-report/cesop/internal/ingest"
)

// loadRows opens path and drains it into a slice via ingest.ReadAll. Most
// subcommands need the whole file in memory (the corrector resolves
// forward-referencing refunds, the renderer needs every payee group), so
// this is the one place non-streaming reads are justified (spec §5).
func loadRows(path string) ([]ingest.Row, error) {
	if path == "" {
		return nil, fmt.Errorf("cesop: --input is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cesop: open %s: %w", path, err)
	}
	defer f.Close()

	reader, err := ingest.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("cesop: %w", err)
	}
	rows, err := ingest.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("cesop: read rows from %s: %w", path, err)
	}
	return rows, nil
}
