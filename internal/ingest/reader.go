package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Reader streams Row values out of a UTF-8, comma-separated CSV file with a
// required header row (spec §6). It buffers exactly one row, per the
// cooperative streaming model of spec §5.
type Reader struct {
	csv     *csv.Reader
	index   map[string]int
	line    int
}

// NewReader wraps r, reading and validating the header row immediately so
// that a malformed header surfaces before the first Next call.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // columns may vary in count across rows; we index by name

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("ingest: CSV header missing required columns: %s", strings.Join(missing, ", "))
	}

	return &Reader{csv: cr, index: index, line: 1}, nil
}

// Next reads the next row, returning io.EOF when the stream is exhausted.
// A malformed individual row (e.g. unparseable timestamp) is returned as a
// non-nil error alongside the partially-populated row; the caller (C5)
// decides whether that is fatal.
func (r *Reader) Next() (Row, error) {
	record, err := r.csv.Read()
	if err != nil {
		return Row{}, err
	}
	r.line++

	row := Row{SourceLine: r.line}
	get := func(col string) string {
		idx, ok := r.index[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row.PaymentID = get("payment_id")
	row.Amount = get("amount")
	row.Currency = get("currency")
	row.PayerCountry = get("payer_country")
	row.PayerMSSource = PayerLocationSource(get("payer_ms_source"))
	row.PayeeCountry = get("payee_country")
	row.PayeeID = get("payee_id")
	row.PayeeName = get("payee_name")
	row.PayeeAccountID = get("payee_account_id")
	row.PayeeAccountType = AccountType(get("payee_account_type"))
	row.PayeePSPID = get("payee_psp_id")
	row.PayeeTax = get("payee_tax")
	row.PayeeVAT = get("payee_vat")
	row.PayeeAddress = get("payee_address")
	row.PayeeEMail = get("payee_email")
	row.PayeeWeb = get("payee_web")
	row.PaymentMethod = get("payment_method")
	row.OriginalPaymentID = get("corr_payment_id")
	row.ReportingPSPID = get("psp_id")
	row.ReportingPSPName = get("psp_name")
	row.ReportingPSPRole = ReporterRole(get("psp_role"))

	var parseErr error
	if t := get("execution_time"); t != "" {
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			row.ExecutionTime = parsed
		} else {
			parseErr = fmt.Errorf("line %d: invalid execution_time %q: %w", r.line, t, err)
		}
	}
	if b := get("is_refund"); b != "" {
		if parsed, err := strconv.ParseBool(b); err == nil {
			row.IsRefund = parsed
		} else if parseErr == nil {
			parseErr = fmt.Errorf("line %d: invalid is_refund %q: %w", r.line, b, err)
		}
	}
	if b := get("physical_premises"); b != "" {
		if parsed, err := strconv.ParseBool(b); err == nil {
			row.PhysicalPremises = parsed
		}
	}

	return row, parseErr
}

// ReadAll drains the reader into a slice. The cesop subcommands load their
// input through it (see cmd/cesop/load.go), since the corrector must see the
// whole stream to resolve refund references deterministically. A row that
// Next returns with an error is kept in the slice and reading continues.
func ReadAll(r *Reader) ([]Row, error) {
	var rows []Row
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			rows = append(rows, row)
			continue
		}
		rows = append(rows, row)
	}
}
