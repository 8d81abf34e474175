// Package ingest implements C3: the typed payment-row model and the
// streaming CSV reader that turns raw PSP export files into a lazy sequence
// of Row values (spec §3, §6). Reader hands back one row at a time;
// ReadAll collects them into a slice for callers that need the whole file.
package ingest

import "time"

// PayerLocationSource is the code list for how the payer's Member State was
// derived on the PSP side (spec §3).
type PayerLocationSource string

const (
	SourceIBAN  PayerLocationSource = "IBAN"
	SourceOBAN  PayerLocationSource = "OBAN"
	SourceBIC   PayerLocationSource = "BIC"
	SourceOther PayerLocationSource = "Other"
)

// AccountType is the code list for a payee account identifier's kind.
type AccountType string

const (
	AccountIBAN  AccountType = "IBAN"
	AccountOBAN  AccountType = "OBAN"
	AccountOther AccountType = "Other"
)

// ReporterRole is the reporting PSP's role on a given row (spec §4.1).
type ReporterRole string

const (
	RolePayee ReporterRole = "PAYEE"
	RolePayer ReporterRole = "PAYER"
)

// Row is one payment record as ingested from the PSP's CSV export,
// immutable once read (spec §3's "rows are immutable once read").
type Row struct {
	PaymentID     string
	ExecutionTime time.Time
	Amount        string // kept as the raw "^\d+\.\d{2}$" string; parsed lazily by callers that need decimal.Decimal
	Currency      string

	PayerCountry  string
	PayerMSSource PayerLocationSource

	PayeeCountry     string // optional, as provided; derivation happens in the scope engine
	PayeeID          string
	PayeeName        string
	PayeeAccountID   string
	PayeeAccountType AccountType
	PayeePSPID       string // BIC-like, optional
	PayeeTax         string
	PayeeVAT         string
	PayeeAddress     string
	PayeeEMail       string
	PayeeWeb         string

	PaymentMethod     string
	PhysicalPremises  bool
	IsRefund          bool
	OriginalPaymentID string

	ReportingPSPID   string
	ReportingPSPName string
	ReportingPSPRole ReporterRole

	// SourceLine is the 1-based CSV line this row came from, used for
	// diagnostics and diff-log entries; not part of the data model proper.
	SourceLine int
}

// RequiredColumns lists the CSV columns spec §6 marks mandatory. Missing
// optional columns are treated as empty; unknown columns are ignored.
var RequiredColumns = []string{
	"payment_id", "execution_time", "amount", "currency", "payer_country",
	"payer_ms_source", "payee_id", "payee_name", "payment_method",
	"is_refund", "psp_id",
}
