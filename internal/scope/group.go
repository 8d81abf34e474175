// Package scope implements C4: cross-border scope determination, per-payee
// aggregation, and the 25-payment reportability threshold of Directive
// 2020/284 Art. 243b (spec §4.1).
package scope

import (
	"time"

	"github.com/cesop-report/cesop/internal/ingest"
)

// Quarter is a (year, quarter) pair derived from an execution timestamp in
// UTC (spec §3).
type Quarter struct {
	Year    int
	Quarter int
}

// QuarterOf derives the reporting quarter of t in UTC.
func QuarterOf(t time.Time) Quarter {
	u := t.UTC()
	return Quarter{Year: u.Year(), Quarter: (int(u.Month())-1)/3 + 1}
}

// GroupKey uniquely identifies one payee group: (reporting PSP, payee,
// derived payee country, reporting quarter) per spec §3.
type GroupKey struct {
	ReportingPSPID string
	PayeeID        string
	PayeeCountry   string
	Quarter        Quarter
}

// Verdict is the reportability outcome of one payee group (spec §3).
type Verdict int

const (
	// VerdictBelowThreshold is the zero value: counter <= threshold.
	VerdictBelowThreshold Verdict = iota
	// VerdictCountedOnly means the PSP is the payer PSP and the payee PSP
	// is in the EU: the group counts toward the threshold but is never
	// emitted by this PSP.
	VerdictCountedOnly
	// VerdictReportable means counter > threshold and this PSP is the
	// reporter of at least one payment in the group.
	VerdictReportable
)

// PayeeGroup accumulates everything the renderer needs for one (PSP,
// payee, country, quarter) key: the running counter, the payments assigned
// to this PSP as reporter, the account identifiers seen across all rows for
// this payee (spec §3: "all are preserved; the renderer later selects
// one primary"), and the taint flag.
type PayeeGroup struct {
	Key GroupKey

	PayeeName    string
	PayeeTax     string
	PayeeVAT     string
	PayeeAddress string
	PayeeEMail   string
	PayeeWeb     string
	PayeePSPID   string

	Accounts []Account

	// Counter is the number of cross-border, non-refund payments in this
	// group, counted regardless of reporter selection (spec §4.1).
	Counter int

	// ReportedRows are the rows in this group assigned to this PSP as
	// reporter (including linked refunds once resolved); these are exactly
	// what gets emitted when Verdict == VerdictReportable.
	ReportedRows []ScopedRow

	// Tainted is set when any row contributing to this group failed a
	// basic identifier/required-field check; a tainted group is never
	// emitted regardless of its counter (spec §4.1, §7).
	Tainted bool

	Verdict Verdict
}

// Account is one payee-side account identifier observed across the rows
// folded into a payee group (spec §3's "all are preserved" clause).
type Account struct {
	ID   string
	Type ingest.AccountType
}

// ScopedRow pairs a raw Row with the scope decisions made about it, so the
// renderer never has to re-derive them.
type ScopedRow struct {
	Row          ingest.Row
	PayeeCountry string
	IsReporter   bool
	CountedOnly  bool
	IsCrossBorder bool
}
