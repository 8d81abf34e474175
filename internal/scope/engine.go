package scope

import (
	"github.com/cesop-report/cesop/internal/identifier"
	"github.com/cesop-report/cesop/internal/ingest"
	"github.com/cesop-report/cesop/internal/reftable"
)

// Engine computes per-payee-group aggregates and reportability verdicts in
// one pass over the row stream (spec §4.1, §9: "two independent passes...
// are acceptable and preferred over a single multi-purpose pass").
type Engine struct {
	threshold int

	groups map[GroupKey]*PayeeGroup
	// paymentGroup maps a non-refund payment's ID to the group it landed in,
	// so that a later refund row referencing it via corr_payment_id can be
	// folded into the same group without a second pass over the file.
	paymentGroup map[string]GroupKey

	// pendingRefunds holds refund rows seen before their original payment,
	// resolved at Finalize time; an original that never appears leaves its
	// refund in UnresolvedRefunds.
	pendingRefunds []ingest.Row

	UnresolvedRefunds []ingest.Row
	OutOfScope        int
}

// NewEngine builds an Engine with the given reportability threshold (spec
// §6's --threshold, default 25).
func NewEngine(threshold int) *Engine {
	return &Engine{
		threshold:    threshold,
		groups:       make(map[GroupKey]*PayeeGroup),
		paymentGroup: make(map[string]GroupKey),
	}
}

// Process folds one row into the engine's running aggregates. It never
// returns an error: malformed rows are counted as BELOW_THRESHOLD and taint
// their group, per spec §4.1's failure semantics; C5 is the component that
// surfaces row errors to the caller.
func (e *Engine) Process(row ingest.Row) {
	if !reftable.IsEUMemberState(row.PayerCountry) {
		e.OutOfScope++
		return
	}

	if row.IsRefund {
		e.processRefund(row)
		return
	}

	payeeCountry, resolved := DerivePayeeCountry(row)
	crossBorder := resolved && payeeCountry != row.PayerCountry
	// An unresolved payee country still makes the payment cross-border
	// (spec §4.1: "a payment whose derived payee country is non-EU is
	// still cross-border and counts").
	if !resolved {
		crossBorder = true
	}
	if !crossBorder {
		e.OutOfScope++
		return
	}

	isReporter, countedOnly := reporterSelection(row)

	key := GroupKey{
		ReportingPSPID: row.ReportingPSPID,
		PayeeID:        row.PayeeID,
		PayeeCountry:   payeeCountry,
		Quarter:        QuarterOf(row.ExecutionTime),
	}

	group := e.groupFor(key, row)
	group.Counter++
	if !rowBasicallyValid(row) {
		group.Tainted = true
	}

	scoped := ScopedRow{Row: row, PayeeCountry: payeeCountry, IsReporter: isReporter, CountedOnly: countedOnly, IsCrossBorder: true}
	if isReporter {
		group.ReportedRows = append(group.ReportedRows, scoped)
	}

	if row.PaymentID != "" {
		e.paymentGroup[row.PaymentID] = key
	}
}

// processRefund links a refund to its original payment's group (spec §3:
// "Refunds are linked to the original payment and never increment the
// counter"). An unresolved reference is recorded for the caller to surface
// as a non-fatal preflight issue, per spec §4.1.
func (e *Engine) processRefund(row ingest.Row) {
	if row.OriginalPaymentID == "" {
		e.UnresolvedRefunds = append(e.UnresolvedRefunds, row)
		return
	}
	key, ok := e.paymentGroup[row.OriginalPaymentID]
	if !ok {
		// The original may simply not have been seen yet; try again at
		// Finalize once every row has been processed.
		e.pendingRefunds = append(e.pendingRefunds, row)
		return
	}
	e.attachRefund(key, row)
}

func (e *Engine) attachRefund(key GroupKey, row ingest.Row) {
	group := e.groups[key]
	if group == nil {
		e.UnresolvedRefunds = append(e.UnresolvedRefunds, row)
		return
	}
	isReporter, _ := reporterSelection(row)
	if !rowBasicallyValid(row) {
		group.Tainted = true
	}
	if isReporter {
		group.ReportedRows = append(group.ReportedRows, ScopedRow{
			Row: row, PayeeCountry: key.PayeeCountry, IsReporter: true, IsCrossBorder: true,
		})
	}
}

func (e *Engine) groupFor(key GroupKey, row ingest.Row) *PayeeGroup {
	group, ok := e.groups[key]
	if ok {
		e.mergeAccount(group, row)
		return group
	}
	group = &PayeeGroup{
		Key:          key,
		PayeeName:    row.PayeeName,
		PayeeTax:     row.PayeeTax,
		PayeeVAT:     row.PayeeVAT,
		PayeeAddress: row.PayeeAddress,
		PayeeEMail:   row.PayeeEMail,
		PayeeWeb:     row.PayeeWeb,
		PayeePSPID:   row.PayeePSPID,
	}
	e.mergeAccount(group, row)
	e.groups[key] = group
	return group
}

// mergeAccount folds a row's account identifier into the group's account
// set, preserving every distinct identifier seen (spec §3: "When multiple
// account identifiers co-occur for the same payee across rows, all are
// preserved").
func (e *Engine) mergeAccount(group *PayeeGroup, row ingest.Row) {
	if row.PayeeName != "" {
		group.PayeeName = row.PayeeName
	}
	if row.PayeeVAT != "" {
		group.PayeeVAT = row.PayeeVAT
	}
	if row.PayeePSPID != "" {
		group.PayeePSPID = row.PayeePSPID
	}
	if row.PayeeAccountID == "" {
		return
	}
	for _, acc := range group.Accounts {
		if acc.ID == row.PayeeAccountID && acc.Type == row.PayeeAccountType {
			return
		}
	}
	group.Accounts = append(group.Accounts, Account{ID: row.PayeeAccountID, Type: row.PayeeAccountType})
}

// reporterSelection implements spec §4.1's Art. 243b(3) reporter selection:
// a PAYEE-role PSP always reports; a PAYER-role PSP reports only when the
// payee PSP is absent or outside the EU, otherwise the row is counted-only.
func reporterSelection(row ingest.Row) (isReporter, countedOnly bool) {
	switch row.ReportingPSPRole {
	case ingest.RolePayee:
		return true, false
	case ingest.RolePayer:
		if row.PayeePSPID == "" {
			return true, false
		}
		country, ok := reftable.BICCountry(row.PayeePSPID)
		if !ok || !reftable.IsEUMemberState(country) {
			return true, false
		}
		return false, true
	default:
		// Unknown role: conservatively not the reporter, not counted-only
		// either — this row contributes to the counter but is never
		// emitted, and its group is tainted by rowBasicallyValid below.
		return false, false
	}
}

// rowBasicallyValid runs the minimal identifier/presence checks the engine
// needs to decide group tainting (spec §4.1, §7), independent of the full
// rule set C5 evaluates and reports to the caller.
func rowBasicallyValid(row ingest.Row) bool {
	if row.PaymentID == "" || row.ReportingPSPID == "" || row.PayeeID == "" {
		return false
	}
	if row.ReportingPSPRole != ingest.RolePayee && row.ReportingPSPRole != ingest.RolePayer {
		return false
	}
	if ok, _ := identifier.ValidateBIC(row.ReportingPSPID); !ok {
		return false
	}
	if ok, _ := identifier.ValidateAmount(row.Amount); !ok {
		return false
	}
	if ok, _ := identifier.ValidateISOCurrency(row.Currency); !ok {
		return false
	}
	hasAccount := row.PayeeAccountID != ""
	hasPSP := row.PayeePSPID != ""
	if hasAccount == hasPSP {
		// spec §3: exactly one of the two must hold.
		return false
	}
	return true
}

// Finalize resolves any refunds whose original payment appeared later in
// the stream, computes each group's verdict against the engine's
// threshold, and returns the full set of groups (spec §4.1's "Verdict
// emission").
func (e *Engine) Finalize() []*PayeeGroup {
	for _, row := range e.pendingRefunds {
		key, ok := e.paymentGroup[row.OriginalPaymentID]
		if !ok {
			e.UnresolvedRefunds = append(e.UnresolvedRefunds, row)
			continue
		}
		e.attachRefund(key, row)
	}
	e.pendingRefunds = nil

	groups := make([]*PayeeGroup, 0, len(e.groups))
	for _, group := range e.groups {
		switch {
		case group.Counter > e.threshold:
			group.Verdict = VerdictReportable
		default:
			group.Verdict = VerdictBelowThreshold
		}
		// A payee group that is exclusively counted-only (this PSP never
		// appears as reporter) is recorded as such even above threshold,
		// per spec §3's COUNTED_ONLY definition.
		if group.Verdict == VerdictReportable && len(group.ReportedRows) == 0 {
			group.Verdict = VerdictCountedOnly
		}
		groups = append(groups, group)
	}
	return groups
}
