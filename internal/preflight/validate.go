package preflight

import (
	"github.com/cesop-report/cesop/internal/identifier"
	"github.com/cesop-report/cesop/internal/ingest"
)

// Validator evaluates the row-level, payee-structural, and payee-group
// rule set of spec §4.2 over a row stream.
type Validator struct {
	report        Report
	seenPayeeName map[string]string      // payee_id -> last non-empty name seen, for the payee-group name rule
	seenAccounts  map[string][]accountRef // payee_id -> folded account identifiers, for the primary-account rule
}

// accountRef is one payee-side account identifier folded across the rows
// seen so far for a payee, mirroring scope.Account without importing scope.
type accountRef struct {
	ID   string
	Type ingest.AccountType
}

// NewValidator builds an empty Validator.
func NewValidator() *Validator {
	return &Validator{seenPayeeName: make(map[string]string), seenAccounts: make(map[string][]accountRef)}
}

// CheckRow evaluates every row-level and payee-structural rule against one
// row, per spec §4.2.
func (v *Validator) CheckRow(row ingest.Row) {
	v.checkRowLevel(row)
	v.checkPayeeStructural(row)
	if row.PayeeName != "" {
		v.seenPayeeName[row.PayeeID] = row.PayeeName
	}
	if row.PayeeAccountID != "" {
		v.foldAccount(row.PayeeID, accountRef{ID: row.PayeeAccountID, Type: row.PayeeAccountType})
	}
}

// foldAccount preserves every distinct account identifier seen for a payee,
// the same "all are preserved" fold the scope engine applies.
func (v *Validator) foldAccount(payeeID string, ref accountRef) {
	for _, existing := range v.seenAccounts[payeeID] {
		if existing == ref {
			return
		}
	}
	v.seenAccounts[payeeID] = append(v.seenAccounts[payeeID], ref)
}

func (v *Validator) checkRowLevel(row ingest.Row) {
	id := row.PaymentID

	if row.PaymentID == "" {
		v.report.Add(SeverityError, id, "payment_id", RuleMissingPaymentID, "payment identifier is missing")
	}
	if row.ExecutionTime.IsZero() {
		v.report.Add(SeverityError, id, "execution_time", RuleMissingExecTime, "execution timestamp is missing or not valid RFC3339")
	}
	if row.Amount == "" {
		v.report.Add(SeverityError, id, "amount", RuleMissingAmount, "amount is missing")
	} else if ok, reason := identifier.ValidateAmount(row.Amount); !ok {
		v.report.Add(SeverityError, id, "amount", RuleMissingAmount, reason)
	}
	if row.Currency == "" {
		v.report.Add(SeverityError, id, "currency", RuleMissingCurrency, "currency is missing")
	} else if ok, reason := identifier.ValidateISOCurrency(row.Currency); !ok {
		v.report.Add(SeverityError, id, "currency", RuleMissingCurrency, reason)
	}
	if row.PayerCountry == "" {
		v.report.Add(SeverityError, id, "payer_country", RuleMissingPayerMS, "payer country is missing")
	} else if ok, reason := identifier.ValidateISOCountry(row.PayerCountry); !ok {
		v.report.Add(SeverityError, id, "payer_country", RuleInvalidPayerCtry, reason)
	}
	if row.PayeeCountry != "" {
		if ok, reason := identifier.ValidateISOCountry(row.PayeeCountry); !ok {
			v.report.Add(SeverityWarning, id, "payee_country", RuleInvalidPayeeCtry, reason)
		}
	}
	if string(row.PayerMSSource) == "" {
		v.report.Add(SeverityError, id, "payer_ms_source", RuleMissingMSSource, "payer-location source is missing")
	} else if !ValidPayerLocationSources[string(row.PayerMSSource)] {
		v.report.Add(SeverityError, id, "payer_ms_source", RuleMissingMSSource, "payer-location source must be one of IBAN, OBAN, BIC, Other")
	}
	if row.ReportingPSPID == "" {
		v.report.Add(SeverityError, id, "psp_id", RuleMissingPSP, "reporting PSP identifier is missing")
	} else if ok, reason := identifier.ValidateBIC(row.ReportingPSPID); !ok {
		v.report.Add(SeverityError, id, "psp_id", RuleInvalidPSPBIC, reason)
	}
	if row.PaymentMethod != "" && !validPaymentMethods[row.PaymentMethod] {
		v.report.Add(SeverityError, id, "payment_method", RuleInvalidPaymentMethod, "payment method is not in the fixed code list")
	}
}

func (v *Validator) checkPayeeStructural(row ingest.Row) {
	id := row.PaymentID
	hasAccount := row.PayeeAccountID != ""
	hasPSP := row.PayeePSPID != ""

	if hasAccount == hasPSP {
		v.report.Add(SeverityError, id, "payee_account_id", RuleAccountXOR, "exactly one of payee account identifier or payee PSP BIC must be present")
		return
	}

	if hasAccount {
		if !ValidAccountTypes[string(row.PayeeAccountType)] {
			v.report.Add(SeverityError, id, "payee_account_type", RuleInvalidAccountType, "payee account type must be one of IBAN, OBAN, Other")
		} else if row.PayeeAccountType == ingest.AccountIBAN {
			if ok, reason := identifier.ValidateIBAN(row.PayeeAccountID); !ok {
				v.report.Add(SeverityError, id, "payee_account_id", RuleInvalidIBAN, reason)
			}
		}
	}

	if hasPSP {
		if ok, reason := identifier.ValidateBIC(row.PayeePSPID); !ok {
			v.report.Add(SeverityError, id, "payee_psp_id", RuleInvalidPayeeBIC, reason)
		}
	}

	if row.PayeeVAT != "" {
		if ok, reason := identifier.ValidateVAT(row.PayeeVAT); !ok {
			v.report.Add(SeverityWarning, id, "payee_vat", RuleInvalidVAT, reason)
		}
	}
}

// CheckUnresolvedRefund records the non-fatal issue spec §4.1 requires when
// a refund's original-payment reference cannot be resolved.
func (v *Validator) CheckUnresolvedRefund(row ingest.Row) {
	v.report.Add(SeverityWarning, row.PaymentID, "corr_payment_id", RuleUnresolvedRefund, "refund references an unresolved original payment "+row.OriginalPaymentID)
}

// CheckPayeeGroupName evaluates the payee-group name rule: the payee name
// must be non-empty across all rows contributed to a payee, keyed by
// payee_id (spec §4.2's payee-group rules operate on the folded payee,
// not on one row).
func (v *Validator) CheckPayeeGroupName(payeeID string) {
	if v.seenPayeeName[payeeID] == "" {
		v.report.Add(SeverityError, payeeID, "payee_name", RuleMissingPayeeName, "payee name must be non-empty")
	}
}

// CheckPayeeAccounts evaluates PF-PAYEE-6: when a payee's folded account
// set (across every row contributed for it) is non-empty, the
// primary-selection policy (IBAN > OBAN > Other) must yield at least one
// identifier. Mirrors the renderer's own selectPrimaryAccount so a payee
// that would hit render's InvariantError is caught here first.
func (v *Validator) CheckPayeeAccounts(payeeID string) {
	accounts := v.seenAccounts[payeeID]
	if len(accounts) == 0 {
		return
	}
	for _, want := range []ingest.AccountType{ingest.AccountIBAN, ingest.AccountOBAN, ingest.AccountOther} {
		for _, a := range accounts {
			if a.Type == want {
				return
			}
		}
	}
	v.report.Add(SeverityError, payeeID, "payee_account_id", RuleNoPrimaryAccount,
		"no account identifier among this payee's identifiers matches a recognized type (IBAN, OBAN, Other)")
}

// Report returns the accumulated Report.
func (v *Validator) Report() *Report {
	return &v.report
}

// Validate returns a *ValidationError if the report contains any ERROR,
// mirroring einvoice's Invoice.Validate() contract, or nil otherwise.
func (v *Validator) Validate() error {
	if v.report.HasErrors() {
		return &ValidationError{Report: &v.report}
	}
	return nil
}
