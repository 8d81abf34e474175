// Package corrector implements C6: the deterministic repair pipeline of
// spec §4.3 that rewrites a corrupted row stream into one preflight accepts,
// recording every change it makes as an append-only diff log (spec §3).
package corrector

// DiffEntry is one row of the corrector's audit trail (spec §6's CSV
// output: row_id, field, before, after, rule_code).
type DiffEntry struct {
	RowID    string
	Field    string
	Before   string
	After    string
	RuleCode string
}

// Rule codes for the nine ordered repair rules of spec §4.3.
const (
	RuleTrimUppercase   = "CORR-1"
	RuleCurrencyAlias   = "CORR-2"
	RuleDefaultMSSource = "CORR-3"
	RuleDerivePayeeCtry = "CORR-4-DROP"
	RuleAccountType     = "CORR-5"
	RuleSynthesizeIBAN  = "CORR-6"
	RulePayeeName       = "CORR-7"
	RuleRoundAmount     = "CORR-8"
	RuleDropRefund      = "CORR-9-DROP"
)
