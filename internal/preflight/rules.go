package preflight

// Rule definitions for the row-level, payee-structural, and payee-group
// checks of spec §4.2. Grouped and named after the rule's subject, the way
// the teacher groups BR-*/BR-CO-*/BR-S-* rules by category.
var (
	RuleMissingPaymentID     = Rule{Code: "PF-ROW-1", Fields: []string{"payment_id"}, Description: "payment identifier is required"}
	RuleMissingExecTime      = Rule{Code: "PF-ROW-2", Fields: []string{"execution_time"}, Description: "execution timestamp is required and must be RFC3339"}
	RuleMissingAmount        = Rule{Code: "PF-ROW-3", Fields: []string{"amount"}, Description: "amount is required and must match ^\\d+\\.\\d{2}$"}
	RuleMissingCurrency      = Rule{Code: "PF-ROW-4", Fields: []string{"currency"}, Description: "currency is required and must be a recognized ISO-4217 code"}
	RuleMissingPayerMS       = Rule{Code: "PF-ROW-5", Fields: []string{"payer_country"}, Description: "payer country is required and must be a recognized ISO-3166 alpha-2 code"}
	RuleMissingMSSource      = Rule{Code: "PF-ROW-6", Fields: []string{"payer_ms_source"}, Description: "payer-location source is required and must be one of IBAN, OBAN, BIC, Other"}
	RuleMissingPSP           = Rule{Code: "PF-ROW-7", Fields: []string{"psp_id"}, Description: "reporting PSP identifier is required"}
	RuleInvalidPSPBIC        = Rule{Code: "PF-ROW-8", Fields: []string{"psp_id"}, Description: "reporting PSP identifier must be a syntactically valid BIC"}
	RuleInvalidPayerCtry     = Rule{Code: "PF-ROW-9", Fields: []string{"payer_country"}, Description: "payer country must be a recognized ISO-3166 alpha-2 code"}
	RuleInvalidPayeeCtry     = Rule{Code: "PF-ROW-10", Fields: []string{"payee_country"}, Description: "payee country, when present, must be a recognized ISO-3166 alpha-2 code"}
	RuleInvalidPaymentMethod = Rule{Code: "PF-ROW-11", Fields: []string{"payment_method"}, Description: "payment method must be one of the fixed code list values"}
	RuleMissingPayeeName     = Rule{Code: "PF-GRP-1", Fields: []string{"payee_name"}, Description: "payee name must be non-empty"}

	RuleAccountXOR         = Rule{Code: "PF-PAYEE-1", Fields: []string{"payee_account_id", "payee_psp_id"}, Description: "exactly one of payee account identifier or payee PSP BIC must be present"}
	RuleInvalidAccountType = Rule{Code: "PF-PAYEE-2", Fields: []string{"payee_account_type"}, Description: "payee account type must be one of IBAN, OBAN, Other"}
	RuleInvalidIBAN        = Rule{Code: "PF-PAYEE-3", Fields: []string{"payee_account_id"}, Description: "payee IBAN must pass the mod-97 checksum"}
	RuleInvalidPayeeBIC    = Rule{Code: "PF-PAYEE-4", Fields: []string{"payee_psp_id"}, Description: "payee PSP identifier must be a syntactically valid BIC"}
	RuleInvalidVAT         = Rule{Code: "PF-PAYEE-5", Fields: []string{"payee_vat"}, Description: "payee VAT identifier, when present, must match its country's EU VAT syntax"}
	RuleNoPrimaryAccount   = Rule{Code: "PF-PAYEE-6", Fields: []string{"payee_account_id"}, Description: "the primary-selection policy (IBAN > OBAN > Other) must yield at least one identifier when any account identifier is present"}

	RuleUnresolvedRefund = Rule{Code: "PF-REFUND-1", Fields: []string{"corr_payment_id"}, Description: "refund references an original payment identifier that could not be resolved"}
)

var validPaymentMethods = map[string]bool{
	"CARD": true, "TRANSFER": true, "DIRECT_DEBIT": true, "E_MONEY": true,
	"CHEQUE": true, "OTHER": true,
}

// ValidPayerLocationSources is the fixed code list of spec §3/§4.2.
var ValidPayerLocationSources = map[string]bool{
	"IBAN": true, "OBAN": true, "BIC": true, "Other": true,
}

// ValidAccountTypes is the fixed code list for payee account identifiers.
var ValidAccountTypes = map[string]bool{
	"IBAN": true, "OBAN": true, "Other": true,
}
