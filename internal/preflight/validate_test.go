package preflight

import (
	"testing"
	"time"

	"github.com/cesop-report/cesop/internal/ingest"
)

func validRow() ingest.Row {
	return ingest.Row{
		PaymentID:        "P1",
		ExecutionTime:    time.Now(),
		Amount:           "100.00",
		Currency:         "EUR",
		PayerCountry:     "FR",
		PayerMSSource:    ingest.SourceIBAN,
		PayeeID:          "PAYEE-1",
		PayeeName:        "Muster GmbH",
		PayeeAccountID:   "DE89370400440532013000",
		PayeeAccountType: ingest.AccountIBAN,
		PaymentMethod:    "TRANSFER",
		ReportingPSPID:   "AFBQBGKT",
	}
}

func TestCheckRow_ValidRowNoIssues(t *testing.T) {
	v := NewValidator()
	v.CheckRow(validRow())
	if v.Report().HasErrors() {
		t.Errorf("unexpected errors: %+v", v.Report().Errors())
	}
}

func TestCheckRow_MissingPaymentID(t *testing.T) {
	row := validRow()
	row.PaymentID = ""
	v := NewValidator()
	v.CheckRow(row)
	errs := v.Report().Errors()
	if len(errs) == 0 {
		t.Fatal("expected an error for missing payment_id")
	}
	found := false
	for _, e := range errs {
		if e.Rule.Code == RuleMissingPaymentID.Code {
			found = true
		}
	}
	if !found {
		t.Errorf("expected rule %s among errors, got %+v", RuleMissingPaymentID.Code, errs)
	}
}

func TestCheckRow_AccountXOR(t *testing.T) {
	row := validRow()
	row.PayeePSPID = "AFBQBGKT" // both account and PSP present now

	v := NewValidator()
	v.CheckRow(row)
	if !v.Report().HasErrors() {
		t.Fatal("expected an error when both account and PSP identifiers are present")
	}
}

func TestCheckRow_NeitherAccountNorPSP(t *testing.T) {
	row := validRow()
	row.PayeeAccountID = ""
	row.PayeeAccountType = ""

	v := NewValidator()
	v.CheckRow(row)
	if !v.Report().HasErrors() {
		t.Fatal("expected an error when neither account nor PSP identifier is present")
	}
}

func TestCheckPayeeGroupName_MissingName(t *testing.T) {
	v := NewValidator()
	v.CheckPayeeGroupName("PAYEE-NEVER-SEEN")
	if !v.Report().HasErrors() {
		t.Fatal("expected an error for a payee never assigned a name")
	}
}

func TestCheckPayeeAccounts_NoAccountsIsFine(t *testing.T) {
	v := NewValidator()
	v.CheckPayeeAccounts("PAYEE-NEVER-SEEN")
	if v.Report().HasErrors() {
		t.Errorf("unexpected errors: %+v", v.Report().Errors())
	}
}

func TestCheckPayeeAccounts_ValidIBANYieldsNoError(t *testing.T) {
	row := validRow()
	v := NewValidator()
	v.CheckRow(row)
	v.CheckPayeeAccounts(row.PayeeID)
	if v.Report().HasErrors() {
		t.Errorf("unexpected errors: %+v", v.Report().Errors())
	}
}

func TestCheckPayeeAccounts_NoRecognizedTypeIsAnError(t *testing.T) {
	row := validRow()
	row.PayeeAccountType = "BOGUS"
	v := NewValidator()
	v.CheckRow(row)
	v.CheckPayeeAccounts(row.PayeeID)

	found := false
	for _, e := range v.Report().Errors() {
		if e.Rule.Code == RuleNoPrimaryAccount.Code {
			found = true
		}
	}
	if !found {
		t.Errorf("expected rule %s among errors, got %+v", RuleNoPrimaryAccount.Code, v.Report().Errors())
	}
}

func TestValidate_ReturnsValidationError(t *testing.T) {
	v := NewValidator()
	row := validRow()
	row.PaymentID = ""
	v.CheckRow(row)

	err := v.Validate()
	if err == nil {
		t.Fatal("expected a non-nil error")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("expected *ValidationError, got %T", err)
	}
}
