package corrector

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cesop-report/cesop/internal/identifier"
	"github.com/cesop-report/cesop/internal/ingest"
	"github.com/cesop-report/cesop/internal/preflight"
)

func corruptRow() ingest.Row {
	return ingest.Row{
		PaymentID:        "p1",
		ExecutionTime:    time.Now(),
		Amount:           "100.5",
		Currency:         "euros",
		PayerCountry:     " fr ",
		PayerMSSource:    ingest.PayerLocationSource("Unknown"),
		PayeeCountry:     "DE",
		PayeeID:          "PAYEE-1",
		PayeeName:        "",
		PayeeAccountID:   "DE00370400440532013000", // fails checksum
		PayeeAccountType: ingest.AccountIBAN,
		PaymentMethod:    "TRANSFER",
		ReportingPSPID:   "AFBQBGKT",
	}
}

func TestCorrect_TrimAndUppercase(t *testing.T) {
	c := New()
	out, diffs := c.Correct([]ingest.Row{corruptRow()})
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].PayerCountry != "FR" {
		t.Errorf("PayerCountry = %q, want FR", out[0].PayerCountry)
	}
	if len(diffs) == 0 {
		t.Error("expected at least one diff entry")
	}
}

func TestCorrect_CurrencyAlias(t *testing.T) {
	c := New()
	out, _ := c.Correct([]ingest.Row{corruptRow()})
	if out[0].Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", out[0].Currency)
	}
}

func TestCorrect_DefaultMSSource(t *testing.T) {
	c := New()
	out, _ := c.Correct([]ingest.Row{corruptRow()})
	if out[0].PayerMSSource != ingest.SourceIBAN {
		t.Errorf("PayerMSSource = %q, want IBAN", out[0].PayerMSSource)
	}
}

func TestCorrect_SynthesizesValidIBAN(t *testing.T) {
	c := New()
	out, diffs := c.Correct([]ingest.Row{corruptRow()})
	if ok, reason := identifier.ValidateIBAN(out[0].PayeeAccountID); !ok {
		t.Errorf("synthesized IBAN %q should validate, got reason %q", out[0].PayeeAccountID, reason)
	}
	found := false
	for _, d := range diffs {
		if d.RuleCode == RuleSynthesizeIBAN {
			found = true
		}
	}
	if !found {
		t.Error("expected a CORR-6 diff entry for the IBAN synthesis")
	}
}

func TestCorrect_DefaultsBlankPayeeName(t *testing.T) {
	c := New()
	out, _ := c.Correct([]ingest.Row{corruptRow()})
	if out[0].PayeeName != "Payee PAYEE-1" {
		t.Errorf("PayeeName = %q, want %q", out[0].PayeeName, "Payee PAYEE-1")
	}
}

func TestCorrect_RoundsAmount(t *testing.T) {
	c := New()
	out, _ := c.Correct([]ingest.Row{corruptRow()})
	if out[0].Amount != "100.50" {
		t.Errorf("Amount = %q, want 100.50", out[0].Amount)
	}
}

func TestCorrect_DropsUnresolvedRefund(t *testing.T) {
	refund := corruptRow()
	refund.PaymentID = "r1"
	refund.IsRefund = true
	refund.OriginalPaymentID = "does-not-exist"

	c := New()
	out, diffs := c.Correct([]ingest.Row{refund})
	if len(out) != 0 {
		t.Fatalf("len(out) = %d, want 0 (refund should be dropped)", len(out))
	}
	found := false
	for _, d := range diffs {
		if d.RuleCode == RuleDropRefund {
			found = true
		}
	}
	if !found {
		t.Error("expected a CORR-9-DROP diff entry")
	}
}

// TestCorrect_DiffLogMatchesExpected compares the full diff log against a
// hand-built expectation with go-cmp's structural tree diff, the way
// einvoice_test.go compares parsed invoice trees, rather than asserting on
// individual fields one at a time.
func TestCorrect_DiffLogMatchesExpected(t *testing.T) {
	c := New()
	_, diffs := c.Correct([]ingest.Row{corruptRow()})

	wantIBAN := SynthesizeIBAN("PAYEE-1", "DE")
	want := []DiffEntry{
		{RowID: "p1", Field: "payer_country", Before: " fr ", After: "FR", RuleCode: RuleTrimUppercase},
		{RowID: "p1", Field: "currency", Before: "euros", After: "EUROS", RuleCode: RuleTrimUppercase},
		{RowID: "p1", Field: "currency", Before: "EUROS", After: "EUR", RuleCode: RuleCurrencyAlias},
		{RowID: "p1", Field: "payer_ms_source", Before: "Unknown", After: "IBAN", RuleCode: RuleDefaultMSSource},
		{RowID: "p1", Field: "payee_account_id", Before: "DE00370400440532013000", After: wantIBAN, RuleCode: RuleSynthesizeIBAN},
		{RowID: "p1", Field: "payee_name", Before: "", After: "Payee PAYEE-1", RuleCode: RulePayeeName},
		{RowID: "p1", Field: "amount", Before: "100.5", After: "100.50", RuleCode: RuleRoundAmount},
	}

	if diff := cmp.Diff(want, diffs); diff != "" {
		t.Errorf("diff log mismatch (-want +got):\n%s", diff)
	}
}

func TestCorrect_RoundTripYieldsZeroPreflightErrors(t *testing.T) {
	c := New()
	out, _ := c.Correct([]ingest.Row{corruptRow()})

	v := preflight.NewValidator()
	for _, row := range out {
		v.CheckRow(row)
	}
	if v.Report().HasErrors() {
		t.Errorf("expected zero preflight errors after correction, got %+v", v.Report().Errors())
	}
}
