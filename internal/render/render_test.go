package render

import (
	"strings"
	"testing"
	"time"

	"github.com/cesop-report/cesop/internal/ingest"
	"github.com/cesop-report/cesop/internal/scope"
	"github.com/cesop-report/cesop/internal/uuidsrc"
)

func fixedSource() *uuidsrc.Fixed {
	return &uuidsrc.Fixed{
		UUIDs: []string{"11111111-1111-4111-8111-111111111111", "22222222-2222-4222-8222-222222222222"},
		Clock: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func reportableGroup() *scope.PayeeGroup {
	t1 := time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	return &scope.PayeeGroup{
		Key: scope.GroupKey{
			ReportingPSPID: "AFBQBGKT",
			PayeeID:        "PAYEE-1",
			PayeeCountry:   "DE",
			Quarter:        scope.Quarter{Year: 2025, Quarter: 4},
		},
		PayeeName:  "Muster GmbH",
		PayeeVAT:   "DE123456789",
		PayeePSPID: "BANKDEFF",
		Accounts: []scope.Account{
			{ID: "DE89370400440532013000", Type: ingest.AccountIBAN},
		},
		Counter: 26,
		ReportedRows: []scope.ScopedRow{
			{Row: ingest.Row{PaymentID: "P2", ExecutionTime: t1, Amount: "100.00", Currency: "EUR", PayerCountry: "FR", PayerMSSource: ingest.SourceIBAN, PaymentMethod: "TRANSFER"}},
			{Row: ingest.Row{PaymentID: "P1", ExecutionTime: t2, Amount: "50.00", Currency: "EUR", PayerCountry: "FR", PayerMSSource: ingest.SourceIBAN, PaymentMethod: "TRANSFER"}},
		},
		Verdict: scope.VerdictReportable,
	}
}

func testPartition() Partition {
	return Partition{
		ReportingPSPID:      "AFBQBGKT",
		TransmittingCountry: "DE",
		Quarter:             scope.Quarter{Year: 2025, Quarter: 4},
		Groups:              []*scope.PayeeGroup{reportableGroup()},
	}
}

func TestDocument_TransactionOrderingWithinPayee(t *testing.T) {
	doc, err := Document(testPartition(), fixedSource())
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	var ids []string
	for _, el := range doc.FindElements("//ReportedTransaction/TransactionIdentifier") {
		ids = append(ids, el.Text())
	}
	if len(ids) != 2 || ids[0] != "P1" || ids[1] != "P2" {
		t.Errorf("transaction order = %v, want [P1 P2] (ascending execution time)", ids)
	}
}

func TestDocument_PrimaryAccountIsIBAN(t *testing.T) {
	doc, err := Document(testPartition(), fixedSource())
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	accts := doc.FindElements("//ReportedPayee/AccountIdentifier")
	if len(accts) != 2 {
		t.Fatalf("len(AccountIdentifier) = %d, want 2 (IBAN + BIC)", len(accts))
	}
	if accts[0].SelectAttrValue("type", "") != "IBAN" {
		t.Errorf("first AccountIdentifier type = %q, want IBAN", accts[0].SelectAttrValue("type", ""))
	}
	if accts[0].Text() != "DE89370400440532013000" {
		t.Errorf("IBAN text = %q", accts[0].Text())
	}
	if accts[1].SelectAttrValue("type", "") != "BIC" || accts[1].Text() != "BANKDEFF" {
		t.Errorf("second AccountIdentifier = type %q text %q, want BIC/BANKDEFF", accts[1].SelectAttrValue("type", ""), accts[1].Text())
	}
}

func TestDocument_RepresentativeFallbackWhenNoAccount(t *testing.T) {
	p := testPartition()
	p.Groups[0].Accounts = nil
	doc, err := Document(p, fixedSource())
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	rep := doc.FindElement("//ReportedPayee/Representative")
	if rep == nil {
		t.Fatal("expected a Representative element when no account identifier is present")
	}
	if bic := rep.FindElement("BIC"); bic == nil || bic.Text() != "BANKDEFF" {
		t.Errorf("Representative/BIC = %v, want BANKDEFF", bic)
	}
	if rep.FindElement("AccountIdentifier") == nil {
		t.Error("expected an empty AccountIdentifier under Representative")
	}
}

func TestDocument_InvariantViolationWhenNeitherAccountNorPSP(t *testing.T) {
	p := testPartition()
	p.Groups[0].Accounts = nil
	p.Groups[0].PayeePSPID = ""
	_, err := Document(p, fixedSource())
	if err == nil {
		t.Fatal("expected an InvariantError")
	}
	ie, ok := err.(*InvariantError)
	if !ok {
		t.Fatalf("err = %T, want *InvariantError", err)
	}
	if ie.PayeeID != "PAYEE-1" {
		t.Errorf("InvariantError.PayeeID = %q, want PAYEE-1", ie.PayeeID)
	}
}

func TestDocument_MessageSpecFields(t *testing.T) {
	doc, err := Document(testPartition(), fixedSource())
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if q := doc.FindElement("//MessageSpec/ReportingPeriod/Quarter"); q == nil || q.Text() != "Q4" {
		t.Errorf("Quarter = %v, want Q4", q)
	}
	if y := doc.FindElement("//MessageSpec/ReportingPeriod/Year"); y == nil || y.Text() != "2025" {
		t.Errorf("Year = %v, want 2025", y)
	}
	if tc := doc.FindElement("//MessageSpec/TransmittingCountry"); tc == nil || tc.Text() != "DE" {
		t.Errorf("TransmittingCountry = %v, want DE", tc)
	}
}

func TestDocument_AmountFormattedWithTwoDecimals(t *testing.T) {
	doc, err := Document(testPartition(), fixedSource())
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	amounts := doc.FindElements("//ReportedTransaction/Amount")
	if len(amounts) != 2 {
		t.Fatalf("len(Amount) = %d, want 2", len(amounts))
	}
	for _, a := range amounts {
		if !strings.Contains(a.Text(), ".") || len(a.Text())-strings.Index(a.Text(), ".") != 3 {
			t.Errorf("Amount %q is not formatted with exactly two fractional digits", a.Text())
		}
	}
}

func TestPartition_FileName(t *testing.T) {
	p := testPartition()
	want := "cesop_2025_Q4_DE_AFBQBGKT.xml"
	if got := p.FileName(); got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}
