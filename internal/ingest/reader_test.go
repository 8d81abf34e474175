package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestReader_Next(t *testing.T) {
	csvData := `payment_id,execution_time,amount,currency,payer_country,payer_ms_source,payee_id,payee_name,payee_account_id,payee_account_type,payment_method,is_refund,psp_id,psp_role
P1,2025-10-01T08:00:00Z,150.00,EUR,FR,IBAN,PAYEE-1,Muster GmbH,DE89370400440532013000,IBAN,TRANSFER,false,AFBQBGKT,PAYEE
`
	r, err := NewReader(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	row, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.PaymentID != "P1" {
		t.Errorf("PaymentID = %q, want P1", row.PaymentID)
	}
	wantTime, _ := time.Parse(time.RFC3339, "2025-10-01T08:00:00Z")
	if !row.ExecutionTime.Equal(wantTime) {
		t.Errorf("ExecutionTime = %v, want %v", row.ExecutionTime, wantTime)
	}
	if row.PayeeAccountType != AccountIBAN {
		t.Errorf("PayeeAccountType = %q, want IBAN", row.PayeeAccountType)
	}
	if row.ReportingPSPRole != RolePayee {
		t.Errorf("ReportingPSPRole = %q, want PAYEE", row.ReportingPSPRole)
	}

	if _, err := r.Next(); err == nil {
		t.Error("expected io.EOF on second Next call")
	}
}

func TestNewReader_MissingRequiredColumn(t *testing.T) {
	_, err := NewReader(strings.NewReader("payment_id,amount\nP1,1.00\n"))
	if err == nil {
		t.Fatal("expected error for missing required columns")
	}
}

func TestReadAll(t *testing.T) {
	csvData := `payment_id,execution_time,amount,currency,payer_country,payer_ms_source,payee_id,payee_name,payment_method,is_refund,psp_id
P1,2025-10-01T08:00:00Z,10.00,EUR,FR,IBAN,PAYEE-1,Name,TRANSFER,false,AFBQBGKT
P2,2025-10-01T09:00:00Z,20.00,EUR,FR,IBAN,PAYEE-1,Name,TRANSFER,false,AFBQBGKT
`
	r, err := NewReader(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	rows, err := ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
}
