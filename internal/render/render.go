package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/cesop-report/cesop/internal/ingest"
	"github.com/cesop-report/cesop/internal/scope"
	"github.com/cesop-report/cesop/internal/uuidsrc"
)

const (
	nsDefault = "urn:ec.europa.eu:taxud:fiscalis:cesop:v1"
	nsCommon  = "urn:ec.europa.eu:taxud:fiscalis:cesop:v1:cm"
	nsISO     = "urn:ec.europa.eu:taxud:fiscalis:cesop:v1:iso"
)

// formatAmount renders an amount with exactly two fractional digits, period
// separator, no grouping, falling back to the raw string if it cannot be
// parsed (the corrector is expected to have already normalized it).
func formatAmount(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	return d.StringFixed(2)
}

// rfc3339Milli is the spec §4.4 timestamp format: fractional seconds to at
// most millisecond precision and a Z or ±HH:MM offset.
const rfc3339Milli = "2006-01-02T15:04:05.000Z07:00"

// Document builds the CESOP XML document for one partition (spec §4.4's
// mandatory element ordering), following the teacher's writeCII shape:
// one function per element, called in the fixed order the schema requires.
func Document(p Partition, src uuidsrc.Source) (*etree.Document, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("CESOP")
	root.CreateAttr("xmlns", nsDefault)
	root.CreateAttr("xmlns:cm", nsCommon)
	root.CreateAttr("xmlns:iso", nsISO)
	root.CreateAttr("version", "4.03")

	writeMessageSpec(root, p, src)

	body := root.CreateElement("PaymentDataBody")
	body.CreateElement("ReportingPSP").CreateElement("PSPIdentifier").SetText(p.ReportingPSPID)

	for _, group := range p.Groups {
		if err := writeReportedPayee(body, group, src); err != nil {
			return nil, err
		}
	}

	doc.Indent(2)
	return doc, nil
}

func writeMessageSpec(root *etree.Element, p Partition, src uuidsrc.Source) {
	ms := root.CreateElement("MessageSpec")
	ms.CreateElement("TransmittingCountry").SetText(p.TransmittingCountry)
	ms.CreateElement("MessageType").SetText("PMT")
	ms.CreateElement("MessageTypeIndic").SetText("CESOP100")
	ms.CreateElement("MessageRefId").SetText(src.NewUUID())
	rp := ms.CreateElement("ReportingPeriod")
	rp.CreateElement("Quarter").SetText(fmt.Sprintf("Q%d", p.Quarter.Quarter))
	rp.CreateElement("Year").SetText(fmt.Sprintf("%d", p.Quarter.Year))
	ms.CreateElement("Timestamp").SetText(src.Now().UTC().Format(rfc3339Milli))
}

func writeReportedPayee(parent *etree.Element, group *scope.PayeeGroup, src uuidsrc.Source) error {
	payee := parent.CreateElement("ReportedPayee")

	name := payee.CreateElement("Name")
	name.CreateAttr("nameType", "BUSINESS")
	name.SetText(group.PayeeName)

	if group.Key.PayeeCountry != "" {
		payee.CreateElement("Country").SetText(group.Key.PayeeCountry)
	}
	if group.PayeeAddress != "" {
		payee.CreateElement("Address").SetText(group.PayeeAddress)
	}
	if taxID := group.PayeeVAT; taxID != "" {
		payee.CreateElement("TAXIdentification").CreateElement("TIN").SetText(taxID)
	} else if group.PayeeTax != "" {
		payee.CreateElement("TAXIdentification").CreateElement("TIN").SetText(group.PayeeTax)
	}

	if err := writeAccountIdentifiers(payee, group); err != nil {
		return err
	}

	rows := make([]scope.ScopedRow, len(group.ReportedRows))
	copy(rows, group.ReportedRows)
	sort.Slice(rows, func(i, j int) bool {
		ti, tj := rows[i].Row.ExecutionTime, rows[j].Row.ExecutionTime
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return rows[i].Row.PaymentID < rows[j].Row.PaymentID
	})
	for _, r := range rows {
		writeReportedTransaction(payee, r.Row)
	}

	docSpec := payee.CreateElement("DocSpec")
	docSpec.CreateElement("DocRefId").SetText(src.NewUUID())
	docSpec.CreateElement("DocTypeIndic").SetText("CESOP1")

	return nil
}

// writeAccountIdentifiers implements the primary-account selection policy
// of spec §4.4: at most one IBAN *or* OBAN *or* Other, preferring IBAN over
// OBAN over Other, plus at most one accompanying BIC; when no account
// identifier exists, a Representative element carries the payee PSP BIC and
// an empty AccountIdentifier. Neither present is a renderer invariant
// violation.
func writeAccountIdentifiers(payee *etree.Element, group *scope.PayeeGroup) error {
	primary, ok := selectPrimaryAccount(group.Accounts)
	if ok {
		acct := payee.CreateElement("AccountIdentifier")
		acct.CreateAttr("type", string(primary.Type))
		acct.SetText(primary.ID)
		if group.PayeePSPID != "" {
			bic := payee.CreateElement("AccountIdentifier")
			bic.CreateAttr("type", "BIC")
			bic.SetText(group.PayeePSPID)
		}
		return nil
	}

	if group.PayeePSPID == "" {
		return &InvariantError{PSPID: group.Key.ReportingPSPID, PayeeID: group.Key.PayeeID, Reason: "neither an account identifier nor a payee PSP BIC is available"}
	}
	rep := payee.CreateElement("Representative")
	rep.CreateElement("BIC").SetText(group.PayeePSPID)
	rep.CreateElement("AccountIdentifier")
	return nil
}

// selectPrimaryAccount picks IBAN over OBAN over Other, the order listed in
// spec §4.4.
func selectPrimaryAccount(accounts []scope.Account) (scope.Account, bool) {
	for _, want := range []ingest.AccountType{ingest.AccountIBAN, ingest.AccountOBAN, ingest.AccountOther} {
		for _, a := range accounts {
			if a.Type == want {
				return a, true
			}
		}
	}
	return scope.Account{}, false
}

func writeReportedTransaction(parent *etree.Element, row ingest.Row) {
	tx := parent.CreateElement("ReportedTransaction")
	tx.CreateElement("TransactionIdentifier").SetText(row.PaymentID)

	dateType := "CESOP701"
	if row.IsRefund {
		dateType = "CESOP702"
	}
	dt := tx.CreateElement("DateTime")
	dt.CreateAttr("transactionDateType", dateType)
	dt.SetText(row.ExecutionTime.UTC().Format(rfc3339Milli))

	amt := tx.CreateElement("Amount")
	amt.CreateAttr("currency", row.Currency)
	amt.SetText(formatAmount(row.Amount))

	if row.PaymentMethod != "" {
		tx.CreateElement("PaymentMethod").CreateElement("PaymentMethodType").SetText(row.PaymentMethod)
	}
	tx.CreateElement("InitiatedAtPhysicalPremisesOfMerchant").SetText(fmt.Sprintf("%t", row.PhysicalPremises))

	payerMS := tx.CreateElement("PayerMS")
	payerMS.CreateAttr("PayerMSSource", string(row.PayerMSSource))
	payerMS.SetText(row.PayerCountry)

	if row.IsRefund {
		tx.CreateElement("IsRefund").SetText("true")
	}
}

// WriteTo renders doc to w with the same pretty-printing the teacher's
// writeCII uses (two-space indent, already applied by Document).
func WriteTo(doc *etree.Document, w io.Writer) error {
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("render: write XML: %w", err)
	}
	return nil
}
