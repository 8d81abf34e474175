package scope

import (
	"github.com/cesop-report/cesop/internal/identifier"
	"github.com/cesop-report/cesop/internal/ingest"
	"github.com/cesop-report/cesop/internal/reftable"
)

// derivationFunc is one step of the payee-country fallback chain (spec §3,
// design note in §9): a pure function that either resolves a country or
// reports that it could not. Implemented as an ordered list of pure
// functions rather than a single branching function, per §9's instruction
// that the fallback chain have "no hidden global defaults".
type derivationFunc func(row ingest.Row) (string, bool)

var derivationChain = []derivationFunc{
	fromIBAN,
	fromOBAN,
	fromPayeeBIC,
	fromPayeePSPBIC,
}

func fromIBAN(row ingest.Row) (string, bool) {
	if row.PayeeAccountType != ingest.AccountIBAN || row.PayeeAccountID == "" {
		return "", false
	}
	if ok, _ := identifier.ValidateIBAN(row.PayeeAccountID); !ok {
		return "", false
	}
	return reftable.IBANCountry(row.PayeeAccountID)
}

func fromOBAN(row ingest.Row) (string, bool) {
	if row.PayeeAccountType != ingest.AccountOBAN || row.PayeeAccountID == "" {
		return "", false
	}
	return reftable.OBANCountry(row.PayeeAccountID)
}

// fromPayeeBIC derives the country from a BIC-shaped payee account value
// even when the account type tag was not set to OBAN/IBAN — a BIC stored
// in the account field still carries country bytes at positions 5-6.
func fromPayeeBIC(row ingest.Row) (string, bool) {
	if row.PayeeAccountID == "" {
		return "", false
	}
	if ok, _ := identifier.ValidateBIC(row.PayeeAccountID); !ok {
		return "", false
	}
	return reftable.BICCountry(row.PayeeAccountID)
}

func fromPayeePSPBIC(row ingest.Row) (string, bool) {
	if row.PayeePSPID == "" {
		return "", false
	}
	return reftable.BICCountry(row.PayeePSPID)
}

// DerivePayeeCountry implements spec §3's "Derived payee country" rule: if
// the row's stated payee country is absent or fails validation, derive it
// in order from IBAN prefix, OBAN prefix, BIC 5th-6th characters, or the
// payee PSP BIC's country bytes. If no source yields a recognized country,
// the payee is treated as non-EU (ok=false, country="" ).
func DerivePayeeCountry(row ingest.Row) (country string, ok bool) {
	if row.PayeeCountry != "" {
		if valid, _ := identifier.ValidateISOCountry(row.PayeeCountry); valid {
			return row.PayeeCountry, true
		}
	}
	for _, step := range derivationChain {
		if c, ok := step(row); ok {
			return c, true
		}
	}
	return "", false
}
