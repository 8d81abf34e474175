// Package identifier implements the pure, side-effect-free syntax
// validators of spec §4.5: BIC, IBAN, VAT, ISO country, ISO currency, and
// RFC3339 timestamps. Every validator returns (ok bool, reason string) and
// never mutates its input, the same contract the teacher's check_vat_*.go
// rule functions assume of a valid row before they run.
package identifier

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cesop-report/cesop/internal/reftable"
)

var (
	bicRE    = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	amountRE = regexp.MustCompile(`^\d+\.\d{2}$`)
)

// ValidateBIC checks the 8/11-character alphanumeric BIC syntax of ISO 9362.
// It does not check that the country bytes (positions 5-6) are a known
// country; callers needing that should also consult reftable.BICCountry.
func ValidateBIC(bic string) (bool, string) {
	if bic == "" {
		return false, "BIC is empty"
	}
	if !bicRE.MatchString(bic) {
		return false, "BIC does not match ^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$"
	}
	return true, ""
}

// ValidateIBAN checks IBAN length, country prefix, and the mod-97 checksum
// (ISO 7064 MOD 97-10) on the rearranged digit string.
func ValidateIBAN(iban string) (bool, string) {
	v := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if len(v) < 15 || len(v) > 34 {
		return false, "IBAN length must be between 15 and 34 characters"
	}
	if _, ok := reftable.IBANCountry(v); !ok {
		return false, "IBAN does not start with a recognized ISO country code"
	}
	if !mod97Checksum(v) {
		return false, "IBAN checksum (mod-97) failed"
	}
	return true, ""
}

// ValidateOBAN applies the same structural checks as ValidateIBAN: spec §3
// models OBAN as "a bank account identifier retaining a country prefix",
// i.e. structurally an IBAN-shaped value without the guarantee of coming
// from a SEPA country.
func ValidateOBAN(oban string) (bool, string) {
	v := strings.ToUpper(strings.ReplaceAll(oban, " ", ""))
	if len(v) < 15 || len(v) > 34 {
		return false, "OBAN length must be between 15 and 34 characters"
	}
	if _, ok := reftable.OBANCountry(v); !ok {
		return false, "OBAN does not start with a recognized ISO country code"
	}
	return true, ""
}

// mod97Checksum implements ISO 7064 MOD 97-10: move the first four
// characters to the end, convert letters to two-digit numbers (A=10 .. Z=35)
// and check the resulting decimal number mod 97 equals 1.
func mod97Checksum(iban string) bool {
	if len(iban) < 4 {
		return false
	}
	rearranged := iban[4:] + iban[:4]
	remainder, ok := mod97Remainder(rearranged)
	return ok && remainder == 1
}

// mod97Remainder converts s (digits and A-Z letters) to its ISO 7064
// MOD 97-10 numeric form and returns the remainder mod 97.
func mod97Remainder(s string) (int, bool) {
	var sb strings.Builder
	sb.Grow(len(s) * 2)
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			sb.WriteString(strconv.Itoa(int(r-'A') + 10))
		default:
			return 0, false
		}
	}

	remainder := 0
	digits := sb.String()
	for i := 0; i < len(digits); i++ {
		remainder = (remainder*10 + int(digits[i]-'0')) % 97
	}
	return remainder, true
}

// ComputeIBANCheckDigits returns the two check digits that make
// country+"00"+bban a checksum-valid IBAN, per ISO 7064 MOD 97-10. Used by
// the corrector's deterministic-placeholder extension point (spec §4.3
// rule 6) to synthesize a syntactically valid IBAN.
func ComputeIBANCheckDigits(country, bban string) string {
	rearranged := bban + country + "00"
	remainder, ok := mod97Remainder(rearranged)
	if !ok {
		return "00"
	}
	check := 98 - remainder
	return strconv.Itoa(check/10) + strconv.Itoa(check%10)
}

// vatPatterns is the country-specific EU VAT syntax table, keyed by the
// leading two letters of the VAT identifier. Patterns match the identifier
// with the country prefix included.
var vatPatterns = map[string]*regexp.Regexp{
	"AT": regexp.MustCompile(`^ATU\d{8}$`),
	"BE": regexp.MustCompile(`^BE0?\d{9}$`),
	"BG": regexp.MustCompile(`^BG\d{9,10}$`),
	"CY": regexp.MustCompile(`^CY\d{8}[A-Z]$`),
	"CZ": regexp.MustCompile(`^CZ\d{8,10}$`),
	"DE": regexp.MustCompile(`^DE\d{9}$`),
	"DK": regexp.MustCompile(`^DK\d{8}$`),
	"EE": regexp.MustCompile(`^EE\d{9}$`),
	"EL": regexp.MustCompile(`^EL\d{9}$`),
	"GR": regexp.MustCompile(`^GR\d{9}$`),
	"ES": regexp.MustCompile(`^ES[A-Z0-9]\d{7}[A-Z0-9]$`),
	"FI": regexp.MustCompile(`^FI\d{8}$`),
	"FR": regexp.MustCompile(`^FR[A-Z0-9]{2}\d{9}$`),
	"HR": regexp.MustCompile(`^HR\d{11}$`),
	"HU": regexp.MustCompile(`^HU\d{8}$`),
	"IE": regexp.MustCompile(`^IE\d{7}[A-Z]{1,2}$`),
	"IT": regexp.MustCompile(`^IT\d{11}$`),
	"LT": regexp.MustCompile(`^LT(\d{9}|\d{12})$`),
	"LU": regexp.MustCompile(`^LU\d{8}$`),
	"LV": regexp.MustCompile(`^LV\d{11}$`),
	"MT": regexp.MustCompile(`^MT\d{8}$`),
	"NL": regexp.MustCompile(`^NL\d{9}B\d{2}$`),
	"PL": regexp.MustCompile(`^PL\d{10}$`),
	"PT": regexp.MustCompile(`^PT\d{9}$`),
	"RO": regexp.MustCompile(`^RO\d{2,10}$`),
	"SE": regexp.MustCompile(`^SE\d{12}$`),
	"SI": regexp.MustCompile(`^SI\d{8}$`),
	"SK": regexp.MustCompile(`^SK\d{10}$`),
}

// ValidateVAT checks a VAT identifier's syntax against the country-specific
// pattern table. Greece may legally use either "EL" or "GR" as its prefix
// (spec §4.1's BR-CO-9 analogue); both are present in the table.
func ValidateVAT(value string) (bool, string) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if len(v) < 2 {
		return false, "VAT identifier must have at least a 2-character country prefix"
	}
	re, ok := vatPatterns[v[:2]]
	if !ok {
		return false, "VAT identifier country prefix " + v[:2] + " is not a recognized EU VAT scheme"
	}
	if !re.MatchString(v) {
		return false, "VAT identifier does not match the " + v[:2] + " VAT syntax"
	}
	return true, ""
}

// ValidateISOCountry checks against reftable.ISOCountries.
func ValidateISOCountry(code string) (bool, string) {
	if !reftable.IsISOCountry(code) {
		return false, "not a recognized ISO 3166-1 alpha-2 country code"
	}
	return true, ""
}

// ValidateISOCurrency checks against reftable.ISOCurrencies.
func ValidateISOCurrency(code string) (bool, string) {
	if !reftable.IsISOCurrency(code) {
		return false, "not a recognized ISO 4217 currency code"
	}
	return true, ""
}

// ValidateAmount checks the ^\d+\.\d{2}$ decimal syntax of spec §3.
func ValidateAmount(value string) (bool, string) {
	if !amountRE.MatchString(value) {
		return false, "amount must match ^\\d+\\.\\d{2}$"
	}
	return true, ""
}

// ValidateRFC3339 checks that value parses as RFC3339 with an explicit
// timezone offset, as spec §3 requires for the execution timestamp.
func ValidateRFC3339(value string) (bool, string) {
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		return false, "timestamp is not valid RFC3339: " + err.Error()
	}
	return true, ""
}
