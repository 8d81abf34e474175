// Package reftable holds the small, read-only lookup tables the CESOP
// pipeline consults: the EU Member State set, ISO 3166-1 / ISO 4217 code
// lists, and the PSP BIC country-byte derivation. Modeled on the
// "small lazily-built lookup package documenting its official source" shape
// of speedata/einvoice's pkg/codelists, except these tables are small enough
// to live as literal maps rather than a generated file.
//
//go:generate echo "source: EU Official Journal L 166/1, ISO 3166-1, ISO 4217 — no generator needed, tables are hand-maintained"
package reftable

import "strings"

// EUMemberStates is the set of ISO 3166-1 alpha-2 codes for EU Member
// States as of the 2020/284 reporting regime (27 states, post-Brexit).
var EUMemberStates = map[string]bool{
	"AT": true, "BE": true, "BG": true, "HR": true, "CY": true, "CZ": true,
	"DK": true, "EE": true, "FI": true, "FR": true, "DE": true, "GR": true,
	"HU": true, "IE": true, "IT": true, "LV": true, "LT": true, "LU": true,
	"MT": true, "NL": true, "PL": true, "PT": true, "RO": true, "SK": true,
	"SI": true, "ES": true, "SE": true,
}

// IsEUMemberState reports whether code is a recognized EU Member State.
func IsEUMemberState(code string) bool {
	return EUMemberStates[strings.ToUpper(code)]
}

// ISOCountries is the ISO 3166-1 alpha-2 set. It is a superset of
// EUMemberStates: non-EU countries are valid for payee-country derivation,
// they simply never satisfy a cross-border-into-EU reporting rule.
var ISOCountries = buildISOCountries()

func buildISOCountries() map[string]bool {
	// A representative working set: every EU Member State plus the most
	// common non-EU counterparties seen in cross-border CESOP traffic.
	extra := []string{
		"GB", "US", "CH", "NO", "IS", "LI", "CA", "AU", "JP", "CN", "IN",
		"BR", "ZA", "TR", "AE", "SG", "HK", "NZ", "MX", "RU", "UA", "RS",
		"AL", "MK", "ME", "BA", "XK",
	}
	m := make(map[string]bool, len(EUMemberStates)+len(extra))
	for k := range EUMemberStates {
		m[k] = true
	}
	for _, c := range extra {
		m[c] = true
	}
	return m
}

// IsISOCountry reports whether code is a recognized ISO 3166-1 alpha-2 code.
func IsISOCountry(code string) bool {
	return ISOCountries[strings.ToUpper(code)]
}

// ISOCurrencies is the ISO 4217 alphabetic currency code set.
var ISOCurrencies = map[string]bool{
	"EUR": true, "USD": true, "GBP": true, "CHF": true, "SEK": true,
	"DKK": true, "NOK": true, "PLN": true, "CZK": true, "HUF": true,
	"RON": true, "BGN": true, "HRK": true, "JPY": true, "CNY": true,
	"CAD": true, "AUD": true, "ISK": true,
}

// IsISOCurrency reports whether code is a recognized ISO 4217 currency code.
func IsISOCurrency(code string) bool {
	return ISOCurrencies[strings.ToUpper(code)]
}

// KnownCurrencyAliases is the closed alias table consulted by the corrector
// (spec §4.3 rule 2) before falling back to treating a value as already
// canonical.
var KnownCurrencyAliases = map[string]string{
	"EURO":    "EUR",
	"EUROS":   "EUR",
	"DOLLAR":  "USD",
	"DOLLARS": "USD",
	"POUND":   "GBP",
	"POUNDS":  "GBP",
	"STERLING": "GBP",
	"FRANC":   "CHF",
	"FRANCS":  "CHF",
}

// CanonicalCurrency resolves a currency value through the alias table,
// upper-casing first. It never fails; callers decide whether the result is
// a recognized ISO code.
func CanonicalCurrency(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	if canon, ok := KnownCurrencyAliases[v]; ok {
		return canon
	}
	return v
}

// BICCountry derives the ISO country from positions 5-6 (0-indexed 4:6) of
// a BIC, per ISO 9362. It does not validate the BIC's syntax; callers
// should run identifier.ValidateBIC first if syntax matters.
func BICCountry(bic string) (string, bool) {
	b := strings.ToUpper(strings.TrimSpace(bic))
	if len(b) < 6 {
		return "", false
	}
	country := b[4:6]
	if !IsISOCountry(country) {
		return country, false
	}
	return country, true
}

// IBANCountry derives the ISO country from the first two characters of an
// IBAN, per ISO 13616.
func IBANCountry(iban string) (string, bool) {
	b := strings.ToUpper(strings.TrimSpace(iban))
	if len(b) < 2 {
		return "", false
	}
	country := b[:2]
	if !IsISOCountry(country) {
		return country, false
	}
	return country, true
}

// OBANCountry derives the ISO country from the first two characters of an
// "other" account identifier, the same way IBANCountry does: spec §3 models
// OBAN as "a bank account identifier retaining a country prefix".
func OBANCountry(oban string) (string, bool) {
	return IBANCountry(oban)
}
