package reftable

import "testing"

func TestIsEUMemberState(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"DE", true},
		{"de", true},
		{"US", false},
		{"GB", false}, // post-Brexit
		{"", false},
	}
	for _, c := range cases {
		if got := IsEUMemberState(c.code); got != c.want {
			t.Errorf("IsEUMemberState(%q) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestIsISOCountry(t *testing.T) {
	if !IsISOCountry("US") {
		t.Error("expected US to be a recognized ISO country")
	}
	if IsISOCountry("ZZ") {
		t.Error("expected ZZ to not be a recognized ISO country")
	}
}

func TestCanonicalCurrency(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"EURO", "EUR"},
		{" euros ", "EUR"},
		{"dollars", "USD"},
		{"eur", "EUR"},
		{"XYZ", "XYZ"},
	}
	for _, c := range cases {
		if got := CanonicalCurrency(c.in); got != c.want {
			t.Errorf("CanonicalCurrency(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBICCountry(t *testing.T) {
	country, ok := BICCountry("AFBQBGKT")
	if !ok || country != "BG" {
		t.Errorf("BICCountry(AFBQBGKT) = (%q, %v), want (BG, true)", country, ok)
	}

	if _, ok := BICCountry("AB"); ok {
		t.Error("expected short BIC to fail country derivation")
	}
}

func TestIBANCountry(t *testing.T) {
	country, ok := IBANCountry("DE89370400440532013000")
	if !ok || country != "DE" {
		t.Errorf("IBANCountry = (%q, %v), want (DE, true)", country, ok)
	}
}
