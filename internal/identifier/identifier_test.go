package identifier

import "testing"

func TestValidateIBAN(t *testing.T) {
	cases := []struct {
		name string
		iban string
		want bool
	}{
		{"valid DE", "DE89370400440532013000", true},
		{"lowercase with spaces", "de89 3704 0044 0532 0130 00", true},
		{"bad checksum", "DE00370400440532013000", false},
		{"too short", "DE89", false},
		{"unknown country", "ZZ89370400440532013000", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok, reason := ValidateIBAN(c.iban)
			if ok != c.want {
				t.Errorf("ValidateIBAN(%q) = (%v, %q), want ok=%v", c.iban, ok, reason, c.want)
			}
		})
	}
}

func TestComputeIBANCheckDigits(t *testing.T) {
	// DE89370400440532013000 is a known-valid IBAN; recomputing check
	// digits for its own BBAN should reproduce "89".
	check := ComputeIBANCheckDigits("DE", "370400440532013000")
	if check != "89" {
		t.Errorf("ComputeIBANCheckDigits(DE, ...) = %q, want \"89\"", check)
	}

	synthesized := "DE" + check + "370400440532013000"
	if ok, reason := ValidateIBAN(synthesized); !ok {
		t.Errorf("synthesized IBAN %q should validate, got reason %q", synthesized, reason)
	}
}

func TestValidateBIC(t *testing.T) {
	cases := []struct {
		bic  string
		want bool
	}{
		{"AFBQBGKT", true},
		{"DEUTDEFF500", true},
		{"short", false},
		{"", false},
	}
	for _, c := range cases {
		if ok, _ := ValidateBIC(c.bic); ok != c.want {
			t.Errorf("ValidateBIC(%q) = %v, want %v", c.bic, ok, c.want)
		}
	}
}

func TestValidateVAT(t *testing.T) {
	cases := []struct {
		vat  string
		want bool
	}{
		{"ATU12345678", true},
		{"DE123456789", true},
		{"EL123456789", true},
		{"GR123456789", true},
		{"XX123456789", false},
		{"DE12", false},
	}
	for _, c := range cases {
		if ok, _ := ValidateVAT(c.vat); ok != c.want {
			t.Errorf("ValidateVAT(%q) = %v, want %v", c.vat, ok, c.want)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	cases := []struct {
		amount string
		want   bool
	}{
		{"100.00", true},
		{"0.01", true},
		{"100", false},
		{"100.0", false},
		{"100.000", false},
	}
	for _, c := range cases {
		if ok, _ := ValidateAmount(c.amount); ok != c.want {
			t.Errorf("ValidateAmount(%q) = %v, want %v", c.amount, ok, c.want)
		}
	}
}
