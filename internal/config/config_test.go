package config

import "testing"

func TestDefaults(t *testing.T) {
	c := Defaults()
	if c.Threshold != 25 {
		t.Errorf("Threshold = %d, want 25", c.Threshold)
	}
	if c.IncludeRefunds {
		t.Error("IncludeRefunds = true, want false")
	}
	if c.TransmittingCountry != TransmittingCountryAuto {
		t.Errorf("TransmittingCountry = %q, want %q", c.TransmittingCountry, TransmittingCountryAuto)
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", c.LogLevel)
	}
}

func TestParseLicensedCountries(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"de,fr", []string{"DE", "FR"}},
		{" DE , fr ,,", []string{"DE", "FR"}},
	}
	for _, c := range cases {
		got := ParseLicensedCountries(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("ParseLicensedCountries(%q) = %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("ParseLicensedCountries(%q)[%d] = %q, want %q", c.in, i, got[i], c.want[i])
			}
		}
	}
}

func TestValidate_NegativeThreshold(t *testing.T) {
	c := Defaults()
	c.Threshold = -1
	if err := c.Validate(); err == nil {
		t.Error("expected an error for a negative threshold")
	}
}

func TestValidate_MalformedTransmittingCountry(t *testing.T) {
	c := Defaults()
	c.TransmittingCountry = "Germany"
	if err := c.Validate(); err == nil {
		t.Error("expected an error for a malformed transmitting-country value")
	}
}

func TestValidate_FixedTwoLetterCountryOK(t *testing.T) {
	c := Defaults()
	c.TransmittingCountry = "DE"
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_LicensedCountriesBypassesTransmittingCountryCheck(t *testing.T) {
	c := Defaults()
	c.TransmittingCountry = "not-a-code"
	c.LicensedCountries = []string{"DE", "FR"}
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
