// Package config resolves pipeline settings from CLI flag defaults and the
// process environment into one Config, the way a caller of the core
// components should — the core components themselves take plain arguments
// and know nothing about viper or flags (see spec §6).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// TransmittingCountryAuto is the sentinel value for --transmitting-country
// that asks the renderer to derive the country from the reporting PSP BIC.
const TransmittingCountryAuto = "auto"

// Config holds the resolved settings for one pipeline run.
type Config struct {
	Input               string
	Output              string
	OutputDir           string
	Threshold           int
	IncludeRefunds      bool
	TransmittingCountry string
	LicensedCountries   []string
	LogLevel            string
	LogDir              string
}

// Defaults returns a Config populated with the spec's documented flag
// defaults (§6) before any environment or flag overrides are applied.
func Defaults() *Config {
	v := viper.New()
	v.SetDefault("threshold", 25)
	v.SetDefault("include_refunds", false)
	v.SetDefault("transmitting_country", TransmittingCountryAuto)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "off")

	v.SetEnvPrefix("cesop")
	v.AutomaticEnv()
	_ = v.BindEnv("log_level", "CESOP_LOG_LEVEL")
	_ = v.BindEnv("log_dir", "CESOP_LOG_DIR")

	return &Config{
		Threshold:           v.GetInt("threshold"),
		IncludeRefunds:      v.GetBool("include_refunds"),
		TransmittingCountry: v.GetString("transmitting_country"),
		LogLevel:            v.GetString("log_level"),
		LogDir:              v.GetString("log_dir"),
	}
}

// ParseLicensedCountries splits a comma-separated --licensed-countries flag
// value into uppercase, trimmed country codes.
func ParseLicensedCountries(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks invariants that hold regardless of which subcommand is
// running: a non-negative threshold and a well-formed transmitting-country
// mode (not checked when licensed countries are set).
func (c *Config) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("config: threshold must not be negative, got %d", c.Threshold)
	}
	if c.TransmittingCountry != TransmittingCountryAuto && len(c.TransmittingCountry) != 2 && len(c.LicensedCountries) == 0 {
		return fmt.Errorf("config: transmitting-country %q must be %q or a 2-letter Member State code", c.TransmittingCountry, TransmittingCountryAuto)
	}
	return nil
}
