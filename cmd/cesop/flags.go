package main

import (
	"flag"

	"github.com/cesop-report/cesop/internal/config"
)

// coreFlags holds the flag.FlagSet variables for the core flags of spec §6,
// seeded from cfg's resolved defaults (env + viper) the way LeJamon-goXRPLd
// seeds flag defaults from a viper-backed config.
type coreFlags struct {
	licensedCountries string
}

// bindCoreFlags registers the core flags onto fs, writing most of them
// straight into cfg; licensedCountries is parsed separately after fs.Parse
// since flag.FlagSet has no native CSV-list type.
func bindCoreFlags(fs *flag.FlagSet, cfg *config.Config) *coreFlags {
	fs.StringVar(&cfg.Input, "input", cfg.Input, "input CSV file")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output file (single-file commands)")
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "output directory (render)")
	fs.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "reportability threshold (payments per payee per quarter)")
	fs.BoolVar(&cfg.IncludeRefunds, "include-refunds", cfg.IncludeRefunds, "include refunds in synthetic generation")
	fs.StringVar(&cfg.TransmittingCountry, "transmitting-country", cfg.TransmittingCountry, "transmitting country MS code, or \"auto\"")

	cf := &coreFlags{}
	fs.StringVar(&cf.licensedCountries, "licensed-countries", "", "comma-separated list of licensed transmitting countries")
	return cf
}

// applyLicensedCountries resolves the parsed --licensed-countries flag into
// cfg.LicensedCountries; call after fs.Parse.
func (cf *coreFlags) applyLicensedCountries(cfg *config.Config) {
	cfg.LicensedCountries = config.ParseLicensedCountries(cf.licensedCountries)
}
