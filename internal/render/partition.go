// Package render implements C7: partitioning reportable payee groups into
// (reporting PSP, transmitting country, year, quarter) files and serializing
// each as a CESOP PaymentData XML document via beevik/etree, the way
// speedata/einvoice's writer.go/writer_cii.go build CII documents element
// by element with mandatory ordering (spec §4.4, §5).
package render

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/cesop-report/cesop/internal/config"
	"github.com/cesop-report/cesop/internal/reftable"
	"github.com/cesop-report/cesop/internal/scope"
)

// Partition is one output file's worth of work: a single (reporting PSP,
// transmitting country, quarter) key plus the payee groups assigned to it,
// already sorted by payee identifier (spec §5's "lexicographic on payee
// identifier" ordering guarantee).
type Partition struct {
	ReportingPSPID      string
	TransmittingCountry string
	Quarter             scope.Quarter
	Groups              []*scope.PayeeGroup
}

// FileName returns the spec §4.4 file name for this partition.
func (p Partition) FileName() string {
	return fmt.Sprintf("cesop_%d_Q%d_%s_%s.xml", p.Quarter.Year, p.Quarter.Quarter, p.TransmittingCountry, p.ReportingPSPID)
}

// Partitioner assigns reportable payee groups to output partitions
// according to the transmitting-country policy of spec §4.4.
type Partitioner struct {
	cfg *config.Config
}

// NewPartitioner builds a Partitioner from a resolved Config.
func NewPartitioner(cfg *config.Config) *Partitioner {
	return &Partitioner{cfg: cfg}
}

// Partition groups the reportable (VerdictReportable) subset of groups into
// Partitions, skipping tainted groups and groups below threshold or
// counted-only (spec §7: "TAINTED and suppressed from XML output").
func (p *Partitioner) Partition(groups []*scope.PayeeGroup) []Partition {
	byKey := make(map[partitionKey][]*scope.PayeeGroup)

	for _, g := range groups {
		if g.Verdict != scope.VerdictReportable || g.Tainted {
			continue
		}
		country := p.transmittingCountryFor(g)
		key := partitionKey{pspID: g.Key.ReportingPSPID, country: country, quarter: g.Key.Quarter}
		byKey[key] = append(byKey[key], g)
	}

	partitions := make([]Partition, 0, len(byKey))
	for key, gs := range byKey {
		sort.Slice(gs, func(i, j int) bool { return gs[i].Key.PayeeID < gs[j].Key.PayeeID })
		partitions = append(partitions, Partition{
			ReportingPSPID:      key.pspID,
			TransmittingCountry: key.country,
			Quarter:             key.quarter,
			Groups:              gs,
		})
	}

	sort.Slice(partitions, func(i, j int) bool {
		if partitions[i].ReportingPSPID != partitions[j].ReportingPSPID {
			return partitions[i].ReportingPSPID < partitions[j].ReportingPSPID
		}
		return partitions[i].TransmittingCountry < partitions[j].TransmittingCountry
	})
	return partitions
}

type partitionKey struct {
	pspID   string
	country string
	quarter scope.Quarter
}

// transmittingCountryFor resolves the transmitting country for one payee
// group under the configured policy (spec §4.4): auto derives it from the
// reporting PSP BIC; a fixed MS applies to every group; a licensed-countries
// list assigns by payee country, then PSP home country, then a stable
// round-robin hash of the payee key.
func (p *Partitioner) transmittingCountryFor(g *scope.PayeeGroup) string {
	if len(p.cfg.LicensedCountries) > 0 {
		return assignLicensedCountry(g, p.cfg.LicensedCountries)
	}
	if p.cfg.TransmittingCountry != config.TransmittingCountryAuto {
		return p.cfg.TransmittingCountry
	}
	if country, ok := reftable.BICCountry(g.Key.ReportingPSPID); ok {
		return country
	}
	return "XX"
}

func assignLicensedCountry(g *scope.PayeeGroup, licensed []string) string {
	set := make(map[string]bool, len(licensed))
	for _, c := range licensed {
		set[c] = true
	}
	if set[g.Key.PayeeCountry] {
		return g.Key.PayeeCountry
	}
	if pspCountry, ok := reftable.BICCountry(g.Key.ReportingPSPID); ok && set[pspCountry] {
		return pspCountry
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(g.Key.ReportingPSPID + "|" + g.Key.PayeeID + "|" + g.Key.PayeeCountry))
	idx := int(h.Sum32()) % len(licensed)
	if idx < 0 {
		idx += len(licensed)
	}
	return licensed[idx]
}
