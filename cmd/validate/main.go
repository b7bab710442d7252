// Command validate performs integrity checks on the price book and ZIP
// boundary datasets before they are deployed. It verifies row shape, tier
// labels, ZIP ownership within each module, and boundary coverage of every
// served ZIP.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -pricebook data/mock/pricebook.json \
//	  -boundaries data/mock/zip_boundaries.geojson
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/paulmach/orb/geojson"

	"github.com/scopesignals/coverage/internal/adapter/dataset"
	"github.com/scopesignals/coverage/internal/domain"
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	priceBookPath := flag.String("pricebook", "", "path to the price book JSON")
	boundariesPath := flag.String("boundaries", "", "path to the ZIP boundary GeoJSON")
	flag.Parse()

	if *priceBookPath == "" || *boundariesPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*priceBookPath, *boundariesPath))
}

func run(priceBookPath, boundariesPath string) int {
	fmt.Println("=== Coverage Data Integrity Validation ===")
	fmt.Println()

	entries, err := dataset.LoadPriceBookFile(priceBookPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	fc, err := dataset.LoadBoundariesFile(boundariesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRows(entries),
		validateTiers(entries),
		validateZipClaims(entries),
		validateBoundaries(entries, fc),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d price-book rows, %d boundary features\n", len(entries), len(fc.Features))
	for _, m := range domain.Modules {
		groups := domain.BuildGroups(entries, m)
		index := domain.NewZipIndex(groups)
		drawn := domain.FilterBoundaries(fc, index)
		fmt.Printf("  %-10s %3d groups, %4d ZIPs, %4d drawn\n", m, len(groups), index.Len(), drawn.Len())
	}

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.warnings) == 0 {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
		for _, w := range p.warnings {
			fmt.Printf("  warn: %s\n", w)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateRows checks the shape of every price-book row.
func validateRows(entries []domain.PriceBookEntry) *phase {
	p := &phase{name: "Phase 1: Price book rows"}
	for i, e := range entries {
		if _, err := domain.ParseModule(string(e.Module)); err != nil {
			p.errorf("row %d: %v", i, err)
		}
		zips := domain.SplitZips(e.Zips)
		if len(zips) == 0 {
			p.errorf("row %d (%s): no ZIP codes", i, e.Module)
		}
		for _, z := range zips {
			if !zipPattern.MatchString(z) {
				p.errorf("row %d (%s): malformed ZIP %q", i, e.Module, z)
			}
		}
		if e.MonthlyPrice.IsNegative() {
			p.errorf("row %d (%s): negative monthly price %s", i, e.Module, e.MonthlyPrice)
		}
		if e.ExpectedLeads < 0 || e.YearlyVolume < 0 {
			p.errorf("row %d (%s): negative leads or volume", i, e.Module)
		}
	}
	return p
}

// validateTiers reports labels outside the known tier set. Both unknown and
// missing labels render fine, so they are warnings only.
func validateTiers(entries []domain.PriceBookEntry) *phase {
	p := &phase{name: "Phase 2: Tier labels"}
	untiered := 0
	for i, e := range entries {
		info := domain.ClassifyTier(e)
		switch {
		case !info.Served():
			untiered++
		case !info.Tier.Known():
			p.warnf("row %d (%s, %s): unknown tier label %q, served with the High style", i, e.Module, e.Zips, info.Label)
		}
	}
	if untiered > 0 {
		p.warnf("%d rows have no tier and will not be served", untiered)
	}
	return p
}

// validateZipClaims reports ZIPs served by more than one group of the same
// module. The later group in display order wins at runtime.
func validateZipClaims(entries []domain.PriceBookEntry) *phase {
	p := &phase{name: "Phase 3: ZIP ownership per module"}
	for _, m := range domain.Modules {
		owner := make(map[string]string)
		for _, g := range domain.BuildGroups(entries, m) {
			for _, z := range g.Zips {
				if first, ok := owner[z]; ok {
					p.errorf("%s: ZIP %s claimed by %q and %q (the latter wins)", m, z, first, g.Label())
				}
				owner[z] = g.Label()
			}
		}
	}
	return p
}

// validateBoundaries checks that every feature is keyed by a ZIP and lists
// served ZIPs that cannot be drawn.
func validateBoundaries(entries []domain.PriceBookEntry, fc *geojson.FeatureCollection) *phase {
	p := &phase{name: "Phase 4: Boundary coverage"}

	seen := make(map[string]int)
	for i, f := range fc.Features {
		zip := domain.ZipKey(f)
		if zip == "" {
			p.errorf("feature %d: no ZIP property (%v)", i, domain.ZipPropertyKeys)
			continue
		}
		if first, ok := seen[zip]; ok {
			p.warnf("ZIP %s has more than one feature (%d and %d)", zip, first, i)
			continue
		}
		seen[zip] = i
	}

	for _, m := range domain.Modules {
		index := domain.NewZipIndex(domain.BuildGroups(entries, m))
		missing := domain.FilterBoundaries(fc, index).MissingZips()
		slices.Sort(missing)
		for _, z := range missing {
			p.warnf("%s: served ZIP %s has no boundary and is list-only", m, z)
		}
	}
	return p
}
