package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownModule is returned when a module key is not one of the product modules.
var ErrUnknownModule = errors.New("unknown module")

// Module is a product category with its own independent price book.
type Module string

const (
	ModuleWeeds   Module = "weeds"
	ModuleDumping Module = "dumping"
	ModuleVacant  Module = "vacant"
)

// Modules lists every product module in display order.
var Modules = []Module{ModuleWeeds, ModuleDumping, ModuleVacant}

// ParseModule normalizes a module key. Matching is case-insensitive and ignores
// surrounding whitespace.
func ParseModule(s string) (Module, error) {
	m := Module(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modules {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModule, s)
}

// PriceBookEntry is one row of the static price book: a territory group for a
// single module. Entries are loaded once and never mutated.
type PriceBookEntry struct {
	Module        Module          `json:"module"`
	Zips          string          `json:"zips"` // comma-joined, e.g. "98107, 98117"
	Tier          string          `json:"tier,omitempty"`
	MonthlyPrice  decimal.Decimal `json:"monthly_price"`
	ExpectedLeads float64         `json:"expected_leads,omitempty"`
	YearlyVolume  float64         `json:"yearly_volume,omitempty"` // ordering only
}

// HasListedPrice reports whether the entry carries a positive monthly price.
func (e PriceBookEntry) HasListedPrice() bool {
	return e.MonthlyPrice.IsPositive()
}

// SplitZips splits a comma-joined ZIP field into trimmed, non-empty codes,
// preserving order.
func SplitZips(field string) []string {
	parts := strings.Split(field, ",")
	zips := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		zips = append(zips, p)
	}
	return zips
}
