package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Group is one served price-book row: a bundle of ZIP codes sold together.
// IDs are positional and only stable within a single module build.
type Group struct {
	ID            string          `json:"id"`
	Module        Module          `json:"module"`
	Zips          []string        `json:"zips"`
	Tier          TierInfo        `json:"tier"`
	MonthlyPrice  decimal.Decimal `json:"monthly_price"`
	ExpectedLeads float64         `json:"expected_leads,omitempty"`
	YearlyVolume  float64         `json:"yearly_volume,omitempty"`
}

// Label joins the member ZIPs for display, e.g. "98107, 98117".
func (g Group) Label() string {
	return strings.Join(g.Zips, ", ")
}

// HasListedPrice reports whether the group shows a price.
func (g Group) HasListedPrice() bool {
	return g.MonthlyPrice.IsPositive()
}

// GroupID returns the identifier assigned to the n-th group of a build.
func GroupID(n int) string {
	return fmt.Sprintf("group-%d", n)
}

// BuildGroups derives the ordered groups for one module. Rows for other
// modules and rows without a tier are dropped. Survivors are ordered by tier
// priority, then by yearly volume descending; ties keep price-book order.
func BuildGroups(entries []PriceBookEntry, module Module) []Group {
	type candidate struct {
		entry PriceBookEntry
		tier  TierInfo
	}

	var candidates []candidate
	for _, e := range entries {
		if e.Module != module {
			continue
		}
		info := ClassifyTier(e)
		if !info.Served() {
			continue
		}
		candidates = append(candidates, candidate{entry: e, tier: info})
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		if pa, pb := a.tier.Tier.Priority(), b.tier.Tier.Priority(); pa != pb {
			return pa - pb
		}
		switch {
		case a.entry.YearlyVolume > b.entry.YearlyVolume:
			return -1
		case a.entry.YearlyVolume < b.entry.YearlyVolume:
			return 1
		default:
			return 0
		}
	})

	groups := make([]Group, 0, len(candidates))
	for i, c := range candidates {
		groups = append(groups, Group{
			ID:            GroupID(i),
			Module:        module,
			Zips:          SplitZips(c.entry.Zips),
			Tier:          c.tier,
			MonthlyPrice:  c.entry.MonthlyPrice,
			ExpectedLeads: c.entry.ExpectedLeads,
			YearlyVolume:  c.entry.YearlyVolume,
		})
	}
	return groups
}
