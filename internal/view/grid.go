// Package view renders the grid and map views from one session snapshot.
// Both are pure functions of the coverage build and the highlight state;
// neither reads the other.
package view

import (
	"github.com/shopspring/decimal"

	"github.com/scopesignals/coverage/internal/coverage"
	"github.com/scopesignals/coverage/internal/domain"
)

// Tile is one group rendered in the list grid.
type Tile struct {
	GroupID       string          `json:"group_id"`
	Label         string          `json:"label"`
	Zips          []string        `json:"zips"`
	Tier          domain.Tier     `json:"tier"`
	TierLabel     string          `json:"tier_label"`
	Price         string          `json:"price,omitempty"`
	ExpectedLeads float64         `json:"expected_leads,omitempty"`
	Style         domain.Style    `json:"style"`
	Emphasis      domain.Emphasis `json:"emphasis"`
}

// RenderGrid returns one tile per group, in group order.
func RenderGrid(cov *coverage.Coverage, state domain.HighlightState) []Tile {
	if cov == nil {
		return nil
	}
	tiles := make([]Tile, 0, len(cov.Groups))
	for _, g := range cov.Groups {
		style, emphasis := domain.StyleFor(g.Tier.Tier, state, g.ID)
		t := Tile{
			GroupID:       g.ID,
			Label:         g.Label(),
			Zips:          g.Zips,
			Tier:          g.Tier.Tier,
			TierLabel:     g.Tier.Label,
			ExpectedLeads: g.ExpectedLeads,
			Style:         style,
			Emphasis:      emphasis,
		}
		if g.HasListedPrice() {
			t.Price = FormatPrice(g.MonthlyPrice)
		}
		tiles = append(tiles, t)
	}
	return tiles
}

// FormatPrice renders a monthly price, e.g. "$300/mo" or "$149.50/mo".
func FormatPrice(p decimal.Decimal) string {
	if p.IsInteger() {
		return "$" + p.StringFixed(0) + "/mo"
	}
	return "$" + p.StringFixed(2) + "/mo"
}
