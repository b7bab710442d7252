package domain

import "strings"

// Tier is a coverage-quality classification driving sort order and map color.
type Tier string

const (
	TierNone    Tier = ""
	TierPremium Tier = "Premium"
	TierHigh    Tier = "High"
	TierLow     Tier = "Low"
	TierBonus   Tier = "Bonus"
	// TierUnknown marks a non-empty label outside the closed set. It is still
	// served; it sorts last and styles as High.
	TierUnknown Tier = "Unknown"
)

type tierMeta struct {
	color    string
	priority int
}

var tiers = map[Tier]tierMeta{
	TierPremium: {color: "#15803d", priority: 1},
	TierHigh:    {color: "#2563eb", priority: 2},
	TierLow:     {color: "#d97706", priority: 3},
	TierBonus:   {color: "#7c3aed", priority: 4},
}

const unknownTierPriority = 5

// TierInfo is the classification result for one price-book row. Label keeps
// the raw (trimmed) text so unknown tiers can still be displayed.
type TierInfo struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
}

// Served reports whether the row qualifies for a group.
func (t TierInfo) Served() bool {
	return t.Tier != TierNone
}

// ClassifyTier maps a price-book row to its tier. It never fails: empty labels
// yield TierNone and unrecognized labels yield TierUnknown.
func ClassifyTier(entry PriceBookEntry) TierInfo {
	return ClassifyLabel(entry.Tier)
}

// ClassifyLabel classifies a raw tier label.
func ClassifyLabel(label string) TierInfo {
	label = strings.TrimSpace(label)
	if label == "" {
		return TierInfo{Tier: TierNone}
	}
	for t := range tiers {
		if strings.EqualFold(label, string(t)) {
			return TierInfo{Tier: t, Label: string(t)}
		}
	}
	return TierInfo{Tier: TierUnknown, Label: label}
}

// Priority returns the sort priority of a tier; lower sorts first.
func (t Tier) Priority() int {
	if m, ok := tiers[t]; ok {
		return m.priority
	}
	return unknownTierPriority
}

// Color returns the display color of a tier. Tiers outside the closed set use
// the High color.
func (t Tier) Color() string {
	if m, ok := tiers[t]; ok {
		return m.color
	}
	return tiers[TierHigh].color
}

// Known reports whether t is one of Premium, High, Low or Bonus.
func (t Tier) Known() bool {
	_, ok := tiers[t]
	return ok
}
