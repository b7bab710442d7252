package domain

// Style is the rendering style for a tile or polygon.
type Style struct {
	Color         string  `json:"color"`
	Weight        float64 `json:"weight"`
	StrokeOpacity float64 `json:"stroke_opacity"`
	FillOpacity   float64 `json:"fill_opacity"`
	Elevated      bool    `json:"elevated"`
}

const (
	baseWeight        = 1.5
	baseStrokeOpacity = 0.9
	baseFillOpacity   = 0.35

	focusedWeight        = 3
	focusedStrokeOpacity = 1
	focusedFillOpacity   = 0.65

	dimmedWeight        = 1
	dimmedStrokeOpacity = 0.25
	dimmedFillOpacity   = 0.08
)

// BaseStyle is the unfocused style for a tier.
func BaseStyle(t Tier) Style {
	return Style{
		Color:         t.Color(),
		Weight:        baseWeight,
		StrokeOpacity: baseStrokeOpacity,
		FillOpacity:   baseFillOpacity,
	}
}

// WithEmphasis derives the final style from a base style.
func (s Style) WithEmphasis(e Emphasis) Style {
	switch e {
	case EmphasisFocused:
		s.Weight = focusedWeight
		s.StrokeOpacity = focusedStrokeOpacity
		s.FillOpacity = focusedFillOpacity
		s.Elevated = true
	case EmphasisDimmed:
		s.Weight = dimmedWeight
		s.StrokeOpacity = dimmedStrokeOpacity
		s.FillOpacity = dimmedFillOpacity
		s.Elevated = false
	}
	return s
}

// StyleFor is BaseStyle(t).WithEmphasis(state.EmphasisFor(groupID)).
func StyleFor(t Tier, state HighlightState, groupID string) (Style, Emphasis) {
	e := state.EmphasisFor(groupID)
	return BaseStyle(t).WithEmphasis(e), e
}
