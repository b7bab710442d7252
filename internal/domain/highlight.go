package domain

// HighlightState is the interaction state shared by the grid and the map.
// Empty strings mean "nothing hovered" / "nothing selected". Both fields are
// independent and may be set at once.
type HighlightState struct {
	Hovered  string `json:"hovered,omitempty"`
	Selected string `json:"selected,omitempty"`
}

// Hover sets the hovered group; an empty id clears hover. Selection is untouched.
func (s HighlightState) Hover(id string) HighlightState {
	s.Hovered = id
	return s
}

// Select toggles id: selecting the selected group clears the selection,
// selecting any other group replaces it. An empty id clears the selection.
func (s HighlightState) Select(id string) HighlightState {
	if id == "" || s.Selected == id {
		s.Selected = ""
		return s
	}
	s.Selected = id
	return s
}

// Reset clears hover and selection. Used on module change, since group ids
// from the previous build are meaningless afterwards.
func (s HighlightState) Reset() HighlightState {
	return HighlightState{}
}

// Focused reports whether anything is hovered or selected.
func (s HighlightState) Focused() bool {
	return s.Hovered != "" || s.Selected != ""
}

// Emphasis is the visual weight of an entity under the current state.
type Emphasis string

const (
	EmphasisNeutral Emphasis = "neutral"
	EmphasisFocused Emphasis = "focused"
	EmphasisDimmed  Emphasis = "dimmed"
)

// EmphasisFor applies the focus rule to the entity owned by groupID. Grid
// tiles and map polygons both go through here.
func (s HighlightState) EmphasisFor(groupID string) Emphasis {
	if !s.Focused() {
		return EmphasisNeutral
	}
	if groupID != "" && (groupID == s.Hovered || groupID == s.Selected) {
		return EmphasisFocused
	}
	return EmphasisDimmed
}
