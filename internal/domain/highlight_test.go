package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightState_Select(t *testing.T) {
	t.Run("select then reselect clears", func(t *testing.T) {
		s := HighlightState{}.Select("group-1")
		assert.Equal(t, "group-1", s.Selected)
		assert.Empty(t, s.Select("group-1").Selected)
	})

	t.Run("selecting another replaces", func(t *testing.T) {
		s := HighlightState{Selected: "group-1"}.Select("group-2")
		assert.Equal(t, "group-2", s.Selected)
	})

	t.Run("empty clears", func(t *testing.T) {
		s := HighlightState{Selected: "group-1"}.Select("")
		assert.Empty(t, s.Selected)
	})

	t.Run("hover untouched", func(t *testing.T) {
		s := HighlightState{Hovered: "group-0"}.Select("group-1")
		assert.Equal(t, "group-0", s.Hovered)
	})
}

func TestHighlightState_Hover(t *testing.T) {
	s := HighlightState{Selected: "group-1"}.Hover("group-0")
	assert.Equal(t, HighlightState{Hovered: "group-0", Selected: "group-1"}, s)

	s = s.Hover("")
	assert.Equal(t, HighlightState{Selected: "group-1"}, s)
	assert.Equal(t, HighlightState{}, s.Reset())
}

func TestHighlightState_EmphasisFor(t *testing.T) {
	tests := []struct {
		name  string
		state HighlightState
		group string
		want  Emphasis
	}{
		{"idle", HighlightState{}, "group-0", EmphasisNeutral},
		{"hovered", HighlightState{Hovered: "group-0"}, "group-0", EmphasisFocused},
		{"selected", HighlightState{Selected: "group-0"}, "group-0", EmphasisFocused},
		{"other group dims", HighlightState{Hovered: "group-1"}, "group-0", EmphasisDimmed},
		{"hovered and selected both focus", HighlightState{Hovered: "group-1", Selected: "group-2"}, "group-2", EmphasisFocused},
		{"unowned entity dims", HighlightState{Selected: "group-2"}, "", EmphasisDimmed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.EmphasisFor(tt.group))
		})
	}
}

func TestStyleFor(t *testing.T) {
	t.Run("neutral keeps tier color and base weight", func(t *testing.T) {
		s, e := StyleFor(TierPremium, HighlightState{}, "group-0")
		assert.Equal(t, EmphasisNeutral, e)
		assert.Equal(t, BaseStyle(TierPremium), s)
		assert.False(t, s.Elevated)
	})

	t.Run("focused is heavier and elevated", func(t *testing.T) {
		s, _ := StyleFor(TierLow, HighlightState{Hovered: "group-0"}, "group-0")
		assert.Equal(t, "#d97706", s.Color)
		assert.Greater(t, s.Weight, BaseStyle(TierLow).Weight)
		assert.Greater(t, s.FillOpacity, BaseStyle(TierLow).FillOpacity)
		assert.True(t, s.Elevated)
	})

	t.Run("dimmed is lighter", func(t *testing.T) {
		s, _ := StyleFor(TierLow, HighlightState{Hovered: "group-1"}, "group-0")
		assert.Less(t, s.StrokeOpacity, BaseStyle(TierLow).StrokeOpacity)
		assert.Less(t, s.FillOpacity, BaseStyle(TierLow).FillOpacity)
		assert.False(t, s.Elevated)
	})

	t.Run("unknown tier styles as high", func(t *testing.T) {
		s, _ := StyleFor(TierUnknown, HighlightState{}, "group-0")
		assert.Equal(t, BaseStyle(TierHigh), s)
	})
}
