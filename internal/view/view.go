package view

import (
	"github.com/scopesignals/coverage/internal/coverage"
	"github.com/scopesignals/coverage/internal/domain"
)

// View is what the embedding page draws after every transition.
type View struct {
	SessionID string                `json:"session_id,omitempty"`
	Module    domain.Module         `json:"module"`
	State     domain.HighlightState `json:"state"`
	Grid      []Tile                `json:"grid"`
	Map       MapView               `json:"map"`
}

// Render derives both views from one snapshot.
func Render(snap coverage.Snapshot, settings domain.MapSettings) View {
	v := View{
		SessionID: snap.SessionID,
		State:     snap.State,
		Grid:      RenderGrid(snap.Coverage, snap.State),
		Map:       RenderMap(snap.Coverage, snap.State, settings),
	}
	if snap.Coverage != nil {
		v.Module = snap.Coverage.Module
	}
	return v
}
