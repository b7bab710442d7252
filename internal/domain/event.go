package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SelectionAction says whether a selection was made or cleared.
type SelectionAction string

const (
	ActionSelected SelectionAction = "selected"
	ActionCleared  SelectionAction = "cleared"
)

// SelectionEvent is emitted whenever a session's selection changes, so the
// embedding page (or anything downstream) can react, e.g. with a
// "check availability" call to action.
type SelectionEvent struct {
	ID           string           `json:"id"`
	SessionID    string           `json:"session_id"`
	Module       Module           `json:"module"`
	Action       SelectionAction  `json:"action"`
	GroupID      string           `json:"group_id,omitempty"`
	Zips         []string         `json:"zips,omitempty"`
	Tier         Tier             `json:"tier,omitempty"`
	MonthlyPrice *decimal.Decimal `json:"monthly_price,omitempty"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

// NewSelectionEvent builds the event for a selection change. A zero group
// means the selection was cleared.
func NewSelectionEvent(sessionID string, module Module, g Group, selected bool) SelectionEvent {
	ev := SelectionEvent{
		SessionID:  sessionID,
		Module:     module,
		Action:     ActionCleared,
		OccurredAt: clock.Now().UTC(),
	}
	if selected {
		ev.Action = ActionSelected
		ev.GroupID = g.ID
		ev.Zips = g.Zips
		ev.Tier = g.Tier.Tier
		if g.HasListedPrice() {
			price := g.MonthlyPrice
			ev.MonthlyPrice = &price
		}
	}
	ev.ID = generateEventID(ev)
	return ev
}

// generateEventID hashes the identifying fields so a replayed event keeps its ID.
func generateEventID(ev SelectionEvent) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%d", ev.SessionID, ev.Module, ev.Action, ev.GroupID, ev.OccurredAt.UnixNano())
	hash := sha256.Sum256([]byte(input))
	return string(ev.Action) + "-" + hex.EncodeToString(hash[:8])
}

// OutputEvent is the serialized form destined for the event sink.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// SerializeSelectionEvent marshals an event keyed by session, so one
// visitor's events stay ordered within a partition.
func SerializeSelectionEvent(ev SelectionEvent) (OutputEvent, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize selection event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(ev.SessionID),
		Value: data,
		Headers: map[string]string{
			"event_action": string(ev.Action),
			"module":       string(ev.Module),
			"occurred_at":  ev.OccurredAt.Format(time.RFC3339),
		},
	}, nil
}
