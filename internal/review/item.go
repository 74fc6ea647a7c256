package review

import (
	"encoding/json"
	"time"

	"plateview/internal/audit"
)

// Kind tags the two item flavors sharing the controller.
type Kind string

const (
	// KindDecision is a machine-issued enforcement decision awaiting review.
	KindDecision Kind = "decision"
	// KindPlate is an ambiguous ANPR plate read awaiting confirmation.
	KindPlate Kind = "plate"
)

// Item is one reviewable queue entry. The controller only depends on ID and
// the correlation identifiers; everything else is rendered, not interpreted.
type Item struct {
	Kind       Kind
	ID         string
	VRM        string
	SiteID     string
	Reason     string
	Status     string
	Validation string

	EntryTime  time.Time
	ExitTime   time.Time
	ObservedAt time.Time
	SessionID  string
	DecisionID string

	// Confidence is the read confidence for plate items, 0 for decisions.
	Confidence float64

	// Payload preserves the server's full record for the details pane.
	Payload json.RawMessage
}

// CorrelationKey returns the identifiers the audit reconstructor can fan out
// on for this item.
func (it Item) CorrelationKey() audit.Key {
	return audit.Key{
		VRM:        it.VRM,
		SiteID:     it.SiteID,
		EntryTime:  it.EntryTime,
		ExitTime:   it.ExitTime,
		SessionID:  it.SessionID,
		DecisionID: it.DecisionID,
	}
}

// DisplayVRM returns the canonical plate mark for rendering.
func (it Item) DisplayVRM() string {
	return audit.NormalizeVRM(it.VRM)
}

// Action is an operator decision on one or more items.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCorrect Action = "correct"
	ActionDiscard Action = "discard"
	// ActionSkip is purely local: the cursor advances, the item stays queued
	// and returns on the next full refresh.
	ActionSkip Action = "skip"
)

// Bulkable reports whether the action has a batch variant.
func (a Action) Bulkable() bool {
	return a == ActionApprove || a == ActionDiscard
}

// Page is one listQueue response: the loaded items plus the server-side
// total, which may exceed len(Items) under pagination.
type Page struct {
	Items []Item
	Total int
}
