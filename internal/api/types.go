package api

import (
	"encoding/json"
	"time"

	"plateview/internal/audit"
	"plateview/internal/review"
)

// dateFormat is used for date-range query parameters.
const dateFormat = "2006-01-02"

// queueItemDTO mirrors one reviewable item on the wire.
type queueItemDTO struct {
	Kind       string          `json:"kind"`
	ID         string          `json:"id"`
	VRM        string          `json:"vrm"`
	SiteID     string          `json:"siteId"`
	Reason     string          `json:"reason,omitempty"`
	Status     string          `json:"status,omitempty"`
	Validation string          `json:"validation,omitempty"`
	EntryTime  *time.Time      `json:"entryTime,omitempty"`
	ExitTime   *time.Time      `json:"exitTime,omitempty"`
	ObservedAt *time.Time      `json:"observedAt,omitempty"`
	SessionID  string          `json:"sessionId,omitempty"`
	DecisionID string          `json:"decisionId,omitempty"`
	Confidence float64         `json:"confidence,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// queuePageDTO is the listQueue response envelope.
type queuePageDTO struct {
	Items []queueItemDTO `json:"items"`
	Total int            `json:"total"`
}

// decisionRequest is the single-item action body.
type decisionRequest struct {
	Action       string `json:"action"`
	Notes        string `json:"notes,omitempty"`
	CorrectedVRM string `json:"correctedVrm,omitempty"`
}

// bulkRequest is the batch action body.
type bulkRequest struct {
	Action string   `json:"action"`
	IDs    []string `json:"ids"`
	Reason string   `json:"reason,omitempty"`
}

// auditEntryDTO mirrors one audit log record on the wire.
type auditEntryDTO struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Action    string          `json:"action"`
	Actor     string          `json:"actor"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// errorBody is the 4xx response envelope.
type errorBody struct {
	Message string `json:"message"`
}

func toItem(dto queueItemDTO) review.Item {
	item := review.Item{
		Kind:       review.Kind(dto.Kind),
		ID:         dto.ID,
		VRM:        dto.VRM,
		SiteID:     dto.SiteID,
		Reason:     dto.Reason,
		Status:     dto.Status,
		Validation: dto.Validation,
		SessionID:  dto.SessionID,
		DecisionID: dto.DecisionID,
		Confidence: dto.Confidence,
		Payload:    dto.Payload,
	}
	if dto.EntryTime != nil {
		item.EntryTime = *dto.EntryTime
	}
	if dto.ExitTime != nil {
		item.ExitTime = *dto.ExitTime
	}
	if dto.ObservedAt != nil {
		item.ObservedAt = *dto.ObservedAt
	}
	return item
}

func toPage(dto queuePageDTO) review.Page {
	items := make([]review.Item, 0, len(dto.Items))
	for _, entry := range dto.Items {
		items = append(items, toItem(entry))
	}
	return review.Page{Items: items, Total: dto.Total}
}

func toEntries(dtos []auditEntryDTO) []audit.Entry {
	entries := make([]audit.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entries = append(entries, audit.Entry{
			ID:        dto.ID,
			Timestamp: dto.Timestamp,
			Action:    dto.Action,
			Actor:     dto.Actor,
			Details:   dto.Details,
		})
	}
	return entries
}
