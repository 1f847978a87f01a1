package events

import (
	"time"

	"github.com/roadwatch/hazard-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportSubmitted EventType = "report_submitted"
	EventReportApproved  EventType = "report_approved"
	EventReportRejected  EventType = "report_rejected"
	EventReportReverted  EventType = "report_reverted"
)

// AllEventTypes lists every type services emit.
var AllEventTypes = []EventType{
	EventReportSubmitted,
	EventReportApproved,
	EventReportRejected,
	EventReportReverted,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  string      `json:"report_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportSubmittedPayload payload.
type ReportSubmittedPayload struct {
	ReportTypeID string  `json:"report_type_id"`
	Title        string  `json:"title"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	City         *string `json:"city,omitempty"`
	District     *string `json:"district,omitempty"`
	ImageCount   int     `json:"image_count"`
}

// ReportModeratedPayload is shared by approve, reject and revert events.
type ReportModeratedPayload struct {
	OwnerID         string              `json:"owner_id"`
	OldStatus       domain.ReportStatus `json:"old_status"`
	NewStatus       domain.ReportStatus `json:"new_status"`
	RejectionReason *string             `json:"rejection_reason,omitempty"`
}

// ModerationEventType maps a resulting status to the event it emits.
func ModerationEventType(to domain.ReportStatus) EventType {
	switch to {
	case domain.ReportStatusApproved:
		return EventReportApproved
	case domain.ReportStatusRejected:
		return EventReportRejected
	default:
		return EventReportReverted
	}
}
