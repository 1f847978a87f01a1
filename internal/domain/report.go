package domain

import "time"

// ReportStatus enumerates moderation states for reports.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusApproved ReportStatus = "APPROVED"
	ReportStatusRejected ReportStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusApproved, ReportStatusRejected:
		return true
	}
	return false
}

// ReportTypeSummary is the denormalized label returned with each report.
type ReportTypeSummary struct {
	ID   string
	Name string
	Icon *string
}

// Report is a geotagged hazard submitted by a driver.
type Report struct {
	ID              string
	Title           string
	Description     string
	Latitude        float64
	Longitude       float64
	Address         *string
	City            *string
	District        *string
	ReportTypeID    string
	ReportType      *ReportTypeSummary
	Images          []string
	Status          ReportStatus
	OwnerID         string
	Owner           *UserSummary
	ModeratorID     *string
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ModerationUpdate is the set of fields a transition writes.
type ModerationUpdate struct {
	Status          ReportStatus
	ModeratorID     *string
	RejectionReason *string
}

// Apply copies the moderation fields onto r.
func (u ModerationUpdate) Apply(r *Report) {
	r.Status = u.Status
	r.ModeratorID = u.ModeratorID
	r.RejectionReason = u.RejectionReason
}

// ConsistentModeration checks the field invariants tying status to the decision fields.
func (r *Report) ConsistentModeration() bool {
	if r.RejectionReason != nil && r.Status != ReportStatusRejected {
		return false
	}
	if r.ModeratorID != nil && r.Status == ReportStatusPending {
		return false
	}
	return true
}
