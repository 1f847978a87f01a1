package domain

import "time"

// ReportType labels a report (pothole, checkpoint, flooding...).
type ReportType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        *string   `json:"icon"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Summary returns the label projection of t.
func (t *ReportType) Summary() *ReportTypeSummary {
	return &ReportTypeSummary{ID: t.ID, Name: t.Name, Icon: t.Icon}
}
