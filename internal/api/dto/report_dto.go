package dto

import (
	"time"

	"github.com/roadwatch/hazard-service/internal/domain"
)

// CreateReportRequest payload.
type CreateReportRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ReportTypeID string   `json:"reportTypeId"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	District     *string  `json:"district"`
	Images       []string `json:"images"`
}

// DecisionRequest is the optional body of approve, reject and pending.
// ExpectedStatus is the status the moderator was looking at when deciding.
type DecisionRequest struct {
	Reason         string `json:"reason"`
	ExpectedStatus string `json:"expectedStatus"`
}

// ReportTypeSummary is the label embedded in report responses.
type ReportTypeSummary struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

// OwnerSummary is attached to moderator listings.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ReportResponse response.
type ReportResponse struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Latitude        float64             `json:"latitude"`
	Longitude       float64             `json:"longitude"`
	Address         *string             `json:"address"`
	City            *string             `json:"city"`
	District        *string             `json:"district"`
	ReportTypeID    string              `json:"reportTypeId"`
	ReportType      *ReportTypeSummary  `json:"reportType,omitempty"`
	Images          []string            `json:"images"`
	Status          domain.ReportStatus `json:"status"`
	OwnerID         string              `json:"ownerId"`
	Owner           *OwnerSummary       `json:"owner,omitempty"`
	ModeratorID     *string             `json:"moderatorId"`
	RejectionReason *string             `json:"rejectionReason"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// ReportTypeResponse response.
type ReportTypeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        *string `json:"icon"`
	Description string  `json:"description"`
}

// NewReportResponse maps a domain report.
func NewReportResponse(report *domain.Report) ReportResponse {
	images := report.Images
	if images == nil {
		images = []string{}
	}
	resp := ReportResponse{
		ID:              report.ID,
		Title:           report.Title,
		Description:     report.Description,
		Latitude:        report.Latitude,
		Longitude:       report.Longitude,
		Address:         report.Address,
		City:            report.City,
		District:        report.District,
		ReportTypeID:    report.ReportTypeID,
		Images:          images,
		Status:          report.Status,
		OwnerID:         report.OwnerID,
		ModeratorID:     report.ModeratorID,
		RejectionReason: report.RejectionReason,
		CreatedAt:       report.CreatedAt,
		UpdatedAt:       report.UpdatedAt,
	}
	if report.ReportType != nil {
		resp.ReportType = &ReportTypeSummary{
			ID:   report.ReportType.ID,
			Name: report.ReportType.Name,
			Icon: report.ReportType.Icon,
		}
	}
	if report.Owner != nil {
		resp.Owner = &OwnerSummary{
			ID:    report.Owner.ID,
			Name:  report.Owner.Name,
			Email: report.Owner.Email,
		}
	}
	return resp
}

// NewReportList maps a slice of reports, never returning nil.
func NewReportList(reports []domain.Report) []ReportResponse {
	items := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, NewReportResponse(&reports[i]))
	}
	return items
}

// NewReportTypeList maps report types.
func NewReportTypeList(types []domain.ReportType) []ReportTypeResponse {
	items := make([]ReportTypeResponse, 0, len(types))
	for _, rt := range types {
		items = append(items, ReportTypeResponse{
			ID:          rt.ID,
			Name:        rt.Name,
			Icon:        rt.Icon,
			Description: rt.Description,
		})
	}
	return items
}
