package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"

	"github.com/roadwatch/hazard-service/internal/auth"
	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/events"
	"github.com/roadwatch/hazard-service/internal/geocode"
	"github.com/roadwatch/hazard-service/internal/observability"
	"github.com/roadwatch/hazard-service/internal/repository"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

// ReportService coordinates report intake and listing.
type ReportService struct {
	reports     repository.ReportRepository
	reportTypes repository.ReportTypeRepository
	geocoder    geocode.Geocoder
	policy      *auth.Policy
	dispatcher  events.Dispatcher
	validate    *validator.Validate
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	ReportRepo     repository.ReportRepository
	ReportTypeRepo repository.ReportTypeRepository
	// Geocoder is optional. Without it reports lacking an address get the placeholder.
	Geocoder   geocode.Geocoder
	Policy     *auth.Policy
	Dispatcher events.Dispatcher
}

// SubmitReportInput describes a new hazard report.
type SubmitReportInput struct {
	Title        string   `json:"title" validate:"notblank,max=200"`
	Description  string   `json:"description" validate:"notblank,max=2000"`
	Latitude     *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	ReportTypeID string   `json:"reportTypeId" validate:"notblank"`
	Address      *string  `json:"address" validate:"omitempty,max=500"`
	City         *string  `json:"city" validate:"omitempty,max=120"`
	District     *string  `json:"district" validate:"omitempty,max=120"`
	Images       []string `json:"images" validate:"max=10,dive,notblank,max=2048"`
}

// ReportListFilter describes moderator listing filters.
type ReportListFilter struct {
	City         *string
	District     *string
	ReportTypeID *string
	Statuses     []domain.ReportStatus
	Limit        int
	Offset       int
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		reports:     deps.ReportRepo,
		reportTypes: deps.ReportTypeRepo,
		geocoder:    deps.Geocoder,
		policy:      deps.Policy,
		dispatcher:  deps.Dispatcher,
		validate:    newValidator(),
	}
}

// Submit creates a PENDING report owned by actor.
func (s *ReportService) Submit(ctx context.Context, actor *domain.User, input SubmitReportInput) (*domain.Report, error) {
	if err := s.policy.Authorize(actor, auth.PermSubmitReport); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, validationFailure("invalid report payload", err)
	}

	reportTypeID := strings.TrimSpace(input.ReportTypeID)
	reportType, err := repository.FindReportType(ctx, s.reportTypes, reportTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("invalid report payload", map[string]any{"reportTypeId": "unknown"})
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}

	images := make([]string, 0, len(input.Images))
	for _, img := range input.Images {
		images = append(images, strings.TrimSpace(img))
	}

	report := &domain.Report{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Latitude:     *input.Latitude,
		Longitude:    *input.Longitude,
		City:         trimmedOrNil(input.City),
		District:     trimmedOrNil(input.District),
		ReportTypeID: reportType.ID,
		Images:       images,
		Status:       domain.ReportStatusPending,
		OwnerID:      actor.ID,
	}
	if address := trimmedOrNil(input.Address); address != nil {
		report.Address = address
	} else {
		s.fillLocation(ctx, report)
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	report.ReportType = reportType.Summary()

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventReportSubmitted,
		ReportID: report.ID,
		Actor:    actorOf(actor),
		Payload: events.ReportSubmittedPayload{
			ReportTypeID: report.ReportTypeID,
			Title:        report.Title,
			Latitude:     report.Latitude,
			Longitude:    report.Longitude,
			City:         report.City,
			District:     report.District,
			ImageCount:   len(report.Images),
		},
	})
	return report, nil
}

// fillLocation reverse geocodes the report coordinates. Any failure leaves the
// placeholder address and never fails the submission.
func (s *ReportService) fillLocation(ctx context.Context, report *domain.Report) {
	loc := geocode.PlaceholderLocation()
	if s.geocoder != nil {
		resolved, err := s.geocoder.Reverse(ctx, report.Latitude, report.Longitude)
		if err != nil {
			observability.LoggerFromContext(ctx).Warn("reverse geocoding failed",
				zap.Float64("latitude", report.Latitude),
				zap.Float64("longitude", report.Longitude),
				zap.Error(err))
		} else {
			loc = resolved
		}
	}

	address := loc.Address
	report.Address = &address
	if report.City == nil {
		report.City = loc.City
	}
	if report.District == nil {
		report.District = loc.District
	}
}

// ListForModerator returns every owner's reports matching filter, newest first.
func (s *ReportService) ListForModerator(ctx context.Context, actor *domain.User, filter ReportListFilter) ([]domain.Report, error) {
	if err := s.policy.Authorize(actor, auth.PermListAllReports); err != nil {
		return nil, err
	}
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": string(status)})
		}
	}
	reports, err := s.reports.ListWithFilter(ctx, repository.ReportFilter{
		City:         filter.City,
		District:     filter.District,
		ReportTypeID: filter.ReportTypeID,
		Statuses:     filter.Statuses,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	})
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return reports, nil
}

// ListForOwner returns the actor's own reports, newest first. The owner is
// always the actor; no caller supplied owner id is honoured.
func (s *ReportService) ListForOwner(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Report, error) {
	if err := s.policy.Authorize(actor, auth.PermListOwnReports); err != nil {
		return nil, err
	}
	ownerID := actor.ID
	reports, err := s.reports.ListWithFilter(ctx, repository.ReportFilter{
		OwnerID: &ownerID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	for i := range reports {
		reports[i].Owner = nil
	}
	return reports, nil
}

// ListReportTypes returns the static report type catalogue ordered by name.
func (s *ReportService) ListReportTypes(ctx context.Context, actor *domain.User) ([]domain.ReportType, error) {
	if err := s.policy.Authorize(actor, auth.PermListReportTypes); err != nil {
		return nil, err
	}
	types, err := s.reportTypes.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return types, nil
}

func trimmedOrNil(val *string) *string {
	if val == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
