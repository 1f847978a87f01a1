package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/roadwatch/hazard-service/internal/auth"
	"github.com/roadwatch/hazard-service/internal/config"
	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/events"
	"github.com/roadwatch/hazard-service/internal/observability"
	"github.com/roadwatch/hazard-service/internal/repository"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

// ModerationService applies moderator decisions to reports.
type ModerationService struct {
	reports    repository.ReportRepository
	policy     *auth.Policy
	decided    domain.DecidedPolicy
	dispatcher events.Dispatcher
}

// ModerationDependencies bundles collaborators for the moderation service.
type ModerationDependencies struct {
	ReportRepo    repository.ReportRepository
	Policy        *auth.Policy
	DecidedPolicy domain.DecidedPolicy
	Dispatcher    events.Dispatcher
}

// NewModerationService constructs the service.
func NewModerationService(deps ModerationDependencies) *ModerationService {
	return &ModerationService{
		reports:    deps.ReportRepo,
		policy:     deps.Policy,
		decided:    deps.DecidedPolicy,
		dispatcher: deps.Dispatcher,
	}
}

// DecidedPolicyFromConfig maps the configured name onto the state machine policy.
func DecidedPolicyFromConfig(cfg config.ModerationConfig) domain.DecidedPolicy {
	if cfg.DecidedPolicy == config.DecidedPolicyStrict {
		return domain.RejectDecided
	}
	return domain.DefaultDecidedPolicy
}

// Decide approves or rejects a report. On a report that is already decided the
// configured policy either reopens it or refuses with AlreadyProcessed.
func (s *ModerationService) Decide(ctx context.Context, actor *domain.User, reportID string, action domain.ModerationAction, reason string) (*domain.Report, error) {
	return s.DecideIfStatus(ctx, actor, reportID, "", action, reason)
}

// DecideIfStatus is Decide conditioned on the status the moderator last saw.
// When seen is set and the report has moved on, it fails with Conflict instead
// of turning the decision into an implicit reopen. An empty seen is unconditional.
func (s *ModerationService) DecideIfStatus(ctx context.Context, actor *domain.User, reportID string, seen domain.ReportStatus, action domain.ModerationAction, reason string) (*domain.Report, error) {
	if action != domain.ActionApprove && action != domain.ActionReject {
		return nil, apperrors.NewValidationError("unsupported moderation action", map[string]any{"action": string(action)})
	}
	return s.moderate(ctx, actor, reportID, seen, action, reason)
}

// Revert returns a decided report to PENDING. Reverting a pending report is a no-op.
func (s *ModerationService) Revert(ctx context.Context, actor *domain.User, reportID string) (*domain.Report, error) {
	return s.RevertIfStatus(ctx, actor, reportID, "")
}

// RevertIfStatus is Revert conditioned on the status the moderator last saw.
func (s *ModerationService) RevertIfStatus(ctx context.Context, actor *domain.User, reportID string, seen domain.ReportStatus) (*domain.Report, error) {
	return s.moderate(ctx, actor, reportID, seen, domain.ActionRevert, "")
}

func (s *ModerationService) moderate(ctx context.Context, actor *domain.User, reportID string, seen domain.ReportStatus, action domain.ModerationAction, reason string) (*domain.Report, error) {
	if err := s.policy.Authorize(actor, auth.PermModerateReport); err != nil {
		return nil, err
	}
	if seen != "" && !seen.Valid() {
		return nil, apperrors.NewValidationError("invalid expected status", map[string]any{"expectedStatus": string(seen)})
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, reportLookupError(err, reportID)
	}
	if seen != "" && seen != report.Status {
		return nil, apperrors.NewConflict("report was modified concurrently", map[string]any{
			"id":       report.ID,
			"expected": string(seen),
			"actual":   string(report.Status),
		})
	}

	transition, err := domain.DeriveTransition(report.Status, action, s.decided)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyProcessed) {
			return nil, apperrors.NewAlreadyProcessed(map[string]any{"id": report.ID, "status": string(report.Status)})
		}
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"id": report.ID})
	}
	if transition.Kind == domain.TransitionNoop {
		return report, nil
	}

	updated, err := s.reports.TransitionStatus(ctx, report.ID, transition.From, transition.Update(actor.ID, reason))
	if err != nil {
		if errors.Is(err, repository.ErrStatusMismatch) {
			return nil, apperrors.NewConflict("report was modified concurrently", map[string]any{
				"id":       report.ID,
				"expected": string(transition.From),
			})
		}
		return nil, reportLookupError(err, reportID)
	}

	observability.LoggerFromContext(ctx).Info("report moderated",
		zap.String("report_id", updated.ID),
		zap.String("action", string(action)),
		zap.String("from", string(transition.From)),
		zap.String("to", string(updated.Status)))

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.ModerationEventType(updated.Status),
		ReportID: updated.ID,
		Actor:    actorOf(actor),
		Payload: events.ReportModeratedPayload{
			OwnerID:         updated.OwnerID,
			OldStatus:       transition.From,
			NewStatus:       updated.Status,
			RejectionReason: updated.RejectionReason,
		},
	})
	return updated, nil
}
