package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/roadwatch/hazard-service/internal/api/dto"
	"github.com/roadwatch/hazard-service/internal/auth"
	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/service"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

// ModerationHandler exposes moderator decision endpoints.
type ModerationHandler struct {
	service *service.ModerationService
}

// NewModerationHandler constructs handler.
func NewModerationHandler(moderationService *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{service: moderationService}
}

// Decide returns the handler for PUT /reports/:id/approve and /reports/:id/reject.
func (h *ModerationHandler) Decide(action domain.ModerationAction) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseDecision(c)
		if err != nil {
			return err
		}
		report, err := h.service.DecideIfStatus(c.UserContext(), auth.CurrentUser(c), c.Params("id"),
			expectedStatus(req), action, req.Reason)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
	}
}

// Revert PUT /reports/:id/pending.
func (h *ModerationHandler) Revert(c *fiber.Ctx) error {
	req, err := parseDecision(c)
	if err != nil {
		return err
	}
	report, err := h.service.RevertIfStatus(c.UserContext(), auth.CurrentUser(c), c.Params("id"), expectedStatus(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// parseDecision reads the optional body. An empty body is a zero request.
func parseDecision(c *fiber.Ctx) (dto.DecisionRequest, error) {
	var req dto.DecisionRequest
	if len(c.Body()) == 0 {
		return req, nil
	}
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	return req, nil
}

func expectedStatus(req dto.DecisionRequest) domain.ReportStatus {
	return domain.ReportStatus(strings.ToUpper(strings.TrimSpace(req.ExpectedStatus)))
}
