package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/roadwatch/hazard-service/internal/api/dto"
	"github.com/roadwatch/hazard-service/internal/auth"
	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/service"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

// ReportsHandler manages report intake and listing endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// CreateReport POST /reports.
func (h *ReportsHandler) CreateReport(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	report, err := h.service.Submit(c.UserContext(), auth.CurrentUser(c), service.SubmitReportInput{
		Title:        req.Title,
		Description:  req.Description,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ReportTypeID: req.ReportTypeID,
		Address:      req.Address,
		City:         req.City,
		District:     req.District,
		Images:       req.Images,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// ListReports GET /reports, the moderator view across all owners.
func (h *ReportsHandler) ListReports(c *fiber.Ctx) error {
	limit, offset, err := parsePaging(c)
	if err != nil {
		return err
	}
	filter := service.ReportListFilter{
		City:         optionalQuery(c, "city"),
		District:     optionalQuery(c, "district"),
		ReportTypeID: optionalQuery(c, "reportTypeId"),
		Statuses:     parseStatuses(c.Query("status")),
		Limit:        limit,
		Offset:       offset,
	}
	reports, err := h.service.ListForModerator(c.UserContext(), auth.CurrentUser(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportList(reports)})
}

// ListMyReports GET /reports/mine. Owner query parameters are ignored.
func (h *ReportsHandler) ListMyReports(c *fiber.Ctx) error {
	limit, offset, err := parsePaging(c)
	if err != nil {
		return err
	}
	reports, err := h.service.ListForOwner(c.UserContext(), auth.CurrentUser(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportList(reports)})
}

// ListReportTypes GET /report-types.
func (h *ReportsHandler) ListReportTypes(c *fiber.Ctx) error {
	types, err := h.service.ListReportTypes(c.UserContext(), auth.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportTypeList(types)})
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

func parseStatuses(raw string) []domain.ReportStatus {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	statuses := make([]domain.ReportStatus, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.ToUpper(strings.TrimSpace(part)); trimmed != "" {
			statuses = append(statuses, domain.ReportStatus(trimmed))
		}
	}
	return statuses
}

func parsePaging(c *fiber.Ctx) (int, int, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0, apperrors.NewValidationError("invalid query parameter", map[string]any{key: raw})
	}
	return val, nil
}
