package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roadwatch/hazard-service/internal/domain"
)

// ReportFilter captures listing parameters.
type ReportFilter struct {
	OwnerID      *string
	City         *string
	District     *string
	ReportTypeID *string
	Statuses     []domain.ReportStatus
	Limit        int
	Offset       int
}

// Listing bounds applied by every ReportRepository.
const (
	DefaultReportLimit = 50
	MaxReportLimit     = 100
)

// NormalizedLimit clamps the requested limit into [1, MaxReportLimit].
func (f ReportFilter) NormalizedLimit() int {
	if f.Limit <= 0 {
		return DefaultReportLimit
	}
	if f.Limit > MaxReportLimit {
		return MaxReportLimit
	}
	return f.Limit
}

// NormalizedOffset never returns a negative offset.
func (f ReportFilter) NormalizedOffset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	// TransitionStatus applies upd only if the stored status still equals expected.
	// It returns ErrStatusMismatch when the precondition fails and ErrNotFound when the row is gone.
	TransitionStatus(ctx context.Context, id string, expected domain.ReportStatus, upd domain.ModerationUpdate) (*domain.Report, error)
	ListWithFilter(ctx context.Context, filter ReportFilter) ([]domain.Report, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `r.id, r.title, r.description, r.latitude, r.longitude, r.address, r.city, r.district,
               r.report_type_id, rt.name, rt.icon, r.images, r.status, r.owner_id, u.name, u.email,
               r.moderator_id, r.rejection_reason, r.created_at, r.updated_at`

const reportJoins = `JOIN report_types rt ON rt.id = r.report_type_id
        JOIN users u ON u.id = r.owner_id`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (id, title, description, latitude, longitude, address, city, district,
            report_type_id, images, status, owner_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at, updated_at`
	images := report.Images
	if images == nil {
		images = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		report.ID,
		report.Title,
		report.Description,
		report.Latitude,
		report.Longitude,
		report.Address,
		report.City,
		report.District,
		report.ReportTypeID,
		images,
		report.Status,
		report.OwnerID,
	).Scan(&report.CreatedAt, &report.UpdatedAt)
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + reportColumns + `
        FROM reports r
        ` + reportJoins + `
        WHERE r.id=$1`
	report, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return report, err
}

func (r *reportRepository) TransitionStatus(ctx context.Context, id string, expected domain.ReportStatus, upd domain.ModerationUpdate) (*domain.Report, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	query := `
        WITH r AS (
            UPDATE reports SET status=$1, moderator_id=$2, rejection_reason=$3, updated_at=NOW()
            WHERE id=$4 AND status=$5
            RETURNING *
        )
        SELECT ` + reportColumns + `
        FROM r
        ` + reportJoins
	report, err := scanReport(r.pool.QueryRow(ctx, query,
		upd.Status,
		upd.ModeratorID,
		upd.RejectionReason,
		id,
		expected,
	))
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reports WHERE id=$1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrStatusMismatch
}

func (r *reportRepository) ListWithFilter(ctx context.Context, filter ReportFilter) ([]domain.Report, error) {
	base := `SELECT ` + reportColumns + `
             FROM reports r
             ` + reportJoins
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("r.owner_id=$%d", len(args)))
	}
	if filter.City != nil {
		args = append(args, *filter.City)
		clauses = append(clauses, fmt.Sprintf("r.city=$%d", len(args)))
	}
	if filter.District != nil {
		args = append(args, *filter.District)
		clauses = append(clauses, fmt.Sprintf("r.district=$%d", len(args)))
	}
	if filter.ReportTypeID != nil {
		args = append(args, *filter.ReportTypeID)
		clauses = append(clauses, fmt.Sprintf("r.report_type_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("r.status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY r.created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), filter.NormalizedLimit(), filter.NormalizedOffset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var (
		report domain.Report
		rt     domain.ReportTypeSummary
		owner  domain.UserSummary
	)
	if err := row.Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&report.Latitude,
		&report.Longitude,
		&report.Address,
		&report.City,
		&report.District,
		&report.ReportTypeID,
		&rt.Name,
		&rt.Icon,
		&report.Images,
		&report.Status,
		&report.OwnerID,
		&owner.Name,
		&owner.Email,
		&report.ModeratorID,
		&report.RejectionReason,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rt.ID = report.ReportTypeID
	owner.ID = report.OwnerID
	report.ReportType = &rt
	report.Owner = &owner
	return &report, nil
}

// isUUID reports whether id can be compared against a uuid column.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
