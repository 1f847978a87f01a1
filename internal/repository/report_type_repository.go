package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roadwatch/hazard-service/internal/domain"
)

// ReportTypeRepository reads the report type reference table.
type ReportTypeRepository interface {
	List(ctx context.Context) ([]domain.ReportType, error)
}

type reportTypeRepository struct {
	pool *pgxpool.Pool
}

// NewReportTypeRepository builds repository.
func NewReportTypeRepository(pool *pgxpool.Pool) ReportTypeRepository {
	return &reportTypeRepository{pool: pool}
}

func (r *reportTypeRepository) List(ctx context.Context) ([]domain.ReportType, error) {
	const query = `
        SELECT id, name, icon, description, created_at, updated_at
        FROM report_types ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ReportType{}
	for rows.Next() {
		var rt domain.ReportType
		if err := rows.Scan(
			&rt.ID,
			&rt.Name,
			&rt.Icon,
			&rt.Description,
			&rt.CreatedAt,
			&rt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rt)
	}
	return result, rows.Err()
}

// FindReportType returns the type with the given id, or ErrNotFound.
func FindReportType(ctx context.Context, repo ReportTypeRepository, id string) (*domain.ReportType, error) {
	types, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range types {
		if types[i].ID == id {
			return &types[i], nil
		}
	}
	return nil, ErrNotFound
}
