package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/persistence"
)

// postgresPool connects to POSTGRES_DSN and applies the migrations, or skips.
func postgresPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()))
	return pool
}

func seedPendingReport(t *testing.T, pool *pgxpool.Pool) *domain.Report {
	t.Helper()
	ctx := context.Background()

	owner := &domain.User{Name: "Driver", Email: uuid.NewString() + "@example.com", Role: domain.RoleDriver}
	require.NoError(t, NewUserRepository(pool).Create(ctx, owner))

	report := &domain.Report{
		ID:           uuid.NewString(),
		Title:        "Pothole",
		Description:  "Large pothole",
		Latitude:     10.76,
		Longitude:    106.66,
		ReportTypeID: "road-condition",
		Status:       domain.ReportStatusPending,
		OwnerID:      owner.ID,
	}
	require.NoError(t, NewReportRepository(pool).Create(ctx, report))
	return report
}

func TestReportRepository_TransitionStatus(t *testing.T) {
	pool := postgresPool(t)
	repo := NewReportRepository(pool)
	ctx := context.Background()
	report := seedPendingReport(t, pool)

	moderatorID := report.OwnerID
	updated, err := repo.TransitionStatus(ctx, report.ID, domain.ReportStatusPending, domain.ModerationUpdate{
		Status:      domain.ReportStatusApproved,
		ModeratorID: &moderatorID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusApproved, updated.Status)
	require.NotNil(t, updated.ModeratorID)
	require.NotNil(t, updated.ReportType)
	assert.Equal(t, "road-condition", updated.ReportType.ID)
	require.NotNil(t, updated.Owner)
	assert.Equal(t, report.OwnerID, updated.Owner.ID)

	reason := "late"
	_, err = repo.TransitionStatus(ctx, report.ID, domain.ReportStatusPending, domain.ModerationUpdate{
		Status:          domain.ReportStatusRejected,
		ModeratorID:     &moderatorID,
		RejectionReason: &reason,
	})
	assert.ErrorIs(t, err, ErrStatusMismatch)

	stored, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusApproved, stored.Status)
	assert.Nil(t, stored.RejectionReason)
}

func TestReportRepository_TransitionStatusMissing(t *testing.T) {
	pool := postgresPool(t)
	repo := NewReportRepository(pool)
	ctx := context.Background()

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		_, err := repo.TransitionStatus(ctx, id, domain.ReportStatusPending, domain.ModerationUpdate{Status: domain.ReportStatusApproved})
		assert.ErrorIs(t, err, ErrNotFound, id)
	}
}
