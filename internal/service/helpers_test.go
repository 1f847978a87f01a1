package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roadwatch/hazard-service/internal/auth"
	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/events"
	"github.com/roadwatch/hazard-service/internal/repository/memory"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store      *memory.Store
	policy     *auth.Policy
	dispatcher events.Dispatcher
	recorded   *recorder
	driver     domain.User
	moderator  domain.User
	admin      domain.User
}

func newFixture(t *testing.T, adminCanModerate bool) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedReportTypes(
		domain.ReportType{ID: "rt1", Name: "Pothole", Icon: strPtr("pothole")},
		domain.ReportType{ID: "rt2", Name: "Flooding"},
	)
	policy, err := auth.NewPolicy(adminCanModerate)
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher()
	rec := &recorder{}
	for _, et := range events.AllEventTypes {
		dispatcher.Subscribe(et, rec.handle)
	}

	return &fixture{
		store:      store,
		policy:     policy,
		dispatcher: dispatcher,
		recorded:   rec,
		driver:     store.SeedUser(domain.User{Name: "Driver D", Email: "d@example.com", Role: domain.RoleDriver}),
		moderator:  store.SeedUser(domain.User{Name: "Moderator M", Email: "m@example.com", Role: domain.RoleModerator}),
		admin:      store.SeedUser(domain.User{Name: "Admin A", Email: "a@example.com", Role: domain.RoleAdmin}),
	}
}

func (f *fixture) moderation(policy domain.DecidedPolicy) *ModerationService {
	return NewModerationService(ModerationDependencies{
		ReportRepo:    f.store.Reports(),
		Policy:        f.policy,
		DecidedPolicy: policy,
		Dispatcher:    f.dispatcher,
	})
}

func (f *fixture) reports() *ReportService {
	return NewReportService(ReportDependencies{
		ReportRepo:     f.store.Reports(),
		ReportTypeRepo: f.store.ReportTypes(),
		Policy:         f.policy,
		Dispatcher:     f.dispatcher,
	})
}

func (f *fixture) pendingReport(t *testing.T) *domain.Report {
	t.Helper()
	report := &domain.Report{
		Title:        "Pothole",
		Description:  "Large pothole",
		Latitude:     10.76,
		Longitude:    106.66,
		ReportTypeID: "rt1",
		Status:       domain.ReportStatusPending,
		OwnerID:      f.driver.ID,
	}
	require.NoError(t, f.store.Reports().Create(context.Background(), report))
	return report
}
