// Package memory provides process-local repositories used when no database is
// configured, and by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/repository"
)

// Store holds users, report types and reports behind one lock.
type Store struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	reportTypes map[string]domain.ReportType
	reports     map[string]domain.Report
	now         func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:       make(map[string]domain.User),
		reportTypes: make(map[string]domain.ReportType),
		reports:     make(map[string]domain.Report),
		now:         time.Now,
	}
}

// SeedReportTypes inserts or replaces report types.
func (s *Store) SeedReportTypes(types ...domain.ReportType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rt := range types {
		if rt.CreatedAt.IsZero() {
			rt.CreatedAt = s.now()
			rt.UpdatedAt = rt.CreatedAt
		}
		s.reportTypes[rt.ID] = rt
	}
}

// SeedUser inserts or replaces a user, assigning an id when empty.
func (s *Store) SeedUser(user domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
		user.UpdatedAt = user.CreatedAt
	}
	s.users[user.ID] = user
	return user
}

// Users returns a UserRepository view of the store.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Reports returns a ReportRepository view of the store.
func (s *Store) Reports() repository.ReportRepository { return reportRepo{s} }

// ReportTypes returns a ReportTypeRepository view of the store.
func (s *Store) ReportTypes() repository.ReportTypeRepository { return reportTypeRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type reportTypeRepo struct{ s *Store }

func (r reportTypeRepo) List(_ context.Context) ([]domain.ReportType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.ReportType, 0, len(r.s.reportTypes))
	for _, rt := range r.s.reportTypes {
		result = append(result, rt)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type reportRepo struct{ s *Store }

func (r reportRepo) Create(_ context.Context, report *domain.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if _, exists := r.s.reports[report.ID]; exists {
		return repository.ErrDuplicate
	}
	report.CreatedAt = r.s.now()
	report.UpdatedAt = report.CreatedAt
	stored := *report
	stored.Images = append([]string{}, report.Images...)
	stored.ReportType = nil
	stored.Owner = nil
	r.s.reports[report.ID] = stored
	return nil
}

func (r reportRepo) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	report, ok := r.s.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.hydrate(report), nil
}

func (r reportRepo) TransitionStatus(_ context.Context, id string, expected domain.ReportStatus, upd domain.ModerationUpdate) (*domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report, ok := r.s.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if report.Status != expected {
		return nil, repository.ErrStatusMismatch
	}
	upd.Apply(&report)
	report.UpdatedAt = r.s.now()
	r.s.reports[id] = report
	return r.s.hydrate(report), nil
}

func (r reportRepo) ListWithFilter(_ context.Context, filter repository.ReportFilter) ([]domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []domain.Report{}
	for _, report := range r.s.reports {
		if !matches(report, filter) {
			continue
		}
		matched = append(matched, *r.s.hydrate(report))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	offset := filter.NormalizedOffset()
	if offset >= len(matched) {
		return []domain.Report{}, nil
	}
	end := offset + filter.NormalizedLimit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func matches(report domain.Report, filter repository.ReportFilter) bool {
	if filter.OwnerID != nil && report.OwnerID != *filter.OwnerID {
		return false
	}
	if filter.City != nil && !equalPtr(report.City, *filter.City) {
		return false
	}
	if filter.District != nil && !equalPtr(report.District, *filter.District) {
		return false
	}
	if filter.ReportTypeID != nil && report.ReportTypeID != *filter.ReportTypeID {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if report.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func equalPtr(val *string, want string) bool {
	return val != nil && *val == want
}

// hydrate copies report and attaches the denormalized type and owner. Caller holds the lock.
func (s *Store) hydrate(report domain.Report) *domain.Report {
	out := report
	out.Images = append([]string{}, report.Images...)
	if rt, ok := s.reportTypes[report.ReportTypeID]; ok {
		out.ReportType = rt.Summary()
	}
	if owner, ok := s.users[report.OwnerID]; ok {
		out.Owner = &domain.UserSummary{ID: owner.ID, Name: owner.Name, Email: owner.Email}
	}
	return &out
}

// DefaultReportTypes mirrors the catalogue seeded by the SQL migrations.
func DefaultReportTypes() []domain.ReportType {
	icon := func(s string) *string { return &s }
	return []domain.ReportType{
		{ID: "accident-prone", Name: "Accident prone", Icon: icon("warning"), Description: "Stretch of road with frequent accidents"},
		{ID: "traffic-violation", Name: "Traffic violation", Icon: icon("ban"), Description: "Recurring traffic rule violations"},
		{ID: "road-condition", Name: "Road condition", Icon: icon("construction"), Description: "Potholes, flooding or damaged surface"},
		{ID: "police-checkpoint", Name: "Police checkpoint", Icon: icon("shield"), Description: "Traffic police checkpoint"},
		{ID: "other", Name: "Other", Icon: icon("info"), Description: "Any other traffic hazard"},
	}
}
