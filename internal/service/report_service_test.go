package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/events"
	"github.com/roadwatch/hazard-service/internal/geocode"
	"github.com/roadwatch/hazard-service/internal/repository"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

type stubGeocoder struct {
	loc *geocode.Location
	err error
}

func (s stubGeocoder) Reverse(context.Context, float64, float64) (*geocode.Location, error) {
	return s.loc, s.err
}

func validInput() SubmitReportInput {
	return SubmitReportInput{
		Title:        "Pothole",
		Description:  "Large pothole",
		Latitude:     floatPtr(10.76),
		Longitude:    floatPtr(106.66),
		ReportTypeID: "rt1",
	}
}

func TestSubmit_CreatesPendingReport(t *testing.T) {
	f := newFixture(t, false)

	report, err := f.reports().Submit(context.Background(), &f.driver, validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, domain.ReportStatusPending, report.Status)
	assert.Equal(t, f.driver.ID, report.OwnerID)
	assert.Nil(t, report.ModeratorID)
	assert.Nil(t, report.RejectionReason)
	require.NotNil(t, report.Address)
	assert.Equal(t, geocode.Placeholder, *report.Address)
	require.NotNil(t, report.ReportType)
	assert.Equal(t, "Pothole", report.ReportType.Name)
	assert.Equal(t, []events.EventType{events.EventReportSubmitted}, f.recorded.types())
}

func TestSubmit_EndToEndModeration(t *testing.T) {
	f := newFixture(t, false)
	moderation := f.moderation(domain.RevertDecided)

	report, err := f.reports().Submit(context.Background(), &f.driver, validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusPending, report.Status)
	assert.Equal(t, f.driver.ID, report.OwnerID)

	rejected, err := moderation.Decide(context.Background(), &f.moderator, report.ID, domain.ActionReject, "Duplicate")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusRejected, rejected.Status)
	assert.Equal(t, f.moderator.ID, *rejected.ModeratorID)
	assert.Equal(t, "Duplicate", *rejected.RejectionReason)

	reverted, err := moderation.Decide(context.Background(), &f.moderator, report.ID, domain.ActionReject, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusPending, reverted.Status)
	assert.Nil(t, reverted.ModeratorID)
	assert.Nil(t, reverted.RejectionReason)

	assert.Equal(t, []events.EventType{
		events.EventReportSubmitted,
		events.EventReportRejected,
		events.EventReportReverted,
	}, f.recorded.types())
}

func TestSubmit_Geocoding(t *testing.T) {
	f := newFixture(t, false)
	svc := NewReportService(ReportDependencies{
		ReportRepo:     f.store.Reports(),
		ReportTypeRepo: f.store.ReportTypes(),
		Geocoder: stubGeocoder{loc: &geocode.Location{
			Address:  "12 Le Loi, District 1",
			City:     strPtr("Ho Chi Minh City"),
			District: strPtr("District 1"),
		}},
		Policy: f.policy,
	})

	report, err := svc.Submit(context.Background(), &f.driver, validInput())
	require.NoError(t, err)
	assert.Equal(t, "12 Le Loi, District 1", *report.Address)
	assert.Equal(t, "Ho Chi Minh City", *report.City)
	assert.Equal(t, "District 1", *report.District)

	input := validInput()
	input.Address = strPtr(" Given address ")
	report, err = svc.Submit(context.Background(), &f.driver, input)
	require.NoError(t, err)
	assert.Equal(t, "Given address", *report.Address)
	assert.Nil(t, report.City)
}

func TestSubmit_GeocoderFailureUsesPlaceholder(t *testing.T) {
	f := newFixture(t, false)
	svc := NewReportService(ReportDependencies{
		ReportRepo:     f.store.Reports(),
		ReportTypeRepo: f.store.ReportTypes(),
		Geocoder:       stubGeocoder{err: errors.New("timeout")},
		Policy:         f.policy,
	})

	input := validInput()
	input.City = strPtr("Da Nang")
	report, err := svc.Submit(context.Background(), &f.driver, input)
	require.NoError(t, err)
	assert.Equal(t, geocode.Placeholder, *report.Address)
	assert.Equal(t, "Da Nang", *report.City)
	assert.Nil(t, report.District)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t, false)
	svc := f.reports()

	cases := []struct {
		name   string
		mutate func(*SubmitReportInput)
		field  string
	}{
		{"blank title", func(in *SubmitReportInput) { in.Title = "   " }, "title"},
		{"long title", func(in *SubmitReportInput) { in.Title = strings.Repeat("x", 201) }, "title"},
		{"missing description", func(in *SubmitReportInput) { in.Description = "" }, "description"},
		{"long description", func(in *SubmitReportInput) { in.Description = strings.Repeat("x", 2001) }, "description"},
		{"latitude missing", func(in *SubmitReportInput) { in.Latitude = nil }, "latitude"},
		{"latitude range", func(in *SubmitReportInput) { in.Latitude = floatPtr(90.5) }, "latitude"},
		{"longitude range", func(in *SubmitReportInput) { in.Longitude = floatPtr(-181) }, "longitude"},
		{"missing type", func(in *SubmitReportInput) { in.ReportTypeID = "" }, "reportTypeId"},
		{"unknown type", func(in *SubmitReportInput) { in.ReportTypeID = "nope" }, "reportTypeId"},
		{"too many images", func(in *SubmitReportInput) { in.Images = make([]string, 11) }, "images"},
		{"blank image", func(in *SubmitReportInput) { in.Images = []string{"a.jpg", " "} }, "images[1]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			_, err := svc.Submit(context.Background(), &f.driver, input)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, apperrors.CodeValidationFailed, domainErr.Code)
			assert.Contains(t, domainErr.Details, tc.field)
		})
	}

	reports, err := f.store.Reports().ListWithFilter(context.Background(), repository.ReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestSubmit_ZeroCoordinatesAreValid(t *testing.T) {
	f := newFixture(t, false)
	input := validInput()
	input.Latitude = floatPtr(0)
	input.Longitude = floatPtr(0)

	_, err := f.reports().Submit(context.Background(), &f.driver, input)
	assert.NoError(t, err)
}

func TestSubmit_BlockedUser(t *testing.T) {
	f := newFixture(t, false)
	blocked := f.store.SeedUser(domain.User{Name: "B", Email: "b@example.com", Role: domain.RoleDriver, Blocked: true})

	_, err := f.reports().Submit(context.Background(), &blocked, validInput())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "got %v", err)
}

func TestListForOwner_OnlyOwnReports(t *testing.T) {
	f := newFixture(t, false)
	svc := f.reports()
	other := f.store.SeedUser(domain.User{Name: "O", Email: "o@example.com", Role: domain.RoleDriver})

	_, err := svc.Submit(context.Background(), &f.driver, validInput())
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), &other, validInput())
	require.NoError(t, err)

	mine, err := svc.ListForOwner(context.Background(), &f.driver, 0, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.driver.ID, mine[0].OwnerID)
	assert.Nil(t, mine[0].Owner)
}

func TestListForModerator(t *testing.T) {
	f := newFixture(t, false)
	svc := f.reports()

	for _, typeID := range []string{"rt1", "rt2", "rt1"} {
		input := validInput()
		input.ReportTypeID = typeID
		_, err := svc.Submit(context.Background(), &f.driver, input)
		require.NoError(t, err)
	}

	all, err := svc.ListForModerator(context.Background(), &f.moderator, ReportListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	require.NotNil(t, all[0].Owner)
	assert.Equal(t, f.driver.Email, all[0].Owner.Email)

	filtered, err := svc.ListForModerator(context.Background(), &f.moderator, ReportListFilter{ReportTypeID: strPtr("rt2")})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	paged, err := svc.ListForModerator(context.Background(), &f.moderator, ReportListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	_, err = svc.ListForModerator(context.Background(), &f.moderator, ReportListFilter{Statuses: []domain.ReportStatus{"DONE"}})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	_, err = svc.ListForModerator(context.Background(), &f.driver, ReportListFilter{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestListReportTypes(t *testing.T) {
	f := newFixture(t, false)

	types, err := f.reports().ListReportTypes(context.Background(), &f.driver)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Flooding", types[0].Name)

	_, err = f.reports().ListReportTypes(context.Background(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}
