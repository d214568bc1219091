package services

import (
	"context"
	"testing"
	"time"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/core/domain"
	"loyallocal/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams() *pagination.Params {
	return &pagination.Params{Page: 1, Limit: 20, Offset: 0}
}

func TestListGroupsStoredKeyVariants(t *testing.T) {
	// The same customer recorded under three stored formats must collapse
	// into one directory row
	visitRepo := newFakeVisitRepo(
		visitAt(1, "08012345678", "Ada", 10, false),
		visitAt(2, "+2348012345678", "", 5, false),
		visitAt(3, "2348012345678", "", 1, false),
	)
	svc := NewCustomerService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	resp, err := svc.List(context.Background(), 1, nil, defaultParams())
	require.NoError(t, err)

	customers := resp.Data.([]CustomerSummary)
	require.Len(t, customers, 1)
	assert.Equal(t, "+2348012345678", customers[0].Phone)
	assert.Equal(t, 3, customers[0].TotalVisits)
	assert.Equal(t, "Ada", customers[0].DisplayName)
}

func TestListSortsByRecency(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		visitAt(1, "+2348012345678", "Ada", 10, false),
		visitAt(2, "+2348098765432", "Bola", 2, false),
	)
	svc := NewCustomerService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	resp, err := svc.List(context.Background(), 1, nil, defaultParams())
	require.NoError(t, err)

	customers := resp.Data.([]CustomerSummary)
	require.Len(t, customers, 2)
	assert.Equal(t, "Bola", customers[0].DisplayName)
	assert.Equal(t, "Ada", customers[1].DisplayName)
}

func TestListSegmentFilter(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		visitAt(1, "+2348012345678", "Ada", 95, false),
		visitAt(2, "+2348098765432", "Bola", 2, false),
	)
	svc := NewCustomerService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	resp, err := svc.List(context.Background(), 1, &ListFilter{Segment: "at_risk"}, defaultParams())
	require.NoError(t, err)

	customers := resp.Data.([]CustomerSummary)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ada", customers[0].DisplayName)
	assert.Equal(t, domain.SegmentAtRisk, customers[0].Segment)
}

func TestListSearchByNameAndPhone(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		visitAt(1, "+2348012345678", "Ada Obi", 5, false),
		visitAt(2, "+2348098765432", "Bola", 2, false),
	)
	svc := NewCustomerService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	resp, err := svc.List(context.Background(), 1, &ListFilter{Search: "obi"}, defaultParams())
	require.NoError(t, err)
	customers := resp.Data.([]CustomerSummary)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ada Obi", customers[0].DisplayName)

	// Phone search matches on digits regardless of formatting
	resp, err = svc.List(context.Background(), 1, &ListFilter{Search: "0809 876"}, defaultParams())
	require.NoError(t, err)
	customers = resp.Data.([]CustomerSummary)
	require.Len(t, customers, 1)
	assert.Equal(t, "Bola", customers[0].DisplayName)
}

func TestListProfileNameOverridesVisitName(t *testing.T) {
	visitRepo := newFakeVisitRepo(visitAt(1, "+2348012345678", "ada", 5, false))
	profileRepo := newFakeProfileRepo()
	require.NoError(t, profileRepo.Upsert(context.Background(), &models.CustomerProfile{
		BusinessID:  1,
		PhoneNumber: "+2348012345678",
		FirstName:   "Adaeze",
		LastName:    "Obi",
	}))
	svc := NewCustomerService(newFakeBusinessRepo(testBusiness()), visitRepo, profileRepo)

	resp, err := svc.List(context.Background(), 1, nil, defaultParams())
	require.NoError(t, err)

	customers := resp.Data.([]CustomerSummary)
	require.Len(t, customers, 1)
	assert.Equal(t, "Adaeze Obi", customers[0].DisplayName)
}

func TestListPagination(t *testing.T) {
	visitRepo := newFakeVisitRepo()
	for i := 0; i < 25; i++ {
		num := "+23480122000" + string(rune('0'+i%10)) + string(rune('0'+i/10))
		require.NoError(t, visitRepo.Create(context.Background(), &models.Visit{
			BusinessID:          1,
			CustomerPhoneNumber: num,
			CreatedAt:           time.Now().AddDate(0, 0, -i),
		}))
	}
	svc := NewCustomerService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	params := &pagination.Params{Page: 2, Limit: 20, Offset: 20}
	resp, err := svc.List(context.Background(), 1, nil, params)
	require.NoError(t, err)

	customers := resp.Data.([]CustomerSummary)
	assert.Len(t, customers, 5)
	assert.Equal(t, int64(25), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	assert.False(t, resp.Meta.HasNext)
	assert.True(t, resp.Meta.HasPrev)
}

func TestUpdateProfileCreatesThenMerges(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	svc := NewCustomerService(newFakeBusinessRepo(testBusiness()), newFakeVisitRepo(), profileRepo)

	first := "Chidi"
	profile, err := svc.UpdateProfile(context.Background(), 1, "08012345678", &ProfileInput{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "+2348012345678", profile.PhoneNumber)
	assert.Equal(t, "Chidi", profile.FirstName)

	// Partial update keeps existing fields
	notes := "prefers morning appointments"
	profile, err = svc.UpdateProfile(context.Background(), 1, "+234 801 234 5678", &ProfileInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "Chidi", profile.FirstName)
	assert.Equal(t, notes, profile.Notes)
}

func TestDeleteCustomerErasesEverything(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		visitAt(1, "08012345678", "Ada", 10, false),
		visitAt(2, "+2348012345678", "", 5, true),
		visitAt(3, "+2348098765432", "Bola", 2, false),
	)
	profileRepo := newFakeProfileRepo()
	require.NoError(t, profileRepo.Upsert(context.Background(), &models.CustomerProfile{
		BusinessID:  1,
		PhoneNumber: "+2348012345678",
		FirstName:   "Ada",
	}))
	svc := NewCustomerService(newFakeBusinessRepo(testBusiness()), visitRepo, profileRepo)

	deleted, err := svc.DeleteCustomer(context.Background(), 1, "0801-234-5678")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// The other customer is untouched
	remaining, err := visitRepo.FindAllByBusiness(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "+2348098765432", remaining[0].CustomerPhoneNumber)

	_, err = profileRepo.GetByBusinessAndPhone(context.Background(), 1, "+2348012345678")
	assert.Error(t, err)
}

func TestDeleteCustomerUnknown(t *testing.T) {
	svc := NewCustomerService(newFakeBusinessRepo(testBusiness()), newFakeVisitRepo(), newFakeProfileRepo())

	_, err := svc.DeleteCustomer(context.Background(), 1, "08012345678")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
