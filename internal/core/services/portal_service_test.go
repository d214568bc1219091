package services

import (
	"context"
	"testing"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/pkg/phone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secondBusiness() *models.Business {
	return &models.Business{
		ID:                       2,
		Name:                     "Tunde's Barbershop",
		Email:                    "tunde@example.com",
		LoyaltyVisitsRequired:    3,
		LoyaltyRewardDescription: "Free haircut",
		IsActive:                 true,
	}
}

func portalVisit(id uint, businessID uint, phone string, daysAgo int, redeemed bool) models.Visit {
	v := visitAt(id, phone, "", daysAgo, redeemed)
	v.BusinessID = businessID
	return v
}

func TestPortalLookupAcrossBusinesses(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		// Four stamps at the salon (needs 5)
		portalVisit(1, 1, "+2348012345678", 20, false),
		portalVisit(2, 1, "+2348012345678", 15, false),
		portalVisit(3, 1, "+2348012345678", 10, false),
		portalVisit(4, 1, "+2348012345678", 5, false),
		// Seven at the barbershop (needs 3): 3 consumed, 4 held
		portalVisit(5, 2, "+2348012345678", 30, true),
		portalVisit(6, 2, "+2348012345678", 25, true),
		portalVisit(7, 2, "+2348012345678", 20, true),
		portalVisit(8, 2, "+2348012345678", 8, false),
		portalVisit(9, 2, "+2348012345678", 6, false),
		portalVisit(10, 2, "+2348012345678", 4, false),
		portalVisit(11, 2, "+2348012345678", 2, false),
	)
	svc := NewPortalService(newFakeBusinessRepo(testBusiness(), secondBusiness()), visitRepo)

	resp, err := svc.Lookup(context.Background(), "0801 234 5678")
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Businesses)
	assert.Equal(t, 11, resp.TotalVisits)
	assert.Equal(t, 3, resp.EarnedRewards)
	// floor(4/5) + floor(4/3)
	assert.Equal(t, 1, resp.AvailableRewards)
	assert.Equal(t, "+234 801 234 5678", resp.Phone)

	require.Len(t, resp.Cards, 2)
	// Cards sorted by business name
	assert.Equal(t, "Kemi's Salon", resp.Cards[0].BusinessName)
	assert.Equal(t, 4, resp.Cards[0].ProgressStamps)
	assert.Equal(t, 0, resp.Cards[0].AvailableRewards)
	assert.Equal(t, "Tunde's Barbershop", resp.Cards[1].BusinessName)
	assert.Equal(t, 1, resp.Cards[1].AvailableRewards)
	assert.Equal(t, 1, resp.Cards[1].ProgressStamps)
}

func TestPortalLookupRejectsInvalidInput(t *testing.T) {
	svc := NewPortalService(newFakeBusinessRepo(testBusiness()), newFakeVisitRepo())

	_, err := svc.Lookup(context.Background(), "12345")
	var verr *PhoneValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Message)
}

func TestPortalLookupValidNumberNoVisits(t *testing.T) {
	svc := NewPortalService(newFakeBusinessRepo(testBusiness()), newFakeVisitRepo())

	_, err := svc.Lookup(context.Background(), "08012345678")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestPortalLookupSkipsUnresolvableBusiness(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		portalVisit(1, 1, "+2348012345678", 5, false),
		// Business 9 no longer exists; its visits must not break the lookup
		portalVisit(2, 9, "+2348012345678", 3, false),
		portalVisit(3, 9, "+2348012345678", 1, false),
	)
	svc := NewPortalService(newFakeBusinessRepo(testBusiness()), visitRepo)

	resp, err := svc.Lookup(context.Background(), "08012345678")
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Businesses)
	assert.Equal(t, 1, resp.TotalVisits)
	require.Len(t, resp.Cards, 1)
	assert.Equal(t, "Kemi's Salon", resp.Cards[0].BusinessName)
}

func TestPortalLookupAcceptsTypedLocalInput(t *testing.T) {
	// The auto-formatter infers the country code, so the raw local digits a
	// customer types resolve the same records as the stored form
	formatted := phone.AutoFormatInput("08012345678")
	result := phone.ValidateInternational(formatted)
	require.True(t, result.Valid)

	visitRepo := newFakeVisitRepo(portalVisit(1, 1, "08012345678", 5, false))
	svc := NewPortalService(newFakeBusinessRepo(testBusiness()), visitRepo)

	resp, err := svc.Lookup(context.Background(), "08012345678")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalVisits)
}
