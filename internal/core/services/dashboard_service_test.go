package services

import (
	"context"
	"testing"
	"time"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		// Ada: 5 unredeemed stamps, holds a full card
		visitAt(1, "+2348012345678", "Ada", 20, false),
		visitAt(2, "+2348012345678", "", 15, false),
		visitAt(3, "08012345678", "", 10, false),
		visitAt(4, "+2348012345678", "", 5, false),
		visitAt(5, "+2348012345678", "", 1, false),
		// Bola: 2 stamps, 5 already consumed
		visitAt(6, "+2348098765432", "Bola", 40, true),
		visitAt(7, "+2348098765432", "", 35, true),
		visitAt(8, "+2348098765432", "", 30, true),
		visitAt(9, "+2348098765432", "", 25, true),
		visitAt(10, "+2348098765432", "", 20, true),
		visitAt(11, "+2348098765432", "", 3, false),
		visitAt(12, "+2348098765432", "", 0, false),
	)
	svc := NewDashboardService(newFakeBusinessRepo(testBusiness()), visitRepo)

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)

	// Stored key variants collapse, so two customers not three
	assert.Equal(t, 2, stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.VisitsToday)
	assert.Equal(t, int64(5), stats.StampsRedeemed)
	assert.Equal(t, 1, stats.RewardsEarned)
}

func TestAnalyticsSeries(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		visitAt(1, "+2348012345678", "Ada", 0, false),
		visitAt(2, "+2348012345678", "", 0, false),
		visitAt(3, "+2348098765432", "Bola", 3, false),
		// Outside the 30 day window, excluded from the series but still
		// counted in segments and top customers
		visitAt(4, "+2348098765432", "", 45, false),
	)
	svc := NewDashboardService(newFakeBusinessRepo(testBusiness()), visitRepo)

	analytics, err := svc.Analytics(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, analytics.VisitsByDay, 30)
	today := time.Now().Format("2006-01-02")
	last := analytics.VisitsByDay[len(analytics.VisitsByDay)-1]
	assert.Equal(t, today, last.Date)
	assert.Equal(t, 2, last.Visits)

	total := 0
	for _, d := range analytics.VisitsByDay {
		total += d.Visits
	}
	assert.Equal(t, 3, total)
}

func TestAnalyticsSegmentsAndTop(t *testing.T) {
	var visits []models.Visit
	// VIP: 10 recent visits
	for i := 0; i < 10; i++ {
		visits = append(visits, visitAt(uint(i+1), "+2348012345678", "Ada", i, false))
	}
	// New customer, single visit
	visits = append(visits, visitAt(11, "+2348098765432", "Bola", 2, false))
	// At risk
	visits = append(visits, visitAt(12, "+2347012345678", "Chidi", 120, false))

	svc := NewDashboardService(newFakeBusinessRepo(testBusiness()), newFakeVisitRepo(visits...))

	analytics, err := svc.Analytics(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, analytics.Segments[domain.SegmentVIP])
	assert.Equal(t, 1, analytics.Segments[domain.SegmentNew])
	assert.Equal(t, 1, analytics.Segments[domain.SegmentAtRisk])
	assert.Equal(t, 0, analytics.Segments[domain.SegmentRegular])

	require.NotEmpty(t, analytics.TopCustomers)
	assert.Equal(t, "Ada", analytics.TopCustomers[0].DisplayName)
	assert.Equal(t, 10, analytics.TopCustomers[0].TotalVisits)
}

func TestDigestReports(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		visitAt(1, "+2348012345678", "Ada", 65, false),   // inactive
		visitAt(2, "+2348098765432", "Bola", 120, false), // at risk
		visitAt(3, "+2347012345678", "Chidi", 2, false),  // healthy
	)
	svc := NewDigestService(newFakeBusinessRepo(testBusiness()), visitRepo, nil)

	reports, err := svc.BuildReports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	assert.Equal(t, uint(1), reports[0].BusinessID)
	assert.Equal(t, 1, reports[0].InactiveCount)
	assert.Equal(t, 1, reports[0].AtRiskCount)
	assert.True(t, reports[0].Notify)
}
