package services

import (
	"context"
	"sort"
	"time"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/adapters/persistence/repositories"
	"loyallocal/internal/core/domain"
	"loyallocal/internal/pkg/phone"
)

// DashboardService computes dashboard statistics for a business
type DashboardService struct {
	businessRepo repositories.BusinessRepository
	visitRepo    repositories.VisitRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	businessRepo repositories.BusinessRepository,
	visitRepo repositories.VisitRepository,
) *DashboardService {
	return &DashboardService{
		businessRepo: businessRepo,
		visitRepo:    visitRepo,
	}
}

// StatsResponse represents the dashboard headline numbers
type StatsResponse struct {
	TotalCustomers int   `json:"total_customers"`
	VisitsToday    int64 `json:"visits_today"`
	// StampsRedeemed is the raw count of visit records consumed by
	// redemptions
	StampsRedeemed int64 `json:"stamps_redeemed"`
	// RewardsEarned is the number of customers currently holding at least
	// one full card
	RewardsEarned int `json:"rewards_earned"`
}

// DayCount is one bucket of the visits-per-day series
type DayCount struct {
	Date   string `json:"date"`
	Visits int    `json:"visits"`
}

// TopCustomer is one row of the most-frequent-customers board
type TopCustomer struct {
	Phone       string `json:"phone"`
	DisplayName string `json:"display_name,omitempty"`
	TotalVisits int    `json:"total_visits"`
}

// AnalyticsResponse represents the dashboard analytics payload
type AnalyticsResponse struct {
	VisitsByDay  []DayCount             `json:"visits_by_day"`
	Segments     map[domain.Segment]int `json:"segments"`
	TopCustomers []TopCustomer          `json:"top_customers"`
}

// Stats computes the headline dashboard numbers
func (s *DashboardService) Stats(ctx context.Context, businessID uint) (*StatsResponse, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, ErrBusinessNotFound
	}
	cfg, _ := business.LoyaltyConfig()

	visits, err := s.visitRepo.FindAllByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	visitsToday, err := s.visitRepo.CountVisitsSince(ctx, businessID, startOfDay)
	if err != nil {
		return nil, err
	}
	stampsRedeemed, err := s.visitRepo.CountRedeemed(ctx, businessID)
	if err != nil {
		return nil, err
	}

	stamps := map[string]int{}
	for _, v := range visits {
		key := phone.Normalize(v.CustomerPhoneNumber)
		if !v.IsRedeemedForReward {
			stamps[key]++
		} else if _, ok := stamps[key]; !ok {
			stamps[key] = 0
		}
	}

	rewardsEarned := 0
	for _, count := range stamps {
		if count >= cfg.VisitsRequired {
			rewardsEarned++
		}
	}

	return &StatsResponse{
		TotalCustomers: len(stamps),
		VisitsToday:    visitsToday,
		StampsRedeemed: stampsRedeemed,
		RewardsEarned:  rewardsEarned,
	}, nil
}

// Analytics computes the visits-per-day series for the trailing 30 days,
// the segment distribution and the top five customers by visit count.
func (s *DashboardService) Analytics(ctx context.Context, businessID uint) (*AnalyticsResponse, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, ErrBusinessNotFound
	}
	cfg, complete := business.LoyaltyConfig()

	visits, err := s.visitRepo.FindAllByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	windowStart := now.AddDate(0, 0, -29)

	// Visits per day, zero-filled across the window
	byDay := map[string]int{}
	for _, v := range visits {
		if v.CreatedAt.Before(time.Date(windowStart.Year(), windowStart.Month(), windowStart.Day(), 0, 0, 0, 0, now.Location())) {
			continue
		}
		byDay[v.CreatedAt.Format("2006-01-02")]++
	}

	series := make([]DayCount, 0, 30)
	for i := 0; i < 30; i++ {
		day := windowStart.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, DayCount{Date: day, Visits: byDay[day]})
	}

	// Segment distribution and top customers over the full history
	groups := map[string][]models.Visit{}
	for _, v := range visits {
		key := phone.Normalize(v.CustomerPhoneNumber)
		groups[key] = append(groups[key], v)
	}

	segments := map[domain.Segment]int{
		domain.SegmentNew:      0,
		domain.SegmentRegular:  0,
		domain.SegmentVIP:      0,
		domain.SegmentInactive: 0,
		domain.SegmentAtRisk:   0,
	}
	top := make([]TopCustomer, 0, len(groups))
	for key, group := range groups {
		ledger := BuildLedger(group, cfg, !complete)
		segments[domain.ClassifySegment(ledger.TotalVisits, ledger.LastVisitAt, now)]++
		top = append(top, TopCustomer{
			Phone:       key,
			DisplayName: ledger.DisplayName,
			TotalVisits: ledger.TotalVisits,
		})
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalVisits != top[j].TotalVisits {
			return top[i].TotalVisits > top[j].TotalVisits
		}
		return top[i].Phone < top[j].Phone
	})
	if len(top) > 5 {
		top = top[:5]
	}

	return &AnalyticsResponse{
		VisitsByDay:  series,
		Segments:     segments,
		TopCustomers: top,
	}, nil
}
