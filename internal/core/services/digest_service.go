package services

import (
	"context"
	"log"
	"time"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/adapters/persistence/repositories"
	"loyallocal/internal/core/domain"
	"loyallocal/internal/pkg/phone"

	"github.com/robfig/cron/v3"
)

// ============================================================
// Daily digest: inactive-customer report + token cleanup
// ============================================================

// DigestService runs the scheduled background jobs: the morning
// inactive-customer digest per business and expired token cleanup.
type DigestService struct {
	businessRepo     repositories.BusinessRepository
	visitRepo        repositories.VisitRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cron             *cron.Cron
}

// DigestReport summarises one business's customers drifting away
type DigestReport struct {
	BusinessID    uint   `json:"business_id"`
	BusinessName  string `json:"business_name"`
	InactiveCount int    `json:"inactive_count"`
	AtRiskCount   int    `json:"at_risk_count"`
	Notify        bool   `json:"notify"`
}

// NewDigestService creates a new digest service
func NewDigestService(
	businessRepo repositories.BusinessRepository,
	visitRepo repositories.VisitRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *DigestService {
	return &DigestService{
		businessRepo:     businessRepo,
		visitRepo:        visitRepo,
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(),
	}
}

// Start schedules the background jobs
func (s *DigestService) Start() error {
	// Morning digest at 08:30, before most businesses open
	if _, err := s.cron.AddFunc("30 8 * * *", s.runDigest); err != nil {
		return err
	}
	// Expired refresh tokens are purged nightly
	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanupTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("🚀 DigestService started")
	return nil
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *DigestService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 DigestService stopped")
}

func (s *DigestService) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	reports, err := s.BuildReports(ctx)
	if err != nil {
		log.Printf("❌ Digest failed: %v", err)
		return
	}

	for _, r := range reports {
		if !r.Notify || (r.InactiveCount == 0 && r.AtRiskCount == 0) {
			continue
		}
		log.Printf("📋 Digest for %s: %d inactive, %d at risk", r.BusinessName, r.InactiveCount, r.AtRiskCount)
	}
}

// BuildReports computes the digest for every business. Exposed separately
// from the scheduler so it can be triggered manually and tested.
func (s *DigestService) BuildReports(ctx context.Context) ([]DigestReport, error) {
	businesses, err := s.businessRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reports := make([]DigestReport, 0, len(businesses))
	for _, business := range businesses {
		visits, err := s.visitRepo.FindAllByBusiness(ctx, business.ID)
		if err != nil {
			return nil, err
		}

		byCustomer := map[string][]models.Visit{}
		for _, v := range visits {
			key := phone.Normalize(v.CustomerPhoneNumber)
			byCustomer[key] = append(byCustomer[key], v)
		}

		report := DigestReport{
			BusinessID:   business.ID,
			BusinessName: business.Name,
			Notify:       business.SMSNotificationsEnabled,
		}
		cfg, complete := business.LoyaltyConfig()
		for _, group := range byCustomer {
			ledger := BuildLedger(group, cfg, !complete)
			switch domain.ClassifySegment(ledger.TotalVisits, ledger.LastVisitAt, now) {
			case domain.SegmentInactive:
				report.InactiveCount++
			case domain.SegmentAtRisk:
				report.AtRiskCount++
			}
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (s *DigestService) cleanupTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Token cleanup failed: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}
