package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/adapters/persistence/repositories"
	"loyallocal/internal/core/domain"
	"loyallocal/internal/pkg/phone"
)

// Loyalty errors
var (
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrInsufficientStamps = errors.New("not enough stamps for a reward")
	ErrVisitsRequired     = errors.New("visits required must be between 1 and 50")
)

// LoyaltyService handles visit recording, ledger aggregation and reward
// redemption for a single business.
type LoyaltyService struct {
	businessRepo repositories.BusinessRepository
	visitRepo    repositories.VisitRepository
	profileRepo  repositories.CustomerProfileRepository
}

// NewLoyaltyService creates a new loyalty service
func NewLoyaltyService(
	businessRepo repositories.BusinessRepository,
	visitRepo repositories.VisitRepository,
	profileRepo repositories.CustomerProfileRepository,
) *LoyaltyService {
	return &LoyaltyService{
		businessRepo: businessRepo,
		visitRepo:    visitRepo,
		profileRepo:  profileRepo,
	}
}

// LogVisitInput represents visit recording input
type LogVisitInput struct {
	PhoneNumber  string `json:"phone_number" validate:"required"`
	CustomerName string `json:"customer_name"`
}

// LookupResponse represents a single customer's loyalty position
type LookupResponse struct {
	Ledger            domain.LedgerState `json:"ledger"`
	Segment           domain.Segment     `json:"segment"`
	VisitsRequired    int                `json:"visits_required"`
	RewardDescription string             `json:"reward_description"`
	Profile           interface{}        `json:"profile,omitempty"`
}

// VisitResponse represents the state after recording a visit
type VisitResponse struct {
	Visit  *models.Visit      `json:"visit"`
	Ledger domain.LedgerState `json:"ledger"`
	// RewardUnlocked is set when this visit completed a reward card
	RewardUnlocked bool `json:"reward_unlocked"`
}

// RedeemResponse represents the state after a redemption
type RedeemResponse struct {
	StampsConsumed    int                `json:"stamps_consumed"`
	RewardDescription string             `json:"reward_description"`
	Ledger            domain.LedgerState `json:"ledger"`
}

// BuildLedger folds a customer's visit records into their derived loyalty
// position. Pure function; every read path recomputes from scratch.
func BuildLedger(visits []models.Visit, cfg domain.LoyaltyConfig, defaulted bool) domain.LedgerState {
	state := domain.LedgerState{ConfigDefaulted: defaulted}

	var latestNamed time.Time
	for i := range visits {
		v := &visits[i]
		state.TotalVisits++
		if v.IsRedeemedForReward {
			state.TotalEarned++
		} else {
			state.CurrentStamps++
		}
		if v.CreatedAt.After(state.LastVisitAt) {
			state.LastVisitAt = v.CreatedAt
			state.Phone = v.CustomerPhoneNumber
		}
		if v.CustomerName != "" && !v.CreatedAt.Before(latestNamed) {
			latestNamed = v.CreatedAt
			state.DisplayName = v.CustomerName
		}
	}

	state.AvailableRewards = state.CurrentStamps / cfg.VisitsRequired
	state.ProgressStamps = state.CurrentStamps % cfg.VisitsRequired
	return state
}

// Lookup finds a customer by phone and returns their ledger position.
// Accepts any input format the phone normalizer understands; stored keys
// are probed across all known variations.
func (s *LoyaltyService) Lookup(ctx context.Context, businessID uint, rawPhone string) (*LookupResponse, error) {
	result := phone.Validate(rawPhone)
	if !result.Valid {
		return nil, ErrInvalidPhone
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, ErrBusinessNotFound
	}
	cfg, complete := business.LoyaltyConfig()

	variations := phone.Variations(result.PhoneNumber)
	visits, _, err := s.visitRepo.FindByBusinessAndVariations(ctx, businessID, variations)
	if err != nil {
		return nil, err
	}
	if len(visits) == 0 {
		return nil, ErrCustomerNotFound
	}

	ledger := BuildLedger(visits, cfg, !complete)

	resp := &LookupResponse{
		Ledger:            ledger,
		Segment:           domain.ClassifySegment(ledger.TotalVisits, ledger.LastVisitAt, time.Now()),
		VisitsRequired:    cfg.VisitsRequired,
		RewardDescription: cfg.RewardDescription,
	}

	// Attach the stored profile when one exists under any variation
	for _, key := range variations {
		if profile, err := s.profileRepo.GetByBusinessAndPhone(ctx, businessID, key); err == nil {
			resp.Profile = profile
			break
		}
	}

	return resp, nil
}

// LogVisit records a visit for a customer. The stored phone key reuses the
// key of any existing records so one customer never splits across
// variations; first visits are stored under the normalized form.
func (s *LoyaltyService) LogVisit(ctx context.Context, businessID uint, input *LogVisitInput) (*VisitResponse, error) {
	result := phone.Validate(input.PhoneNumber)
	if !result.Valid {
		return nil, ErrInvalidPhone
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, ErrBusinessNotFound
	}
	cfg, complete := business.LoyaltyConfig()

	variations := phone.Variations(result.PhoneNumber)
	existing, matchedKey, err := s.visitRepo.FindByBusinessAndVariations(ctx, businessID, variations)
	if err != nil {
		return nil, err
	}

	storedKey := result.PhoneNumber
	if matchedKey != "" {
		storedKey = matchedKey
	}

	visit := &models.Visit{
		BusinessID:          businessID,
		CustomerPhoneNumber: storedKey,
		CustomerName:        input.CustomerName,
	}
	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return nil, err
	}

	ledger := BuildLedger(append(existing, *visit), cfg, !complete)

	log.Printf("✅ Visit logged: business %d, customer %s (stamp %d/%d)",
		businessID, storedKey, ledger.ProgressStamps, cfg.VisitsRequired)

	return &VisitResponse{
		Visit:          visit,
		Ledger:         ledger,
		RewardUnlocked: ledger.CurrentStamps > 0 && ledger.CurrentStamps%cfg.VisitsRequired == 0,
	}, nil
}

// Redeem consumes the oldest visitsRequired unredeemed visits as one
// reward. Rejects before any mutation when the customer holds fewer
// stamps than required.
func (s *LoyaltyService) Redeem(ctx context.Context, businessID uint, rawPhone string) (*RedeemResponse, error) {
	result := phone.Validate(rawPhone)
	if !result.Valid {
		return nil, ErrInvalidPhone
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, ErrBusinessNotFound
	}
	cfg, complete := business.LoyaltyConfig()

	variations := phone.Variations(result.PhoneNumber)
	visits, matchedKey, err := s.visitRepo.FindByBusinessAndVariations(ctx, businessID, variations)
	if err != nil {
		return nil, err
	}
	if len(visits) == 0 {
		return nil, ErrCustomerNotFound
	}

	unredeemed, err := s.visitRepo.FindUnredeemedOldest(ctx, businessID, matchedKey, cfg.VisitsRequired)
	if err != nil {
		return nil, err
	}
	if len(unredeemed) < cfg.VisitsRequired {
		return nil, ErrInsufficientStamps
	}

	visitIDs := make([]uint, 0, len(unredeemed))
	for _, v := range unredeemed {
		visitIDs = append(visitIDs, v.ID)
	}

	if err := s.visitRepo.RedeemVisits(ctx, visitIDs); err != nil {
		return nil, err
	}

	// Re-read for the post-redemption ledger
	visits, _, err = s.visitRepo.FindByBusinessAndVariations(ctx, businessID, variations)
	if err != nil {
		return nil, err
	}
	ledger := BuildLedger(visits, cfg, !complete)

	log.Printf("✅ Reward redeemed: business %d, customer %s (%d stamps consumed)",
		businessID, matchedKey, len(visitIDs))

	return &RedeemResponse{
		StampsConsumed:    len(visitIDs),
		RewardDescription: cfg.RewardDescription,
		Ledger:            ledger,
	}, nil
}

// SettingsInput represents a partial loyalty settings update
type SettingsInput struct {
	VisitsRequired    *int    `json:"visits_required"`
	RewardDescription *string `json:"reward_description"`
	SMSNotifications  *bool   `json:"sms_notifications"`
}

// SettingsResponse represents the loyalty settings of a business
type SettingsResponse struct {
	VisitsRequired    int    `json:"visits_required"`
	RewardDescription string `json:"reward_description"`
	SMSNotifications  bool   `json:"sms_notifications"`
	// Defaulted is set when stored values were unusable and the documented
	// defaults were substituted.
	Defaulted bool `json:"defaulted,omitempty"`
}

// GetSettings returns the business's loyalty configuration.
func (s *LoyaltyService) GetSettings(ctx context.Context, businessID uint) (*SettingsResponse, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, ErrBusinessNotFound
	}
	cfg, complete := business.LoyaltyConfig()
	return &SettingsResponse{
		VisitsRequired:    cfg.VisitsRequired,
		RewardDescription: cfg.RewardDescription,
		SMSNotifications:  cfg.SMSNotifications,
		Defaulted:         !complete,
	}, nil
}

// UpdateSettings applies a partial update to the loyalty configuration.
// Fields left nil keep their stored value.
func (s *LoyaltyService) UpdateSettings(ctx context.Context, businessID uint, input *SettingsInput) (*SettingsResponse, error) {
	if _, err := s.businessRepo.GetByID(ctx, businessID); err != nil {
		return nil, ErrBusinessNotFound
	}

	updates := map[string]interface{}{}
	if input.VisitsRequired != nil {
		if *input.VisitsRequired < 1 || *input.VisitsRequired > 50 {
			return nil, ErrVisitsRequired
		}
		updates["loyalty_visits_required"] = *input.VisitsRequired
	}
	if input.RewardDescription != nil {
		updates["loyalty_reward_description"] = *input.RewardDescription
	}
	if input.SMSNotifications != nil {
		updates["sms_notifications_enabled"] = *input.SMSNotifications
	}

	if len(updates) > 0 {
		if err := s.businessRepo.UpdateSettings(ctx, businessID, updates); err != nil {
			return nil, err
		}
		log.Printf("✅ Loyalty settings updated for business %d", businessID)
	}

	return s.GetSettings(ctx, businessID)
}

// VisitHistory returns a customer's visits, most recent first.
func (s *LoyaltyService) VisitHistory(ctx context.Context, businessID uint, rawPhone string) ([]models.Visit, error) {
	result := phone.Validate(rawPhone)
	if !result.Valid {
		return nil, ErrInvalidPhone
	}

	variations := phone.Variations(result.PhoneNumber)
	visits, _, err := s.visitRepo.FindByBusinessAndVariations(ctx, businessID, variations)
	if err != nil {
		return nil, err
	}
	if len(visits) == 0 {
		return nil, ErrCustomerNotFound
	}

	sort.Slice(visits, func(i, j int) bool {
		return visits[i].CreatedAt.After(visits[j].CreatedAt)
	})
	return visits, nil
}
