package services

import (
	"context"
	"log"
	"sort"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/adapters/persistence/repositories"
	"loyallocal/internal/pkg/phone"
)

// PhoneValidationError carries the user-facing validation message from the
// phone engine to the handler layer.
type PhoneValidationError struct {
	Message string
}

func (e *PhoneValidationError) Error() string {
	return e.Message
}

// PortalService handles the public customer lookup portal. Unlike the
// dashboard services it is unauthenticated and spans every business.
type PortalService struct {
	businessRepo repositories.BusinessRepository
	visitRepo    repositories.VisitRepository
}

// NewPortalService creates a new portal service
func NewPortalService(
	businessRepo repositories.BusinessRepository,
	visitRepo repositories.VisitRepository,
) *PortalService {
	return &PortalService{
		businessRepo: businessRepo,
		visitRepo:    visitRepo,
	}
}

// LoyaltyCard is one business's card as shown to the customer
type LoyaltyCard struct {
	BusinessID        uint   `json:"business_id"`
	BusinessName      string `json:"business_name"`
	BusinessType      string `json:"business_type,omitempty"`
	VisitsRequired    int    `json:"visits_required"`
	RewardDescription string `json:"reward_description"`
	TotalVisits       int    `json:"total_visits"`
	TotalEarned       int    `json:"total_earned"`
	CurrentStamps     int    `json:"current_stamps"`
	AvailableRewards  int    `json:"available_rewards"`
	ProgressStamps    int    `json:"progress_stamps"`
}

// PortalResponse represents the cross-business loyalty summary for one
// customer
type PortalResponse struct {
	Phone            string        `json:"phone"`
	Businesses       int           `json:"businesses"`
	TotalVisits      int           `json:"total_visits"`
	AvailableRewards int           `json:"available_rewards"`
	EarnedRewards    int           `json:"earned_rewards"`
	Cards            []LoyaltyCard `json:"cards"`
}

// Lookup resolves a customer's loyalty position across every business.
// Input goes through the auto-formatter first so customers can type local
// numbers; validation then runs in strict-international mode.
func (s *PortalService) Lookup(ctx context.Context, rawPhone string) (*PortalResponse, error) {
	formatted := phone.AutoFormatInput(rawPhone)
	result := phone.ValidateInternational(formatted)
	if !result.Valid {
		return nil, &PhoneValidationError{Message: result.Message}
	}

	variations := phone.Variations(result.PhoneNumber)
	visits, _, err := s.visitRepo.FindByVariations(ctx, variations)
	if err != nil {
		return nil, err
	}
	if len(visits) == 0 {
		return nil, ErrCustomerNotFound
	}

	byBusiness := map[uint][]models.Visit{}
	for _, v := range visits {
		byBusiness[v.BusinessID] = append(byBusiness[v.BusinessID], v)
	}

	resp := &PortalResponse{
		Phone: phone.Format(result.PhoneNumber, phone.StyleInternational),
	}

	for businessID, group := range byBusiness {
		business, err := s.businessRepo.GetByID(ctx, businessID)
		if err != nil {
			// Business removed since the visits were recorded
			log.Printf("⚠️ Portal lookup: skipping %d visits for unresolvable business %d: %v", len(group), businessID, err)
			continue
		}
		cfg, complete := business.LoyaltyConfig()
		ledger := BuildLedger(group, cfg, !complete)

		resp.Cards = append(resp.Cards, LoyaltyCard{
			BusinessID:        business.ID,
			BusinessName:      business.Name,
			BusinessType:      business.Type,
			VisitsRequired:    cfg.VisitsRequired,
			RewardDescription: cfg.RewardDescription,
			TotalVisits:       ledger.TotalVisits,
			TotalEarned:       ledger.TotalEarned,
			CurrentStamps:     ledger.CurrentStamps,
			AvailableRewards:  ledger.AvailableRewards,
			ProgressStamps:    ledger.ProgressStamps,
		})

		resp.TotalVisits += ledger.TotalVisits
		resp.AvailableRewards += ledger.AvailableRewards
		resp.EarnedRewards += ledger.TotalEarned
	}

	if len(resp.Cards) == 0 {
		return nil, ErrCustomerNotFound
	}
	resp.Businesses = len(resp.Cards)

	sort.Slice(resp.Cards, func(i, j int) bool {
		return resp.Cards[i].BusinessName < resp.Cards[j].BusinessName
	})

	return resp, nil
}
