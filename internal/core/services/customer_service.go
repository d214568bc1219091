package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/adapters/persistence/repositories"
	"loyallocal/internal/core/domain"
	"loyallocal/internal/pkg/pagination"
	"loyallocal/internal/pkg/phone"

	"gorm.io/gorm"
)

// CustomerService handles the aggregated customer directory of a business
type CustomerService struct {
	businessRepo repositories.BusinessRepository
	visitRepo    repositories.VisitRepository
	profileRepo  repositories.CustomerProfileRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	businessRepo repositories.BusinessRepository,
	visitRepo repositories.VisitRepository,
	profileRepo repositories.CustomerProfileRepository,
) *CustomerService {
	return &CustomerService{
		businessRepo: businessRepo,
		visitRepo:    visitRepo,
		profileRepo:  profileRepo,
	}
}

// CustomerSummary is one row of the customer directory
type CustomerSummary struct {
	Phone            string         `json:"phone"`
	DisplayName      string         `json:"display_name,omitempty"`
	Segment          domain.Segment `json:"segment"`
	TotalVisits      int            `json:"total_visits"`
	TotalEarned      int            `json:"total_earned"`
	CurrentStamps    int            `json:"current_stamps"`
	AvailableRewards int            `json:"available_rewards"`
	ProgressStamps   int            `json:"progress_stamps"`
	LastVisitAt      time.Time      `json:"last_visit_at"`
}

// ListFilter narrows the customer directory
type ListFilter struct {
	Segment string `json:"segment"`
	Search  string `json:"search"`
}

// ProfileInput represents a partial customer profile update
type ProfileInput struct {
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Notes     *string    `json:"notes"`
	Birthday  *time.Time `json:"birthday"`
}

// List groups the business's visits by customer, folds each group into a
// ledger and returns the directory sorted by most recent visit. Filtering
// and pagination happen after aggregation since ledger fields only exist
// once the fold has run.
func (s *CustomerService) List(ctx context.Context, businessID uint, filter *ListFilter, params *pagination.Params) (*pagination.Response, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, ErrBusinessNotFound
	}
	cfg, complete := business.LoyaltyConfig()

	visits, err := s.visitRepo.FindAllByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	// Group by canonical phone so stored key variants collapse into one
	// customer
	groups := map[string][]models.Visit{}
	for _, v := range visits {
		key := phone.Normalize(v.CustomerPhoneNumber)
		groups[key] = append(groups[key], v)
	}

	profiles, err := s.profileRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	profileNames := map[string]string{}
	for i := range profiles {
		profileNames[phone.Normalize(profiles[i].PhoneNumber)] = profiles[i].FullName()
	}

	now := time.Now()
	summaries := make([]CustomerSummary, 0, len(groups))
	for key, group := range groups {
		ledger := BuildLedger(group, cfg, !complete)

		name := ledger.DisplayName
		if stored, ok := profileNames[key]; ok && stored != "" {
			name = stored
		}

		summaries = append(summaries, CustomerSummary{
			Phone:            key,
			DisplayName:      name,
			Segment:          domain.ClassifySegment(ledger.TotalVisits, ledger.LastVisitAt, now),
			TotalVisits:      ledger.TotalVisits,
			TotalEarned:      ledger.TotalEarned,
			CurrentStamps:    ledger.CurrentStamps,
			AvailableRewards: ledger.AvailableRewards,
			ProgressStamps:   ledger.ProgressStamps,
			LastVisitAt:      ledger.LastVisitAt,
		})
	}

	summaries = filterSummaries(summaries, filter)

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastVisitAt.After(summaries[j].LastVisitAt)
	})

	total := int64(len(summaries))
	start, end := params.Slice(len(summaries))
	return pagination.NewResponse(summaries[start:end], params, total), nil
}

func filterSummaries(summaries []CustomerSummary, filter *ListFilter) []CustomerSummary {
	if filter == nil || (filter.Segment == "" && filter.Search == "") {
		return summaries
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	searchDigits := phone.Digits(search)

	out := summaries[:0]
	for _, c := range summaries {
		if filter.Segment != "" && string(c.Segment) != filter.Segment {
			continue
		}
		if search != "" {
			nameMatch := strings.Contains(strings.ToLower(c.DisplayName), search)
			phoneMatch := searchDigits != "" && strings.Contains(phone.Digits(c.Phone), searchDigits)
			if !nameMatch && !phoneMatch {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// GetProfile returns the stored profile for a customer
func (s *CustomerService) GetProfile(ctx context.Context, businessID uint, rawPhone string) (*models.CustomerProfile, error) {
	result := phone.Validate(rawPhone)
	if !result.Valid {
		return nil, ErrInvalidPhone
	}

	for _, key := range phone.Variations(result.PhoneNumber) {
		profile, err := s.profileRepo.GetByBusinessAndPhone(ctx, businessID, key)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, ErrCustomerNotFound
}

// UpdateProfile creates or updates a customer's profile. The profile is
// keyed under the normalized phone; nil fields keep their stored value.
func (s *CustomerService) UpdateProfile(ctx context.Context, businessID uint, rawPhone string, input *ProfileInput) (*models.CustomerProfile, error) {
	result := phone.Validate(rawPhone)
	if !result.Valid {
		return nil, ErrInvalidPhone
	}

	profile, err := s.GetProfile(ctx, businessID, rawPhone)
	if err != nil {
		if !errors.Is(err, ErrCustomerNotFound) {
			return nil, err
		}
		profile = &models.CustomerProfile{
			BusinessID:  businessID,
			PhoneNumber: result.PhoneNumber,
		}
	}

	if input.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		profile.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Notes != nil {
		profile.Notes = *input.Notes
	}
	if input.Birthday != nil {
		profile.Birthday = input.Birthday
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	log.Printf("✅ Profile saved: business %d, customer %s", businessID, profile.PhoneNumber)
	return profile, nil
}

// DeleteCustomer erases a customer from the business: every visit record
// and any profile stored under any phone variation is hard-deleted.
func (s *CustomerService) DeleteCustomer(ctx context.Context, businessID uint, rawPhone string) (int64, error) {
	result := phone.Validate(rawPhone)
	if !result.Valid {
		return 0, ErrInvalidPhone
	}

	variations := phone.Variations(result.PhoneNumber)

	deleted, err := s.visitRepo.DeleteByBusinessAndPhone(ctx, businessID, variations)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ErrCustomerNotFound
	}

	if _, err := s.profileRepo.DeleteByBusinessAndPhone(ctx, businessID, variations); err != nil {
		return deleted, err
	}

	log.Printf("🛑 Customer erased: business %d, %d visits removed", businessID, deleted)
	return deleted, nil
}
