package services

import (
	"context"
	"testing"
	"time"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ============================================================
// In-memory fakes
// ============================================================

type fakeBusinessRepo struct {
	businesses map[uint]*models.Business
	updates    []map[string]interface{}
}

func newFakeBusinessRepo(businesses ...*models.Business) *fakeBusinessRepo {
	r := &fakeBusinessRepo{businesses: map[uint]*models.Business{}}
	for _, b := range businesses {
		r.businesses[b.ID] = b
	}
	return r
}

func (r *fakeBusinessRepo) Create(ctx context.Context, b *models.Business) error {
	r.businesses[b.ID] = b
	return nil
}

func (r *fakeBusinessRepo) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *fakeBusinessRepo) GetByEmail(ctx context.Context, email string) (*models.Business, error) {
	for _, b := range r.businesses {
		if b.Email == email {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBusinessRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeBusinessRepo) Update(ctx context.Context, b *models.Business) error {
	r.businesses[b.ID] = b
	return nil
}

func (r *fakeBusinessRepo) UpdateSettings(ctx context.Context, id uint, updates map[string]interface{}) error {
	r.updates = append(r.updates, updates)
	b := r.businesses[id]
	if v, ok := updates["loyalty_visits_required"].(int); ok {
		b.LoyaltyVisitsRequired = v
	}
	if v, ok := updates["loyalty_reward_description"].(string); ok {
		b.LoyaltyRewardDescription = v
	}
	if v, ok := updates["sms_notifications_enabled"].(bool); ok {
		b.SMSNotificationsEnabled = v
	}
	return nil
}

func (r *fakeBusinessRepo) ListAll(ctx context.Context) ([]*models.Business, error) {
	out := make([]*models.Business, 0, len(r.businesses))
	for _, b := range r.businesses {
		out = append(out, b)
	}
	return out, nil
}

type fakeVisitRepo struct {
	visits []models.Visit
	nextID uint
}

func newFakeVisitRepo(visits ...models.Visit) *fakeVisitRepo {
	r := &fakeVisitRepo{visits: visits, nextID: 1}
	for _, v := range visits {
		if v.ID >= r.nextID {
			r.nextID = v.ID + 1
		}
	}
	return r
}

func (r *fakeVisitRepo) Create(ctx context.Context, visit *models.Visit) error {
	visit.ID = r.nextID
	r.nextID++
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now()
	}
	r.visits = append(r.visits, *visit)
	return nil
}

func (r *fakeVisitRepo) FindByBusinessAndPhone(ctx context.Context, businessID uint, phone string) ([]models.Visit, error) {
	var out []models.Visit
	for _, v := range r.visits {
		if v.BusinessID == businessID && v.CustomerPhoneNumber == phone {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVisitRepo) FindByBusinessAndVariations(ctx context.Context, businessID uint, variations []string) ([]models.Visit, string, error) {
	for _, key := range variations {
		visits, _ := r.FindByBusinessAndPhone(ctx, businessID, key)
		if len(visits) > 0 {
			return visits, key, nil
		}
	}
	return nil, "", nil
}

func (r *fakeVisitRepo) FindByVariations(ctx context.Context, variations []string) ([]models.Visit, string, error) {
	for _, key := range variations {
		var out []models.Visit
		for _, v := range r.visits {
			if v.CustomerPhoneNumber == key {
				out = append(out, v)
			}
		}
		if len(out) > 0 {
			return out, key, nil
		}
	}
	return nil, "", nil
}

func (r *fakeVisitRepo) FindUnredeemedOldest(ctx context.Context, businessID uint, phone string, limit int) ([]models.Visit, error) {
	var out []models.Visit
	for _, v := range r.visits {
		if v.BusinessID == businessID && v.CustomerPhoneNumber == phone && !v.IsRedeemedForReward {
			out = append(out, v)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.Before(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeVisitRepo) RedeemVisits(ctx context.Context, visitIDs []uint) error {
	ids := map[uint]bool{}
	for _, id := range visitIDs {
		ids[id] = true
	}
	for i := range r.visits {
		if ids[r.visits[i].ID] {
			r.visits[i].IsRedeemedForReward = true
		}
	}
	return nil
}

func (r *fakeVisitRepo) FindAllByBusiness(ctx context.Context, businessID uint) ([]models.Visit, error) {
	var out []models.Visit
	for _, v := range r.visits {
		if v.BusinessID == businessID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVisitRepo) CountVisitsSince(ctx context.Context, businessID uint, since time.Time) (int64, error) {
	var n int64
	for _, v := range r.visits {
		if v.BusinessID == businessID && !v.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeVisitRepo) CountRedeemed(ctx context.Context, businessID uint) (int64, error) {
	var n int64
	for _, v := range r.visits {
		if v.BusinessID == businessID && v.IsRedeemedForReward {
			n++
		}
	}
	return n, nil
}

func (r *fakeVisitRepo) DeleteByBusinessAndPhone(ctx context.Context, businessID uint, variations []string) (int64, error) {
	keys := map[string]bool{}
	for _, k := range variations {
		keys[k] = true
	}
	var kept []models.Visit
	var deleted int64
	for _, v := range r.visits {
		if v.BusinessID == businessID && keys[v.CustomerPhoneNumber] {
			deleted++
			continue
		}
		kept = append(kept, v)
	}
	r.visits = kept
	return deleted, nil
}

func (r *fakeVisitRepo) unredeemedCount() int {
	n := 0
	for _, v := range r.visits {
		if !v.IsRedeemedForReward {
			n++
		}
	}
	return n
}

type fakeProfileRepo struct {
	profiles map[string]*models.CustomerProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*models.CustomerProfile{}}
}

func (r *fakeProfileRepo) GetByBusinessAndPhone(ctx context.Context, businessID uint, phone string) (*models.CustomerProfile, error) {
	p, ok := r.profiles[phone]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, p *models.CustomerProfile) error {
	r.profiles[p.PhoneNumber] = p
	return nil
}

func (r *fakeProfileRepo) ListByBusiness(ctx context.Context, businessID uint) ([]models.CustomerProfile, error) {
	var out []models.CustomerProfile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProfileRepo) DeleteByBusinessAndPhone(ctx context.Context, businessID uint, variations []string) (int64, error) {
	var deleted int64
	for _, k := range variations {
		if _, ok := r.profiles[k]; ok {
			delete(r.profiles, k)
			deleted++
		}
	}
	return deleted, nil
}

// ============================================================
// Helpers
// ============================================================

func testBusiness() *models.Business {
	return &models.Business{
		ID:                       1,
		Name:                     "Kemi's Salon",
		Email:                    "kemi@example.com",
		LoyaltyVisitsRequired:    5,
		LoyaltyRewardDescription: "Free wash and blow dry",
		SMSNotificationsEnabled:  true,
		IsActive:                 true,
	}
}

func visitAt(id uint, phone, name string, daysAgo int, redeemed bool) models.Visit {
	return models.Visit{
		ID:                  id,
		BusinessID:          1,
		CustomerPhoneNumber: phone,
		CustomerName:        name,
		IsRedeemedForReward: redeemed,
		CreatedAt:           time.Now().AddDate(0, 0, -daysAgo),
	}
}

// ============================================================
// Ledger aggregation
// ============================================================

func TestBuildLedgerRewardMath(t *testing.T) {
	cfg := domain.LoyaltyConfig{VisitsRequired: 5, RewardDescription: "Free service"}

	var visits []models.Visit
	for i := 0; i < 12; i++ {
		visits = append(visits, visitAt(uint(i+1), "+2348012345678", "", i, false))
	}

	ledger := BuildLedger(visits, cfg, false)
	assert.Equal(t, 12, ledger.CurrentStamps)
	assert.Equal(t, 2, ledger.AvailableRewards)
	assert.Equal(t, 2, ledger.ProgressStamps)
	assert.Equal(t, 12, ledger.TotalVisits)
	assert.Equal(t, 0, ledger.TotalEarned)
}

func TestBuildLedgerCounts(t *testing.T) {
	cfg := domain.LoyaltyConfig{VisitsRequired: 5, RewardDescription: "Free service"}

	visits := []models.Visit{
		visitAt(1, "+2348012345678", "", 30, true),
		visitAt(2, "+2348012345678", "", 20, true),
		visitAt(3, "+2348012345678", "", 10, false),
		visitAt(4, "+2348012345678", "", 2, false),
	}

	ledger := BuildLedger(visits, cfg, false)
	assert.Equal(t, 4, ledger.TotalVisits)
	assert.Equal(t, 2, ledger.TotalEarned)
	assert.Equal(t, 2, ledger.CurrentStamps)
	assert.Equal(t, 0, ledger.AvailableRewards)
	assert.Equal(t, 2, ledger.ProgressStamps)
	assert.WithinDuration(t, visits[3].CreatedAt, ledger.LastVisitAt, time.Second)
}

func TestBuildLedgerDisplayName(t *testing.T) {
	cfg := domain.LoyaltyConfig{VisitsRequired: 5, RewardDescription: "Free service"}

	// Most recent record has no name; the name from the most recent
	// named record wins.
	visits := []models.Visit{
		visitAt(1, "+2348012345678", "Ada", 30, false),
		visitAt(2, "+2348012345678", "Adaeze O.", 10, false),
		visitAt(3, "+2348012345678", "", 1, false),
	}

	ledger := BuildLedger(visits, cfg, false)
	assert.Equal(t, "Adaeze O.", ledger.DisplayName)
	assert.WithinDuration(t, visits[2].CreatedAt, ledger.LastVisitAt, time.Second)
}

func TestBuildLedgerDefaultedConfig(t *testing.T) {
	business := &models.Business{ID: 2, LoyaltyVisitsRequired: 0}
	cfg, complete := business.LoyaltyConfig()

	assert.False(t, complete)
	assert.Equal(t, domain.DefaultVisitsRequired, cfg.VisitsRequired)
	assert.Equal(t, domain.DefaultRewardDescription, cfg.RewardDescription)

	ledger := BuildLedger([]models.Visit{visitAt(1, "+2348012345678", "", 1, false)}, cfg, !complete)
	assert.True(t, ledger.ConfigDefaulted)
}

// ============================================================
// Visit recording
// ============================================================

func TestLogVisitReusesStoredKey(t *testing.T) {
	visitRepo := newFakeVisitRepo(visitAt(1, "08012345678", "Ada", 5, false))
	svc := NewLoyaltyService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	resp, err := svc.LogVisit(context.Background(), 1, &LogVisitInput{PhoneNumber: "+234 801 234 5678"})
	require.NoError(t, err)

	// Stored under the existing key so the customer does not split
	assert.Equal(t, "08012345678", resp.Visit.CustomerPhoneNumber)
	assert.Equal(t, 2, resp.Ledger.CurrentStamps)
	assert.Equal(t, "Ada", resp.Ledger.DisplayName)
}

func TestLogVisitNewCustomerStoresNormalized(t *testing.T) {
	visitRepo := newFakeVisitRepo()
	svc := NewLoyaltyService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	resp, err := svc.LogVisit(context.Background(), 1, &LogVisitInput{PhoneNumber: "0801 234 5678", CustomerName: "Chidi"})
	require.NoError(t, err)

	assert.Equal(t, "+2348012345678", resp.Visit.CustomerPhoneNumber)
	assert.Equal(t, 1, resp.Ledger.TotalVisits)
	assert.False(t, resp.RewardUnlocked)
}

func TestLogVisitRejectsInvalidPhone(t *testing.T) {
	svc := NewLoyaltyService(newFakeBusinessRepo(testBusiness()), newFakeVisitRepo(), newFakeProfileRepo())

	_, err := svc.LogVisit(context.Background(), 1, &LogVisitInput{PhoneNumber: "12345"})
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestLogVisitUnlocksReward(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		visitAt(1, "+2348012345678", "", 4, false),
		visitAt(2, "+2348012345678", "", 3, false),
		visitAt(3, "+2348012345678", "", 2, false),
		visitAt(4, "+2348012345678", "", 1, false),
	)
	svc := NewLoyaltyService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	resp, err := svc.LogVisit(context.Background(), 1, &LogVisitInput{PhoneNumber: "08012345678"})
	require.NoError(t, err)
	assert.True(t, resp.RewardUnlocked)
	assert.Equal(t, 1, resp.Ledger.AvailableRewards)
}

// ============================================================
// Redemption
// ============================================================

func TestRedeemRejectsInsufficientStamps(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		visitAt(1, "+2348012345678", "", 3, false),
		visitAt(2, "+2348012345678", "", 2, false),
		visitAt(3, "+2348012345678", "", 1, false),
	)
	svc := NewLoyaltyService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	_, err := svc.Redeem(context.Background(), 1, "08012345678")
	assert.ErrorIs(t, err, ErrInsufficientStamps)

	// No mutation happened
	assert.Equal(t, 3, visitRepo.unredeemedCount())
}

func TestRedeemConsumesOldestFirst(t *testing.T) {
	var visits []models.Visit
	for i := 0; i < 7; i++ {
		// IDs 1..7, oldest (ID 1) is 7 days ago
		visits = append(visits, visitAt(uint(i+1), "+2348012345678", "", 7-i, false))
	}
	visitRepo := newFakeVisitRepo(visits...)
	svc := NewLoyaltyService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	resp, err := svc.Redeem(context.Background(), 1, "08012345678")
	require.NoError(t, err)

	assert.Equal(t, 5, resp.StampsConsumed)
	assert.Equal(t, "Free wash and blow dry", resp.RewardDescription)
	assert.Equal(t, 2, resp.Ledger.CurrentStamps)
	assert.Equal(t, 5, resp.Ledger.TotalEarned)

	// The five oldest records were consumed, the two newest survive
	for _, v := range visitRepo.visits {
		if v.ID <= 5 {
			assert.True(t, v.IsRedeemedForReward, "visit %d should be redeemed", v.ID)
		} else {
			assert.False(t, v.IsRedeemedForReward, "visit %d should survive", v.ID)
		}
	}
}

func TestRedeemUnknownCustomer(t *testing.T) {
	svc := NewLoyaltyService(newFakeBusinessRepo(testBusiness()), newFakeVisitRepo(), newFakeProfileRepo())

	_, err := svc.Redeem(context.Background(), 1, "08012345678")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

// ============================================================
// Lookup
// ============================================================

func TestLookupMatchesAcrossVariations(t *testing.T) {
	visitRepo := newFakeVisitRepo(
		visitAt(1, "2348170724872", "Bola", 95, false),
	)
	svc := NewLoyaltyService(newFakeBusinessRepo(testBusiness()), visitRepo, newFakeProfileRepo())

	resp, err := svc.Lookup(context.Background(), 1, "0817 072 4872")
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Ledger.TotalVisits)
	assert.Equal(t, "Bola", resp.Ledger.DisplayName)
	assert.Equal(t, domain.SegmentAtRisk, resp.Segment)
	assert.Equal(t, 5, resp.VisitsRequired)
}

func TestLookupUnknownCustomer(t *testing.T) {
	svc := NewLoyaltyService(newFakeBusinessRepo(testBusiness()), newFakeVisitRepo(), newFakeProfileRepo())

	_, err := svc.Lookup(context.Background(), 1, "08012345678")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

// ============================================================
// Settings
// ============================================================

func TestUpdateSettingsValidatesRange(t *testing.T) {
	svc := NewLoyaltyService(newFakeBusinessRepo(testBusiness()), newFakeVisitRepo(), newFakeProfileRepo())

	for _, bad := range []int{0, -1, 51} {
		v := bad
		_, err := svc.UpdateSettings(context.Background(), 1, &SettingsInput{VisitsRequired: &v})
		assert.ErrorIs(t, err, ErrVisitsRequired, "visits_required=%d", bad)
	}
}

func TestUpdateSettingsPartial(t *testing.T) {
	repo := newFakeBusinessRepo(testBusiness())
	svc := NewLoyaltyService(repo, newFakeVisitRepo(), newFakeProfileRepo())

	v := 10
	resp, err := svc.UpdateSettings(context.Background(), 1, &SettingsInput{VisitsRequired: &v})
	require.NoError(t, err)

	assert.Equal(t, 10, resp.VisitsRequired)
	// Untouched field keeps its stored value
	assert.Equal(t, "Free wash and blow dry", resp.RewardDescription)
}
