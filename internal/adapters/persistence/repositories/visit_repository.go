package repositories

import (
	"context"
	"fmt"
	"time"

	"loyallocal/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// visitRepository implements VisitRepository interface
type visitRepository struct {
	db *gorm.DB
}

// NewVisitRepository creates a new visit repository
func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &visitRepository{db: db}
}

// Create inserts a new visit record
func (r *visitRepository) Create(ctx context.Context, visit *models.Visit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

// FindByBusinessAndPhone returns all visits for one (business, phone) pair,
// most recent first
func (r *visitRepository) FindByBusinessAndPhone(ctx context.Context, businessID uint, phone string) ([]models.Visit, error) {
	var visits []models.Visit
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND customer_phone_number = ?", businessID, phone).
		Order("created_at DESC").
		Find(&visits).Error
	return visits, err
}

// FindByBusinessAndVariations probes each phone variation in order and
// returns the first non-empty result along with the stored key that
// matched. Partial results are never merged across variations.
func (r *visitRepository) FindByBusinessAndVariations(ctx context.Context, businessID uint, variations []string) ([]models.Visit, string, error) {
	for _, v := range variations {
		visits, err := r.FindByBusinessAndPhone(ctx, businessID, v)
		if err != nil {
			return nil, "", err
		}
		if len(visits) > 0 {
			return visits, v, nil
		}
	}
	return nil, "", nil
}

// FindByVariations probes each phone variation across all businesses,
// first non-empty result wins. Used by the customer portal.
func (r *visitRepository) FindByVariations(ctx context.Context, variations []string) ([]models.Visit, string, error) {
	for _, v := range variations {
		var visits []models.Visit
		err := r.db.WithContext(ctx).
			Where("customer_phone_number = ?", v).
			Order("created_at DESC").
			Find(&visits).Error
		if err != nil {
			return nil, "", err
		}
		if len(visits) > 0 {
			return visits, v, nil
		}
	}
	return nil, "", nil
}

// FindUnredeemedOldest returns up to limit unredeemed visits, oldest first
func (r *visitRepository) FindUnredeemedOldest(ctx context.Context, businessID uint, phone string, limit int) ([]models.Visit, error) {
	var visits []models.Visit
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND customer_phone_number = ? AND is_redeemed_for_reward = ?", businessID, phone, false).
		Order("created_at ASC").
		Limit(limit).
		Find(&visits).Error
	return visits, err
}

// RedeemVisits flips the redeemed flag on the given visits as one atomic
// batch. The update only matches rows still unredeemed; if a concurrent
// redemption consumed any of them the whole batch rolls back, so the same
// visit can never be consumed twice.
func (r *visitRepository) RedeemVisits(ctx context.Context, visitIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Visit{}).
			Where("id IN ? AND is_redeemed_for_reward = ?", visitIDs, false).
			Update("is_redeemed_for_reward", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(visitIDs)) {
			return fmt.Errorf("redeem batch conflict: expected %d rows, updated %d", len(visitIDs), res.RowsAffected)
		}
		return nil
	})
}

// FindAllByBusiness returns every visit for a business, most recent first
func (r *visitRepository) FindAllByBusiness(ctx context.Context, businessID uint) ([]models.Visit, error) {
	var visits []models.Visit
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&visits).Error
	return visits, err
}

// CountVisitsSince counts visits created at or after the given time
func (r *visitRepository) CountVisitsSince(ctx context.Context, businessID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Visit{}).
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Count(&count).Error
	return count, err
}

// CountRedeemed counts redeemed visits for a business
func (r *visitRepository) CountRedeemed(ctx context.Context, businessID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Visit{}).
		Where("business_id = ? AND is_redeemed_for_reward = ?", businessID, true).
		Count(&count).Error
	return count, err
}

// DeleteByBusinessAndPhone hard-deletes every visit stored under any of the
// phone variations. Customer-data erasure is the one path that removes
// visit records.
func (r *visitRepository) DeleteByBusinessAndPhone(ctx context.Context, businessID uint, phoneVariations []string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("business_id = ? AND customer_phone_number IN ?", businessID, phoneVariations).
		Delete(&models.Visit{})
	return res.RowsAffected, res.Error
}
