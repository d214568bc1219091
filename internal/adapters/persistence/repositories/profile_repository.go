package repositories

import (
	"context"

	"loyallocal/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// customerProfileRepository implements CustomerProfileRepository interface
type customerProfileRepository struct {
	db *gorm.DB
}

// NewCustomerProfileRepository creates a new customer profile repository
func NewCustomerProfileRepository(db *gorm.DB) CustomerProfileRepository {
	return &customerProfileRepository{db: db}
}

// GetByBusinessAndPhone gets a profile by business and normalized phone
func (r *customerProfileRepository) GetByBusinessAndPhone(ctx context.Context, businessID uint, phone string) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND phone_number = ?", businessID, phone).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert inserts or updates the profile keyed by (business, phone)
func (r *customerProfileRepository) Upsert(ctx context.Context, profile *models.CustomerProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}, {Name: "phone_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "notes", "birthday", "updated_at"}),
	}).Create(profile).Error
}

// ListByBusiness lists all profiles for a business
func (r *customerProfileRepository) ListByBusiness(ctx context.Context, businessID uint) ([]models.CustomerProfile, error) {
	var profiles []models.CustomerProfile
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Find(&profiles).Error
	return profiles, err
}

// DeleteByBusinessAndPhone hard-deletes profiles matching any of the phone variations
func (r *customerProfileRepository) DeleteByBusinessAndPhone(ctx context.Context, businessID uint, variations []string) (int64, error) {
	if len(variations) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Unscoped().
		Where("business_id = ? AND phone_number IN ?", businessID, variations).
		Delete(&models.CustomerProfile{})
	return res.RowsAffected, res.Error
}
