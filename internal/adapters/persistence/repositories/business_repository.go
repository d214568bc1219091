package repositories

import (
	"context"

	"loyallocal/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// businessRepository implements BusinessRepository interface
type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// Create creates a new business
func (r *businessRepository) Create(ctx context.Context, business *models.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}

// GetByID gets a business by ID
func (r *businessRepository) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	var business models.Business
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&business).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// GetByEmail gets a business by email
func (r *businessRepository) GetByEmail(ctx context.Context, email string) (*models.Business, error) {
	var business models.Business
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&business).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// ExistsByEmail checks if email exists
func (r *businessRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Business{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update saves the full business record
func (r *businessRepository) Update(ctx context.Context, business *models.Business) error {
	return r.db.WithContext(ctx).Save(business).Error
}

// UpdateSettings applies a partial settings update
func (r *businessRepository) UpdateSettings(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Business{}).Where("id = ?", id).Updates(updates).Error
}

// ListAll lists every active business
func (r *businessRepository) ListAll(ctx context.Context) ([]*models.Business, error) {
	var businesses []*models.Business
	err := r.db.WithContext(ctx).Find(&businesses).Error
	return businesses, err
}
