package repositories

import (
	"context"
	"time"

	"loyallocal/internal/adapters/persistence/models"
)

// BusinessRepository defines business repository interface
type BusinessRepository interface {
	Create(ctx context.Context, business *models.Business) error
	GetByID(ctx context.Context, id uint) (*models.Business, error)
	GetByEmail(ctx context.Context, email string) (*models.Business, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, business *models.Business) error
	UpdateSettings(ctx context.Context, id uint, updates map[string]interface{}) error
	ListAll(ctx context.Context) ([]*models.Business, error)
}

// VisitRepository defines visit repository interface. This is the record
// store behind both the dashboard and the portal: visits are looked up by
// probing phone variations in order, first non-empty result wins.
type VisitRepository interface {
	Create(ctx context.Context, visit *models.Visit) error
	FindByBusinessAndPhone(ctx context.Context, businessID uint, phone string) ([]models.Visit, error)
	FindByBusinessAndVariations(ctx context.Context, businessID uint, variations []string) ([]models.Visit, string, error)
	FindByVariations(ctx context.Context, variations []string) ([]models.Visit, string, error)
	FindUnredeemedOldest(ctx context.Context, businessID uint, phone string, limit int) ([]models.Visit, error)
	RedeemVisits(ctx context.Context, visitIDs []uint) error
	FindAllByBusiness(ctx context.Context, businessID uint) ([]models.Visit, error)
	CountVisitsSince(ctx context.Context, businessID uint, since time.Time) (int64, error)
	CountRedeemed(ctx context.Context, businessID uint) (int64, error)
	DeleteByBusinessAndPhone(ctx context.Context, businessID uint, phoneVariations []string) (int64, error)
}

// CustomerProfileRepository defines customer profile repository interface
type CustomerProfileRepository interface {
	GetByBusinessAndPhone(ctx context.Context, businessID uint, phone string) (*models.CustomerProfile, error)
	Upsert(ctx context.Context, profile *models.CustomerProfile) error
	ListByBusiness(ctx context.Context, businessID uint) ([]models.CustomerProfile, error)
	DeleteByBusinessAndPhone(ctx context.Context, businessID uint, phoneVariations []string) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByBusinessID(ctx context.Context, businessID uint) error
	DeleteExpired(ctx context.Context) error
}
