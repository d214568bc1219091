package models

import (
	"time"

	"gorm.io/gorm"

	"loyallocal/internal/core/domain"
)

// ============================================================
// Auth & Business Tables
// ============================================================

// Business represents businesses table
type Business struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Type     string `gorm:"size:50" json:"type"`
	Address  string `gorm:"size:255" json:"address"`
	Email    string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`

	LoyaltyVisitsRequired    int    `gorm:"default:5" json:"loyalty_visits_required"`
	LoyaltyRewardDescription string `gorm:"size:255;default:'50% off next service'" json:"loyalty_reward_description"`
	SMSNotificationsEnabled  bool   `gorm:"default:true" json:"sms_notifications_enabled"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}

// LoyaltyConfig extracts the reward programme configuration, substituting
// the documented defaults for unusable values. The second return value is
// false when a substitution happened.
func (b *Business) LoyaltyConfig() (domain.LoyaltyConfig, bool) {
	cfg := domain.LoyaltyConfig{
		VisitsRequired:    b.LoyaltyVisitsRequired,
		RewardDescription: b.LoyaltyRewardDescription,
		SMSNotifications:  b.SMSNotificationsEnabled,
	}

	complete := true
	if cfg.VisitsRequired < 1 {
		cfg.VisitsRequired = domain.DefaultVisitsRequired
		complete = false
	}
	if cfg.RewardDescription == "" {
		cfg.RewardDescription = domain.DefaultRewardDescription
		complete = false
	}
	return cfg, complete
}

// BusinessResponse DTO
type BusinessResponse struct {
	ID                       uint      `json:"id"`
	Name                     string    `json:"name"`
	Type                     string    `json:"type"`
	Address                  string    `json:"address"`
	Email                    string    `json:"email"`
	LoyaltyVisitsRequired    int       `json:"loyalty_visits_required"`
	LoyaltyRewardDescription string    `json:"loyalty_reward_description"`
	SMSNotificationsEnabled  bool      `json:"sms_notifications_enabled"`
	CreatedAt                time.Time `json:"created_at"`
}

func (b *Business) ToResponse() *BusinessResponse {
	return &BusinessResponse{
		ID:                       b.ID,
		Name:                     b.Name,
		Type:                     b.Type,
		Address:                  b.Address,
		Email:                    b.Email,
		LoyaltyVisitsRequired:    b.LoyaltyVisitsRequired,
		LoyaltyRewardDescription: b.LoyaltyRewardDescription,
		SMSNotificationsEnabled:  b.SMSNotificationsEnabled,
		CreatedAt:                b.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BusinessID uint       `gorm:"index;not null" json:"business_id"`
	TokenHash  string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt  *time.Time `gorm:"index" json:"revoked_at"`
	Business   Business   `gorm:"foreignKey:BusinessID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Loyalty Tables
// ============================================================

// Visit represents visits table. A row is one customer visit to one
// business; immutable once written except for the redeemed flag, which
// flips false→true exactly once when consumed by a redemption.
type Visit struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	BusinessID          uint      `gorm:"not null;index:idx_visits_business_phone" json:"business_id"`
	CustomerPhoneNumber string    `gorm:"size:20;not null;index:idx_visits_business_phone" json:"customer_phone_number"`
	CustomerName        string    `gorm:"size:100" json:"customer_name"`
	IsRedeemedForReward bool      `gorm:"default:false;index" json:"is_redeemed_for_reward"`
	CreatedAt           time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
}

func (Visit) TableName() string {
	return "visits"
}

// CustomerProfile represents customer_profiles table. Optional per
// (business, phone) detail merged into the customer list; visits remain
// the source of truth for counts.
type CustomerProfile struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	BusinessID  uint       `gorm:"not null;uniqueIndex:idx_profiles_business_phone" json:"business_id"`
	PhoneNumber string     `gorm:"size:20;not null;uniqueIndex:idx_profiles_business_phone" json:"phone_number"`
	FirstName   string     `gorm:"size:50" json:"first_name"`
	LastName    string     `gorm:"size:50" json:"last_name"`
	Notes       string     `gorm:"type:text" json:"notes"`
	Birthday    *time.Time `gorm:"type:date" json:"birthday"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CustomerProfile) TableName() string {
	return "customer_profiles"
}

// FullName joins first and last name, trimming when either is empty.
func (p *CustomerProfile) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Business{},
		&RefreshToken{},
		&Visit{},
		&CustomerProfile{},
	)
}
