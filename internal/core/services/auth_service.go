package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/adapters/persistence/repositories"
	"loyallocal/internal/config"
	"loyallocal/internal/pkg/jwt"
	"loyallocal/internal/pkg/password"
	"loyallocal/internal/pkg/phone"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrBusinessNotFound    = errors.New("business not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailAlreadyUsed    = errors.New("email already registered")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrWeakPassword        = errors.New("password must be at least 8 characters")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrBusinessDeactivated = errors.New("business account is deactivated")
)

// AuthService handles business authentication logic
type AuthService struct {
	businessRepo     repositories.BusinessRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	businessRepo repositories.BusinessRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		businessRepo:     businessRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	BusinessName string `json:"business_name" validate:"required,min=2,max=100"`
	BusinessType string `json:"business_type" validate:"required"`
	Address      string `json:"address"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Business     *models.BusinessResponse `json:"business"`
	AccessToken  string                   `json:"access_token"`
	RefreshToken string                   `json:"refresh_token"`
}

// Register registers a new business
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// 1. Validate email format
	if !phone.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	// 2. Validate password strength
	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	// 3. Check if email already registered
	exists, err := s.businessRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyUsed
	}

	// 4. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 5. Create business
	business := &models.Business{
		Name:     strings.TrimSpace(input.BusinessName),
		Type:     input.BusinessType,
		Address:  strings.TrimSpace(input.Address),
		Email:    email,
		Password: hashedPassword,
		IsActive: true,
	}

	if err := s.businessRepo.Create(ctx, business); err != nil {
		return nil, err
	}

	// 6. Generate tokens
	tokens, err := s.generateTokens(business)
	if err != nil {
		return nil, err
	}

	// 7. Store refresh token
	if err := s.storeRefreshToken(ctx, business.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Business registered: %s (%s)", business.Name, business.Email)

	return &AuthResponse{
		Business:     business.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates a business
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// 1. Find business by email
	business, err := s.businessRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if account is active
	if !business.IsActive {
		return nil, ErrBusinessDeactivated
	}

	// 3. Verify password
	if !password.Verify(input.Password, business.Password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Generate tokens
	tokens, err := s.generateTokens(business)
	if err != nil {
		return nil, err
	}

	// 5. Store refresh token
	if err := s.storeRefreshToken(ctx, business.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Business logged in: %s", business.Email)

	return &AuthResponse{
		Business:     business.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken refreshes the access token using refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	// 2. Hash the token to find in DB
	tokenHash := password.HashToken(refreshToken)

	// 3. Find token in DB
	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// 4. Check if token is revoked
	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}

	// 5. Check if token is expired
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	// 6. Get business
	business, err := s.businessRepo.GetByID(ctx, claims.BusinessID)
	if err != nil {
		return nil, ErrBusinessNotFound
	}

	// 7. Check if account is active
	if !business.IsActive {
		return nil, ErrBusinessDeactivated
	}

	// 8. Revoke old refresh token (Token Rotation)
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	// 9. Generate new tokens
	tokens, err := s.generateTokens(business)
	if err != nil {
		return nil, err
	}

	// 10. Store new refresh token
	if err := s.storeRefreshToken(ctx, business.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for business: %s", business.Email)

	return &AuthResponse{
		Business:     business.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)

	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return err
	}

	log.Printf("✅ Business logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a business
func (s *AuthService) LogoutAll(ctx context.Context, businessID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByBusinessID(ctx, businessID); err != nil {
		return err
	}

	log.Printf("✅ All sessions revoked for business ID: %d", businessID)
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetBusinessByID gets a business by ID
func (s *AuthService) GetBusinessByID(ctx context.Context, businessID uint) (*models.Business, error) {
	return s.businessRepo.GetByID(ctx, businessID)
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(business *models.Business) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		business.ID,
		business.Email,
		business.Name,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	// Generate unique token ID
	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		business.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, businessID uint, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	expiresAt := jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays)

	token := &models.RefreshToken{
		BusinessID: businessID,
		TokenHash:  tokenHash,
		ExpiresAt:  expiresAt,
	}

	return s.refreshTokenRepo.Create(ctx, token)
}
