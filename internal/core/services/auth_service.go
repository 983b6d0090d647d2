package services

import (
	"context"
	"errors"
	"strings"

	"iledu-loan/internal/adapters/persistence/models"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/config"
	"iledu-loan/internal/core/domain"
	"iledu-loan/internal/pkg/jwt"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrInactive     = errors.New("profile is inactive")
	ErrWeakPassword = errors.New("password must be between 8 and 72 characters")
)

// AuthService handles authentication business logic
type AuthService struct {
	profileRepo      repositories.ProfileRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
	log              logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	profileRepo repositories.ProfileRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
	log logger.Logger,
) *AuthService {
	return &AuthService{
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
		log:              log,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=191"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Profile      *models.ProfileResponse `json:"profile"`
	AccessToken  string                  `json:"access_token"`
	RefreshToken string                  `json:"refresh_token"`
}

// Register creates an applicant profile and signs it in.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	email := normalizeEmail(input.Email)

	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.profileRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrProfileAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hashedPassword,
		Role:         string(domain.RoleApplicant),
		IsActive:     true,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.log.Info("profile registered", map[string]interface{}{"profile_id": profile.ID})
	return s.signIn(ctx, profile)
}

// Login authenticates a profile by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !profile.IsActive {
		return nil, ErrInactive
	}

	if !password.Verify(input.Password, profile.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.signIn(ctx, profile)
}

// RefreshToken rotates a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	profile, err := s.profileRepo.GetByID(ctx, claims.ProfileID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	if !profile.IsActive {
		return nil, ErrInactive
	}

	// Token rotation
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	return s.signIn(ctx, profile)
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// LogoutAll revokes every refresh token of a profile
func (s *AuthService) LogoutAll(ctx context.Context, profileID string) error {
	return s.refreshTokenRepo.RevokeAllByProfileID(ctx, profileID)
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetProfile returns the signed-in profile
func (s *AuthService) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// signIn issues a token pair and stores the hashed refresh token.
func (s *AuthService) signIn(ctx context.Context, profile *models.Profile) (*AuthResponse, error) {
	tokens, err := s.generateTokens(profile)
	if err != nil {
		return nil, err
	}

	token := &models.RefreshToken{
		ProfileID: profile.ID,
		TokenHash: password.HashToken(tokens.RefreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Profile:      profile.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (s *AuthService) generateTokens(profile *models.Profile) (*domain.TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		profile.UserID,
		profile.ID,
		profile.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		profile.ID,
		uuid.NewString(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
