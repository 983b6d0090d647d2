package services

import (
	"context"
	"errors"
	"strings"

	"iledu-loan/internal/adapters/persistence/models"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/core/domain"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/password"

	"gorm.io/gorm"
)

var (
	ErrOldPasswordWrong    = errors.New("old password is incorrect")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
)

// ProfileService handles profile self-service and role management
type ProfileService struct {
	profiles repositories.ProfileRepository
	tokens   repositories.RefreshTokenRepository
	log      logger.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profiles repositories.ProfileRepository,
	tokens repositories.RefreshTokenRepository,
	log logger.Logger,
) *ProfileService {
	return &ProfileService{profiles: profiles, tokens: tokens, log: log}
}

// UpdateProfileInput represents update profile input (for self)
type UpdateProfileInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// UpdateProfile updates the caller's own names
func (s *ProfileService) UpdateProfile(ctx context.Context, profileID string, in UpdateProfileInput) (*models.ProfileResponse, error) {
	profile, err := s.load(ctx, OpUpdateProfile, profileID)
	if err != nil {
		return nil, err
	}

	var fields domain.FieldErrors
	if in.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*in.FirstName)
		if profile.FirstName == "" {
			fields = fields.Add("firstName", "First name is required")
		}
	}
	if in.LastName != nil {
		profile.LastName = strings.TrimSpace(*in.LastName)
		if profile.LastName == "" {
			fields = fields.Add("lastName", "Last name is required")
		}
	}
	if len(fields) > 0 {
		return nil, domain.ValidationError(OpUpdateProfile, fields)
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, domain.PersistenceError(OpUpdateProfile, err)
	}
	return profile.ToResponse(), nil
}

// ChangePassword replaces the password and signs every device out
func (s *ProfileService) ChangePassword(ctx context.Context, profileID string, in ChangePasswordInput) error {
	profile, err := s.load(ctx, OpChangePassword, profileID)
	if err != nil {
		return err
	}

	if !password.Verify(in.OldPassword, profile.PasswordHash) {
		return domain.ValidationError(OpChangePassword,
			domain.FieldErrors{}.Add("old_password", ErrOldPasswordWrong.Error()))
	}
	if !password.ValidatePassword(in.NewPassword) {
		return domain.ValidationError(OpChangePassword,
			domain.FieldErrors{}.Add("new_password", ErrWeakPassword.Error()))
	}

	hashed, err := password.Hash(in.NewPassword)
	if err != nil {
		return domain.InternalError(OpChangePassword, err)
	}
	profile.PasswordHash = hashed
	if err := s.profiles.Update(ctx, profile); err != nil {
		return domain.PersistenceError(OpChangePassword, err)
	}

	if err := s.tokens.RevokeAllByProfileID(ctx, profile.ID); err != nil {
		s.log.Warn("revoking sessions after password change failed", map[string]interface{}{
			"op":         OpChangePassword,
			"profile_id": profile.ID,
			"error":      err.Error(),
		})
	}
	return nil
}

// SetRole changes another profile's role. Admins cannot demote themselves.
func (s *ProfileService) SetRole(ctx context.Context, actorID, profileID, role string) (*models.ProfileResponse, error) {
	r := domain.Role(strings.ToUpper(strings.TrimSpace(role)))
	if !r.Valid() {
		return nil, domain.ValidationError(OpSetRole,
			domain.FieldErrors{}.Add("role", "Role must be APPLICANT, REVIEWER or ADMIN"))
	}
	if actorID == profileID {
		return nil, domain.ConflictError(OpSetRole, ErrCannotChangeOwnRole)
	}

	profile, err := s.load(ctx, OpSetRole, profileID)
	if err != nil {
		return nil, err
	}

	profile.Role = string(r)
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, domain.PersistenceError(OpSetRole, err)
	}

	s.log.Info("profile role changed", map[string]interface{}{
		"op":         OpSetRole,
		"actor_id":   actorID,
		"profile_id": profile.ID,
		"role":       profile.Role,
	})
	return profile.ToResponse(), nil
}

func (s *ProfileService) load(ctx context.Context, op, profileID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError(op, domain.ErrProfileNotFound)
		}
		return nil, domain.InternalError(op, err)
	}
	return profile, nil
}
