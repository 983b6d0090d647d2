package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/core/domain"

	"gorm.io/gorm"
)

// ProfileResolver maps an authenticated external identity to its profile.
type ProfileResolver struct {
	profiles repositories.ProfileRepository
	timeout  time.Duration
}

// NewProfileResolver bounds every lookup by timeout; zero means the
// caller's context alone decides.
func NewProfileResolver(profiles repositories.ProfileRepository, timeout time.Duration) *ProfileResolver {
	return &ProfileResolver{profiles: profiles, timeout: timeout}
}

// Resolve returns an authorization error when no profile exists for userID
// and an internal error when the lookup itself fails.
func (r *ProfileResolver) Resolve(ctx context.Context, op, userID string) (*domain.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.AuthorizationError(op, domain.ErrProfileNotFound)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	p, err := r.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.AuthorizationError(op, domain.ErrProfileNotFound)
		}
		return nil, domain.InternalError(op, err)
	}
	return p.ToDomain(), nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
