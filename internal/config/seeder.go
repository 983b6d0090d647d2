package config

import (
	"context"
	"fmt"

	"iledu-loan/internal/adapters/persistence/models"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/core/domain"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	profiles repositories.ProfileRepository
	seed     SeedConfig
	log      logger.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(profiles repositories.ProfileRepository, seed SeedConfig, log logger.Logger) *Seeder {
	return &Seeder{profiles: profiles, seed: seed, log: log}
}

// Run executes all seeders. Failures are logged and skipped.
func (s *Seeder) Run(ctx context.Context) {
	s.log.Info("running database seeders", nil)

	if err := s.seedReviewer(ctx); err != nil {
		s.log.Warn("reviewer seeder skipped", map[string]interface{}{"error": err.Error()})
	}
}

// seedReviewer creates the first reviewer account for development.
// In production, create reviewers through a secure process.
func (s *Seeder) seedReviewer(ctx context.Context) error {
	if s.seed.ReviewerEmail == "" || s.seed.ReviewerPassword == "" {
		return nil
	}

	count, err := s.profiles.CountByRole(ctx, string(domain.RoleReviewer))
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if !password.ValidatePassword(s.seed.ReviewerPassword) {
		return fmt.Errorf("seed password must be %d-%d characters", password.MinLength, password.MaxLength)
	}
	hashed, err := password.Hash(s.seed.ReviewerPassword)
	if err != nil {
		return err
	}

	reviewer := &models.Profile{
		Email:        s.seed.ReviewerEmail,
		FirstName:    "Reviewer",
		PasswordHash: hashed,
		Role:         string(domain.RoleReviewer),
		IsActive:     true,
	}
	if err := s.profiles.Create(ctx, reviewer); err != nil {
		return err
	}

	s.log.Info("reviewer created", map[string]interface{}{"email": reviewer.Email})
	return nil
}
