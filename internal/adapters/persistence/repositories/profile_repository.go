package repositories

import (
	"context"

	"iledu-loan/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByUserID looks a profile up by its external identity
func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *profileRepository) first(ctx context.Context, query string, arg interface{}) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where(query, arg).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *profileRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
