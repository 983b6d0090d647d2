package repositories

import (
	"context"

	"iledu-loan/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// familyUpdateColumns are overwritten when the profile already has a row.
var familyUpdateColumns = []string{
	"father_first_name",
	"father_last_name",
	"father_occupation",
	"father_income",
	"mother_first_name",
	"mother_last_name",
	"mother_occupation",
	"mother_income",
	"guardian_first_name",
	"guardian_last_name",
	"guardian_occupation",
	"updated_at",
}

type familyRepository struct {
	db *gorm.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &familyRepository{db: db}
}

// Upsert creates the profile's family row or overwrites it. Concurrent
// submissions for one profile resolve last writer wins.
func (r *familyRepository) Upsert(ctx context.Context, family *models.Family) error {
	return upsertFamily(r.db.WithContext(ctx), family)
}

func (r *familyRepository) GetByProfileID(ctx context.Context, profileID string) (*models.Family, error) {
	var family models.Family
	if err := r.db.WithContext(ctx).Where("profile_id = ?", profileID).First(&family).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

func upsertFamily(tx *gorm.DB, family *models.Family) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoUpdates: clause.AssignmentColumns(familyUpdateColumns),
	}).Create(family).Error
}
