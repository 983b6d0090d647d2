package repositories

import (
	"context"

	"iledu-loan/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) ListByProfileID(ctx context.Context, profileID string) ([]*models.Document, error) {
	var docs []*models.Document
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteByIDs removes rows written by a submission that was rolled back
func (r *documentRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Document{}).Error
}

// CountByStorageKey counts the rows still pointing at an object. Keys are
// reused when an applicant resubmits a file with the same name.
func (r *documentRepository) CountByStorageKey(ctx context.Context, key string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).Where("storage_key = ?", key).Count(&n).Error
	return n, err
}
