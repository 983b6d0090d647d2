package repositories

import (
	"context"
	"time"

	"iledu-loan/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type loanApplicationRepository struct {
	db *gorm.DB
}

// NewLoanApplicationRepository creates a new loan application repository
func NewLoanApplicationRepository(db *gorm.DB) LoanApplicationRepository {
	return &loanApplicationRepository{db: db}
}

// ListByProfileID returns every application of a profile, newest first
func (r *loanApplicationRepository) ListByProfileID(ctx context.Context, profileID string) ([]*models.LoanApplication, error) {
	var apps []*models.LoanApplication
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *loanApplicationRepository) GetByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	var app models.LoanApplication
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns a page of all applications for reviewers
func (r *loanApplicationRepository) List(ctx context.Context, filter ApplicationFilter, offset, limit int) ([]*models.LoanApplication, int64, error) {
	var apps []*models.LoanApplication
	var total int64

	// Count total
	if err := r.db.WithContext(ctx).Model(&models.LoanApplication{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Scopes(filter.scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (f ApplicationFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Query != "" {
		db = db.Where("purpose LIKE ?", "%"+f.Query+"%")
	}
	return db
}

func (r *loanApplicationRepository) CreateWithFamily(ctx context.Context, app *models.LoanApplication, family *models.Family) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertFamily(tx, family); err != nil {
			return err
		}
		return tx.Create(app).Error
	})
}

func (r *loanApplicationRepository) UpdateStatus(ctx context.Context, id, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *loanApplicationRepository) TotalsByStatus(ctx context.Context, since time.Time) ([]StatusTotal, error) {
	var totals []StatusTotal
	q := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount_requested), 0) AS amount")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if err := q.Group("status").Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}
