package services

import (
	"context"
	"errors"
	"io"

	"iledu-loan/internal/adapters/persistence/models"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/core/domain"
	"iledu-loan/internal/pkg/export"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/metrics"
	"iledu-loan/internal/pkg/pagination"

	"gorm.io/gorm"
)

// exportBatch is how many rows Export reads per query.
const exportBatch = 500

// ApplicationDetail is an application with everything the applicant sent.
type ApplicationDetail struct {
	Application *models.LoanApplication `json:"application"`
	Family      *models.Family          `json:"family"`
	Documents   []*models.Document      `json:"documents"`
}

// ReviewService backs the reviewer console.
type ReviewService struct {
	apps     repositories.LoanApplicationRepository
	families repositories.FamilyRepository
	docs     repositories.DocumentRepository
	metrics  *metrics.Metrics
	log      logger.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	apps repositories.LoanApplicationRepository,
	families repositories.FamilyRepository,
	docs repositories.DocumentRepository,
	m *metrics.Metrics,
	log logger.Logger,
) *ReviewService {
	return &ReviewService{apps: apps, families: families, docs: docs, metrics: m, log: log}
}

// List returns one page of all applications.
func (s *ReviewService) List(ctx context.Context, filter repositories.ApplicationFilter, p *pagination.Params) ([]*models.LoanApplication, *pagination.Meta, error) {
	apps, total, err := s.apps.List(ctx, filter, p.Offset, p.Limit)
	if err != nil {
		return nil, nil, s.internal("failed to list applications", err)
	}
	return apps, pagination.GetMeta(p, total), nil
}

// Get returns an application with the applicant's family record and
// documents. A profile without a family row yields a nil Family.
func (s *ReviewService) Get(ctx context.Context, id string) (*ApplicationDetail, error) {
	app, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	family, err := s.families.GetByProfileID(ctx, app.ProfileID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.internal("failed to load family", err)
	}

	docs, err := s.docs.ListByProfileID(ctx, app.ProfileID)
	if err != nil {
		return nil, s.internal("failed to load documents", err)
	}

	return &ApplicationDetail{Application: app, Family: family, Documents: docs}, nil
}

// UpdateStatus decides a pending application. Any other transition, or a
// concurrent decision, is a conflict.
func (s *ReviewService) UpdateStatus(ctx context.Context, id, status string) (*models.LoanApplication, error) {
	next := domain.ApplicationStatus(status)
	if !next.Valid() {
		errs := domain.FieldErrors{}.Add("status", "Status must be pending, accepted or rejected")
		return nil, domain.ValidationError(OpReviewApplication, errs)
	}

	app, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	current := domain.ApplicationStatus(app.Status)
	if !current.CanTransitionTo(next) {
		return nil, domain.ConflictError(OpReviewApplication, domain.ErrInvalidStatusTransition)
	}

	ok, err := s.apps.UpdateStatus(ctx, id, app.Status, status)
	if err != nil {
		return nil, s.internal("failed to update status", err)
	}
	if !ok {
		return nil, domain.ConflictError(OpReviewApplication, domain.ErrInvalidStatusTransition)
	}

	app.Status = status
	if s.metrics != nil {
		s.metrics.RecordReview(status)
	}
	s.log.Info("application reviewed", map[string]interface{}{
		"op":             OpReviewApplication,
		"application_id": id,
		"from":           string(current),
		"to":             status,
	})
	return app, nil
}

// Export writes every application matching filter as an xlsx workbook.
func (s *ReviewService) Export(ctx context.Context, filter repositories.ApplicationFilter, w io.Writer) error {
	var rows []export.ApplicationRow
	for offset := 0; ; offset += exportBatch {
		apps, _, err := s.apps.List(ctx, filter, offset, exportBatch)
		if err != nil {
			return s.internal("failed to export applications", err)
		}
		for _, a := range apps {
			rows = append(rows, export.ApplicationRow{
				ID:              a.ID,
				ProfileID:       a.ProfileID,
				Purpose:         a.Purpose,
				AmountRequested: a.AmountRequested,
				Status:          a.Status,
				CreatedAt:       a.CreatedAt,
			})
		}
		if len(apps) < exportBatch {
			break
		}
	}
	return export.WriteApplications(w, rows)
}

func (s *ReviewService) find(ctx context.Context, id string) (*models.LoanApplication, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError(OpReviewApplication, domain.ErrApplicationNotFound)
		}
		return nil, s.internal("failed to load application", err)
	}
	return app, nil
}

func (s *ReviewService) internal(msg string, err error) error {
	s.log.Error(msg, map[string]interface{}{"op": OpReviewApplication, "error": err.Error()})
	return domain.InternalError(OpReviewApplication, err)
}
