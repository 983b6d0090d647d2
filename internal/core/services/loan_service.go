package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/core/domain"
	"iledu-loan/internal/core/workflow"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/metrics"
	"iledu-loan/internal/pkg/pagination"

	"github.com/dustin/go-humanize"
)

// ListQuery narrows and orders the caller's own applications.
type ListQuery struct {
	Status string
	Query  string
	Sort   string
	Order  string
	// Page is nil when the caller did not ask for paging.
	Page *pagination.Params
}

// ApplicationView is an application annotated for display.
type ApplicationView struct {
	ID              string               `json:"id"`
	ProfileID       string               `json:"profileId"`
	AmountRequested int64                `json:"amountRequested"`
	Purpose         string               `json:"purpose"`
	Status          string               `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
	DisplayStatus   domain.DisplayStatus `json:"displayStatus"`
	AppliedAgo      string               `json:"appliedAgo"`
}

// LoanService answers eligibility and listing questions for applicants.
type LoanService struct {
	resolver  *ProfileResolver
	apps      repositories.LoanApplicationRepository
	validator *workflow.Validator
	metrics   *metrics.Metrics
	log       logger.Logger
	timeout   time.Duration
	now       func() time.Time
}

// NewLoanService creates a new loan service
func NewLoanService(
	resolver *ProfileResolver,
	apps repositories.LoanApplicationRepository,
	validator *workflow.Validator,
	m *metrics.Metrics,
	log logger.Logger,
	timeout time.Duration,
) *LoanService {
	return &LoanService{
		resolver:  resolver,
		apps:      apps,
		validator: validator,
		metrics:   m,
		log:       log,
		timeout:   timeout,
		now:       time.Now,
	}
}

// CanApply reports whether the caller may start a new application.
func (s *LoanService) CanApply(ctx context.Context, userID string) (bool, error) {
	profile, err := s.resolver.Resolve(ctx, OpGetCanApply, userID)
	if err != nil {
		return false, err
	}

	apps, err := s.ownApplications(ctx, OpGetCanApply, profile.ID)
	if err != nil {
		return false, err
	}

	ok := domain.CanApply(apps)
	if s.metrics != nil {
		s.metrics.RecordEligibility(ok)
	}
	return ok, nil
}

// ListApplications returns the caller's applications with their display
// status. Meta is only set when q.Page is.
func (s *LoanService) ListApplications(ctx context.Context, userID string, q ListQuery) ([]ApplicationView, *pagination.Meta, error) {
	profile, err := s.resolver.Resolve(ctx, OpGetApplications, userID)
	if err != nil {
		return nil, nil, err
	}

	apps, err := s.ownApplications(ctx, OpGetApplications, profile.ID)
	if err != nil {
		return nil, nil, err
	}

	apps = filterApplications(apps, q.Status, q.Query)
	sortApplications(apps, q.Sort, q.Order)

	var meta *pagination.Meta
	if q.Page != nil {
		meta = pagination.GetMeta(q.Page, int64(len(apps)))
		start, end := q.Page.Window(len(apps))
		apps = apps[start:end]
	}

	now := s.now()
	views := make([]ApplicationView, 0, len(apps))
	for _, a := range apps {
		views = append(views, ApplicationView{
			ID:              a.ID,
			ProfileID:       a.ProfileID,
			AmountRequested: a.AmountRequested,
			Purpose:         a.Purpose,
			Status:          string(a.Status),
			CreatedAt:       a.CreatedAt,
			UpdatedAt:       a.UpdatedAt,
			DisplayStatus:   domain.DisplayStatusOf(a.Status),
			AppliedAgo:      humanize.RelTime(a.CreatedAt, now, "ago", "from now"),
		})
	}
	return views, meta, nil
}

// ValidateStage runs one transition of the stage controller.
func (s *LoanService) ValidateStage(req StageRequest) StageResult {
	flow := workflow.Flow{Stage: req.Stage, Draft: req.Draft}
	if !req.Stage.Valid() {
		return StageResult{Stage: req.Stage, Draft: req.Draft, Errors: map[string]string{"stage": "Unknown stage"}}
	}

	action, err := workflow.ParseAction(req.Action)
	if err != nil {
		return StageResult{Stage: req.Stage, Draft: req.Draft, Errors: map[string]string{"action": "Action must be next, back or submit"}}
	}

	next, errs := flow.Apply(action, s.validator)
	return StageResult{Stage: next.Stage, Draft: next.Draft, Errors: errs.Map()}
}

func (s *LoanService) ownApplications(ctx context.Context, op, profileID string) ([]domain.LoanApplication, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.apps.ListByProfileID(ctx, profileID)
	if err != nil {
		s.log.Error("failed to load applications", map[string]interface{}{
			"op":         op,
			"profile_id": profileID,
			"error":      err.Error(),
		})
		return nil, domain.InternalError(op, err)
	}

	apps := make([]domain.LoanApplication, 0, len(rows))
	for _, r := range rows {
		apps = append(apps, r.ToDomain())
	}
	return apps, nil
}

func filterApplications(apps []domain.LoanApplication, status, query string) []domain.LoanApplication {
	status = strings.ToLower(strings.TrimSpace(status))
	query = strings.ToLower(strings.TrimSpace(query))
	if status == "" && query == "" {
		return apps
	}

	out := apps[:0:0]
	for _, a := range apps {
		if status != "" && string(a.Status) != status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(a.Purpose), query) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// sortApplications orders by createdAt descending unless told otherwise.
// Ties keep the repository order.
func sortApplications(apps []domain.LoanApplication, field, order string) {
	desc := !strings.EqualFold(order, "asc")
	if field == "" {
		field = "createdAt"
	}

	var less func(a, b domain.LoanApplication) bool
	switch field {
	case "amountRequested":
		less = func(a, b domain.LoanApplication) bool { return a.AmountRequested < b.AmountRequested }
	case "status":
		less = func(a, b domain.LoanApplication) bool { return a.Status < b.Status }
	default:
		less = func(a, b domain.LoanApplication) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}

	sort.SliceStable(apps, func(i, j int) bool {
		if desc {
			return less(apps[j], apps[i])
		}
		return less(apps[i], apps[j])
	})
}
