package services

import (
	"context"
	"time"

	"iledu-loan/internal/adapters/persistence/models"
	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/core/domain"
	"iledu-loan/internal/pkg/logger"

	"github.com/dustin/go-humanize"
)

const recentApplications = 10

// DashboardService aggregates the intake queue for reviewers.
type DashboardService struct {
	apps repositories.LoanApplicationRepository
	log  logger.Logger
	now  func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(apps repositories.LoanApplicationRepository, log logger.Logger) *DashboardService {
	return &DashboardService{apps: apps, log: log, now: time.Now}
}

// StatusCount is one status bucket of the summary.
type StatusCount struct {
	Count         int64  `json:"count"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amountDisplay"`
}

// DashboardSummary is the reviewer landing view.
type DashboardSummary struct {
	TotalApplications int64                  `json:"totalApplications"`
	TotalAmount       int64                  `json:"totalAmount"`
	ByStatus          map[string]StatusCount `json:"byStatus"`

	ApplicationsThisMonth int64 `json:"applicationsThisMonth"`
	AmountThisMonth       int64 `json:"amountThisMonth"`

	RecentApplications []*models.LoanApplication `json:"recentApplications"`
}

// Summary counts applications per status overall and for the current month.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	all, err := s.apps.TotalsByStatus(ctx, time.Time{})
	if err != nil {
		return nil, s.internal("status totals", err)
	}

	now := s.now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	month, err := s.apps.TotalsByStatus(ctx, startOfMonth)
	if err != nil {
		return nil, s.internal("monthly totals", err)
	}

	recent, _, err := s.apps.List(ctx, repositories.ApplicationFilter{}, 0, recentApplications)
	if err != nil {
		return nil, s.internal("recent applications", err)
	}

	summary := &DashboardSummary{
		ByStatus:           make(map[string]StatusCount, 3),
		RecentApplications: recent,
	}
	for _, st := range []domain.ApplicationStatus{domain.StatusPending, domain.StatusAccepted, domain.StatusRejected} {
		summary.ByStatus[string(st)] = StatusCount{AmountDisplay: "0"}
	}
	for _, t := range all {
		summary.TotalApplications += t.Count
		summary.TotalAmount += t.Amount
		summary.ByStatus[t.Status] = StatusCount{
			Count:         t.Count,
			Amount:        t.Amount,
			AmountDisplay: humanize.Comma(t.Amount),
		}
	}
	for _, t := range month {
		summary.ApplicationsThisMonth += t.Count
		summary.AmountThisMonth += t.Amount
	}

	return summary, nil
}

func (s *DashboardService) internal(msg string, err error) error {
	s.log.Error("dashboard query failed", map[string]interface{}{
		"op":    OpDashboard,
		"query": msg,
		"error": err.Error(),
	})
	return domain.InternalError(OpDashboard, err)
}
