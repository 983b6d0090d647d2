package services

import (
	"context"
	"time"

	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// DefaultPurgeSchedule runs the token purge daily at 03:00.
const DefaultPurgeSchedule = "0 3 * * *"

// CronService runs periodic maintenance.
type CronService struct {
	cron     *cron.Cron
	tokens   repositories.RefreshTokenRepository
	log      logger.Logger
	schedule string
}

// NewCronService creates a new cron service
func NewCronService(tokens repositories.RefreshTokenRepository, log logger.Logger, schedule string) *CronService {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	return &CronService{
		cron:     cron.New(),
		tokens:   tokens,
		log:      log,
		schedule: schedule,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.PurgeExpiredTokens(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("cron started", map[string]interface{}{"schedule": s.schedule})
	return nil
}

// Stop waits for running jobs to finish.
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron stopped", nil)
}

// PurgeExpiredTokens deletes refresh tokens past their expiry.
func (s *CronService) PurgeExpiredTokens(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	n, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		s.log.Error("token purge failed", map[string]interface{}{"op": OpCronPurgeTokens, "error": err.Error()})
		return
	}
	s.log.Info("expired tokens purged", map[string]interface{}{"op": OpCronPurgeTokens, "deleted": n})
}
