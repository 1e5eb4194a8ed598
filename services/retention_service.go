package services

import (
	"context"
	"time"

	"agenda-backend/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RetentionSchedule runs the purge every day at 03:00.
const RetentionSchedule = "0 3 * * *"

// RetentionService deletes bookings older than a configured number of days.
type RetentionService struct {
	ledger *Ledger
	days   int
	cron   *cron.Cron
	now    func() time.Time
}

func NewRetentionService(ledger *Ledger, days int) *RetentionService {
	return &RetentionService{
		ledger: ledger,
		days:   days,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// StartScheduler registers the daily purge. It is a no-op when retention is
// disabled.
func (s *RetentionService) StartScheduler() error {
	if s.days <= 0 {
		utils.GetLogger().Info("booking retention disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(RetentionSchedule, func() {
		if _, err := s.PurgeExpired(context.Background()); err != nil {
			utils.GetLogger().Error("booking purge failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	utils.GetLogger().Info("retention scheduler started",
		zap.String("schedule", RetentionSchedule),
		zap.Int("days", s.days))
	return nil
}

// Stop waits for a running purge to finish.
func (s *RetentionService) Stop() {
	<-s.cron.Stop().Done()
}

// Cutoff is the first date that is kept.
func (s *RetentionService) Cutoff() string {
	return utils.FormatDate(s.now().AddDate(0, 0, -s.days))
}

func (s *RetentionService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.days <= 0 {
		return 0, nil
	}
	cutoff := s.Cutoff()
	n, err := s.ledger.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	utils.GetLogger().Info("expired bookings purged",
		zap.String("before", cutoff),
		zap.Int64("deleted", n))
	return n, nil
}
