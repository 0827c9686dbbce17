package worker

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/centavo-app/centavo-backend/internal/service"
)

// BillScheduler runs the bill auto-generation pass on a cron schedule, so
// cards with auto-generation enabled get their cycle's bill without a user
// touching the app.
type BillScheduler struct {
	billService *service.BillService
	logger      zerolog.Logger
	schedule    string
	cron        *cron.Cron
	mu          sync.Mutex
	running     bool
}

// NewBillScheduler creates a new BillScheduler. The schedule uses standard
// five-field cron syntax; an empty string falls back to daily at 06:00.
func NewBillScheduler(billService *service.BillService, logger zerolog.Logger, schedule string) *BillScheduler {
	if schedule == "" {
		schedule = "0 6 * * *"
	}
	return &BillScheduler{
		billService: billService,
		logger:      logger.With().Str("component", "bill_scheduler").Logger(),
		schedule:    schedule,
	}
}

// Start registers the cron job and begins scheduling. It also runs one pass
// immediately so a long-stopped instance catches up on startup.
func (s *BillScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.schedule).
		Msg("Starting bill scheduler")

	go s.runOnce()
	return nil
}

// Stop halts scheduling and waits for a running pass to finish
func (s *BillScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info().Msg("Bill scheduler stopped")
}

func (s *BillScheduler) runOnce() {
	generated, err := s.billService.AutoGenerateBillsIfNeeded(time.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("Bill auto-generation failed")
		return
	}
	if generated > 0 {
		s.logger.Info().Int("generated", generated).Msg("Bills auto-generated")
	}
}
