package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"rental-backend/internal/duedate"
	"rental-backend/internal/logger"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

// RentalSource lists rentals by end date window
type RentalSource interface {
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]*models.Rental, error)
}

// Reminder sends a due date reminder to a rental's client
type Reminder interface {
	SendReminder(ctx context.Context, r *models.Rental, status duedate.Status) error
}

// Sweeper drops idle state, e.g. the rate limiter's visitor table
type Sweeper interface {
	Cleanup()
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	Rentals  RentalSource
	Reminder Reminder // nil disables reminders
	Sweeper  Sweeper  // optional
	Now      func() time.Time
	Timeout  time.Duration

	log zerolog.Logger
}

func NewJobRunner(rentals RentalSource, reminder Reminder, sweeper Sweeper) *JobRunner {
	return &JobRunner{
		Rentals:  rentals,
		Reminder: reminder,
		Sweeper:  sweeper,
		Now:      timeutil.Now,
		Timeout:  5 * time.Minute,
		log:      logger.Component("jobs"),
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			jr.log.Error().Str("job", jobName).Interface("panic", r).Msg("job panicked")
		}
	}()

	start := time.Now()
	jr.log.Debug().Str("job", jobName).Msg("starting job")
	jobFunc()
	jr.log.Info().Str("job", jobName).Dur("duration", time.Since(start)).Msg("job completed")
}

// SweepIdle runs the configured sweeper
func (jr *JobRunner) SweepIdle() {
	if jr.Sweeper == nil {
		return
	}
	jr.runWithRecovery("SweepIdle", jr.Sweeper.Cleanup)
}
