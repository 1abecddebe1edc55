package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"rental-backend/internal/config"
	"rental-backend/internal/jobs"
	"rental-backend/internal/logger"
	"rental-backend/internal/timeutil"
)

// SweepSpec drops idle rate limiter entries
const SweepSpec = "0 */15 * * * *"

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
	log  zerolog.Logger
}

// NewScheduler registers the jobs in the business time zone. A bad cron
// spec is returned as an error.
func NewScheduler(cfg *config.Config, jobRunner *jobs.JobRunner) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(timeutil.Location),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
		log:  logger.Component("scheduler"),
	}

	if err := s.registerJobs(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs(cfg *config.Config) error {
	if spec := cfg.Scheduler.ReminderCron; spec != "" {
		if _, err := s.cron.AddFunc(spec, s.jobs.SendDueReminders); err != nil {
			return err
		}
	}
	if _, err := s.cron.AddFunc(SweepSpec, s.jobs.SweepIdle); err != nil {
		return err
	}

	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("cron jobs registered")
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("cron scheduler started")
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("cron scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
