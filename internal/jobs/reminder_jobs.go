package jobs

import (
	"context"
	"time"

	"rental-backend/internal/duedate"
	"rental-backend/internal/metrics"
)

// SendDueReminders emails clients whose rentals end today or tomorrow.
// Rentals without a client email are skipped.
func (jr *JobRunner) SendDueReminders() {
	jr.runWithRecovery("SendDueReminders", func() {
		sent, failed := jr.sendDueReminders()
		jr.log.Info().Int("sent", sent).Int("failed", failed).Msg("due date reminders")
	})
}

func (jr *JobRunner) sendDueReminders() (sent, failed int) {
	if jr.Reminder == nil {
		return 0, 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), jr.Timeout)
	defer cancel()

	now := jr.Now()
	w := duedate.WindowsAt(now)
	windows := []struct {
		from, to time.Time
	}{
		{w.Today, w.Tomorrow},
		{w.Tomorrow, w.DayAfter},
	}

	for _, win := range windows {
		rentals, err := jr.Rentals.ListEndingBetween(ctx, win.from, win.to)
		if err != nil {
			jr.log.Error().Err(err).Msg("list rentals for reminders")
			failed++
			continue
		}
		for _, r := range rentals {
			if r.ClientEmail == "" {
				continue
			}
			r.Annotate(w, now)
			if err := jr.Reminder.SendReminder(ctx, r, r.Status); err != nil {
				metrics.SideEffectFailures.WithLabelValues("reminder").Inc()
				jr.log.Warn().Err(err).Int("rental_id", r.ID).Msg("reminder failed")
				failed++
				continue
			}
			metrics.RemindersSent.Inc()
			sent++
		}
	}
	return sent, failed
}
