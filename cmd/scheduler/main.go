package main

import (
	"context"
	"linetask/internal/app/deps"
	"linetask/internal/app/services"
	"linetask/internal/core/domain/logging"
	sendreminders "linetask/internal/core/services/send_reminders"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
)

// Runs the reminder digests in-process on REMINDER_SCHEDULE, for deployments
// without an external cron calling GET /remind.
func main() {
	deps, shutdownDeps := deps.InitDeps("linetask-scheduler")
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)

	scheduler := cron.New(cron.WithLocation(deps.Config.Location))
	_, err := scheduler.AddFunc(deps.Config.ReminderSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		log.Info(ctx, "Launching reminder digests.")
		result, err := services.SendReminders.Run(ctx, sendreminders.Input{})
		if err != nil {
			log.Error(ctx, "Reminder service returned an error.", logging.Entry("err", err))
			return
		}
		log.Info(
			ctx,
			"Reminder digests done.",
			logging.Entry("tomorrow", result.RemindersSentTomorrow),
			logging.Entry("today", result.RemindersSentToday),
		)
	})
	if err != nil {
		log.Error(context.Background(), "Invalid reminder schedule.", logging.Entry("err", err))
		return
	}

	stopCh, closeCh := createChannel()
	defer closeCh()

	log.Info(
		context.Background(),
		"Starting reminder scheduler.",
		logging.Entry("schedule", deps.Config.ReminderSchedule),
		logging.Entry("timezone", deps.Config.Timezone),
	)
	scheduler.Start()

	<-stopCh
	log.Info(context.Background(), "Stopping reminder scheduler.")
	<-scheduler.Stop().Done()
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}
