package services

import (
	"linetask/internal/app/deps"
	"linetask/internal/core/domain/task"
	"linetask/internal/core/services"
	registertask "linetask/internal/core/services/register_task"
	sendreminders "linetask/internal/core/services/send_reminders"

	"github.com/google/uuid"
)

type Services struct {
	RegisterTask  services.Service[registertask.Input, registertask.Result]
	SendReminders services.Service[sendreminders.Input, sendreminders.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.RegisterTask = registertask.New(
		deps.Logger,
		deps.TaskParser,
		deps.TaskRepository,
		deps.Notifier,
		deps.Metrics,
		func() task.ID { return task.ID(uuid.NewString()) },
		deps.Now,
	)
	s.SendReminders = sendreminders.New(
		deps.Logger,
		deps.TaskRepository,
		deps.Notifier,
		deps.Metrics,
		deps.Now,
		deps.Config.Location,
		deps.Config.ReminderConcurrency,
	)

	return s
}
