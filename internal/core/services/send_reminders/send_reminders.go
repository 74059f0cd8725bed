package sendreminders

import (
	"context"
	e "linetask/internal/core/domain/errors"
	"linetask/internal/core/domain/logging"
	"linetask/internal/core/domain/metrics"
	"linetask/internal/core/domain/task"
	"linetask/internal/core/services"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	KindTomorrow = "tomorrow"
	KindToday    = "today"
)

type Input struct{}

// Result counts reminded tasks, not users.
type Result struct {
	RemindersSentTomorrow int
	RemindersSentToday    int
}

func (r Result) Total() int {
	return r.RemindersSentTomorrow + r.RemindersSentToday
}

type sendFunc func(ctx context.Context, userID task.UserID, tasks []task.Task) error

type service struct {
	log         logging.Logger
	repo        task.Repository
	notifier    task.Notifier
	metrics     metrics.Metrics
	now         func() time.Time
	location    *time.Location
	concurrency int
}

func New(
	log logging.Logger,
	repo task.Repository,
	notifier task.Notifier,
	m metrics.Metrics,
	now func() time.Time,
	location *time.Location,
	concurrency int,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if repo == nil {
		panic(e.NewNilArgumentError("repo"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	if m == nil {
		panic(e.NewNilArgumentError("metrics"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if location == nil {
		panic(e.NewNilArgumentError("location"))
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &service{
		log:         log,
		repo:        repo,
		notifier:    notifier,
		metrics:     m,
		now:         now,
		location:    location,
		concurrency: concurrency,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	// Deadlines are calendar dates in the configured zone, whatever the host zone is.
	today := task.DateOf(s.now().In(s.location))

	result.RemindersSentTomorrow = s.remind(ctx, KindTomorrow, today.AddDays(1), s.notifier.SendTomorrowReminder)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	result.RemindersSentToday = s.remind(ctx, KindToday, today, s.notifier.SendTodayReminder)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.log.Info(
		ctx,
		"Reminders processed.",
		logging.Entry("today", today.String()),
		logging.Entry("sentTomorrow", result.RemindersSentTomorrow),
		logging.Entry("sentToday", result.RemindersSentToday),
	)
	return result, nil
}

// remind sends one digest per user and returns the number of reminded tasks.
// A failed query or send reduces the count and never stops other users.
func (s *service) remind(ctx context.Context, kind string, date task.Date, send sendFunc) int {
	groups, err := s.repo.DueOn(ctx, date)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not read tasks due on date.",
			logging.Entry("kind", kind),
			logging.Entry("date", date.String()),
			logging.Entry("err", err),
		)
		return 0
	}
	s.log.Info(
		ctx,
		"Got users with due tasks.",
		logging.Entry("kind", kind),
		logging.Entry("date", date.String()),
		logging.Entry("userCount", len(groups)),
	)

	var sent atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, group := range groups {
		g.Go(func() error {
			if err := send(ctx, group.UserID, group.Tasks); err != nil {
				s.metrics.NotificationFailed(kind)
				s.log.Error(
					ctx,
					"Could not send reminder.",
					logging.Entry("kind", kind),
					logging.Entry("userID", group.UserID),
					logging.Entry("taskCount", len(group.Tasks)),
					logging.Entry("err", err),
				)
				return nil
			}
			sent.Add(int64(len(group.Tasks)))
			s.metrics.RemindersSent(kind, len(group.Tasks))
			s.log.Info(
				ctx,
				"Reminder sent.",
				logging.Entry("kind", kind),
				logging.Entry("userID", group.UserID),
				logging.Entry("taskCount", len(group.Tasks)),
			)
			return nil
		})
	}
	_ = g.Wait()

	return int(sent.Load())
}
