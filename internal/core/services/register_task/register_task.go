package registertask

import (
	"context"
	"errors"
	e "linetask/internal/core/domain/errors"
	"linetask/internal/core/domain/logging"
	"linetask/internal/core/domain/metrics"
	"linetask/internal/core/domain/task"
	"linetask/internal/core/services"
	"time"
)

type Input struct {
	UserID     task.UserID
	ReplyToken string
	Text       string
}

type Outcome string

const (
	Registered    Outcome = metrics.OutcomeRegistered
	NotUnderstood Outcome = metrics.OutcomeNotUnderstood
	Failed        Outcome = metrics.OutcomeFailed
)

type Result struct {
	Outcome Outcome
	Task    task.Task
}

type service struct {
	log      logging.Logger
	parser   task.TextParser
	repo     task.Repository
	notifier task.Notifier
	metrics  metrics.Metrics
	newID    func() task.ID
	now      func() time.Time
}

// New creates the service registering a task from a single chat message.
// Store and send failures are reported to the user and logged, they never
// fail the service.
func New(
	log logging.Logger,
	parser task.TextParser,
	repo task.Repository,
	notifier task.Notifier,
	m metrics.Metrics,
	newID func() task.ID,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if parser == nil {
		panic(e.NewNilArgumentError("parser"))
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
	if newID == nil {
		panic(e.NewNilArgumentError("newID"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:      log,
		parser:   parser,
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		newID:    newID,
		now:      now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	now := s.now()

	parsed, err := s.parser.Parse(ctx, input.Text, now)
	if err != nil {
		if !errors.Is(err, task.ErrNoDeadline) {
			logging.Error(ctx, s.log, err, logging.Entry("userID", input.UserID), logging.Entry("text", input.Text))
		}
		s.log.Info(
			ctx,
			"Could not extract a task from the message.",
			logging.Entry("userID", input.UserID),
			logging.Entry("text", input.Text),
		)
		s.reply(ctx, input, "help", func() error { return s.notifier.SendHelp(ctx, input.ReplyToken) })
		return s.finish(Result{Outcome: NotUnderstood}), nil
	}

	created, err := s.repo.Create(ctx, task.CreateInput{
		ID:        s.newID(),
		UserID:    input.UserID,
		Title:     parsed.Title,
		Deadline:  parsed.Deadline,
		CreatedAt: now,
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not save the task.",
			logging.Entry("userID", input.UserID),
			logging.Entry("title", parsed.Title),
			logging.Entry("deadline", parsed.Deadline.String()),
			logging.Entry("err", err),
		)
		s.reply(ctx, input, "failure", func() error { return s.notifier.SendFailure(ctx, input.ReplyToken) })
		return s.finish(Result{Outcome: Failed}), nil
	}

	s.log.Info(
		ctx,
		"Task registered.",
		logging.Entry("taskID", created.ID),
		logging.Entry("userID", created.UserID),
		logging.Entry("deadline", created.Deadline.String()),
	)
	s.reply(ctx, input, "confirmation", func() error {
		return s.notifier.SendTaskConfirmation(ctx, input.ReplyToken, parsed)
	})
	return s.finish(Result{Outcome: Registered, Task: created}), nil
}

// reply sends a reply and only logs a failure, the task is already saved at
// this point and the webhook must still succeed.
func (s *service) reply(ctx context.Context, input Input, kind string, send func() error) {
	if input.ReplyToken == "" {
		s.log.Warning(ctx, "Reply token is missing, skip reply.", logging.Entry("userID", input.UserID))
		return
	}
	if err := send(); err != nil {
		s.metrics.NotificationFailed(kind)
		s.log.Error(
			ctx,
			"Could not send reply message.",
			logging.Entry("kind", kind),
			logging.Entry("userID", input.UserID),
			logging.Entry("err", err),
		)
	}
}

func (s *service) finish(result Result) Result {
	s.metrics.WebhookEventHandled(string(result.Outcome))
	return result
}
