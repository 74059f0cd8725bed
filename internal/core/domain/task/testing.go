package task

import (
	"context"
	"sync"
	"time"
)

type FakeRepository struct {
	CreateError error
	DueOnErrors map[Date]error
	Tasks       []Task
	CreatedWith []CreateInput
	DueOnWith   []Date
	lock        sync.Mutex
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{DueOnErrors: make(map[Date]error)}
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (t Task, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.CreatedWith = append(r.CreatedWith, input)
	if r.CreateError != nil {
		return t, r.CreateError
	}
	if err := input.Validate(); err != nil {
		return t, err
	}
	t = Task{
		ID:        input.ID,
		UserID:    input.UserID,
		Title:     input.Title,
		Deadline:  input.Deadline,
		CreatedAt: input.CreatedAt,
	}
	r.Tasks = append(r.Tasks, t)
	return t, nil
}

func (r *FakeRepository) DueOn(ctx context.Context, date Date) ([]UserTasks, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.DueOnWith = append(r.DueOnWith, date)
	if err := r.DueOnErrors[date]; err != nil {
		return nil, err
	}
	due := make([]Task, 0)
	for _, t := range r.Tasks {
		if t.Deadline == date && !t.Done {
			due = append(due, t)
		}
	}
	return GroupByUser(due), nil
}

type ParserCall struct {
	Message string
	Now     time.Time
}

type FakeParser struct {
	Parsed     Parsed
	Error      error
	CalledWith []ParserCall
	lock       sync.Mutex
}

func NewFakeParser() *FakeParser {
	return &FakeParser{}
}

func (p *FakeParser) Parse(ctx context.Context, message string, now time.Time) (Parsed, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.CalledWith = append(p.CalledWith, ParserCall{Message: message, Now: now})
	if p.Error != nil {
		return Parsed{}, p.Error
	}
	return p.Parsed, nil
}

const (
	NotificationConfirmation = "confirmation"
	NotificationHelp         = "help"
	NotificationFailure      = "failure"
	NotificationTomorrow     = "tomorrow"
	NotificationToday        = "today"
)

type Notification struct {
	Kind       string
	ReplyToken string
	UserID     UserID
	Parsed     Parsed
	Tasks      []Task
}

type FakeNotifier struct {
	Sent        []Notification
	ReplyError  error
	FailedUsers map[UserID]error
	lock        sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{FailedUsers: make(map[UserID]error)}
}

func (n *FakeNotifier) SendTaskConfirmation(ctx context.Context, replyToken string, parsed Parsed) error {
	return n.reply(Notification{Kind: NotificationConfirmation, ReplyToken: replyToken, Parsed: parsed})
}

func (n *FakeNotifier) SendHelp(ctx context.Context, replyToken string) error {
	return n.reply(Notification{Kind: NotificationHelp, ReplyToken: replyToken})
}

func (n *FakeNotifier) SendFailure(ctx context.Context, replyToken string) error {
	return n.reply(Notification{Kind: NotificationFailure, ReplyToken: replyToken})
}

func (n *FakeNotifier) SendTomorrowReminder(ctx context.Context, userID UserID, tasks []Task) error {
	return n.push(Notification{Kind: NotificationTomorrow, UserID: userID, Tasks: tasks})
}

func (n *FakeNotifier) SendTodayReminder(ctx context.Context, userID UserID, tasks []Task) error {
	return n.push(Notification{Kind: NotificationToday, UserID: userID, Tasks: tasks})
}

// SentOfKind returns a snapshot of the notifications of the given kind.
func (n *FakeNotifier) SentOfKind(kind string) []Notification {
	n.lock.Lock()
	defer n.lock.Unlock()
	sent := make([]Notification, 0)
	for _, s := range n.Sent {
		if s.Kind == kind {
			sent = append(sent, s)
		}
	}
	return sent
}

func (n *FakeNotifier) reply(notification Notification) error {
	n.lock.Lock()
	defer n.lock.Unlock()
	if n.ReplyError != nil {
		return n.ReplyError
	}
	n.Sent = append(n.Sent, notification)
	return nil
}

func (n *FakeNotifier) push(notification Notification) error {
	n.lock.Lock()
	defer n.lock.Unlock()
	if err := n.FailedUsers[notification.UserID]; err != nil {
		return err
	}
	n.Sent = append(n.Sent, notification)
	return nil
}
