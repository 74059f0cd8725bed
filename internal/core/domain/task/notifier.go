package task

import "context"

type Notifier interface {
	SendTaskConfirmation(ctx context.Context, replyToken string, parsed Parsed) error
	SendHelp(ctx context.Context, replyToken string) error
	SendFailure(ctx context.Context, replyToken string) error
	SendTomorrowReminder(ctx context.Context, userID UserID, tasks []Task) error
	SendTodayReminder(ctx context.Context, userID UserID, tasks []Task) error
}
