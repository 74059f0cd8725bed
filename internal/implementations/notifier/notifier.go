package notifier

import (
	"context"
	"fmt"
	"linetask/internal/core/domain/bot"
	e "linetask/internal/core/domain/errors"
	"linetask/internal/core/domain/task"
	"strings"
)

const (
	helpText    = "🤔 メッセージが理解できませんでした\n\n例：「明日までに数学の宿題」"
	failureText = "⚠️ エラーが発生しました\n\nもう一度試してください"

	tomorrowHeader = "⏰ 明日締切の課題があります\n\n"
	todayHeader    = "🚨 本日締切の課題があります！急いで！\n\n"
)

type LineNotifier struct {
	messenger bot.Messenger
}

func New(messenger bot.Messenger) *LineNotifier {
	if messenger == nil {
		panic(e.NewNilArgumentError("messenger"))
	}
	return &LineNotifier{messenger: messenger}
}

func (n *LineNotifier) SendTaskConfirmation(ctx context.Context, replyToken string, parsed task.Parsed) error {
	return n.messenger.Reply(ctx, replyToken, ConfirmationText(parsed))
}

func (n *LineNotifier) SendHelp(ctx context.Context, replyToken string) error {
	return n.messenger.Reply(ctx, replyToken, helpText)
}

func (n *LineNotifier) SendFailure(ctx context.Context, replyToken string) error {
	return n.messenger.Reply(ctx, replyToken, failureText)
}

func (n *LineNotifier) SendTomorrowReminder(ctx context.Context, userID task.UserID, tasks []task.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return n.messenger.Push(ctx, string(userID), TomorrowDigest(tasks))
}

func (n *LineNotifier) SendTodayReminder(ctx context.Context, userID task.UserID, tasks []task.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return n.messenger.Push(ctx, string(userID), TodayDigest(tasks))
}

func ConfirmationText(parsed task.Parsed) string {
	return fmt.Sprintf("📝 登録したよ！\n\nタイトル：%s\n締切：%s", parsed.Title, parsed.Deadline)
}

func TomorrowDigest(tasks []task.Task) string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("• %s (%s)", t.Title, t.Deadline))
	}
	return tomorrowHeader + strings.Join(lines, "\n")
}

func TodayDigest(tasks []task.Task) string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, "• "+t.Title)
	}
	return todayHeader + strings.Join(lines, "\n")
}
