package task

import (
	"context"
	"time"
)

type TextParser interface {
	Parse(ctx context.Context, message string, now time.Time) (Parsed, error)
}
