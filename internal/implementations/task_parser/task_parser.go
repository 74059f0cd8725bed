package taskparser

import (
	"context"
	"fmt"
	e "linetask/internal/core/domain/errors"
	"linetask/internal/core/domain/logging"
	"linetask/internal/core/domain/task"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"golang.org/x/text/width"
)

type Parser struct {
	log      logging.Logger
	location *time.Location
	engine   *when.Parser
}

// New creates a parser resolving relative dates in location.
func New(log logging.Logger, location *time.Location) *Parser {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if location == nil {
		panic(e.NewNilArgumentError("location"))
	}
	engine := when.New(&rules.Options{
		Distance:     5,
		MatchByOrder: true,
	})
	engine.Add(whenRules()...)
	return &Parser{log: log, location: location, engine: engine}
}

// Parse extracts a deadline and a title from message. The result depends only
// on message and now.
func (p *Parser) Parse(ctx context.Context, message string, now time.Time) (task.Parsed, error) {
	text := normalize(message)
	if text == "" {
		return task.Parsed{}, task.ErrNoDeadline
	}

	ref := now.In(p.location)
	result, err := p.engine.Parse(text, ref)
	if err != nil {
		p.log.Warning(
			ctx,
			"Date engine could not parse the message.",
			logging.Entry("text", text),
			logging.Entry("err", err),
		)
		return task.Parsed{}, fmt.Errorf("%w: %v", task.ErrNoDeadline, err)
	}
	if result == nil {
		return task.Parsed{}, task.ErrNoDeadline
	}

	deadline := task.DateOf(result.Time.In(p.location))
	start, end := expandSpan(text, result.Index, result.Index+len(result.Text))
	title := extractTitle(text, start, end)

	p.log.Debug(
		ctx,
		"Message parsed.",
		logging.Entry("text", text),
		logging.Entry("matched", text[start:end]),
		logging.Entry("title", title),
		logging.Entry("deadline", deadline.String()),
	)
	return task.Parsed{Title: title, Deadline: deadline}, nil
}

// normalize folds full-width digits, letters and spaces to their narrow forms.
func normalize(message string) string {
	return strings.TrimSpace(width.Fold.String(message))
}
