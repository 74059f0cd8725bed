package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateInput struct {
	ID        ID
	UserID    UserID
	Title     string
	Deadline  Date
	CreatedAt time.Time
}

func (i CreateInput) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.UserID, validation.Required),
		validation.Field(&i.Title, validation.Required),
		validation.Field(&i.Deadline, validation.By(func(value interface{}) error {
			if d, _ := value.(Date); d.IsZero() {
				return errors.New("cannot be blank")
			}
			return nil
		})),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

type Repository interface {
	// Create persists a new task. Done is always false for a created task.
	Create(ctx context.Context, input CreateInput) (Task, error)
	// DueOn returns not done tasks with the given deadline grouped by user.
	DueOn(ctx context.Context, date Date) ([]UserTasks, error)
}
