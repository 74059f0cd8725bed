package task

import "errors"

var (
	ErrNoDeadline     = errors.New("message does not contain a deadline")
	ErrInvalidInput   = errors.New("task input is not valid")
	ErrTaskNotCreated = errors.New("task not created")
)
