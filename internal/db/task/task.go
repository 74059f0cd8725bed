package task

import (
	"context"
	"fmt"
	e "linetask/internal/core/domain/errors"
	"linetask/internal/core/domain/logging"
	"linetask/internal/core/domain/task"
	"linetask/internal/db"
	"linetask/internal/implementations/retrying"
	"time"

	"github.com/jackc/pgx/v4"
)

const (
	// Repeated inserts of the same id return the stored row, so a retried
	// insert never creates a duplicate.
	createTaskQuery = `
INSERT INTO tasks (id, user_id, title, deadline, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
RETURNING id, user_id, title, deadline, created_at, done`

	readDueTasksQuery = `
SELECT id, user_id, title, deadline, created_at, done
FROM tasks
WHERE deadline = $1 AND NOT done
ORDER BY created_at, id`
)

type PgxTaskRepository struct {
	db      db.DBTX
	log     logging.Logger
	timeout time.Duration
	policy  retrying.Policy
}

func NewPgxTaskRepository(
	dbtx db.DBTX,
	log logging.Logger,
	timeout time.Duration,
	policy retrying.Policy,
) *PgxTaskRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &PgxTaskRepository{db: dbtx, log: log, timeout: timeout, policy: policy}
}

func (r *PgxTaskRepository) Create(ctx context.Context, input task.CreateInput) (t task.Task, err error) {
	if err := input.Validate(); err != nil {
		return t, err
	}
	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	t, err = retrying.Do(ctx, r.log, "create task", r.policy, func(ctx context.Context) (task.Task, error) {
		ctx, cancel := r.withTimeout(ctx)
		defer cancel()
		row := r.db.QueryRow(
			ctx,
			createTaskQuery,
			string(input.ID),
			string(input.UserID),
			input.Title,
			input.Deadline.Time(),
			createdAt,
		)
		t, err := scanTask(row)
		return t, classify(err)
	})
	if err != nil {
		return t, fmt.Errorf("%w: %w", task.ErrTaskNotCreated, err)
	}
	return t, nil
}

func (r *PgxTaskRepository) DueOn(ctx context.Context, date task.Date) ([]task.UserTasks, error) {
	tasks, err := retrying.Do(ctx, r.log, "read due tasks", r.policy, func(ctx context.Context) ([]task.Task, error) {
		ctx, cancel := r.withTimeout(ctx)
		defer cancel()
		tasks, err := r.readDue(ctx, date)
		return tasks, classify(err)
	})
	if err != nil {
		return nil, fmt.Errorf("could not read tasks due on %s: %w", date, err)
	}
	return task.GroupByUser(tasks), nil
}

func (r *PgxTaskRepository) readDue(ctx context.Context, date task.Date) ([]task.Task, error) {
	rows, err := r.db.Query(ctx, readDueTasksQuery, date.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PgxTaskRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func scanTask(row pgx.Row) (t task.Task, err error) {
	var (
		id       string
		userID   string
		deadline time.Time
	)
	if err := row.Scan(&id, &userID, &t.Title, &deadline, &t.CreatedAt, &t.Done); err != nil {
		return t, err
	}
	t.ID = task.ID(id)
	t.UserID = task.UserID(userID)
	t.Deadline = task.NewDate(deadline.Year(), deadline.Month(), deadline.Day())
	return t, nil
}

func classify(err error) error {
	if err == nil || db.IsTransient(err) {
		return err
	}
	return retrying.Permanent(err)
}
