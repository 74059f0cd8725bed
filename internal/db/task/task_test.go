package task

import (
	"context"
	"linetask/internal/core/domain/logging"
	"linetask/internal/core/domain/task"
	"linetask/internal/db"
	"linetask/internal/implementations/retrying"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

var (
	Now      = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	Today    = task.NewDate(2026, time.October, 18)
	Tomorrow = task.NewDate(2026, time.October, 19)
)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *PgxTaskRepository
}

func TestPgxTaskRepository(t *testing.T) {
	s := new(testSuite)
	s.pool = db.CreateTestPool(t)
	defer s.pool.Close()
	suite.Run(t, s)
}

func (suite *testSuite) SetupTest() {
	suite.repo = NewPgxTaskRepository(suite.pool, logging.NewFakeLogger(), 5*time.Second, retrying.DefaultPolicy())
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func (s *testSuite) create(id string, userID string, title string, deadline task.Date, createdAt time.Time) task.Task {
	t, err := s.repo.Create(context.Background(), task.CreateInput{
		ID:        task.ID(id),
		UserID:    task.UserID(userID),
		Title:     title,
		Deadline:  deadline,
		CreatedAt: createdAt,
	})
	s.Require().Nil(err)
	return t
}

func (s *testSuite) TestCreate() {
	t := s.create("0b9e6f3c-4a1d-4a8e-9c52-1b2f5d6e7a80", "U1", "数学の宿題", Tomorrow, Now)

	s.Equal(task.ID("0b9e6f3c-4a1d-4a8e-9c52-1b2f5d6e7a80"), t.ID)
	s.Equal(task.UserID("U1"), t.UserID)
	s.Equal("数学の宿題", t.Title)
	s.Equal(Tomorrow, t.Deadline)
	s.True(Now.Equal(t.CreatedAt))
	s.False(t.Done)
}

func (s *testSuite) TestCreateIsIdempotent() {
	first := s.create("a", "U1", "数学の宿題", Tomorrow, Now)
	second := s.create("a", "U1", "数学の宿題", Tomorrow, Now)

	s.Equal(first, second)
	var count int
	s.Nil(s.pool.QueryRow(context.Background(), "SELECT count(*) FROM tasks").Scan(&count))
	s.Equal(1, count)
}

func (s *testSuite) TestCreateInvalidInput() {
	_, err := s.repo.Create(context.Background(), task.CreateInput{ID: "a", UserID: "U1", Deadline: Tomorrow})

	s.ErrorIs(err, task.ErrInvalidInput)
}

func (s *testSuite) TestDueOn() {
	s.create("1", "U1", "英語", Tomorrow, Now.Add(2*time.Minute))
	s.create("2", "U2", "数学", Tomorrow, Now)
	s.create("3", "U1", "物理", Tomorrow, Now.Add(time.Minute))
	s.create("4", "U1", "化学", Today, Now)
	s.create("5", "U3", "終わった", Tomorrow, Now)
	_, err := s.pool.Exec(context.Background(), "UPDATE tasks SET done = true WHERE id = '5'")
	s.Require().Nil(err)

	groups, err := s.repo.DueOn(context.Background(), Tomorrow)

	s.Nil(err)
	s.Require().Len(groups, 2)
	s.Equal(task.UserID("U2"), groups[0].UserID)
	s.Len(groups[0].Tasks, 1)
	s.Equal(task.UserID("U1"), groups[1].UserID)
	s.Require().Len(groups[1].Tasks, 2)
	s.Equal("物理", groups[1].Tasks[0].Title)
	s.Equal("英語", groups[1].Tasks[1].Title)
	for _, g := range groups {
		for _, t := range g.Tasks {
			s.Equal(Tomorrow, t.Deadline)
			s.Equal(g.UserID, t.UserID)
		}
	}
}

func (s *testSuite) TestDueOnNothing() {
	s.create("1", "U1", "英語", Tomorrow, Now)

	groups, err := s.repo.DueOn(context.Background(), Tomorrow.AddDays(1))

	s.Nil(err)
	s.Empty(groups)
}
