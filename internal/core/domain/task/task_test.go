package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGroupByUser(t *testing.T) {
	deadline := NewDate(2026, time.October, 19)
	cases := []struct {
		id       string
		tasks    []Task
		expected []UserTasks
	}{
		{
			id:       "1",
			tasks:    nil,
			expected: []UserTasks{},
		},
		{
			id:    "2",
			tasks: []Task{{ID: "a", UserID: "U1", Deadline: deadline}},
			expected: []UserTasks{
				{UserID: "U1", Tasks: []Task{{ID: "a", UserID: "U1", Deadline: deadline}}},
			},
		},
		{
			id: "3",
			tasks: []Task{
				{ID: "a", UserID: "U1"},
				{ID: "b", UserID: "U2"},
				{ID: "c", UserID: "U1"},
				{ID: "d", UserID: "U3"},
				{ID: "e", UserID: "U2"},
			},
			expected: []UserTasks{
				{UserID: "U1", Tasks: []Task{{ID: "a", UserID: "U1"}, {ID: "c", UserID: "U1"}}},
				{UserID: "U2", Tasks: []Task{{ID: "b", UserID: "U2"}, {ID: "e", UserID: "U2"}}},
				{UserID: "U3", Tasks: []Task{{ID: "d", UserID: "U3"}}},
			},
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			groups := GroupByUser(testcase.tasks)

			require.Equal(t, testcase.expected, groups)
			for _, g := range groups {
				require.NotEmpty(t, g.Tasks)
			}
		})
	}
}

func TestDate(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)

	d := DateOf(time.Date(2026, time.October, 18, 23, 30, 0, 0, jst))
	require.Equal(t, NewDate(2026, time.October, 18), d)
	require.Equal(t, "2026-10-18", d.String())
	require.Equal(t, "2026-10-19", d.AddDays(1).String())
	require.Equal(t, "2026-11-01", d.AddDays(14).String())
	require.Equal(t, "2027-01-01", NewDate(2026, time.December, 31).AddDays(1).String())
	require.False(t, d.IsZero())
	require.True(t, Date{}.IsZero())

	parsed, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	require.Equal(t, NewDate(2026, time.February, 28), parsed)

	_, err = ParseDate("2026-02-30")
	require.Error(t, err)
}

func TestCreateInputValidate(t *testing.T) {
	valid := CreateInput{
		ID:       "id",
		UserID:   "U1",
		Title:    "数学の宿題",
		Deadline: NewDate(2026, time.October, 19),
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		id     string
		mutate func(i *CreateInput)
	}{
		{id: "no id", mutate: func(i *CreateInput) { i.ID = "" }},
		{id: "no user", mutate: func(i *CreateInput) { i.UserID = "" }},
		{id: "no title", mutate: func(i *CreateInput) { i.Title = "" }},
		{id: "no deadline", mutate: func(i *CreateInput) { i.Deadline = Date{} }},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			input := valid
			testcase.mutate(&input)
			require.ErrorIs(t, input.Validate(), ErrInvalidInput)
		})
	}
}

func TestFakeRepositoryDueOnSkipsDoneAndOtherDates(t *testing.T) {
	today := NewDate(2026, time.October, 18)
	repo := NewFakeRepository()
	repo.Tasks = []Task{
		{ID: "1", UserID: "U1", Deadline: today},
		{ID: "2", UserID: "U1", Deadline: today, Done: true},
		{ID: "3", UserID: "U2", Deadline: today.AddDays(1)},
		{ID: "4", UserID: "U1", Deadline: today},
	}

	groups, err := repo.DueOn(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, UserID("U1"), groups[0].UserID)
	require.Len(t, groups[0].Tasks, 2)
	require.Equal(t, ID("1"), groups[0].Tasks[0].ID)
	require.Equal(t, ID("4"), groups[0].Tasks[1].ID)

	repo.DueOnErrors[today] = errors.New("boom")
	_, err = repo.DueOn(context.Background(), today)
	require.Error(t, err)
}
