package task

import "time"

// DefaultTitle replaces a title that became empty after the date phrase was removed.
const DefaultTitle = "課題"

type ID string

type UserID string

type Task struct {
	ID        ID
	UserID    UserID
	Title     string
	Deadline  Date
	CreatedAt time.Time
	Done      bool
}

// Parsed is a task extracted from a chat message, not persisted yet.
type Parsed struct {
	Title    string
	Deadline Date
}

type UserTasks struct {
	UserID UserID
	Tasks  []Task
}

// GroupByUser partitions tasks into per-user sequences. Users keep the order of
// their first task, tasks keep their relative order.
func GroupByUser(tasks []Task) []UserTasks {
	groups := make([]UserTasks, 0)
	index := make(map[UserID]int)
	for _, t := range tasks {
		ix, ok := index[t.UserID]
		if !ok {
			ix = len(groups)
			index[t.UserID] = ix
			groups = append(groups, UserTasks{UserID: t.UserID})
		}
		groups[ix].Tasks = append(groups[ix].Tasks, t)
	}
	return groups
}
