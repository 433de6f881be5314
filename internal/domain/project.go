package domain

import (
	"math/rand"
	"time"
)

// TaskSummary is the lightweight entry appended to a project's
// denormalized task list when a task is created against it.
//
// The list is a write-time snapshot, an append-only creation log. It is
// not updated when the referenced task later changes status; live
// aggregates (progress) always come from querying the tasks themselves.
type TaskSummary struct {
	TaskID   int64      `datastore:"task_id" json:"task_id"`
	TaskName string     `datastore:"task_name,noindex" json:"task_name"`
	Status   TaskStatus `datastore:"status,noindex" json:"status"`
	DueDate  *time.Time `datastore:"due_date,noindex" json:"due_date"`
}

// Project groups tasks under a deadline and carries a denormalized view
// of them. TasksCount tracks the number of tasks created against the
// project; it is maintained in the same atomic update as the Tasks
// append, but that update is a separate write from the task creation
// itself, so the count is best-effort (see AppendTaskSummary).
type Project struct {
	ID      int64  `datastore:"-" json:"id"`
	OwnerID string `datastore:"-" json:"owner_id"`

	ProjectName string        `datastore:"project_name" json:"project_name"`
	Description string        `datastore:"description,noindex" json:"description"`
	Notes       string        `datastore:"notes,noindex" json:"notes"`
	Deadline    *time.Time    `datastore:"deadline" json:"deadline"`
	Color       string        `datastore:"color,noindex" json:"color"`
	TasksCount  int           `datastore:"tasks_count" json:"tasks_count"`
	Tasks       []TaskSummary `datastore:"tasks,noindex" json:"tasks"`
	CreatedAt   time.Time     `datastore:"created_at" json:"created_at"`
}

// Progress is the live completion ratio of a project's tasks, computed
// from a query over the authoritative task documents, never from the
// stale Tasks snapshot.
type Progress struct {
	ProjectID int64   `json:"project_id"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

const hexLetters = "0123456789ABCDEF"

// RandomColor returns a random #RRGGBB display color for a new project.
func RandomColor() string {
	b := make([]byte, 7)
	b[0] = '#'
	for i := 1; i < 7; i++ {
		b[i] = hexLetters[rand.Intn(len(hexLetters))]
	}
	return string(b)
}
