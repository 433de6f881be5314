package domain

import (
	"time"
)

// TaskStatus is the lifecycle state of a task.
//
// Done is user-authoritative: it is only ever written by an explicit user
// action and must never be overwritten by a derived recomputation. The
// other three values are a cache of DeriveStatus and may be rewritten by
// any reconciliation pass at any time.
type TaskStatus string

const (
	StatusNew     TaskStatus = "New"
	StatusOngoing TaskStatus = "On-going"
	StatusOverdue TaskStatus = "Overdue"
	StatusDone    TaskStatus = "Done"
)

// DateLayout is the calendar-date format used for Task.CreatedDate and
// Event.Date. ISO dates compare correctly as strings.
const DateLayout = "2006-01-02"

// Task is a single unit of work owned by one user.
type Task struct {
	ID      int64  `datastore:"-" json:"id"` // Key ID (auto-generated int64)
	OwnerID string `datastore:"-" json:"owner_id"`

	TaskName        string     `datastore:"task_name" json:"task_name"`
	TaskDescription string     `datastore:"task_description,noindex" json:"task_description"`
	TaskNotes       string     `datastore:"task_notes,noindex" json:"task_notes"`
	Priority        bool       `datastore:"priority" json:"priority"`
	ProjectID       int64      `datastore:"project_id" json:"project_id"` // 0 = unassigned
	DueDate         *time.Time `datastore:"due_date" json:"due_date"`
	CreatedDate     string     `datastore:"created_date" json:"created_date"` // date portion only, fixed at creation
	CreatedAt       time.Time  `datastore:"created_at" json:"created_at"`
	Status          TaskStatus `datastore:"status" json:"status"`
}

// DeriveStatus computes the status a task should report at instant now,
// with loc as the owner's reference timezone for calendar-date logic.
//
// Precedence is significant and must not be reordered: a task created
// today whose due time already passed is Overdue, not New.
func DeriveStatus(t *Task, now time.Time, loc *time.Location) TaskStatus {
	if t.Status == StatusDone {
		return StatusDone
	}
	if t.DueDate != nil && t.DueDate.Before(now) {
		return StatusOverdue
	}
	if t.CreatedDate != "" && t.CreatedDate < now.In(loc).Format(DateLayout) {
		return StatusOngoing
	}
	return StatusNew
}
