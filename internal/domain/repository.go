package domain

import (
	"context"
)

// TaskRepository is the store contract for task documents. Implementations
// wrap the external document store; each method is a single suspension
// point and no method holds locks across calls.
type TaskRepository interface {
	Create(ctx context.Context, ownerID string, t *Task) (int64, error)
	GetByID(ctx context.Context, ownerID string, id int64) (*Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Task, error)

	// ListAll is the cross-owner scan used by the server-side
	// reconciliation trigger.
	ListAll(ctx context.Context) ([]Task, error)

	// ListByProject feeds the live progress computation.
	ListByProject(ctx context.Context, ownerID string, projectID int64) ([]Task, error)

	// UpdateStatus writes a derived status. It re-checks the stored
	// document inside the store's transactional update and declines to
	// overwrite Done (or an already-equal status); the bool reports
	// whether a write happened.
	UpdateStatus(ctx context.Context, ownerID string, id int64, status TaskStatus) (bool, error)

	// SetStatus writes a user-authoritative status unconditionally
	// (mark done / un-done).
	SetStatus(ctx context.Context, ownerID string, id int64, status TaskStatus) error
}

// ProjectRepository is the store contract for project documents.
type ProjectRepository interface {
	Create(ctx context.Context, ownerID string, p *Project) (int64, error)
	GetByID(ctx context.Context, ownerID string, id int64) (*Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Project, error)

	// AppendTaskSummary atomically appends a summary entry to the
	// project's task list and increments its counter, within the store's
	// single-document update primitive. The append is idempotent keyed
	// by summary.TaskID, so retrying after a partial failure cannot
	// double-count. Returns ErrProjectNotFound when the project is
	// missing.
	AppendTaskSummary(ctx context.Context, ownerID string, projectID int64, summary TaskSummary) error
}

// EventRepository is the store contract for calendar events.
type EventRepository interface {
	Create(ctx context.Context, ownerID string, e *Event) (int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Event, error)
}

// SpendingRepository is the store contract for spending records.
type SpendingRepository interface {
	Create(ctx context.Context, ownerID string, s *Spending) (int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Spending, error)
}
