package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/creatorflow/apigateway/internal/domain"
	"github.com/creatorflow/apigateway/internal/logger"
	"github.com/creatorflow/apigateway/pkg/dataflow"
)

// TaskIndexer mirrors task writes into a secondary search index. Indexing
// is best-effort; a nil indexer disables it.
type TaskIndexer interface {
	IndexTask(ctx context.Context, t *domain.Task) error
}

// CreateTaskResult reports the two-step creation. The task write and the
// project aggregation are separate documents with no cross-document
// transaction: when only the second step fails, the task stands and
// LinkErr carries the partial-success detail.
type CreateTaskResult struct {
	Task    *domain.Task
	LinkErr error
}

// ToggleResult is the outcome of a user marking a task done or un-done.
type ToggleResult struct {
	Status   domain.TaskStatus
	Progress *domain.Progress
}

type TaskService interface {
	Create(ctx context.Context, ownerID string, t *domain.Task) (*CreateTaskResult, error)
	List(ctx context.Context, ownerID string) ([]domain.Task, error)
	ToggleDone(ctx context.Context, ownerID string, id int64) (*ToggleResult, error)
	Progress(ctx context.Context, ownerID string, projectID int64) (*domain.Progress, error)
}

type taskService struct {
	tasks    domain.TaskRepository
	projects domain.ProjectRepository
	index    TaskIndexer
	loc      *time.Location
	now      func() time.Time

	linkAttempts int
	linkBackoff  func(int) time.Duration
}

// NewTaskService wires the task lifecycle against the injected store
// adapters. index may be nil.
func NewTaskService(tasks domain.TaskRepository, projects domain.ProjectRepository, index TaskIndexer, loc *time.Location) TaskService {
	return &taskService{
		tasks:        tasks,
		projects:     projects,
		index:        index,
		loc:          loc,
		now:          time.Now,
		linkAttempts: 3,
		linkBackoff:  dataflow.ExponentialBackoff(200 * time.Millisecond),
	}
}

// Create stores the task, then runs the creation-side aggregation sync
// when a project is referenced. The project append is idempotent keyed by
// task id, so the in-line retry here cannot double-count.
func (s *taskService) Create(ctx context.Context, ownerID string, t *domain.Task) (*CreateTaskResult, error) {
	now := s.now()
	t.Status = domain.StatusNew
	t.CreatedDate = now.In(s.loc).Format(domain.DateLayout)
	t.CreatedAt = now

	if _, err := s.tasks.Create(ctx, ownerID, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	result := &CreateTaskResult{Task: t}
	if t.ProjectID != 0 {
		result.LinkErr = s.linkToProject(ctx, ownerID, t)
	}

	if s.index != nil {
		if err := s.index.IndexTask(ctx, t); err != nil {
			logger.WarnLog(ctx, "task %d: search indexing failed: %v", t.ID, err)
		}
	}

	return result, nil
}

func (s *taskService) linkToProject(ctx context.Context, ownerID string, t *domain.Task) error {
	summary := domain.TaskSummary{
		TaskID:   t.ID,
		TaskName: t.TaskName,
		Status:   t.Status,
		DueDate:  t.DueDate,
	}

	var err error
	for attempt := 1; attempt <= s.linkAttempts; attempt++ {
		err = s.projects.AppendTaskSummary(ctx, ownerID, t.ProjectID, summary)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrProjectNotFound) {
			// Retrying cannot make a missing project appear.
			return err
		}
		logger.WarnLog(ctx, "task %d: project %d link attempt %d failed: %v", t.ID, t.ProjectID, attempt, err)
		if attempt < s.linkAttempts {
			select {
			case <-time.After(s.linkBackoff(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("link task %d to project %d: %w", t.ID, t.ProjectID, err)
}

func (s *taskService) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID)
}

// ToggleDone flips a task between Done and its derived status. Marking
// done is user-authoritative; un-doing re-derives from the date fields so
// the task lands directly on Overdue/On-going/New rather than a stale
// value.
func (s *taskService) ToggleDone(ctx context.Context, ownerID string, id int64) (*ToggleResult, error) {
	t, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	var next domain.TaskStatus
	if t.Status == domain.StatusDone {
		shadow := *t
		shadow.Status = domain.StatusNew
		next = domain.DeriveStatus(&shadow, s.now(), s.loc)
	} else {
		next = domain.StatusDone
	}

	if err := s.tasks.SetStatus(ctx, ownerID, id, next); err != nil {
		return nil, err
	}

	result := &ToggleResult{Status: next}
	if t.ProjectID != 0 {
		progress, err := s.Progress(ctx, ownerID, t.ProjectID)
		if err != nil {
			logger.WarnLog(ctx, "task %d: progress recompute for project %d failed: %v", id, t.ProjectID, err)
		} else {
			result.Progress = progress
		}
	}
	return result, nil
}

// Progress computes a project's live completion ratio from the
// authoritative task documents. The denormalized summary list on the
// project is a creation log and never consulted here.
func (s *taskService) Progress(ctx context.Context, ownerID string, projectID int64) (*domain.Progress, error) {
	tasks, err := s.tasks.ListByProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("query project %d tasks: %w", projectID, err)
	}

	completed := 0
	for i := range tasks {
		if tasks[i].Status == domain.StatusDone {
			completed++
		}
	}

	p := &domain.Progress{
		ProjectID: projectID,
		Completed: completed,
		Total:     len(tasks),
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) / float64(p.Total) * 100
	}
	return p, nil
}
