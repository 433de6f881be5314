package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/creatorflow/apigateway/internal/domain"
	"github.com/creatorflow/apigateway/internal/logger"
	"github.com/creatorflow/apigateway/pkg/dataflow"
)

// Outcome is the structured result of one reconciliation pass.
type Outcome struct {
	Scanned  int           `json:"scanned"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Failures []ItemFailure `json:"failures,omitempty"`
}

// ItemFailure records a single task whose update failed. A failed item
// never aborts the pass; the next scheduled invocation converges it.
type ItemFailure struct {
	OwnerID string `json:"owner_id"`
	TaskID  int64  `json:"task_id"`
	Reason  string `json:"reason"`
}

// ReconcileService sweeps a scope of tasks and rewrites any stored status
// that disagrees with the derivation rule. Passes are stateless and
// idempotent: any number of them, on any schedule, converge to the same
// result because the derivation is a pure function of stable date fields.
type ReconcileService interface {
	// ReconcileOwner sweeps one owner's tasks (interactive and on-device
	// triggers).
	ReconcileOwner(ctx context.Context, ownerID string) (*Outcome, error)

	// ReconcileAll sweeps every owner's tasks (server-side trigger).
	ReconcileAll(ctx context.Context) (*Outcome, error)
}

type reconcileService struct {
	tasks   domain.TaskRepository
	loc     *time.Location
	now     func() time.Time
	workers int
}

// NewReconcileService creates a reconciler using loc as the reference
// timezone for calendar-date derivation.
func NewReconcileService(tasks domain.TaskRepository, loc *time.Location) ReconcileService {
	return &reconcileService{
		tasks:   tasks,
		loc:     loc,
		now:     time.Now,
		workers: 4,
	}
}

func (s *reconcileService) ReconcileOwner(ctx context.Context, ownerID string) (*Outcome, error) {
	tasks, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("enumerate tasks for owner %s: %w", ownerID, err)
	}

	out := &Outcome{}
	for i := range tasks {
		s.reconcileOne(ctx, &tasks[i], out)
	}
	return out, nil
}

func (s *reconcileService) reconcileOne(ctx context.Context, t *domain.Task, out *Outcome) {
	out.Scanned++

	derived := domain.DeriveStatus(t, s.now(), s.loc)
	if derived == t.Status {
		out.Skipped++
		return
	}

	updated, err := s.tasks.UpdateStatus(ctx, t.OwnerID, t.ID, derived)
	if err != nil {
		out.Failed++
		out.Failures = append(out.Failures, ItemFailure{OwnerID: t.OwnerID, TaskID: t.ID, Reason: err.Error()})
		logger.WarnLog(ctx, "reconcile: task %d (owner %s) update failed: %v", t.ID, t.OwnerID, err)
		return
	}
	if updated {
		out.Updated++
	} else {
		// The stored document changed under us (user marked it Done
		// between the scan and the write); the write-time re-check
		// declined the overwrite.
		out.Skipped++
	}
}

// ReconcileAll runs the cross-owner sweep through a worker-pool stage so
// a large scan finishes inside one scheduler slot. Per-item retry covers
// transient store errors; an item that still fails is counted and dropped
// without touching the rest of the sweep.
func (s *reconcileService) ReconcileAll(ctx context.Context) (*Outcome, error) {
	tasks, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate all tasks: %w", err)
	}

	items := make([]interface{}, len(tasks))
	for i := range tasks {
		items[i] = tasks[i]
	}

	out := &Outcome{Scanned: len(tasks)}
	var mu sync.Mutex

	src := dataflow.FromSlice(ctx, items)
	results := dataflow.Map(ctx, src,
		func(msg interface{}) (interface{}, error) {
			t := msg.(domain.Task)
			derived := domain.DeriveStatus(&t, s.now(), s.loc)
			if derived == t.Status {
				return sweepResult{skipped: true}, nil
			}
			updated, err := s.tasks.UpdateStatus(ctx, t.OwnerID, t.ID, derived)
			if err != nil {
				return nil, &sweepError{ownerID: t.OwnerID, taskID: t.ID, err: err}
			}
			return sweepResult{updated: updated, skipped: !updated}, nil
		},
		dataflow.WithWorkers(s.workers),
		dataflow.WithRetry(2, dataflow.ExponentialBackoff(100*time.Millisecond)),
		dataflow.WithErrorHandler(func(err error) bool {
			failure := ItemFailure{Reason: err.Error()}
			var se *sweepError
			if errors.As(err, &se) {
				failure.OwnerID = se.ownerID
				failure.TaskID = se.taskID
				failure.Reason = se.err.Error()
			}
			mu.Lock()
			out.Failed++
			out.Failures = append(out.Failures, failure)
			mu.Unlock()
			logger.WarnLog(ctx, "reconcile: %v", err)
			return true
		}),
	)

	err = dataflow.ForEach(ctx, results, func(msg interface{}) error {
		r := msg.(sweepResult)
		mu.Lock()
		if r.updated {
			out.Updated++
		}
		if r.skipped {
			out.Skipped++
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sweep aborted: %w", err)
	}
	return out, nil
}

type sweepResult struct {
	updated bool
	skipped bool
}

type sweepError struct {
	ownerID string
	taskID  int64
	err     error
}

func (e *sweepError) Error() string {
	return fmt.Sprintf("task %d (owner %s) update failed: %v", e.taskID, e.ownerID, e.err)
}

func (e *sweepError) Unwrap() error {
	return e.err
}
