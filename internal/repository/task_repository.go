package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"

	"github.com/creatorflow/apigateway/internal/domain"
	"github.com/creatorflow/apigateway/internal/store"
)

type taskRepository struct {
	client *store.Client
}

// NewTaskRepository returns a Datastore-backed domain.TaskRepository.
func NewTaskRepository(client *store.Client) domain.TaskRepository {
	return &taskRepository{client: client}
}

func taskKey(ownerID string, id int64) *datastore.Key {
	return datastore.IDKey(store.KindTask, id, store.OwnerKey(ownerID))
}

func (r *taskRepository) Create(ctx context.Context, ownerID string, t *domain.Task) (int64, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	key := datastore.IncompleteKey(store.KindTask, store.OwnerKey(ownerID))
	newKey, err := r.client.DS().Put(ctx, key, t)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	t.ID = newKey.ID
	t.OwnerID = ownerID
	return newKey.ID, nil
}

func (r *taskRepository) GetByID(ctx context.Context, ownerID string, id int64) (*domain.Task, error) {
	var t domain.Task
	if err := r.client.DS().Get(ctx, taskKey(ownerID, id), &t); err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	t.ID = id
	t.OwnerID = ownerID
	return &t, nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	query := datastore.NewQuery(store.KindTask).
		Ancestor(store.OwnerKey(ownerID)).
		Order("created_at")
	return r.runQuery(ctx, query)
}

// ListAll scans tasks across all owners. Only the server-side
// reconciliation trigger uses it.
func (r *taskRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	query := datastore.NewQuery(store.KindTask).Order("created_at")
	return r.runQuery(ctx, query)
}

func (r *taskRepository) ListByProject(ctx context.Context, ownerID string, projectID int64) ([]domain.Task, error) {
	query := datastore.NewQuery(store.KindTask).
		Ancestor(store.OwnerKey(ownerID)).
		Filter("project_id =", projectID)
	return r.runQuery(ctx, query)
}

func (r *taskRepository) runQuery(ctx context.Context, query *datastore.Query) ([]domain.Task, error) {
	var tasks []domain.Task
	keys, err := r.client.DS().GetAll(ctx, query, &tasks)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	for i, key := range keys {
		tasks[i].ID = key.ID
		if key.Parent != nil {
			tasks[i].OwnerID = key.Parent.Name
		}
	}
	return tasks, nil
}

// UpdateStatus writes a derived status inside a transaction so the
// authoritative Done flag is re-checked at write time, not against a
// snapshot read earlier in the same pass.
func (r *taskRepository) UpdateStatus(ctx context.Context, ownerID string, id int64, status domain.TaskStatus) (bool, error) {
	key := taskKey(ownerID, id)
	updated := false

	_, err := r.client.DS().RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var t domain.Task
		if err := tx.Get(key, &t); err != nil {
			return err
		}
		if t.Status == domain.StatusDone || t.Status == status {
			return nil
		}
		t.Status = status
		if _, err := tx.Put(key, &t); err != nil {
			return err
		}
		updated = true
		return nil
	})
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("update task %d status: %w", id, err)
	}
	return updated, nil
}

// SetStatus writes a user-authoritative status, including overwriting
// Done when the user un-does a task.
func (r *taskRepository) SetStatus(ctx context.Context, ownerID string, id int64, status domain.TaskStatus) error {
	key := taskKey(ownerID, id)

	_, err := r.client.DS().RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var t domain.Task
		if err := tx.Get(key, &t); err != nil {
			return err
		}
		t.Status = status
		_, err := tx.Put(key, &t)
		return err
	})
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set task %d status: %w", id, err)
	}
	return nil
}
