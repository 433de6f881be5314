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

type projectRepository struct {
	client *store.Client
}

// NewProjectRepository returns a Datastore-backed domain.ProjectRepository.
func NewProjectRepository(client *store.Client) domain.ProjectRepository {
	return &projectRepository{client: client}
}

func projectKey(ownerID string, id int64) *datastore.Key {
	return datastore.IDKey(store.KindProject, id, store.OwnerKey(ownerID))
}

func (r *projectRepository) Create(ctx context.Context, ownerID string, p *domain.Project) (int64, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Color == "" {
		p.Color = domain.RandomColor()
	}
	if p.Tasks == nil {
		p.Tasks = []domain.TaskSummary{}
	}

	key := datastore.IncompleteKey(store.KindProject, store.OwnerKey(ownerID))
	newKey, err := r.client.DS().Put(ctx, key, p)
	if err != nil {
		return 0, fmt.Errorf("create project: %w", err)
	}
	p.ID = newKey.ID
	p.OwnerID = ownerID
	return newKey.ID, nil
}

func (r *projectRepository) GetByID(ctx context.Context, ownerID string, id int64) (*domain.Project, error) {
	var p domain.Project
	if err := r.client.DS().Get(ctx, projectKey(ownerID, id), &p); err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	p.ID = id
	p.OwnerID = ownerID
	return &p, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	query := datastore.NewQuery(store.KindProject).
		Ancestor(store.OwnerKey(ownerID)).
		Order("created_at")

	var projects []domain.Project
	keys, err := r.client.DS().GetAll(ctx, query, &projects)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}

	for i, key := range keys {
		projects[i].ID = key.ID
		if key.Parent != nil {
			projects[i].OwnerID = key.Parent.Name
		}
	}
	return projects, nil
}

// AppendTaskSummary performs the single-document atomic append+increment.
// The append is keyed by the task id: a retry that finds the entry already
// present is a no-op, so the project update stays safe to re-run after a
// crash between the task creation and this write.
func (r *projectRepository) AppendTaskSummary(ctx context.Context, ownerID string, projectID int64, summary domain.TaskSummary) error {
	key := projectKey(ownerID, projectID)

	_, err := r.client.DS().RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var p domain.Project
		if err := tx.Get(key, &p); err != nil {
			return err
		}
		for _, existing := range p.Tasks {
			if existing.TaskID == summary.TaskID {
				return nil
			}
		}
		p.Tasks = append(p.Tasks, summary)
		p.TasksCount++
		_, err := tx.Put(key, &p)
		return err
	})
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return domain.ErrProjectNotFound
		}
		return fmt.Errorf("append task summary to project %d: %w", projectID, err)
	}
	return nil
}
