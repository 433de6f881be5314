package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"

	"github.com/creatorflow/apigateway/internal/domain"
	"github.com/creatorflow/apigateway/internal/store"
)

type eventRepository struct {
	client *store.Client
}

// NewEventRepository returns a Datastore-backed domain.EventRepository.
func NewEventRepository(client *store.Client) domain.EventRepository {
	return &eventRepository{client: client}
}

func (r *eventRepository) Create(ctx context.Context, ownerID string, e *domain.Event) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	key := datastore.IncompleteKey(store.KindEvent, store.OwnerKey(ownerID))
	newKey, err := r.client.DS().Put(ctx, key, e)
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}
	e.ID = newKey.ID
	e.OwnerID = ownerID
	return newKey.ID, nil
}

func (r *eventRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error) {
	query := datastore.NewQuery(store.KindEvent).
		Ancestor(store.OwnerKey(ownerID)).
		Order("date")

	var events []domain.Event
	keys, err := r.client.DS().GetAll(ctx, query, &events)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	for i, key := range keys {
		events[i].ID = key.ID
		if key.Parent != nil {
			events[i].OwnerID = key.Parent.Name
		}
	}
	return events, nil
}
