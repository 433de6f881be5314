package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"

	"github.com/creatorflow/apigateway/internal/domain"
	"github.com/creatorflow/apigateway/internal/store"
)

type spendingRepository struct {
	client *store.Client
}

// NewSpendingRepository returns a Datastore-backed domain.SpendingRepository.
func NewSpendingRepository(client *store.Client) domain.SpendingRepository {
	return &spendingRepository{client: client}
}

func (r *spendingRepository) Create(ctx context.Context, ownerID string, s *domain.Spending) (int64, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	key := datastore.IncompleteKey(store.KindSpending, store.OwnerKey(ownerID))
	newKey, err := r.client.DS().Put(ctx, key, s)
	if err != nil {
		return 0, fmt.Errorf("create spending: %w", err)
	}
	s.ID = newKey.ID
	s.OwnerID = ownerID
	return newKey.ID, nil
}

func (r *spendingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Spending, error) {
	query := datastore.NewQuery(store.KindSpending).
		Ancestor(store.OwnerKey(ownerID)).
		Order("created_at")

	var entries []domain.Spending
	keys, err := r.client.DS().GetAll(ctx, query, &entries)
	if err != nil {
		return nil, fmt.Errorf("query spending: %w", err)
	}

	for i, key := range keys {
		entries[i].ID = key.ID
		if key.Parent != nil {
			entries[i].OwnerID = key.Parent.Name
		}
	}
	return entries, nil
}
