package service

import (
	"context"

	"github.com/creatorflow/apigateway/internal/domain"
)

type EventService interface {
	Create(ctx context.Context, ownerID string, e *domain.Event) (*domain.Event, error)
	List(ctx context.Context, ownerID string) ([]domain.Event, error)
}

type eventService struct {
	repo domain.EventRepository
}

func NewEventService(repo domain.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) Create(ctx context.Context, ownerID string, e *domain.Event) (*domain.Event, error) {
	if _, err := s.repo.Create(ctx, ownerID, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *eventService) List(ctx context.Context, ownerID string) ([]domain.Event, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
