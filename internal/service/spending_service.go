package service

import (
	"context"

	"github.com/creatorflow/apigateway/internal/domain"
)

type SpendingService interface {
	Create(ctx context.Context, ownerID string, e *domain.Spending) (*domain.Spending, error)
	List(ctx context.Context, ownerID string) ([]domain.Spending, error)
}

type spendingService struct {
	repo domain.SpendingRepository
}

func NewSpendingService(repo domain.SpendingRepository) SpendingService {
	return &spendingService{repo: repo}
}

func (s *spendingService) Create(ctx context.Context, ownerID string, e *domain.Spending) (*domain.Spending, error) {
	if _, err := s.repo.Create(ctx, ownerID, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *spendingService) List(ctx context.Context, ownerID string) ([]domain.Spending, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
