package service

import (
	"context"

	"github.com/creatorflow/apigateway/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, ownerID string, p *domain.Project) (*domain.Project, error)
	Get(ctx context.Context, ownerID string, id int64) (*domain.Project, error)
	List(ctx context.Context, ownerID string) ([]domain.Project, error)
}

type projectService struct {
	repo domain.ProjectRepository
}

func NewProjectService(repo domain.ProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

func (s *projectService) Create(ctx context.Context, ownerID string, p *domain.Project) (*domain.Project, error) {
	if _, err := s.repo.Create(ctx, ownerID, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, ownerID string, id int64) (*domain.Project, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *projectService) List(ctx context.Context, ownerID string) ([]domain.Project, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
