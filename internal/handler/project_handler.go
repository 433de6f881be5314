package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/creatorflow/apigateway/internal/domain"
	"github.com/creatorflow/apigateway/internal/logger"
	"github.com/creatorflow/apigateway/internal/service"
	"github.com/creatorflow/apigateway/internal/service/serviceutils"
)

type ProjectHandler struct {
	svc   service.ProjectService
	tasks service.TaskService
}

func NewProjectHandler(svc service.ProjectService, tasks service.TaskService) *ProjectHandler {
	return &ProjectHandler{svc: svc, tasks: tasks}
}

type createProjectRequest struct {
	ProjectName string     `json:"project_name"`
	Description string     `json:"description"`
	Notes       string     `json:"notes"`
	Deadline    *time.Time `json:"deadline"`
}

// CreateHandler handles POST /projects.
func (h *ProjectHandler) CreateHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProjectName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project_name is required")
	}

	project := &domain.Project{
		ProjectName: req.ProjectName,
		Description: req.Description,
		Notes:       req.Notes,
		Deadline:    req.Deadline,
	}

	created, err := h.svc.Create(ctx, owner, project)
	if err != nil {
		logger.ErrorLog(ctx, "failed to create project: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to create project", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "project created", created)
}

// ListHandler handles GET /projects.
func (h *ProjectHandler) ListHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}

	projects, err := h.svc.List(ctx, owner)
	if err != nil {
		logger.ErrorLog(ctx, "failed to list projects: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to list projects", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", projects)
}

// GetHandler handles GET /projects/:id.
func (h *ProjectHandler) GetHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	project, err := h.svc.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "project not found")
		}
		logger.ErrorLog(ctx, "failed to get project %d: %v", id, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to get project", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", project)
}

// ProgressHandler handles GET /projects/:id/progress. The ratio comes
// from the live task query, not the project's snapshot list.
func (h *ProjectHandler) ProgressHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	progress, err := h.tasks.Progress(ctx, owner, id)
	if err != nil {
		logger.ErrorLog(ctx, "failed to compute progress for project %d: %v", id, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to compute progress", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", progress)
}
