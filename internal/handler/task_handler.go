package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/creatorflow/apigateway/internal/domain"
	"github.com/creatorflow/apigateway/internal/logger"
	"github.com/creatorflow/apigateway/internal/search"
	"github.com/creatorflow/apigateway/internal/service"
	"github.com/creatorflow/apigateway/internal/service/serviceutils"
)

type TaskHandler struct {
	svc   service.TaskService
	rec   service.ReconcileService
	index *search.TaskIndex
}

// NewTaskHandler wires the task endpoints. index may be nil (search
// disabled).
func NewTaskHandler(svc service.TaskService, rec service.ReconcileService, index *search.TaskIndex) *TaskHandler {
	return &TaskHandler{svc: svc, rec: rec, index: index}
}

// ownerParam extracts the owning user id. Authentication is handled
// upstream of this gateway; here the owner is an explicit parameter.
func ownerParam(c echo.Context) (string, error) {
	owner := c.QueryParam("owner")
	if owner == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "owner is required")
	}
	return owner, nil
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

type createTaskRequest struct {
	TaskName        string     `json:"task_name"`
	TaskDescription string     `json:"task_description"`
	TaskNotes       string     `json:"task_notes"`
	Priority        bool       `json:"priority"`
	ProjectID       int64      `json:"project_id"`
	DueDate         *time.Time `json:"due_date"`
}

// CreateHandler handles POST /tasks.
func (h *TaskHandler) CreateHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TaskName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task_name is required")
	}

	task := &domain.Task{
		TaskName:        req.TaskName,
		TaskDescription: req.TaskDescription,
		TaskNotes:       req.TaskNotes,
		Priority:        req.Priority,
		ProjectID:       req.ProjectID,
		DueDate:         req.DueDate,
	}

	result, err := h.svc.Create(ctx, owner, task)
	if err != nil {
		logger.ErrorLog(ctx, "failed to create task: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to create task", err)
	}

	if result.LinkErr != nil {
		// The task exists; only the project aggregation failed.
		msg := "task created, project link failed"
		if errors.Is(result.LinkErr, domain.ErrProjectNotFound) {
			msg = "task created, project not found"
		}
		return c.JSON(http.StatusCreated, serviceutils.GenericResponse{
			Success: true,
			Message: msg,
			Data:    result.Task,
			Error:   result.LinkErr.Error(),
		})
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "task created", result.Task)
}

// ListHandler handles GET /tasks. Loading the task list is the
// interactive reconciliation trigger: the owner's pass runs first so the
// client never renders a stale Overdue/On-going split.
func (h *TaskHandler) ListHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}

	outcome, err := h.rec.ReconcileOwner(ctx, owner)
	if err != nil {
		// Listing still proceeds; the pass retries on the next trigger.
		logger.WarnLog(ctx, "interactive reconcile for owner %s failed: %v", owner, err)
	}

	tasks, err := h.svc.List(ctx, owner)
	if err != nil {
		logger.ErrorLog(ctx, "failed to list tasks: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to list tasks", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", echo.Map{
		"tasks":     tasks,
		"reconcile": outcome,
	})
}

// ToggleHandler handles POST /tasks/:id/toggle.
func (h *TaskHandler) ToggleHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	result, err := h.svc.ToggleDone(ctx, owner, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		logger.ErrorLog(ctx, "failed to toggle task %d: %v", id, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to toggle task", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", echo.Map{
		"status":   result.Status,
		"progress": result.Progress,
	})
}

// ReconcileHandler handles POST /tasks/reconcile (owner-scoped pass on
// demand).
func (h *TaskHandler) ReconcileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}

	outcome, err := h.rec.ReconcileOwner(ctx, owner)
	if err != nil {
		logger.ErrorLog(ctx, "reconcile for owner %s failed: %v", owner, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "reconcile failed", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", outcome)
}

// InternalReconcileHandler handles POST /internal/reconcile, the
// endpoint an external daily scheduler points at. It sweeps every
// owner's tasks.
func (h *TaskHandler) InternalReconcileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	outcome, err := h.rec.ReconcileAll(ctx)
	if err != nil {
		logger.ErrorLog(ctx, "global reconcile failed: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "reconcile failed", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", outcome)
}

// SearchHandler handles GET /tasks/search.
func (h *TaskHandler) SearchHandler(c echo.Context) error {
	ctx := c.Request().Context()

	if h.index == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not enabled")
	}

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	docs, err := h.index.Search(ctx, owner, q)
	if err != nil {
		logger.ErrorLog(ctx, "task search failed: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "search failed", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", docs)
}
