package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/creatorflow/apigateway/internal/domain"
	"github.com/creatorflow/apigateway/internal/logger"
	"github.com/creatorflow/apigateway/internal/service"
	"github.com/creatorflow/apigateway/internal/service/serviceutils"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

type createEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AllDay      bool       `json:"all_day"`
	Date        string     `json:"date"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// CreateHandler handles POST /events.
func (h *EventHandler) CreateHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if _, err := time.Parse(domain.DateLayout, req.Date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	event := &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		AllDay:      req.AllDay,
		Date:        req.Date,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	created, err := h.svc.Create(ctx, owner, event)
	if err != nil {
		logger.ErrorLog(ctx, "failed to create event: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to create event", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "event created", created)
}

// ListHandler handles GET /events.
func (h *EventHandler) ListHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}

	events, err := h.svc.List(ctx, owner)
	if err != nil {
		logger.ErrorLog(ctx, "failed to list events: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to list events", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", events)
}
