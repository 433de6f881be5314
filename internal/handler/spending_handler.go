package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/creatorflow/apigateway/internal/domain"
	"github.com/creatorflow/apigateway/internal/logger"
	"github.com/creatorflow/apigateway/internal/report"
	"github.com/creatorflow/apigateway/internal/service"
	"github.com/creatorflow/apigateway/internal/service/serviceutils"
)

type SpendingHandler struct {
	svc        service.SpendingService
	layoutPath string
}

// NewSpendingHandler wires the finances endpoints. layoutPath optionally
// points at a YAML layout for the xlsx export; empty means the built-in
// layout.
func NewSpendingHandler(svc service.SpendingService, layoutPath string) *SpendingHandler {
	return &SpendingHandler{svc: svc, layoutPath: layoutPath}
}

type createSpendingRequest struct {
	ItemName      string  `json:"item_name"`
	Category      string  `json:"category"`
	CostPrice     float64 `json:"cost_price"`
	ShippingFee   float64 `json:"shipping_fee"`
	Quantity      int     `json:"quantity"`
	TotalSpending float64 `json:"total_spending"`
	CostPerItem   float64 `json:"cost_per_item"`
}

// CreateHandler handles POST /spending.
func (h *SpendingHandler) CreateHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}

	var req createSpendingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ItemName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "item_name is required")
	}

	entry := &domain.Spending{
		ItemName:      req.ItemName,
		Category:      req.Category,
		CostPrice:     req.CostPrice,
		ShippingFee:   req.ShippingFee,
		Quantity:      req.Quantity,
		TotalSpending: req.TotalSpending,
		CostPerItem:   req.CostPerItem,
	}

	created, err := h.svc.Create(ctx, owner, entry)
	if err != nil {
		logger.ErrorLog(ctx, "failed to create spending entry: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to create spending entry", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "spending entry created", created)
}

// ListHandler handles GET /spending.
func (h *SpendingHandler) ListHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}

	entries, err := h.svc.List(ctx, owner)
	if err != nil {
		logger.ErrorLog(ctx, "failed to list spending: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to list spending", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", entries)
}

// ReportHandler handles GET /spending/report and streams an xlsx
// download.
func (h *SpendingHandler) ReportHandler(c echo.Context) error {
	ctx := c.Request().Context()

	owner, err := ownerParam(c)
	if err != nil {
		return err
	}

	entries, err := h.svc.List(ctx, owner)
	if err != nil {
		logger.ErrorLog(ctx, "failed to list spending for report: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to build report", err)
	}

	layout := report.DefaultLayout()
	if h.layoutPath != "" {
		layout, err = report.LoadLayout(h.layoutPath)
		if err != nil {
			return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to read report layout", err)
		}
	}

	buf, err := report.BuildSpendingReport(entries, layout)
	if err != nil {
		logger.ErrorLog(ctx, "failed to build spending report: %v", err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to build report", err)
	}

	filename := fmt.Sprintf("spending_%s.xlsx", time.Now().Format(domain.DateLayout))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(buf.Len()))

	_, err = c.Response().Write(buf.Bytes())
	return err
}
