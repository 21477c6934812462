package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arqdesk/backoffice/internal/middleware"
	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/internal/repository"
)

// FinancialHandler exposes office-scoped financial entries.
type FinancialHandler struct {
	entries *repository.FinancialRepository
}

func NewFinancialHandler(entries *repository.FinancialRepository) *FinancialHandler {
	return &FinancialHandler{entries: entries}
}

func (h *FinancialHandler) List(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}

	filter := repository.FinancialFilter{Kind: c.QueryParam("kind")}
	if raw := c.QueryParam("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid project_id")
		}
		projectID := uint(id)
		filter.ProjectID = &projectID
	}
	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		filter.From = &t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		filter.To = &t
	}

	entries, err := h.entries.List(c.Request().Context(), officeID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *FinancialHandler) Get(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	entry, err := h.entries.Get(c.Request().Context(), officeID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

type financialRequest struct {
	ProjectID   *uint      `json:"project_id,omitempty"`
	Description string     `json:"description" validate:"required,min=2,max=255"`
	Amount      float64    `json:"amount" validate:"required"`
	Kind        string     `json:"kind" validate:"required,oneof=income expense"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

func (h *FinancialHandler) Create(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}

	var req financialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry := &model.FinancialEntry{
		ProjectID:   req.ProjectID,
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        req.Kind,
		DueDate:     req.DueDate,
		PaidAt:      req.PaidAt,
	}
	if err := h.entries.Create(c.Request().Context(), officeID, entry); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *FinancialHandler) Update(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}

	var req financialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry, err := h.entries.Get(c.Request().Context(), officeID, id)
	if err != nil {
		return err
	}
	entry.ProjectID = req.ProjectID
	entry.Description = req.Description
	entry.Amount = req.Amount
	entry.Kind = req.Kind
	entry.DueDate = req.DueDate
	entry.PaidAt = req.PaidAt

	if err := h.entries.Update(c.Request().Context(), officeID, entry); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *FinancialHandler) Delete(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.entries.Delete(c.Request().Context(), officeID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "entry deleted"})
}
