package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arqdesk/backoffice/internal/middleware"
	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/internal/repository"
)

// ProposalHandler exposes office-scoped proposal CRUD.
type ProposalHandler struct {
	proposals *repository.ProposalRepository
}

func NewProposalHandler(proposals *repository.ProposalRepository) *ProposalHandler {
	return &ProposalHandler{proposals: proposals}
}

func (h *ProposalHandler) List(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	proposals, err := h.proposals.List(c.Request().Context(), officeID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proposals)
}

func (h *ProposalHandler) Get(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	proposal, err := h.proposals.Get(c.Request().Context(), officeID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proposal)
}

type proposalRequest struct {
	ClientID uint       `json:"client_id" validate:"required"`
	Title    string     `json:"title" validate:"required,min=2,max=200"`
	Value    float64    `json:"value,omitempty"`
	Status   string     `json:"status,omitempty"`
	SentAt   *time.Time `json:"sent_at,omitempty"`
}

func (h *ProposalHandler) Create(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}

	var req proposalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	proposal := &model.Proposal{
		ClientID: req.ClientID,
		Title:    req.Title,
		Value:    req.Value,
		Status:   req.Status,
		SentAt:   req.SentAt,
	}
	if err := h.proposals.Create(c.Request().Context(), officeID, proposal); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, proposal)
}

func (h *ProposalHandler) Update(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}

	var req proposalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	proposal, err := h.proposals.Get(c.Request().Context(), officeID, id)
	if err != nil {
		return err
	}
	proposal.ClientID = req.ClientID
	proposal.Title = req.Title
	proposal.Value = req.Value
	proposal.Status = req.Status
	proposal.SentAt = req.SentAt
	proposal.Client = model.Client{}

	if err := h.proposals.Update(c.Request().Context(), officeID, proposal); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proposal)
}

func (h *ProposalHandler) Delete(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.proposals.Delete(c.Request().Context(), officeID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "proposal deleted"})
}
