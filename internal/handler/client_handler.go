package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/arqdesk/backoffice/internal/middleware"
	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/internal/repository"
)

// scopedOffice returns the office id of the request's security context.
// Routes using it are mounted behind RequireOffice, so an unscoped context
// here means a wiring mistake rather than a user error.
func scopedOffice(c echo.Context) (uint, error) {
	sc, err := middleware.ContextFrom(c)
	if err != nil {
		return 0, err
	}
	if !sc.Scoped() {
		return 0, fmt.Errorf("%w: office selection required", model.ErrBadRequest)
	}
	return *sc.OfficeID, nil
}

// ClientHandler exposes office-scoped client CRUD.
type ClientHandler struct {
	clients *repository.ClientRepository
}

func NewClientHandler(clients *repository.ClientRepository) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func (h *ClientHandler) List(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}

	filter := repository.ClientFilter{Search: c.QueryParam("search")}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(c.QueryParam("per_page")); err == nil {
		filter.PerPage = perPage
	}

	clients, total, err := h.clients.List(c.Request().Context(), officeID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"clients": clients,
		"total":   total,
	})
}

func (h *ClientHandler) Get(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.clients.Get(c.Request().Context(), officeID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

type clientRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=150"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty"`
	NationalID string `json:"national_id,omitempty"`
	Address    string `json:"address,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func (h *ClientHandler) Create(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client := &model.Client{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		NationalID: req.NationalID,
		Address:    req.Address,
		Notes:      req.Notes,
		Active:     true,
	}
	if err := h.clients.Create(c.Request().Context(), officeID, client); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Update(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client, err := h.clients.Get(c.Request().Context(), officeID, id)
	if err != nil {
		return err
	}
	client.Name = req.Name
	client.Email = req.Email
	client.Phone = req.Phone
	client.NationalID = req.NationalID
	client.Address = req.Address
	client.Notes = req.Notes

	if err := h.clients.Update(c.Request().Context(), officeID, client); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.clients.Delete(c.Request().Context(), officeID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "client deleted"})
}
