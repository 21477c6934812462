package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arqdesk/backoffice/internal/middleware"
	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/internal/repository"
)

// ProjectHandler exposes office-scoped project CRUD.
type ProjectHandler struct {
	projects *repository.ProjectRepository
}

func NewProjectHandler(projects *repository.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) List(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	projects, err := h.projects.List(c.Request().Context(), officeID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Get(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	project, err := h.projects.Get(c.Request().Context(), officeID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

type projectRequest struct {
	ClientID  uint       `json:"client_id" validate:"required"`
	Name      string     `json:"name" validate:"required,min=2,max=200"`
	Status    string     `json:"status,omitempty"`
	Area      float64    `json:"area,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

func (h *ProjectHandler) Create(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project := &model.Project{
		ClientID:  req.ClientID,
		Name:      req.Name,
		Status:    req.Status,
		Area:      req.Area,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	}
	if err := h.projects.Create(c.Request().Context(), officeID, project); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projects.Get(c.Request().Context(), officeID, id)
	if err != nil {
		return err
	}
	project.ClientID = req.ClientID
	project.Name = req.Name
	project.Status = req.Status
	project.Area = req.Area
	project.StartDate = req.StartDate
	project.EndDate = req.EndDate
	project.Notes = req.Notes
	project.Client = model.Client{}

	if err := h.projects.Update(c.Request().Context(), officeID, project); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.projects.Delete(c.Request().Context(), officeID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "project deleted"})
}
