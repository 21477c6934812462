package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arqdesk/backoffice/internal/middleware"
	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/internal/repository"
)

// PlanningHandler exposes the service → stage → task chain under projects.
type PlanningHandler struct {
	planning *repository.PlanningRepository
}

func NewPlanningHandler(planning *repository.PlanningRepository) *PlanningHandler {
	return &PlanningHandler{planning: planning}
}

// --- services ---

func (h *PlanningHandler) ListServices(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	projectID, err := middleware.ParamID(c, "project_id")
	if err != nil {
		return err
	}
	services, err := h.planning.ListServices(c.Request().Context(), officeID, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, services)
}

type serviceRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Position int    `json:"position,omitempty"`
}

func (h *PlanningHandler) CreateService(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	projectID, err := middleware.ParamID(c, "project_id")
	if err != nil {
		return err
	}

	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	service := &model.Service{Name: req.Name, Position: req.Position}
	if err := h.planning.CreateService(c.Request().Context(), officeID, projectID, service); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, service)
}

func (h *PlanningHandler) DeleteService(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.planning.DeleteService(c.Request().Context(), officeID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "service deleted"})
}

// --- stages ---

func (h *PlanningHandler) ListStages(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	serviceID, err := middleware.ParamID(c, "service_id")
	if err != nil {
		return err
	}
	stages, err := h.planning.ListStages(c.Request().Context(), officeID, serviceID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stages)
}

type stageRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Position int    `json:"position,omitempty"`
	Done     bool   `json:"done,omitempty"`
}

func (h *PlanningHandler) CreateStage(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	serviceID, err := middleware.ParamID(c, "service_id")
	if err != nil {
		return err
	}

	var req stageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	stage := &model.Stage{Name: req.Name, Position: req.Position, Done: req.Done}
	if err := h.planning.CreateStage(c.Request().Context(), officeID, serviceID, stage); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, stage)
}

func (h *PlanningHandler) UpdateStage(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	serviceID, err := middleware.ParamID(c, "service_id")
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}

	var req stageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	stage := &model.Stage{
		ID:       id,
		Name:     req.Name,
		Position: req.Position,
		Done:     req.Done,
	}
	if err := h.planning.UpdateStage(c.Request().Context(), officeID, serviceID, stage); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stage)
}

func (h *PlanningHandler) DeleteStage(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	serviceID, err := middleware.ParamID(c, "service_id")
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.planning.DeleteStage(c.Request().Context(), officeID, serviceID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "stage deleted"})
}

// --- tasks ---

func (h *PlanningHandler) ListTasks(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	stageID, err := middleware.ParamID(c, "stage_id")
	if err != nil {
		return err
	}
	tasks, err := h.planning.ListTasks(c.Request().Context(), officeID, stageID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

type taskRequest struct {
	Name       string     `json:"name" validate:"required,min=2,max=200"`
	AssigneeID *uint      `json:"assignee_id,omitempty"`
	Done       bool       `json:"done,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

func (h *PlanningHandler) CreateTask(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	stageID, err := middleware.ParamID(c, "stage_id")
	if err != nil {
		return err
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task := &model.Task{
		Name:       req.Name,
		AssigneeID: req.AssigneeID,
		Done:       req.Done,
		DueDate:    req.DueDate,
	}
	if err := h.planning.CreateTask(c.Request().Context(), officeID, stageID, task); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *PlanningHandler) UpdateTask(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	stageID, err := middleware.ParamID(c, "stage_id")
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task := &model.Task{
		ID:         id,
		Name:       req.Name,
		AssigneeID: req.AssigneeID,
		Done:       req.Done,
		DueDate:    req.DueDate,
	}
	if err := h.planning.UpdateTask(c.Request().Context(), officeID, stageID, task); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *PlanningHandler) DeleteTask(c echo.Context) error {
	officeID, err := scopedOffice(c)
	if err != nil {
		return err
	}
	stageID, err := middleware.ParamID(c, "stage_id")
	if err != nil {
		return err
	}
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.planning.DeleteTask(c.Request().Context(), officeID, stageID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "task deleted"})
}
