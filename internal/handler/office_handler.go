package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/arqdesk/backoffice/internal/middleware"
	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/internal/service"
	"github.com/arqdesk/backoffice/pkg/logger"
	"github.com/arqdesk/backoffice/prometheus"
)

// OfficeHandler exposes office provisioning, lifecycle and membership.
type OfficeHandler struct {
	offices *service.OfficeService
}

func NewOfficeHandler(offices *service.OfficeService) *OfficeHandler {
	return &OfficeHandler{offices: offices}
}

type createOfficeRequest struct {
	TradeName string  `json:"trade_name" validate:"required,min=2,max=150"`
	LegalName string  `json:"legal_name,omitempty"`
	TaxID     *string `json:"tax_id,omitempty"`
	Email     string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string  `json:"phone,omitempty"`
	Address   string  `json:"address,omitempty"`
	Color     string  `json:"color,omitempty"`

	Admin *struct {
		Name     string `json:"name" validate:"required,min=2,max=150"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6,max=72"`
	} `json:"admin,omitempty"`
}

// Create provisions an office, optionally with its first admin user.
func (h *OfficeHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOfficeOperation("create")

	var req createOfficeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	office := &model.Office{
		TradeName: req.TradeName,
		LegalName: req.LegalName,
		TaxID:     req.TaxID,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Color:     req.Color,
	}
	var admin *service.AdminInput
	if req.Admin != nil {
		admin = &service.AdminInput{
			Name:     req.Admin.Name,
			Email:    req.Admin.Email,
			Password: req.Admin.Password,
		}
	}

	created, err := h.offices.Create(c.Request().Context(), office, admin)
	if err != nil {
		return err
	}

	log.Info("Office created", zap.Uint("office_id", created.ID), zap.String("trade_name", created.TradeName))
	return c.JSON(http.StatusCreated, created)
}

func (h *OfficeHandler) List(c echo.Context) error {
	offices, err := h.offices.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	prometheus.UpdateActiveOffices(len(offices))
	return c.JSON(http.StatusOK, offices)
}

func (h *OfficeHandler) Get(c echo.Context) error {
	prometheus.RecordOfficeOperation("access")

	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	office, err := h.offices.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, office)
}

type updateOfficeRequest struct {
	TradeName string `json:"trade_name,omitempty" validate:"omitempty,min=2,max=150"`
	LegalName string `json:"legal_name,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Color     string `json:"color,omitempty"`
}

func (h *OfficeHandler) Update(c echo.Context) error {
	prometheus.RecordOfficeOperation("update")

	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}

	var req updateOfficeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	office, err := h.offices.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if req.TradeName != "" {
		office.TradeName = req.TradeName
	}
	if req.LegalName != "" {
		office.LegalName = req.LegalName
	}
	if req.Email != "" {
		office.Email = req.Email
	}
	if req.Phone != "" {
		office.Phone = req.Phone
	}
	if req.Address != "" {
		office.Address = req.Address
	}
	if req.Color != "" {
		office.Color = req.Color
	}

	if err := h.offices.Update(c.Request().Context(), office); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, office)
}

// Deactivate flips the office inactive and cascades to memberships and
// orphaned users.
func (h *OfficeHandler) Deactivate(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOfficeOperation("deactivate")

	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.offices.Deactivate(c.Request().Context(), id); err != nil {
		return err
	}

	log.Info("Office deactivated", zap.Uint("office_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "office deactivated"})
}

func (h *OfficeHandler) ListMembers(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	members, err := h.offices.ListMembers(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}

type addMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

func (h *OfficeHandler) AddMember(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOfficeOperation("add_member")

	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}

	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.offices.AddMember(c.Request().Context(), id, req.Email, req.Role)
	if err != nil {
		return err
	}

	log.Info("Member added",
		zap.Uint("office_id", id),
		zap.Uint("user_id", m.UserID),
		zap.String("role", m.Role.String()))
	return c.JSON(http.StatusCreated, m)
}

func (h *OfficeHandler) RemoveMember(c echo.Context) error {
	prometheus.RecordOfficeOperation("remove_member")

	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	userID, err := middleware.ParamID(c, "user_id")
	if err != nil {
		return err
	}
	role := c.QueryParam("role")

	if err := h.offices.RemoveMember(c.Request().Context(), id, userID, role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "member removed"})
}
