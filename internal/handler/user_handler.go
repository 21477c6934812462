package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/arqdesk/backoffice/internal/middleware"
	"github.com/arqdesk/backoffice/internal/service"
	"github.com/arqdesk/backoffice/pkg/logger"
	"github.com/arqdesk/backoffice/prometheus"
)

// UserHandler exposes registration and profile maintenance.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type registerRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=150"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6,max=72"`
	NationalID *string `json:"national_id,omitempty"`
	Profile    string  `json:"profile,omitempty"`
}

func (h *UserHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		NationalID: req.NationalID,
		Profile:    req.Profile,
	})
	if err != nil {
		return err
	}

	log.Info("User registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	sc, err := middleware.ContextFrom(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), sc.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	PhotoURL string `json:"photo_url,omitempty"`
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	sc, err := middleware.ContextFrom(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), sc.UserID, service.UpdateProfileInput{
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	sc, err := middleware.ContextFrom(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.ChangePassword(c.Request().Context(), sc.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// Delete removes a user. Soft by default; ?permanent=true also removes the
// row and its membership links. System-admin only.
func (h *UserHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	permanent := c.QueryParam("permanent") == "true"

	if err := h.users.Delete(c.Request().Context(), id, permanent); err != nil {
		return err
	}

	log.Info("User deleted", zap.Uint("user_id", id), zap.Bool("permanent", permanent))
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
