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

// AuthHandler exposes login, context selection and refresh.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates credentials and returns the unscoped token pair plus
// the offices the user may select.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		prometheus.RecordAuthError("login_failure")
		return err
	}

	log.Info("User logged in",
		zap.String("email", result.User.Email),
		zap.Bool("is_system_admin", result.IsSystemAdmin))

	offices := result.Offices
	if offices == nil {
		offices = []service.OfficeOption{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":                  result.AccessToken,
		"refresh_token":                 result.RefreshToken,
		"is_system_admin":               result.IsSystemAdmin,
		"requires_escritorio_selection": result.RequiresOfficeSelection,
		"escritorios":                   offices,
		"user": echo.Map{
			"id":    result.User.ID,
			"name":  result.User.Name,
			"email": result.User.Email,
		},
	})
}

type setContextRequest struct {
	OfficeID *uint  `json:"escritorio_id"`
	Role     string `json:"perfil"`
}

// SetContext mints a scoped access token for the chosen office, or an
// admin-mode token when escritorio_id is null.
func (h *AuthHandler) SetContext(c echo.Context) error {
	log := logger.FromEcho(c)

	sc, err := middleware.ContextFrom(c)
	if err != nil {
		return err
	}

	var req setContextRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	result, err := h.auth.SetContext(c.Request().Context(), sc.UserID, req.OfficeID, req.Role)
	if err != nil {
		prometheus.RecordAuthError("context_selection_failure")
		return err
	}

	if result.IsAdminMode {
		prometheus.RecordContextSelection("admin")
		log.Info("Admin mode selected", zap.Uint("user_id", sc.UserID))
	} else {
		prometheus.RecordContextSelection("office")
		log.Info("Office context selected",
			zap.Uint("user_id", sc.UserID),
			zap.Uint("office_id", *result.OfficeID),
			zap.String("role", result.Role))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  result.AccessToken,
		"escritorio_id": result.OfficeID,
		"perfil":        result.Role,
		"is_admin_mode": result.IsAdminMode,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a refresh token for a new unscoped access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return err
	}

	accessToken, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		prometheus.RecordAuthError("refresh_failure")
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
	})
}
