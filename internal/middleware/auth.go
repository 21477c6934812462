package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/internal/service"
	"github.com/arqdesk/backoffice/pkg/logger"
	"github.com/arqdesk/backoffice/pkg/token"
	"github.com/arqdesk/backoffice/prometheus"
)

const securityContextKey = "security_context"

// Guard hosts the per-request access decisions. Authenticate builds one
// immutable SecurityContext from the bearer token; the Require* middleware
// read that context and nothing else.
type Guard struct {
	codec       *token.Codec
	users       service.UserStore
	memberships service.MembershipStore
}

func NewGuard(codec *token.Codec, users service.UserStore, memberships service.MembershipStore) *Guard {
	return &Guard{codec: codec, users: users, memberships: memberships}
}

// ContextFrom returns the SecurityContext placed by Authenticate.
func ContextFrom(c echo.Context) (model.SecurityContext, error) {
	sc, ok := c.Get(securityContextKey).(model.SecurityContext)
	if !ok {
		return model.SecurityContext{}, model.ErrUnauthorized
	}
	return sc, nil
}

// Authenticate validates the bearer access token, re-checks that the user
// still exists and is active, and stores the resolved SecurityContext.
func (g *Guard) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			prometheus.RecordAuthError("missing_token")
			return fmt.Errorf("%w: missing authorization token", model.ErrUnauthorized)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			prometheus.RecordAuthError("invalid_auth_format")
			return fmt.Errorf("%w: invalid authorization format, expected Bearer token", model.ErrUnauthorized)
		}

		claims, err := g.codec.Decode(parts[1], token.KindAccess)
		if err != nil {
			log.Warn("Invalid access token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return model.ErrInvalidToken
		}
		userID, err := claims.UserID()
		if err != nil {
			prometheus.RecordAuthError("invalid_token")
			return model.ErrInvalidToken
		}

		user, err := g.users.FindByID(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				prometheus.RecordAuthError("user_not_found")
				return model.ErrUnauthorized
			}
			return err
		}
		if !user.Active {
			prometheus.RecordAuthError("user_inactive")
			return model.ErrUnauthorized
		}

		role := model.Role(claims.Role)
		if normalized, ok := model.NormalizeRole(claims.Role); ok {
			role = normalized
		}
		sc := model.SecurityContext{
			UserID:        user.ID,
			Email:         claims.Email,
			OfficeID:      claims.OfficeID,
			Role:          role,
			IsSystemAdmin: claims.IsSystemAdmin,
			IsAdminMode:   claims.IsAdminMode,
		}
		c.Set(securityContextKey, sc)

		return next(c)
	}
}

// RequireOffice blocks requests whose context carries no office selection.
// Admin mode is categorically rejected here: office-scoped endpoints are
// unreachable without a tenant.
func RequireOffice(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sc, err := ContextFrom(c)
		if err != nil {
			return err
		}
		if !sc.Scoped() {
			return fmt.Errorf("%w: office selection required", model.ErrBadRequest)
		}
		return next(c)
	}
}

// RequireSystemAdmin admits only system admins. It is independent of admin
// mode: a system admin keeps admin-only privileges while inside an office.
func RequireSystemAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sc, err := ContextFrom(c)
		if err != nil {
			return err
		}
		if !sc.IsSystemAdmin {
			return fmt.Errorf("%w: system admin required", model.ErrForbidden)
		}
		return next(c)
	}
}

// RequireOfficeAccess checks the office id in the path against the caller's
// context. The token's office id is trusted here: it was only ever set by a
// live membership check, and access tokens are short-lived.
func RequireOfficeAccess(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc, err := ContextFrom(c)
			if err != nil {
				return err
			}
			officeID, err := ParamID(c, param)
			if err != nil {
				return err
			}
			if !sc.CanAccessOffice(officeID) {
				return fmt.Errorf("%w: access denied to office", model.ErrForbidden)
			}
			return next(c)
		}
	}
}

// EditAccess additionally requires an admin-equivalent role in the office.
// When the context role is not admin, the live membership rows get one more
// chance, covering tokens minted before a role change.
func (g *Guard) EditAccess(ctx context.Context, sc model.SecurityContext, officeID uint) error {
	if sc.IsSystemAdmin {
		return nil
	}
	if !sc.CanAccessOffice(officeID) {
		return fmt.Errorf("%w: access denied to office", model.ErrForbidden)
	}
	if sc.Role.IsAdmin() {
		return nil
	}
	rows, err := g.memberships.ListActiveByUserOffice(ctx, sc.UserID, officeID)
	if err != nil {
		return err
	}
	for _, m := range rows {
		if m.Role.IsAdmin() {
			return nil
		}
	}
	return fmt.Errorf("%w: office admin role required", model.ErrForbidden)
}

// RequireOfficeEditAccess is EditAccess as route middleware keyed on a path
// parameter.
func (g *Guard) RequireOfficeEditAccess(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc, err := ContextFrom(c)
			if err != nil {
				return err
			}
			officeID, err := ParamID(c, param)
			if err != nil {
				return err
			}
			if err := g.EditAccess(c.Request().Context(), sc, officeID); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// ParamID parses a numeric path parameter.
func ParamID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", model.ErrBadRequest, name)
	}
	return uint(id), nil
}
