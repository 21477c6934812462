package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/pkg/token"
)

// AuthService resolves the security context: it authenticates credentials,
// lists the offices a user may enter, and mints context-bound tokens.
//
// Sessions move through three states: unauthenticated, authenticated without
// an office, and authenticated inside one office (or in admin mode). Login
// produces the middle state; SetContext produces the last; Refresh always
// falls back to the middle one.
type AuthService struct {
	users       UserStore
	offices     OfficeStore
	memberships MembershipStore
	codec       *token.Codec
}

func NewAuthService(users UserStore, offices OfficeStore, memberships MembershipStore, codec *token.Codec) *AuthService {
	return &AuthService{users: users, offices: offices, memberships: memberships, codec: codec}
}

// OfficeOption is one selectable office in the login response. Role is empty
// for system admins, who choose a label at selection time.
type OfficeOption struct {
	ID        uint   `json:"id"`
	TradeName string `json:"trade_name"`
	LegalName string `json:"legal_name"`
	Color     string `json:"color"`
	Role      string `json:"role,omitempty"`
}

// LoginResult is the authenticated-unscoped state handed back to the client.
type LoginResult struct {
	User                    *model.User
	AccessToken             string
	RefreshToken            string
	IsSystemAdmin           bool
	RequiresOfficeSelection bool
	Offices                 []OfficeOption
}

// ContextResult is the outcome of a context selection.
type ContextResult struct {
	AccessToken string
	OfficeID    *uint
	Role        string
	IsAdminMode bool
}

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", model.ErrUnauthorized)

// Login verifies credentials and returns the unscoped token pair plus the
// selectable offices. Unknown email, wrong password and inactive account all
// fail identically so account existence never leaks.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.Active || !token.CheckPassword(password, user.Password) {
		return nil, errInvalidCredentials
	}

	isSystemAdmin := user.SystemAdmin()

	var options []OfficeOption
	if isSystemAdmin {
		offices, err := s.offices.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		for _, o := range offices {
			options = append(options, OfficeOption{
				ID:        o.ID,
				TradeName: o.TradeName,
				LegalName: o.LegalName,
				Color:     o.Color,
			})
		}
	} else {
		rows, err := s.memberships.ListActiveByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		options = collapseMemberships(rows)
	}

	sc := model.SecurityContext{
		UserID:        user.ID,
		Email:         user.Email,
		IsSystemAdmin: isSystemAdmin,
	}
	accessToken, err := s.codec.EncodeAccess(sc)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.EncodeRefresh(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:                    user,
		AccessToken:             accessToken,
		RefreshToken:            refreshToken,
		IsSystemAdmin:           isSystemAdmin,
		RequiresOfficeSelection: isSystemAdmin || len(options) > 1,
		Offices:                 options,
	}, nil
}

// collapseMemberships folds multi-role rows into one option per office with
// the resolved session role.
func collapseMemberships(rows []model.Membership) []OfficeOption {
	byOffice := make(map[uint][]model.Membership)
	var order []uint
	for _, m := range rows {
		if _, seen := byOffice[m.OfficeID]; !seen {
			order = append(order, m.OfficeID)
		}
		byOffice[m.OfficeID] = append(byOffice[m.OfficeID], m)
	}

	var options []OfficeOption
	for _, officeID := range order {
		group := byOffice[officeID]
		role, _ := model.ResolveRole(group)
		office := group[0].Office
		options = append(options, OfficeOption{
			ID:        officeID,
			TradeName: office.TradeName,
			LegalName: office.LegalName,
			Color:     office.Color,
			Role:      role.String(),
		})
	}
	return options
}

// SetContext mints a scoped access token for the chosen office, or an
// admin-mode token when officeID is nil.
//
// A regular user's requested role is ignored: the session role always comes
// from the live membership row, so the token reflects actual permissions
// rather than a claimed label. A system admin has no membership rows at all
// and may pick any label; that label never drives authorization.
func (s *AuthService) SetContext(ctx context.Context, userID uint, officeID *uint, requestedRole string) (*ContextResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrUnauthorized
		}
		return nil, err
	}
	if !user.Active {
		return nil, model.ErrUnauthorized
	}
	isSystemAdmin := user.SystemAdmin()

	if officeID == nil {
		if !isSystemAdmin {
			return nil, fmt.Errorf("%w: admin mode requires a system admin", model.ErrUnauthorized)
		}
		sc := model.SecurityContext{
			UserID:        user.ID,
			Email:         user.Email,
			IsSystemAdmin: true,
			IsAdminMode:   true,
		}
		accessToken, err := s.codec.EncodeAccess(sc)
		if err != nil {
			return nil, err
		}
		return &ContextResult{AccessToken: accessToken, IsAdminMode: true}, nil
	}

	office, err := s.offices.FindByID(ctx, *officeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("%w: office not available", model.ErrUnauthorized)
		}
		return nil, err
	}
	if !office.Active {
		return nil, fmt.Errorf("%w: office not available", model.ErrUnauthorized)
	}

	var role string
	if isSystemAdmin {
		// Admins carry whatever label they asked for; it is cosmetic.
		role = requestedRole
		if normalized, ok := model.NormalizeRole(requestedRole); ok {
			role = normalized.String()
		}
		if role == "" {
			role = model.RoleAdmin.String()
		}
	} else {
		rows, err := s.memberships.ListActiveByUserOffice(ctx, user.ID, office.ID)
		if err != nil {
			return nil, err
		}
		resolved, ok := model.ResolveRole(rows)
		if !ok {
			return nil, fmt.Errorf("%w: office not in user memberships", model.ErrUnauthorized)
		}
		role = resolved.String()
	}

	sc := model.SecurityContext{
		UserID:        user.ID,
		Email:         user.Email,
		OfficeID:      officeID,
		Role:          model.Role(role),
		IsSystemAdmin: isSystemAdmin,
	}
	accessToken, err := s.codec.EncodeAccess(sc)
	if err != nil {
		return nil, err
	}
	return &ContextResult{
		AccessToken: accessToken,
		OfficeID:    officeID,
		Role:        role,
	}, nil
}

// Refresh exchanges a refresh token for a fresh unscoped access token. The
// office context is deliberately dropped: every scoped token must come from
// an explicit, freshly checked selection.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.Decode(refreshToken, token.KindRefresh)
	if err != nil {
		return "", err
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", model.ErrUnauthorized
		}
		return "", err
	}
	if !user.Active {
		return "", model.ErrUnauthorized
	}

	sc := model.SecurityContext{
		UserID:        user.ID,
		Email:         user.Email,
		IsSystemAdmin: user.SystemAdmin(),
	}
	return s.codec.EncodeAccess(sc)
}
