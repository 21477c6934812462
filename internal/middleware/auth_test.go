package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/pkg/token"
)

type stubUsers struct {
	users map[uint]*model.User
}

func (s *stubUsers) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *stubUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *stubUsers) FindByNationalID(context.Context, string) (*model.User, error) {
	return nil, model.ErrNotFound
}

func (s *stubUsers) Create(context.Context, *model.User) error { return nil }
func (s *stubUsers) Update(context.Context, *model.User) error { return nil }
func (s *stubUsers) Delete(context.Context, uint, bool) error  { return nil }

type stubMemberships struct {
	rows []model.Membership
}

func (s *stubMemberships) ListActiveByUser(_ context.Context, userID uint) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range s.rows {
		if m.UserID == userID && m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMemberships) ListActiveByUserOffice(_ context.Context, userID, officeID uint) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range s.rows {
		if m.UserID == userID && m.OfficeID == officeID && m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMemberships) ListByOffice(context.Context, uint) ([]model.Membership, error) {
	return nil, nil
}

func (s *stubMemberships) Add(context.Context, *model.Membership) error { return nil }
func (s *stubMemberships) Remove(context.Context, uint, uint, model.Role) error {
	return nil
}

func testGuard(users *stubUsers, memberships *stubMemberships) (*Guard, *token.Codec) {
	codec := token.NewCodec("test-key", 30*time.Minute, 7*24*time.Hour)
	if memberships == nil {
		memberships = &stubMemberships{}
	}
	return NewGuard(codec, users, memberships), codec
}

func newContext(authorization string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestAuthenticateSetsSecurityContext(t *testing.T) {
	users := &stubUsers{users: map[uint]*model.User{
		42: {ID: 42, Email: "ana@studio.com", Active: true},
	}}
	guard, codec := testGuard(users, nil)

	officeID := uint(7)
	raw, err := codec.EncodeAccess(model.SecurityContext{
		UserID:   42,
		Email:    "ana@studio.com",
		OfficeID: &officeID,
		Role:     model.RoleProduction,
	})
	if err != nil {
		t.Fatalf("EncodeAccess: %v", err)
	}

	c := newContext("Bearer " + raw)
	if err := guard.Authenticate(okHandler)(c); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	sc, err := ContextFrom(c)
	if err != nil {
		t.Fatalf("ContextFrom: %v", err)
	}
	if sc.UserID != 42 || sc.Email != "ana@studio.com" {
		t.Errorf("context = %+v", sc)
	}
	if sc.OfficeID == nil || *sc.OfficeID != 7 || sc.Role != model.RoleProduction {
		t.Errorf("office context = %+v", sc)
	}
}

func TestAuthenticateRejectsMissingAndMalformedHeader(t *testing.T) {
	guard, _ := testGuard(&stubUsers{users: map[uint]*model.User{}}, nil)

	if err := guard.Authenticate(okHandler)(newContext("")); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("missing header: %v", err)
	}
	if err := guard.Authenticate(okHandler)(newContext("Token abc")); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("wrong scheme: %v", err)
	}
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	users := &stubUsers{users: map[uint]*model.User{
		42: {ID: 42, Email: "ana@studio.com", Active: true},
	}}
	guard, codec := testGuard(users, nil)

	refresh, err := codec.EncodeRefresh(42, "ana@studio.com")
	if err != nil {
		t.Fatalf("EncodeRefresh: %v", err)
	}
	if err := guard.Authenticate(okHandler)(newContext("Bearer " + refresh)); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token, err = %v", err)
	}
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	guard, _ := testGuard(&stubUsers{users: map[uint]*model.User{}}, nil)

	forged := token.NewCodec("attacker-key", 30*time.Minute, 7*24*time.Hour)
	raw, err := forged.EncodeAccess(model.SecurityContext{UserID: 42, Email: "ana@studio.com"})
	if err != nil {
		t.Fatalf("EncodeAccess: %v", err)
	}
	if err := guard.Authenticate(okHandler)(newContext("Bearer " + raw)); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("forged token accepted, err = %v", err)
	}
}

func TestAuthenticateRejectsDeletedOrInactiveUser(t *testing.T) {
	users := &stubUsers{users: map[uint]*model.User{
		7: {ID: 7, Email: "off@studio.com", Active: false},
	}}
	guard, codec := testGuard(users, nil)

	gone, err := codec.EncodeAccess(model.SecurityContext{UserID: 42, Email: "gone@studio.com"})
	if err != nil {
		t.Fatalf("EncodeAccess: %v", err)
	}
	if err := guard.Authenticate(okHandler)(newContext("Bearer " + gone)); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("deleted user passed, err = %v", err)
	}

	inactive, err := codec.EncodeAccess(model.SecurityContext{UserID: 7, Email: "off@studio.com"})
	if err != nil {
		t.Fatalf("EncodeAccess: %v", err)
	}
	if err := guard.Authenticate(okHandler)(newContext("Bearer " + inactive)); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("inactive user passed, err = %v", err)
	}
}

func TestRequireOffice(t *testing.T) {
	officeID := uint(3)

	c := newContext("")
	c.Set(securityContextKey, model.SecurityContext{UserID: 1, OfficeID: &officeID})
	if err := RequireOffice(okHandler)(c); err != nil {
		t.Errorf("scoped context rejected: %v", err)
	}

	c = newContext("")
	c.Set(securityContextKey, model.SecurityContext{UserID: 1})
	if err := RequireOffice(okHandler)(c); !errors.Is(err, model.ErrBadRequest) {
		t.Errorf("unscoped context passed, err = %v", err)
	}

	// Admin mode is not an office selection.
	c = newContext("")
	c.Set(securityContextKey, model.SecurityContext{UserID: 1, IsSystemAdmin: true, IsAdminMode: true})
	if err := RequireOffice(okHandler)(c); !errors.Is(err, model.ErrBadRequest) {
		t.Errorf("admin mode passed an office-scoped route, err = %v", err)
	}
}

func TestRequireSystemAdmin(t *testing.T) {
	c := newContext("")
	c.Set(securityContextKey, model.SecurityContext{UserID: 1, IsSystemAdmin: true})
	if err := RequireSystemAdmin(okHandler)(c); err != nil {
		t.Errorf("system admin rejected: %v", err)
	}

	c = newContext("")
	c.Set(securityContextKey, model.SecurityContext{UserID: 1})
	if err := RequireSystemAdmin(okHandler)(c); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("regular user passed, err = %v", err)
	}
}

func TestRequireOfficeAccess(t *testing.T) {
	officeID := uint(5)
	mw := RequireOfficeAccess("id")

	run := func(sc model.SecurityContext, param string) error {
		c := newContext("")
		c.SetParamNames("id")
		c.SetParamValues(param)
		c.Set(securityContextKey, sc)
		return mw(okHandler)(c)
	}

	if err := run(model.SecurityContext{UserID: 1, OfficeID: &officeID}, "5"); err != nil {
		t.Errorf("member denied its own office: %v", err)
	}
	if err := run(model.SecurityContext{UserID: 1, OfficeID: &officeID}, "6"); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("member passed into a foreign office, err = %v", err)
	}
	if err := run(model.SecurityContext{UserID: 1, IsSystemAdmin: true}, "6"); err != nil {
		t.Errorf("system admin denied: %v", err)
	}
	if err := run(model.SecurityContext{UserID: 1, OfficeID: &officeID}, "abc"); !errors.Is(err, model.ErrBadRequest) {
		t.Errorf("bad param, err = %v", err)
	}
}

func TestEditAccessFallsBackToLiveMembership(t *testing.T) {
	officeID := uint(5)
	memberships := &stubMemberships{rows: []model.Membership{
		{UserID: 1, OfficeID: 5, Role: model.RoleAdmin, Active: true},
	}}
	guard, _ := testGuard(&stubUsers{users: map[uint]*model.User{}}, memberships)

	// Token minted before the admin role was granted.
	sc := model.SecurityContext{UserID: 1, OfficeID: &officeID, Role: model.RoleProduction}
	if err := guard.EditAccess(context.Background(), sc, 5); err != nil {
		t.Errorf("live admin membership not honored: %v", err)
	}

	// No admin row anywhere.
	memberships.rows = []model.Membership{
		{UserID: 1, OfficeID: 5, Role: model.RoleProduction, Active: true},
	}
	if err := guard.EditAccess(context.Background(), sc, 5); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("non-admin granted edit access, err = %v", err)
	}
}
