package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/pkg/token"
)

// --- in-memory stores ---

type stubUserStore struct {
	users map[uint]*model.User
}

func (s *stubUserStore) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *stubUserStore) FindByNationalID(_ context.Context, nationalID string) (*model.User, error) {
	for _, u := range s.users {
		if u.NationalID != nil && *u.NationalID == nationalID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *stubUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return model.ErrConflict
		}
	}
	user.ID = uint(len(s.users) + 1)
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *stubUserStore) Update(_ context.Context, user *model.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return model.ErrNotFound
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *stubUserStore) Delete(_ context.Context, id uint, _ bool) error {
	if _, ok := s.users[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type stubOfficeStore struct {
	offices map[uint]*model.Office
}

func (s *stubOfficeStore) FindByID(_ context.Context, id uint) (*model.Office, error) {
	o, ok := s.offices[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *stubOfficeStore) ListActive(_ context.Context) ([]model.Office, error) {
	var out []model.Office
	for id := uint(1); id <= uint(len(s.offices))+10; id++ {
		if o, ok := s.offices[id]; ok && o.Active {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOfficeStore) Create(_ context.Context, office *model.Office) error {
	office.ID = uint(len(s.offices) + 1)
	copied := *office
	s.offices[office.ID] = &copied
	return nil
}

func (s *stubOfficeStore) Update(_ context.Context, office *model.Office) error {
	if _, ok := s.offices[office.ID]; !ok {
		return model.ErrNotFound
	}
	copied := *office
	s.offices[office.ID] = &copied
	return nil
}

func (s *stubOfficeStore) CreateWithAdmin(ctx context.Context, office *model.Office, admin *model.User) error {
	return s.Create(ctx, office)
}

func (s *stubOfficeStore) Deactivate(_ context.Context, id uint) error {
	o, ok := s.offices[id]
	if !ok {
		return model.ErrNotFound
	}
	o.Active = false
	return nil
}

type stubMembershipStore struct {
	rows []model.Membership
}

func (s *stubMembershipStore) ListActiveByUser(_ context.Context, userID uint) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range s.rows {
		if m.UserID == userID && m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMembershipStore) ListActiveByUserOffice(_ context.Context, userID, officeID uint) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range s.rows {
		if m.UserID == userID && m.OfficeID == officeID && m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMembershipStore) ListByOffice(_ context.Context, officeID uint) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range s.rows {
		if m.OfficeID == officeID && m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMembershipStore) Add(_ context.Context, m *model.Membership) error {
	for _, existing := range s.rows {
		if existing.UserID == m.UserID && existing.OfficeID == m.OfficeID && existing.Role == m.Role && existing.Active {
			return model.ErrConflict
		}
	}
	m.ID = uint(len(s.rows) + 1)
	s.rows = append(s.rows, *m)
	return nil
}

func (s *stubMembershipStore) Remove(_ context.Context, userID, officeID uint, role model.Role) error {
	for i, m := range s.rows {
		if m.UserID == userID && m.OfficeID == officeID && m.Role == role && m.Active {
			s.rows[i].Active = false
			return nil
		}
	}
	return model.ErrNotFound
}

// --- fixtures ---

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := token.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}

type fixture struct {
	users       *stubUserStore
	offices     *stubOfficeStore
	memberships *stubMembershipStore
	codec       *token.Codec
	auth        *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:       &stubUserStore{users: make(map[uint]*model.User)},
		offices:     &stubOfficeStore{offices: make(map[uint]*model.Office)},
		memberships: &stubMembershipStore{},
		codec:       token.NewCodec("test-key", 30*time.Minute, 7*24*time.Hour),
	}
	f.auth = NewAuthService(f.users, f.offices, f.memberships, f.codec)
	return f
}

func (f *fixture) addUser(u model.User) *model.User {
	u.ID = uint(len(f.users.users) + 1)
	copied := u
	f.users.users[u.ID] = &copied
	return &copied
}

func (f *fixture) addOffice(o model.Office) *model.Office {
	o.ID = uint(len(f.offices.offices) + 1)
	copied := o
	f.offices.offices[o.ID] = &copied
	return &copied
}

func (f *fixture) addMembership(m model.Membership) {
	m.ID = uint(len(f.memberships.rows) + 1)
	f.memberships.rows = append(f.memberships.rows, m)
}

// --- login ---

func TestLoginUnknownAndWrongPasswordFailIdentically(t *testing.T) {
	f := newFixture(t)
	f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "right"),
		Active:   true,
	})

	_, errUnknown := f.auth.Login(context.Background(), "ghost@studio.com", "whatever")
	_, errWrong := f.auth.Login(context.Background(), "ana@studio.com", "wrong")

	if !errors.Is(errUnknown, model.ErrUnauthorized) {
		t.Errorf("unknown email: %v", errUnknown)
	}
	if !errors.Is(errWrong, model.ErrUnauthorized) {
		t.Errorf("wrong password: %v", errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown, errWrong)
	}
}

func TestLoginInactiveUserRejected(t *testing.T) {
	f := newFixture(t)
	f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Active:   false,
	})

	if _, err := f.auth.Login(context.Background(), "ana@studio.com", "s3cret"); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("inactive user logged in, err = %v", err)
	}
}

func TestLoginReturnsUnscopedTokens(t *testing.T) {
	f := newFixture(t)
	office := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	user := f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Profile:  model.RoleProduction,
		Active:   true,
	})
	f.addMembership(model.Membership{UserID: user.ID, OfficeID: office.ID, Role: model.RoleProduction, Active: true})

	result, err := f.auth.Login(context.Background(), "ana@studio.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := f.codec.Decode(result.AccessToken, token.KindAccess)
	if err != nil {
		t.Fatalf("Decode access: %v", err)
	}
	if claims.OfficeID != nil {
		t.Error("login access token carries an office")
	}
	if _, err := f.codec.Decode(result.RefreshToken, token.KindRefresh); err != nil {
		t.Fatalf("Decode refresh: %v", err)
	}
	if result.RequiresOfficeSelection {
		t.Error("single-office user asked to select an office")
	}
	if len(result.Offices) != 1 || result.Offices[0].ID != office.ID {
		t.Fatalf("offices = %+v", result.Offices)
	}
	if result.Offices[0].Role != model.RoleProduction.String() {
		t.Errorf("office role = %q", result.Offices[0].Role)
	}
}

func TestLoginMultiOfficeRequiresSelection(t *testing.T) {
	f := newFixture(t)
	o1 := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	o2 := f.addOffice(model.Office{TradeName: "Studio B", Active: true})
	user := f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Active:   true,
	})
	f.addMembership(model.Membership{UserID: user.ID, OfficeID: o1.ID, Role: model.RoleProduction, Active: true})
	f.addMembership(model.Membership{UserID: user.ID, OfficeID: o2.ID, Role: model.RoleAdmin, Active: true})

	result, err := f.auth.Login(context.Background(), "ana@studio.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !result.RequiresOfficeSelection {
		t.Error("multi-office user not asked to select")
	}
	if len(result.Offices) != 2 {
		t.Fatalf("offices = %+v", result.Offices)
	}
}

func TestLoginMultiRoleCollapsesToAdmin(t *testing.T) {
	f := newFixture(t)
	office := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	user := f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Active:   true,
	})
	f.addMembership(model.Membership{UserID: user.ID, OfficeID: office.ID, Role: model.RoleProduction, Active: true})
	f.addMembership(model.Membership{UserID: user.ID, OfficeID: office.ID, Role: model.RoleAdmin, Active: true})

	result, err := f.auth.Login(context.Background(), "ana@studio.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(result.Offices) != 1 {
		t.Fatalf("multi-role rows not collapsed: %+v", result.Offices)
	}
	if result.Offices[0].Role != model.RoleAdmin.String() {
		t.Errorf("resolved role = %q, want admin", result.Offices[0].Role)
	}
}

func TestLoginSystemAdminSeesOnlyActiveOffices(t *testing.T) {
	f := newFixture(t)
	active := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	f.addOffice(model.Office{TradeName: "Closed Studio", Active: false})
	f.addUser(model.User{
		Email:         "root@arqdesk.com",
		Password:      mustHash(t, "s3cret"),
		Profile:       model.RoleAdmin,
		IsSystemAdmin: true,
		Active:        true,
	})

	result, err := f.auth.Login(context.Background(), "root@arqdesk.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !result.IsSystemAdmin {
		t.Error("system admin flag not set")
	}
	if !result.RequiresOfficeSelection {
		t.Error("system admin not asked to select")
	}
	if len(result.Offices) != 1 || result.Offices[0].ID != active.ID {
		t.Fatalf("offices = %+v, want only the active one", result.Offices)
	}
	if result.Offices[0].Role != "" {
		t.Errorf("system admin option carries role %q", result.Offices[0].Role)
	}
}

func TestLoginAdminFlagWithoutAdminProfileIsNotSystemAdmin(t *testing.T) {
	f := newFixture(t)
	office := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	user := f.addUser(model.User{
		Email:         "ana@studio.com",
		Password:      mustHash(t, "s3cret"),
		Profile:       model.RoleProduction,
		IsSystemAdmin: true,
		Active:        true,
	})
	f.addMembership(model.Membership{UserID: user.ID, OfficeID: office.ID, Role: model.RoleProduction, Active: true})

	result, err := f.auth.Login(context.Background(), "ana@studio.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.IsSystemAdmin {
		t.Error("flag without admin profile treated as system admin")
	}
}

// --- context selection ---

func TestSetContextIgnoresRequestedRole(t *testing.T) {
	f := newFixture(t)
	office := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	user := f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Active:   true,
	})
	f.addMembership(model.Membership{UserID: user.ID, OfficeID: office.ID, Role: model.RoleProduction, Active: true})

	result, err := f.auth.SetContext(context.Background(), user.ID, &office.ID, model.RoleAdmin.String())
	if err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if result.Role != model.RoleProduction.String() {
		t.Errorf("session role = %q, want the membership role", result.Role)
	}

	claims, err := f.codec.Decode(result.AccessToken, token.KindAccess)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.Role != model.RoleProduction.String() {
		t.Errorf("token role = %q, want the membership role", claims.Role)
	}
	if claims.OfficeID == nil || *claims.OfficeID != office.ID {
		t.Errorf("token office = %v", claims.OfficeID)
	}
}

func TestSetContextDeniesForeignOffice(t *testing.T) {
	f := newFixture(t)
	mine := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	other := f.addOffice(model.Office{TradeName: "Studio B", Active: true})
	user := f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Active:   true,
	})
	f.addMembership(model.Membership{UserID: user.ID, OfficeID: mine.ID, Role: model.RoleProduction, Active: true})

	if _, err := f.auth.SetContext(context.Background(), user.ID, &other.ID, ""); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("foreign office selected, err = %v", err)
	}
}

func TestSetContextDeniesInactiveOffice(t *testing.T) {
	f := newFixture(t)
	office := f.addOffice(model.Office{TradeName: "Closed Studio", Active: false})
	user := f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Active:   true,
	})
	f.addMembership(model.Membership{UserID: user.ID, OfficeID: office.ID, Role: model.RoleProduction, Active: true})

	if _, err := f.auth.SetContext(context.Background(), user.ID, &office.ID, ""); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("inactive office selected, err = %v", err)
	}
}

func TestSetContextAdminModeRequiresSystemAdmin(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Active:   true,
	})
	root := f.addUser(model.User{
		Email:         "root@arqdesk.com",
		Password:      mustHash(t, "s3cret"),
		Profile:       model.RoleAdmin,
		IsSystemAdmin: true,
		Active:        true,
	})

	if _, err := f.auth.SetContext(context.Background(), user.ID, nil, ""); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("regular user entered admin mode, err = %v", err)
	}

	result, err := f.auth.SetContext(context.Background(), root.ID, nil, "")
	if err != nil {
		t.Fatalf("SetContext admin mode: %v", err)
	}
	if !result.IsAdminMode {
		t.Error("admin mode flag not set")
	}
	claims, err := f.codec.Decode(result.AccessToken, token.KindAccess)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !claims.IsAdminMode || claims.OfficeID != nil {
		t.Errorf("admin mode claims = %+v", claims)
	}
}

func TestSetContextSystemAdminEntersAnyOffice(t *testing.T) {
	f := newFixture(t)
	office := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	root := f.addUser(model.User{
		Email:         "root@arqdesk.com",
		Password:      mustHash(t, "s3cret"),
		Profile:       model.RoleAdmin,
		IsSystemAdmin: true,
		Active:        true,
	})

	result, err := f.auth.SetContext(context.Background(), root.ID, &office.ID, "Administrador")
	if err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if result.Role != model.RoleAdmin.String() {
		t.Errorf("legacy label not normalized: %q", result.Role)
	}

	defaulted, err := f.auth.SetContext(context.Background(), root.ID, &office.ID, "")
	if err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if defaulted.Role != model.RoleAdmin.String() {
		t.Errorf("empty label defaulted to %q", defaulted.Role)
	}
}

// --- refresh ---

func TestRefreshDropsOfficeContext(t *testing.T) {
	f := newFixture(t)
	office := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	user := f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Active:   true,
	})
	f.addMembership(model.Membership{UserID: user.ID, OfficeID: office.ID, Role: model.RoleProduction, Active: true})

	refresh, err := f.codec.EncodeRefresh(user.ID, user.Email)
	if err != nil {
		t.Fatalf("EncodeRefresh: %v", err)
	}

	accessToken, err := f.auth.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := f.codec.Decode(accessToken, token.KindAccess)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.OfficeID != nil {
		t.Error("refreshed access token carries an office")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Active:   true,
	})

	access, err := f.codec.EncodeAccess(model.SecurityContext{UserID: user.ID, Email: user.Email})
	if err != nil {
		t.Fatalf("EncodeAccess: %v", err)
	}
	if _, err := f.auth.Refresh(context.Background(), access); !errors.Is(err, model.ErrInvalidToken) {
		t.Errorf("access token accepted on refresh, err = %v", err)
	}
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(model.User{
		Email:    "ana@studio.com",
		Password: mustHash(t, "s3cret"),
		Active:   true,
	})

	refresh, err := f.codec.EncodeRefresh(user.ID, user.Email)
	if err != nil {
		t.Fatalf("EncodeRefresh: %v", err)
	}

	f.users.users[user.ID].Active = false
	if _, err := f.auth.Refresh(context.Background(), refresh); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("deactivated user refreshed, err = %v", err)
	}
}
