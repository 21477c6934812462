package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/pkg/token"
)

// OfficeService manages office provisioning, lifecycle and membership.
type OfficeService struct {
	offices     OfficeStore
	memberships MembershipStore
	users       UserStore
}

func NewOfficeService(offices OfficeStore, memberships MembershipStore, users UserStore) *OfficeService {
	return &OfficeService{offices: offices, memberships: memberships, users: users}
}

// AdminInput is the optional first office-admin created with a new office.
type AdminInput struct {
	Name     string
	Email    string
	Password string
}

// Create provisions an office, optionally together with its first admin
// user, in one transaction.
func (s *OfficeService) Create(ctx context.Context, office *model.Office, admin *AdminInput) (*model.Office, error) {
	office.Active = true
	if admin == nil {
		if err := s.offices.Create(ctx, office); err != nil {
			return nil, err
		}
		return office, nil
	}

	if _, err := s.users.FindByEmail(ctx, admin.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", model.ErrConflict)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	hash, err := token.HashPassword(admin.Password)
	if err != nil {
		return nil, err
	}
	adminUser := &model.User{
		Name:     admin.Name,
		Email:    admin.Email,
		Password: hash,
		Profile:  model.RoleAdmin,
		Active:   true,
	}
	if err := s.offices.CreateWithAdmin(ctx, office, adminUser); err != nil {
		return nil, err
	}
	return office, nil
}

func (s *OfficeService) Get(ctx context.Context, id uint) (*model.Office, error) {
	return s.offices.FindByID(ctx, id)
}

func (s *OfficeService) ListActive(ctx context.Context) ([]model.Office, error) {
	return s.offices.ListActive(ctx)
}

func (s *OfficeService) Update(ctx context.Context, office *model.Office) error {
	if _, err := s.offices.FindByID(ctx, office.ID); err != nil {
		return err
	}
	return s.offices.Update(ctx, office)
}

// Deactivate cascades: memberships go inactive, and users left with no other
// active office are deactivated with them.
func (s *OfficeService) Deactivate(ctx context.Context, id uint) error {
	return s.offices.Deactivate(ctx, id)
}

// AddMember grants a role to a user in an office. The role label must be a
// known role; the active (user, office, role) triple stays unique.
func (s *OfficeService) AddMember(ctx context.Context, officeID uint, email, roleLabel string) (*model.Membership, error) {
	role, ok := model.NormalizeRole(roleLabel)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", model.ErrBadRequest, roleLabel)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if _, err := s.offices.FindByID(ctx, officeID); err != nil {
		return nil, err
	}

	m := &model.Membership{
		UserID:   user.ID,
		OfficeID: officeID,
		Role:     role,
		Active:   true,
	}
	if err := s.memberships.Add(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// RemoveMember revokes one role of a user in an office.
func (s *OfficeService) RemoveMember(ctx context.Context, officeID, userID uint, roleLabel string) error {
	role, ok := model.NormalizeRole(roleLabel)
	if !ok {
		return fmt.Errorf("%w: unknown role %q", model.ErrBadRequest, roleLabel)
	}
	return s.memberships.Remove(ctx, userID, officeID, role)
}

// ListMembers returns the active memberships of one office.
func (s *OfficeService) ListMembers(ctx context.Context, officeID uint) ([]model.Membership, error) {
	return s.memberships.ListByOffice(ctx, officeID)
}
