// Package service holds the business rules between the HTTP handlers and
// the repositories. Services depend on small store interfaces so tests can
// run against in-memory stubs.
package service

import (
	"context"

	"github.com/arqdesk/backoffice/internal/model"
)

// UserStore is the identity store consumed by the services.
type UserStore interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByNationalID(ctx context.Context, nationalID string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint, permanent bool) error
}

// OfficeStore manages tenancy roots.
type OfficeStore interface {
	FindByID(ctx context.Context, id uint) (*model.Office, error)
	ListActive(ctx context.Context) ([]model.Office, error)
	Create(ctx context.Context, office *model.Office) error
	Update(ctx context.Context, office *model.Office) error
	CreateWithAdmin(ctx context.Context, office *model.Office, admin *model.User) error
	Deactivate(ctx context.Context, id uint) error
}

// MembershipStore manages user-office role rows.
type MembershipStore interface {
	ListActiveByUser(ctx context.Context, userID uint) ([]model.Membership, error)
	ListActiveByUserOffice(ctx context.Context, userID, officeID uint) ([]model.Membership, error)
	ListByOffice(ctx context.Context, officeID uint) ([]model.Membership, error)
	Add(ctx context.Context, m *model.Membership) error
	Remove(ctx context.Context, userID, officeID uint, role model.Role) error
}
