package service

import (
	"context"
	"errors"
	"testing"

	"github.com/arqdesk/backoffice/internal/model"
)

func newOfficeFixture(t *testing.T) (*fixture, *OfficeService) {
	t.Helper()
	f := newFixture(t)
	return f, NewOfficeService(f.offices, f.memberships, f.users)
}

func TestOfficeCreateWithoutAdmin(t *testing.T) {
	_, svc := newOfficeFixture(t)

	office, err := svc.Create(context.Background(), &model.Office{TradeName: "Studio A"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !office.Active {
		t.Error("new office not active")
	}
}

func TestOfficeCreateRejectsTakenAdminEmail(t *testing.T) {
	f, svc := newOfficeFixture(t)
	f.addUser(model.User{Email: "ana@studio.com", Active: true})

	_, err := svc.Create(context.Background(), &model.Office{TradeName: "Studio A"}, &AdminInput{
		Name:     "Ana",
		Email:    "ana@studio.com",
		Password: "s3cret",
	})
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("taken email accepted, err = %v", err)
	}
}

func TestAddMemberValidatesRole(t *testing.T) {
	f, svc := newOfficeFixture(t)
	office := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	f.addUser(model.User{Email: "ana@studio.com", Active: true})

	if _, err := svc.AddMember(context.Background(), office.ID, "ana@studio.com", "Gerente"); !errors.Is(err, model.ErrBadRequest) {
		t.Errorf("unknown role accepted, err = %v", err)
	}

	m, err := svc.AddMember(context.Background(), office.ID, "ana@studio.com", "Administrador")
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if m.Role != model.RoleAdmin {
		t.Errorf("legacy label stored as %q", m.Role)
	}
}

func TestAddMemberDuplicateTriple(t *testing.T) {
	f, svc := newOfficeFixture(t)
	office := f.addOffice(model.Office{TradeName: "Studio A", Active: true})
	f.addUser(model.User{Email: "ana@studio.com", Active: true})

	if _, err := svc.AddMember(context.Background(), office.ID, "ana@studio.com", "Produção"); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, err := svc.AddMember(context.Background(), office.ID, "ana@studio.com", "Produção"); !errors.Is(err, model.ErrConflict) {
		t.Errorf("duplicate membership accepted, err = %v", err)
	}
}

func TestRemoveMemberUnknownRole(t *testing.T) {
	f, svc := newOfficeFixture(t)
	office := f.addOffice(model.Office{TradeName: "Studio A", Active: true})

	if err := svc.RemoveMember(context.Background(), office.ID, 1, "Gerente"); !errors.Is(err, model.ErrBadRequest) {
		t.Errorf("unknown role accepted, err = %v", err)
	}
}
