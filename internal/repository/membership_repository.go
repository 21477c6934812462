package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arqdesk/backoffice/internal/model"
)

// MembershipRepository manages the user-office link rows. Role labels are
// normalized onto the closed enum on the way out, so legacy rows stored as
// "Administrador" surface as RoleAdmin everywhere above this layer.
type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func normalizeRows(rows []model.Membership) []model.Membership {
	for i := range rows {
		if role, ok := model.NormalizeRole(string(rows[i].Role)); ok {
			rows[i].Role = role
		}
	}
	return rows
}

// ListActiveByUser returns the user's active memberships in active offices,
// office preloaded.
func (r *MembershipRepository) ListActiveByUser(ctx context.Context, userID uint) ([]model.Membership, error) {
	var rows []model.Membership
	err := r.db.WithContext(ctx).
		Preload("Office").
		Joins("JOIN offices ON offices.id = memberships.office_id").
		Where("memberships.user_id = ? AND memberships.active = ? AND offices.active = ?", userID, true, true).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return normalizeRows(rows), nil
}

// ListActiveByUserOffice returns the user's active role rows in one office.
func (r *MembershipRepository) ListActiveByUserOffice(ctx context.Context, userID, officeID uint) ([]model.Membership, error) {
	var rows []model.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND office_id = ? AND active = ?", userID, officeID, true).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return normalizeRows(rows), nil
}

// Add creates a role row; the active (user, office, role) triple is unique.
func (r *MembershipRepository) Add(ctx context.Context, m *model.Membership) error {
	var existing model.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND office_id = ? AND role = ? AND active = ?", m.UserID, m.OfficeID, m.Role, true).
		First(&existing).Error
	if err == nil {
		return fmt.Errorf("%w: membership role already granted", model.ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *MembershipRepository) Update(ctx context.Context, m *model.Membership) error {
	return translate(r.db.WithContext(ctx).Save(m).Error)
}

// Remove deactivates one role row of a user in an office.
func (r *MembershipRepository) Remove(ctx context.Context, userID, officeID uint, role model.Role) error {
	res := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("user_id = ? AND office_id = ? AND role = ? AND active = ?", userID, officeID, role, true).
		Update("active", false)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ListByOffice lists the active memberships of one office, user preloaded.
func (r *MembershipRepository) ListByOffice(ctx context.Context, officeID uint) ([]model.Membership, error) {
	var rows []model.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("office_id = ? AND active = ?", officeID, true).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return normalizeRows(rows), nil
}
