package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/prometheus"
)

// UserRepository is the identity store: users are global (not office-owned),
// so it works on an unscoped handle.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByNationalID(ctx context.Context, nationalID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("national_id = ?", nationalID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Create enforces email and national-id uniqueness with a pre-check; the
// unique index remains the authoritative backstop under concurrency, and a
// constraint violation also comes back as ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if _, err := r.FindByEmail(ctx, user.Email); err == nil {
		return fmt.Errorf("%w: email already registered", model.ErrConflict)
	} else if !errors.Is(err, model.ErrNotFound) {
		return err
	}
	if user.NationalID != nil {
		if _, err := r.FindByNationalID(ctx, *user.NationalID); err == nil {
			return fmt.Errorf("%w: national id already registered", model.ErrConflict)
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}
	}
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error)
}

// Delete soft-deletes by flipping the active flag; with permanent it removes
// the row and its membership links.
func (r *UserRepository) Delete(ctx context.Context, id uint, permanent bool) error {
	if !permanent {
		res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("active", false)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return model.ErrNotFound
		}
		return nil
	}

	defer prometheus.TrackDBOperation("user_purge")(time.Now())
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrNotFound
		}
		return nil
	}))
}
