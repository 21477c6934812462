package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/prometheus"
)

// OfficeRepository manages offices. Offices are the tenancy roots, so the
// repository is unscoped; isolation applies to what offices own, not to the
// office records a system admin manages.
type OfficeRepository struct {
	db *gorm.DB
}

func NewOfficeRepository(db *gorm.DB) *OfficeRepository {
	return &OfficeRepository{db: db}
}

func (r *OfficeRepository) FindByID(ctx context.Context, id uint) (*model.Office, error) {
	var office model.Office
	if err := r.db.WithContext(ctx).First(&office, id).Error; err != nil {
		return nil, translate(err)
	}
	return &office, nil
}

func (r *OfficeRepository) ListActive(ctx context.Context) ([]model.Office, error) {
	var offices []model.Office
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("trade_name").Find(&offices).Error; err != nil {
		return nil, translate(err)
	}
	return offices, nil
}

func (r *OfficeRepository) Create(ctx context.Context, office *model.Office) error {
	return translate(r.db.WithContext(ctx).Create(office).Error)
}

func (r *OfficeRepository) Update(ctx context.Context, office *model.Office) error {
	return translate(r.db.WithContext(ctx).Save(office).Error)
}

// CreateWithAdmin provisions an office together with its first office-admin
// user and membership in one transaction.
func (r *OfficeRepository) CreateWithAdmin(ctx context.Context, office *model.Office, admin *model.User) error {
	defer prometheus.TrackDBOperation("office_provision")(time.Now())
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(office).Error; err != nil {
			return err
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		membership := model.Membership{
			UserID:   admin.ID,
			OfficeID: office.ID,
			Role:     model.RoleAdmin,
			Active:   true,
		}
		return tx.Create(&membership).Error
	}))
}

// Deactivate flips the office inactive, deactivates its memberships, and
// deactivates any member left with no other active office.
func (r *OfficeRepository) Deactivate(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("office_deactivate")(time.Now())
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Office{}).Where("id = ?", id).Update("active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrNotFound
		}

		var members []model.Membership
		if err := tx.Where("office_id = ? AND active = ?", id, true).Find(&members).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Membership{}).
			Where("office_id = ?", id).
			Update("active", false).Error; err != nil {
			return err
		}

		for _, m := range members {
			var remaining int64
			err := tx.Model(&model.Membership{}).
				Joins("JOIN offices ON offices.id = memberships.office_id").
				Where("memberships.user_id = ? AND memberships.active = ? AND offices.active = ?", m.UserID, true, true).
				Count(&remaining).Error
			if err != nil {
				return err
			}
			if remaining == 0 {
				if err := tx.Model(&model.User{}).Where("id = ?", m.UserID).Update("active", false).Error; err != nil {
					return err
				}
			}
		}
		return nil
	}))
}
