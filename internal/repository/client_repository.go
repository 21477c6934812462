package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arqdesk/backoffice/internal/model"
)

// ClientFilter narrows client listings.
type ClientFilter struct {
	Search  string
	Page    int
	PerPage int
}

// ClientRepository is office-scoped CRUD over clients.
type ClientRepository struct {
	scopedDB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{scopedDB{db: db}}
}

func (r *ClientRepository) List(ctx context.Context, officeID uint, filter ClientFilter) ([]model.Client, int64, error) {
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	q := r.scope(ctx, officeID).Model(&model.Client{})
	if filter.Search != "" {
		q = q.Where("name ILIKE ? OR email ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var clients []model.Client
	offset := (filter.Page - 1) * filter.PerPage
	if err := q.Order("name").Limit(filter.PerPage).Offset(offset).Find(&clients).Error; err != nil {
		return nil, 0, translate(err)
	}
	return clients, total, nil
}

func (r *ClientRepository) Get(ctx context.Context, officeID, id uint) (*model.Client, error) {
	var client model.Client
	if err := r.scope(ctx, officeID).First(&client, id).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *ClientRepository) Create(ctx context.Context, officeID uint, client *model.Client) error {
	client.OfficeID = officeID
	return translate(r.raw(ctx).Create(client).Error)
}

func (r *ClientRepository) Update(ctx context.Context, officeID uint, client *model.Client) error {
	if _, err := r.Get(ctx, officeID, client.ID); err != nil {
		return err
	}
	client.OfficeID = officeID
	return translate(r.raw(ctx).Save(client).Error)
}

func (r *ClientRepository) Delete(ctx context.Context, officeID, id uint) error {
	res := r.scope(ctx, officeID).Delete(&model.Client{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
