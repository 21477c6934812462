package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/arqdesk/backoffice/internal/model"
)

// FinancialFilter narrows financial listings.
type FinancialFilter struct {
	Kind      string
	ProjectID *uint
	From      *time.Time
	To        *time.Time
}

// FinancialRepository is office-scoped CRUD over money movements.
type FinancialRepository struct {
	scopedDB
}

func NewFinancialRepository(db *gorm.DB) *FinancialRepository {
	return &FinancialRepository{scopedDB{db: db}}
}

func (r *FinancialRepository) List(ctx context.Context, officeID uint, filter FinancialFilter) ([]model.FinancialEntry, error) {
	q := r.scope(ctx, officeID)
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.From != nil {
		q = q.Where("due_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("due_date <= ?", *filter.To)
	}

	var entries []model.FinancialEntry
	if err := q.Order("due_date").Find(&entries).Error; err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

func (r *FinancialRepository) Get(ctx context.Context, officeID, id uint) (*model.FinancialEntry, error) {
	var entry model.FinancialEntry
	if err := r.scope(ctx, officeID).First(&entry, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *FinancialRepository) Create(ctx context.Context, officeID uint, entry *model.FinancialEntry) error {
	if entry.ProjectID != nil {
		var project model.Project
		err := r.scope(ctx, officeID).First(&project, *entry.ProjectID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: project does not belong to the given office", model.ErrBadRequest)
		}
		if err != nil {
			return translate(err)
		}
	}
	entry.OfficeID = officeID
	return translate(r.raw(ctx).Create(entry).Error)
}

func (r *FinancialRepository) Update(ctx context.Context, officeID uint, entry *model.FinancialEntry) error {
	if _, err := r.Get(ctx, officeID, entry.ID); err != nil {
		return err
	}
	entry.OfficeID = officeID
	return translate(r.raw(ctx).Save(entry).Error)
}

func (r *FinancialRepository) Delete(ctx context.Context, officeID, id uint) error {
	res := r.scope(ctx, officeID).Delete(&model.FinancialEntry{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
