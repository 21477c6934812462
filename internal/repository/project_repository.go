package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arqdesk/backoffice/internal/model"
)

// ProjectRepository is office-scoped CRUD over projects. The declared client
// must belong to the same office.
type ProjectRepository struct {
	scopedDB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{scopedDB{db: db}}
}

func (r *ProjectRepository) List(ctx context.Context, officeID uint) ([]model.Project, error) {
	var projects []model.Project
	if err := r.scope(ctx, officeID).Preload("Client").Order("name").Find(&projects).Error; err != nil {
		return nil, translate(err)
	}
	return projects, nil
}

func (r *ProjectRepository) Get(ctx context.Context, officeID, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.scope(ctx, officeID).Preload("Client").First(&project, id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *ProjectRepository) checkClient(ctx context.Context, officeID, clientID uint) error {
	var client model.Client
	err := r.scope(ctx, officeID).First(&client, clientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: client does not belong to the given office", model.ErrBadRequest)
	}
	return translate(err)
}

func (r *ProjectRepository) Create(ctx context.Context, officeID uint, project *model.Project) error {
	if err := r.checkClient(ctx, officeID, project.ClientID); err != nil {
		return err
	}
	project.OfficeID = officeID
	return translate(r.raw(ctx).Create(project).Error)
}

func (r *ProjectRepository) Update(ctx context.Context, officeID uint, project *model.Project) error {
	if _, err := r.Get(ctx, officeID, project.ID); err != nil {
		return err
	}
	if err := r.checkClient(ctx, officeID, project.ClientID); err != nil {
		return err
	}
	project.OfficeID = officeID
	return translate(r.raw(ctx).Save(project).Error)
}

func (r *ProjectRepository) Delete(ctx context.Context, officeID, id uint) error {
	res := r.scope(ctx, officeID).Delete(&model.Project{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
