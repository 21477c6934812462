package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arqdesk/backoffice/internal/model"
)

// PlanningRepository covers the nested Service → Stage → Task chain. Every
// operation re-verifies that the child's declared parent lives in the same
// office and matches the parent named in the request path; mismatches are
// rejected, never silently ignored.
type PlanningRepository struct {
	scopedDB
}

func NewPlanningRepository(db *gorm.DB) *PlanningRepository {
	return &PlanningRepository{scopedDB{db: db}}
}

// --- services ---

func (r *PlanningRepository) ListServices(ctx context.Context, officeID, projectID uint) ([]model.Service, error) {
	if err := r.checkProject(ctx, officeID, projectID); err != nil {
		return nil, err
	}
	var services []model.Service
	err := r.scope(ctx, officeID).Where("project_id = ?", projectID).Order("position").Find(&services).Error
	if err != nil {
		return nil, translate(err)
	}
	return services, nil
}

func (r *PlanningRepository) CreateService(ctx context.Context, officeID, projectID uint, service *model.Service) error {
	if err := r.checkProject(ctx, officeID, projectID); err != nil {
		return err
	}
	service.OfficeID = officeID
	service.ProjectID = projectID
	return translate(r.raw(ctx).Create(service).Error)
}

func (r *PlanningRepository) DeleteService(ctx context.Context, officeID, id uint) error {
	res := r.scope(ctx, officeID).Delete(&model.Service{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- stages ---

func (r *PlanningRepository) ListStages(ctx context.Context, officeID, serviceID uint) ([]model.Stage, error) {
	if _, err := r.getService(ctx, officeID, serviceID); err != nil {
		return nil, err
	}
	var stages []model.Stage
	err := r.scope(ctx, officeID).Where("service_id = ?", serviceID).Order("position").Find(&stages).Error
	if err != nil {
		return nil, translate(err)
	}
	return stages, nil
}

// CreateStage stamps the office and validates the parent service.
func (r *PlanningRepository) CreateStage(ctx context.Context, officeID, serviceID uint, stage *model.Stage) error {
	if _, err := r.getService(ctx, officeID, serviceID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("%w: service does not belong to the given office", model.ErrBadRequest)
		}
		return err
	}
	stage.OfficeID = officeID
	stage.ServiceID = serviceID
	return translate(r.raw(ctx).Create(stage).Error)
}

// UpdateStage requires the stage to belong to both the office and the
// service named in the path.
func (r *PlanningRepository) UpdateStage(ctx context.Context, officeID, serviceID uint, stage *model.Stage) error {
	existing, err := r.getStage(ctx, officeID, stage.ID)
	if err != nil {
		return err
	}
	if existing.ServiceID != serviceID {
		return fmt.Errorf("%w: stage does not belong to the given service", model.ErrBadRequest)
	}
	stage.OfficeID = officeID
	stage.ServiceID = serviceID
	// Save writes every column; keep the original creation timestamp.
	stage.CreatedAt = existing.CreatedAt
	return translate(r.raw(ctx).Save(stage).Error)
}

func (r *PlanningRepository) DeleteStage(ctx context.Context, officeID, serviceID, id uint) error {
	existing, err := r.getStage(ctx, officeID, id)
	if err != nil {
		return err
	}
	if existing.ServiceID != serviceID {
		return fmt.Errorf("%w: stage does not belong to the given service", model.ErrBadRequest)
	}
	return translate(r.scope(ctx, officeID).Delete(&model.Stage{}, id).Error)
}

// --- tasks ---

func (r *PlanningRepository) ListTasks(ctx context.Context, officeID, stageID uint) ([]model.Task, error) {
	if _, err := r.getStage(ctx, officeID, stageID); err != nil {
		return nil, err
	}
	var tasks []model.Task
	err := r.scope(ctx, officeID).Where("stage_id = ?", stageID).Order("id").Find(&tasks).Error
	if err != nil {
		return nil, translate(err)
	}
	return tasks, nil
}

func (r *PlanningRepository) CreateTask(ctx context.Context, officeID, stageID uint, task *model.Task) error {
	if _, err := r.getStage(ctx, officeID, stageID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("%w: stage does not belong to the given office", model.ErrBadRequest)
		}
		return err
	}
	task.OfficeID = officeID
	task.StageID = stageID
	return translate(r.raw(ctx).Create(task).Error)
}

func (r *PlanningRepository) UpdateTask(ctx context.Context, officeID, stageID uint, task *model.Task) error {
	var existing model.Task
	if err := r.scope(ctx, officeID).First(&existing, task.ID).Error; err != nil {
		return translate(err)
	}
	if existing.StageID != stageID {
		return fmt.Errorf("%w: task does not belong to the given stage", model.ErrBadRequest)
	}
	task.OfficeID = officeID
	task.StageID = stageID
	task.CreatedAt = existing.CreatedAt
	return translate(r.raw(ctx).Save(task).Error)
}

func (r *PlanningRepository) DeleteTask(ctx context.Context, officeID, stageID, id uint) error {
	var existing model.Task
	if err := r.scope(ctx, officeID).First(&existing, id).Error; err != nil {
		return translate(err)
	}
	if existing.StageID != stageID {
		return fmt.Errorf("%w: task does not belong to the given stage", model.ErrBadRequest)
	}
	return translate(r.scope(ctx, officeID).Delete(&model.Task{}, id).Error)
}

// --- parent lookups ---

func (r *PlanningRepository) checkProject(ctx context.Context, officeID, projectID uint) error {
	var project model.Project
	err := r.scope(ctx, officeID).First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: project does not belong to the given office", model.ErrBadRequest)
	}
	return translate(err)
}

func (r *PlanningRepository) getService(ctx context.Context, officeID, id uint) (*model.Service, error) {
	var service model.Service
	if err := r.scope(ctx, officeID).First(&service, id).Error; err != nil {
		return nil, translate(err)
	}
	return &service, nil
}

func (r *PlanningRepository) getStage(ctx context.Context, officeID, id uint) (*model.Stage, error) {
	var stage model.Stage
	if err := r.scope(ctx, officeID).First(&stage, id).Error; err != nil {
		return nil, translate(err)
	}
	return &stage, nil
}
