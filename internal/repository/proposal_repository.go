package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arqdesk/backoffice/internal/model"
)

// ProposalRepository is office-scoped CRUD over commercial proposals.
type ProposalRepository struct {
	scopedDB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{scopedDB{db: db}}
}

func (r *ProposalRepository) List(ctx context.Context, officeID uint) ([]model.Proposal, error) {
	var proposals []model.Proposal
	if err := r.scope(ctx, officeID).Preload("Client").Order("created_at DESC").Find(&proposals).Error; err != nil {
		return nil, translate(err)
	}
	return proposals, nil
}

func (r *ProposalRepository) Get(ctx context.Context, officeID, id uint) (*model.Proposal, error) {
	var proposal model.Proposal
	if err := r.scope(ctx, officeID).Preload("Client").First(&proposal, id).Error; err != nil {
		return nil, translate(err)
	}
	return &proposal, nil
}

func (r *ProposalRepository) Create(ctx context.Context, officeID uint, proposal *model.Proposal) error {
	var client model.Client
	err := r.scope(ctx, officeID).First(&client, proposal.ClientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: client does not belong to the given office", model.ErrBadRequest)
	}
	if err != nil {
		return translate(err)
	}
	proposal.OfficeID = officeID
	return translate(r.raw(ctx).Create(proposal).Error)
}

func (r *ProposalRepository) Update(ctx context.Context, officeID uint, proposal *model.Proposal) error {
	if _, err := r.Get(ctx, officeID, proposal.ID); err != nil {
		return err
	}
	proposal.OfficeID = officeID
	return translate(r.raw(ctx).Save(proposal).Error)
}

func (r *ProposalRepository) Delete(ctx context.Context, officeID, id uint) error {
	res := r.scope(ctx, officeID).Delete(&model.Proposal{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
