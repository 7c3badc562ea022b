package repository

import (
	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CandidateGroupRepository struct {
	db *gorm.DB
}

func NewCandidateGroupRepository(db *gorm.DB) *CandidateGroupRepository {
	return &CandidateGroupRepository{db}
}

func (r *CandidateGroupRepository) Create(group *model.CandidateGroup) error {
	return r.db.Create(group).Error
}

func (r *CandidateGroupRepository) FindByID(id string) (*model.CandidateGroup, error) {
	var g model.CandidateGroup
	err := r.db.First(&g, "id = ?", id).Error
	return &g, err
}

func (r *CandidateGroupRepository) UpdateFields(id uuid.UUID, fields map[string]any) error {
	return r.db.Model(&model.CandidateGroup{}).Where("id = ?", id).Updates(fields).Error
}
