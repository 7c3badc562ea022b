package repository

import (
	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db}
}

func (r *CandidateRepository) Create(candidate *model.Candidate) error {
	return r.db.Create(candidate).Error
}

func (r *CandidateRepository) Save(candidate *model.Candidate) error {
	return r.db.Save(candidate).Error
}

func (r *CandidateRepository) FindByID(id string) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.First(&c, "id = ?", id).Error
	return &c, err
}

func (r *CandidateRepository) FindByGroup(groupID uuid.UUID) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := r.db.Where("group_id = ?", groupID).Order("created_at").Find(&candidates).Error
	return candidates, err
}
