package repository

import (
	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterviewAnalysisRepository struct {
	db *gorm.DB
}

func NewInterviewAnalysisRepository(db *gorm.DB) *InterviewAnalysisRepository {
	return &InterviewAnalysisRepository{db}
}

func (r *InterviewAnalysisRepository) Create(analysis *model.InterviewAnalysis) error {
	return r.db.Create(analysis).Error
}

func (r *InterviewAnalysisRepository) Save(analysis *model.InterviewAnalysis) error {
	return r.db.Save(analysis).Error
}

func (r *InterviewAnalysisRepository) FindByCandidate(candidateID uuid.UUID) (*model.InterviewAnalysis, error) {
	var a model.InterviewAnalysis
	err := r.db.First(&a, "candidate_id = ?", candidateID).Error
	return &a, err
}

func (r *InterviewAnalysisRepository) FindByCandidates(candidateIDs []uuid.UUID) ([]model.InterviewAnalysis, error) {
	var analyses []model.InterviewAnalysis
	err := r.db.Where("candidate_id IN ?", candidateIDs).Find(&analyses).Error
	return analyses, err
}
