package repository

import (
	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PanelJobRepository struct {
	db *gorm.DB
}

func NewPanelJobRepository(db *gorm.DB) *PanelJobRepository {
	return &PanelJobRepository{db}
}

func (r *PanelJobRepository) Create(job *model.PanelJob) error {
	return r.db.Create(job).Error
}

// UpdateFields writes a partial update. Progress writes from a running job
// are last-write-wins; the scheduler guarantees one execution per job id.
func (r *PanelJobRepository) UpdateFields(id uuid.UUID, fields map[string]any) error {
	return r.db.Model(&model.PanelJob{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PanelJobRepository) FindByID(id string) (*model.PanelJob, error) {
	var job model.PanelJob
	err := r.db.First(&job, "id = ?", id).Error
	return &job, err
}

func (r *PanelJobRepository) List(page, pageSize int) ([]model.PanelJob, int64, error) {
	var jobs []model.PanelJob
	var total int64
	if err := r.db.Model(&model.PanelJob{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}
