package repository

import (
	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db}
}

// SearchSimilar returns the positions closest to the given embedding,
// used to enrich screening prompts with related openings.
func (r *PositionRepository) SearchSimilar(embedding pgvector.Vector, topK int) ([]model.Position, error) {
	var positions []model.Position

	// query pgvector <-> operator (Euclidean distance / cosine)
	err := r.db.Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM positions
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&positions).Error

	return positions, err
}

func (r *PositionRepository) Create(position *model.Position) error {
	return r.db.Create(position).Error
}

func (r *PositionRepository) FindByID(id string) (*model.Position, error) {
	var p model.Position
	err := r.db.First(&p, "id = ?", id).Error
	return &p, err
}
