package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	AnalysisStatusProcessing = "processing"
	AnalysisStatusCompleted  = "completed"
)

// InterviewAnalysis is the secondary per-candidate analysis (e.g. interview
// video analysis) whose completion drives group status advancement.
type InterviewAnalysis struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidateID uuid.UUID `gorm:"type:uuid;index" json:"candidate_id"`
	Status      string    `gorm:"type:varchar(20)" json:"status"` // processing, completed
	Summary     string    `gorm:"type:text" json:"summary"`
	ReportURL   string    `gorm:"type:text" json:"report_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (a *InterviewAnalysis) TableName() string {
	return "interview_analyses"
}
