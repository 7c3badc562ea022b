package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobKindScreening  = "screening"
	JobKindEvaluation = "evaluation"
)

const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// PanelJob is one retryable background unit of work executing a full panel
// review pipeline. Execution never surfaces errors to the submitter; the
// persisted row is the only place outcomes appear.
type PanelJob struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Kind           string     `gorm:"type:varchar(20)" json:"kind"`
	Status         string     `gorm:"type:varchar(20)" json:"status"` // pending, running, completed, failed
	Progress       int        `json:"progress"`
	CurrentStep    int        `json:"current_step"`
	TotalSteps     int        `json:"total_steps"`
	CurrentSpeaker string     `gorm:"type:varchar(30)" json:"current_speaker"`
	Attempts       int        `json:"attempts"`
	ErrorMessage   string     `gorm:"type:text" json:"error_message"`
	Result         string     `gorm:"type:jsonb" json:"result"`
	ReportURL      string     `gorm:"type:text" json:"report_url"`
	RecordURL      string     `gorm:"type:text" json:"record_url"`
	PositionID     *uuid.UUID `gorm:"type:uuid" json:"position_id,omitempty"`
	GroupID        *uuid.UUID `gorm:"type:uuid" json:"group_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (j *PanelJob) TableName() string {
	return "panel_jobs"
}
