package dto

import (
	"time"

	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/google/uuid"
)

type PanelJobDTO struct {
	ID             uuid.UUID `json:"id"`
	Kind           string    `json:"kind"`
	Status         string    `json:"status"` // pending, running, completed, failed
	Progress       int       `json:"progress"`
	CurrentStep    int       `json:"current_step"`
	TotalSteps     int       `json:"total_steps"`
	CurrentSpeaker string    `json:"current_speaker,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	ReportURL      string    `json:"report_url,omitempty"`
	RecordURL      string    `json:"record_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewPanelJobDTO(job *model.PanelJob) PanelJobDTO {
	return PanelJobDTO{
		ID:             job.ID,
		Kind:           job.Kind,
		Status:         job.Status,
		Progress:       job.Progress,
		CurrentStep:    job.CurrentStep,
		TotalSteps:     job.TotalSteps,
		CurrentSpeaker: job.CurrentSpeaker,
		ErrorMessage:   job.ErrorMessage,
		ReportURL:      job.ReportURL,
		RecordURL:      job.RecordURL,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}
