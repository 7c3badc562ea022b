package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	GroupStatusPending                    = "pending"
	GroupStatusInterviewAnalysis          = "interview_analysis"
	GroupStatusInterviewAnalysisCompleted = "interview_analysis_completed"
	GroupStatusComprehensiveScreening     = "comprehensive_screening"
	GroupStatusCompleted                  = "completed"
)

// groupStatusRank orders group statuses so recomputation can be monotonic:
// a group never moves to a lower-ranked status.
var groupStatusRank = map[string]int{
	GroupStatusPending:                    0,
	GroupStatusInterviewAnalysis:          1,
	GroupStatusInterviewAnalysisCompleted: 2,
	GroupStatusComprehensiveScreening:     3,
	GroupStatusCompleted:                  4,
}

type CandidateGroup struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string     `gorm:"type:varchar(100)" json:"name"`
	PositionID     *uuid.UUID `gorm:"type:uuid" json:"position_id,omitempty"`
	Status         string     `gorm:"type:varchar(40)" json:"status"`
	CompositeScore float64    `gorm:"type:float" json:"composite_score"`
	FinalDecision  string     `gorm:"type:varchar(20)" json:"final_decision"`
	ReportURL      string     `gorm:"type:text" json:"report_url"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (g *CandidateGroup) TableName() string {
	return "candidate_groups"
}

// GroupStatusRank returns the forward-only ordering rank for a group status.
func GroupStatusRank(status string) int {
	return groupStatusRank[status]
}
