package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	CandidateStatusPending      = "pending"
	CandidateStatusScreened     = "screened"
	CandidateStatusInterviewing = "interviewing"
	CandidateStatusAnalyzed     = "analyzed"
)

// ErrInvalidTransition marks a candidate status change that is not in the
// allowed-transitions table.
type ErrInvalidTransition struct {
	From, To string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid candidate status transition: %s -> %s", e.From, e.To)
}

// candidateTransitions is the full set of allowed status changes. Anything
// absent from this table is rejected; nothing transitions implicitly.
var candidateTransitions = map[string][]string{
	CandidateStatusPending:      {CandidateStatusScreened, CandidateStatusInterviewing},
	CandidateStatusScreened:     {CandidateStatusInterviewing, CandidateStatusAnalyzed, CandidateStatusPending},
	CandidateStatusInterviewing: {CandidateStatusAnalyzed, CandidateStatusScreened},
	CandidateStatusAnalyzed:     {CandidateStatusInterviewing, CandidateStatusScreened},
}

type Candidate struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GroupID          *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`
	Name             string     `gorm:"type:varchar(100)" json:"name"`
	Resume           string     `gorm:"type:text" json:"resume"`
	Status           string     `gorm:"type:varchar(20)" json:"status"`
	Score            float64    `gorm:"type:float" json:"score"`
	ScoreFound       bool       `json:"score_found"`
	SalarySuggestion string     `gorm:"type:varchar(50)" json:"salary_suggestion"`
	Recommendation   string     `gorm:"type:varchar(20)" json:"recommendation"`
	ScreeningResult  string     `gorm:"type:text" json:"screening_result"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}

// TransitionTo applies a status change if the transition table allows it.
func (c *Candidate) TransitionTo(target string) error {
	for _, allowed := range candidateTransitions[c.Status] {
		if allowed == target {
			c.Status = target
			return nil
		}
	}
	return &ErrInvalidTransition{From: c.Status, To: target}
}

// CandidateStatuses lists the valid status values, for submission checks.
func CandidateStatuses() []string {
	return []string{
		CandidateStatusPending,
		CandidateStatusScreened,
		CandidateStatusInterviewing,
		CandidateStatusAnalyzed,
	}
}
