package usecase

import (
	"fmt"
	"time"

	"github.com/fadilmartias/panel-review/internal/util"

	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/google/uuid"
)

// CreateGroup registers a candidate group in its initial status.
func (uc *PanelUsecase) CreateGroup(name string, positionID string) (*model.CandidateGroup, error) {
	if name == "" {
		return nil, util.NewFormError("validation failed", map[string]string{"name": "name is required"})
	}

	now := time.Now()
	group := model.CandidateGroup{
		ID:        uuid.New(),
		Name:      name,
		Status:    model.GroupStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if positionID != "" {
		position, err := uc.positions.FindByID(positionID)
		if err != nil {
			return nil, fmt.Errorf("position %s: %w", positionID, err)
		}
		id := position.ID
		group.PositionID = &id
	}
	if err := uc.groups.Create(&group); err != nil {
		return nil, err
	}
	return &group, nil
}

// TransitionCandidate applies an explicit status change, honoring the
// allowed-transitions table.
func (uc *PanelUsecase) TransitionCandidate(id string, target string) (*model.Candidate, error) {
	candidate, err := uc.candidates.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("candidate %s: %w", id, err)
	}
	if err := candidate.TransitionTo(target); err != nil {
		return nil, err
	}
	candidate.UpdatedAt = time.Now()
	if err := uc.candidates.Save(candidate); err != nil {
		return nil, err
	}
	if candidate.GroupID != nil {
		if _, err := uc.RefreshGroupStatus(candidate.GroupID.String()); err != nil {
			return nil, err
		}
	}
	return candidate, nil
}

// StartAnalysis links a secondary interview analysis to a candidate and
// moves the candidate to interviewing.
func (uc *PanelUsecase) StartAnalysis(candidateID string) (*model.InterviewAnalysis, error) {
	candidate, err := uc.candidates.FindByID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, err)
	}

	now := time.Now()
	analysis := model.InterviewAnalysis{
		CandidateID: candidate.ID,
		Status:      model.AnalysisStatusProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.analyses.Create(&analysis); err != nil {
		return nil, err
	}

	if err := candidate.TransitionTo(model.CandidateStatusInterviewing); err != nil {
		return nil, err
	}
	candidate.UpdatedAt = now
	if err := uc.candidates.Save(candidate); err != nil {
		return nil, err
	}

	if candidate.GroupID != nil {
		if _, err := uc.RefreshGroupStatus(candidate.GroupID.String()); err != nil {
			return nil, err
		}
	}
	return &analysis, nil
}

// CompleteAnalysis marks a candidate's interview analysis finished and
// recomputes the group status.
func (uc *PanelUsecase) CompleteAnalysis(candidateID string, summary string) (*model.InterviewAnalysis, error) {
	candidate, err := uc.candidates.FindByID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, err)
	}
	analysis, err := uc.analyses.FindByCandidate(candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("analysis for candidate %s: %w", candidateID, err)
	}

	analysis.Status = model.AnalysisStatusCompleted
	if summary != "" {
		analysis.Summary = summary
	}
	analysis.UpdatedAt = time.Now()
	if err := uc.analyses.Save(analysis); err != nil {
		return nil, err
	}

	if candidate.GroupID != nil {
		if _, err := uc.RefreshGroupStatus(candidate.GroupID.String()); err != nil {
			return nil, err
		}
	}
	return analysis, nil
}

// RefreshGroupStatus recomputes the group status from its members'
// analyses. It is idempotent and monotonic: a more advanced status is
// never reverted, even if unlinked members are added later.
func (uc *PanelUsecase) RefreshGroupStatus(groupID string) (*model.CandidateGroup, error) {
	group, err := uc.groups.FindByID(groupID)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", groupID, err)
	}
	members, err := uc.candidates.FindByGroup(group.ID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return group, nil
	}
	return uc.refreshGroupFromMembers(group, members)
}

func (uc *PanelUsecase) refreshGroupFromMembers(group *model.CandidateGroup, members []model.Candidate) (*model.CandidateGroup, error) {
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	analyses, err := uc.analyses.FindByCandidates(ids)
	if err != nil {
		return nil, err
	}

	linked := make(map[uuid.UUID]*model.InterviewAnalysis, len(analyses))
	for i := range analyses {
		linked[analyses[i].CandidateID] = &analyses[i]
	}

	allLinked := true
	allCompleted := true
	for _, m := range members {
		analysis, ok := linked[m.ID]
		if !ok {
			allLinked = false
			allCompleted = false
			break
		}
		if analysis.Status != model.AnalysisStatusCompleted {
			allCompleted = false
		}
	}

	if !allLinked {
		return group, nil
	}
	target := model.GroupStatusInterviewAnalysis
	if allCompleted {
		target = model.GroupStatusInterviewAnalysisCompleted
	}
	if err := uc.advanceGroupStatus(group, target); err != nil {
		return nil, err
	}
	return group, nil
}

// advanceGroupStatus moves the group forward only; equal or lower-ranked
// targets are no-ops.
func (uc *PanelUsecase) advanceGroupStatus(group *model.CandidateGroup, target string) error {
	if model.GroupStatusRank(target) <= model.GroupStatusRank(group.Status) {
		return nil
	}
	group.Status = target
	group.UpdatedAt = time.Now()
	return uc.groups.UpdateFields(group.ID, map[string]any{"status": target})
}
