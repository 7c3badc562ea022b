package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/fadilmartias/panel-review/internal/panel"
	"github.com/fadilmartias/panel-review/internal/util"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const (
	jobMaxAttempts = 3
	jobRetryDelay  = 60 * time.Second
)

type JobStore interface {
	Create(job *model.PanelJob) error
	UpdateFields(id uuid.UUID, fields map[string]any) error
	FindByID(id string) (*model.PanelJob, error)
	List(page, pageSize int) ([]model.PanelJob, int64, error)
}

type CandidateStore interface {
	Create(candidate *model.Candidate) error
	Save(candidate *model.Candidate) error
	FindByID(id string) (*model.Candidate, error)
	FindByGroup(groupID uuid.UUID) ([]model.Candidate, error)
}

type GroupStore interface {
	Create(group *model.CandidateGroup) error
	FindByID(id string) (*model.CandidateGroup, error)
	UpdateFields(id uuid.UUID, fields map[string]any) error
}

type AnalysisStore interface {
	Create(analysis *model.InterviewAnalysis) error
	Save(analysis *model.InterviewAnalysis) error
	FindByCandidate(candidateID uuid.UUID) (*model.InterviewAnalysis, error)
	FindByCandidates(candidateIDs []uuid.UUID) ([]model.InterviewAnalysis, error)
}

type PositionStore interface {
	Create(position *model.Position) error
	FindByID(id string) (*model.Position, error)
	SearchSimilar(embedding pgvector.Vector, topK int) ([]model.Position, error)
}

type ArtifactStore interface {
	Save(filename string, data []byte) (string, error)
}

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type PanelUsecase struct {
	jobs       JobStore
	candidates CandidateStore
	groups     GroupStore
	analyses   AnalysisStore
	positions  PositionStore
	artifacts  ArtifactStore
	speaker    panel.Speaker
	embedder   Embedder

	maxAttempts int
	retryDelay  time.Duration
	sleep       func(time.Duration)
}

func NewPanelUsecase(
	jobs JobStore,
	candidates CandidateStore,
	groups GroupStore,
	analyses AnalysisStore,
	positions PositionStore,
	artifacts ArtifactStore,
	speaker panel.Speaker,
	embedder Embedder,
) *PanelUsecase {
	return &PanelUsecase{
		jobs:        jobs,
		candidates:  candidates,
		groups:      groups,
		analyses:    analyses,
		positions:   positions,
		artifacts:   artifacts,
		speaker:     speaker,
		embedder:    embedder,
		maxAttempts: jobMaxAttempts,
		retryDelay:  jobRetryDelay,
		sleep:       time.Sleep,
	}
}

type ResumeSubmission struct {
	Name   string `json:"name"`
	Resume string `json:"resume"`
}

type ScreeningRequest struct {
	PositionID      string             `json:"position_id"`
	PositionTitle   string             `json:"position_title"`
	PositionContent string             `json:"position_content"`
	GroupID         string             `json:"group_id"`
	Resumes         []ResumeSubmission `json:"resumes"`
}

// SubmitScreening validates the submission, creates candidate rows and a
// pending job, and starts the panel review in the background. Execution
// errors never reach the caller; they end up on the job row.
func (uc *PanelUsecase) SubmitScreening(req ScreeningRequest) (string, error) {
	position, err := uc.resolvePosition(req)
	if err != nil {
		return "", err
	}

	if len(req.Resumes) == 0 {
		return "", util.NewFormError("validation failed", map[string]string{"resumes": "at least one resume is required"})
	}
	for i, r := range req.Resumes {
		if strings.TrimSpace(r.Resume) == "" {
			return "", util.NewFormError("validation failed", map[string]string{
				fmt.Sprintf("resumes[%d]", i): "resume text is required",
			})
		}
	}

	var groupID *uuid.UUID
	if req.GroupID != "" {
		group, err := uc.groups.FindByID(req.GroupID)
		if err != nil {
			return "", fmt.Errorf("group %s: %w", req.GroupID, err)
		}
		groupID = &group.ID
	}

	now := time.Now()
	candidateIDs := make([]uuid.UUID, 0, len(req.Resumes))
	for _, r := range req.Resumes {
		candidate := model.Candidate{
			ID:        uuid.New(),
			GroupID:   groupID,
			Name:      r.Name,
			Resume:    r.Resume,
			Status:    model.CandidateStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.candidates.Create(&candidate); err != nil {
			return "", err
		}
		candidateIDs = append(candidateIDs, candidate.ID)
	}

	job := model.PanelJob{
		ID:         uuid.New(),
		Kind:       model.JobKindScreening,
		Status:     model.JobStatusPending,
		TotalSteps: len(candidateIDs),
		GroupID:    groupID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if position.ID != uuid.Nil {
		id := position.ID
		job.PositionID = &id
	}
	if err := uc.jobs.Create(&job); err != nil {
		return "", err
	}

	go uc.runJob(job.ID, func(ctx context.Context) error {
		return uc.executeScreening(ctx, job.ID, position, candidateIDs)
	})

	return job.ID.String(), nil
}

// SubmitEvaluation starts the two-phase post-interview panel review for a
// candidate group.
func (uc *PanelUsecase) SubmitEvaluation(groupID string) (string, error) {
	group, err := uc.groups.FindByID(groupID)
	if err != nil {
		return "", fmt.Errorf("group %s: %w", groupID, err)
	}
	members, err := uc.candidates.FindByGroup(group.ID)
	if err != nil {
		return "", err
	}
	if len(members) == 0 {
		return "", util.NewFormError("validation failed", map[string]string{"group": "group has no candidates"})
	}

	now := time.Now()
	gid := group.ID
	job := model.PanelJob{
		ID:         uuid.New(),
		Kind:       model.JobKindEvaluation,
		Status:     model.JobStatusPending,
		TotalSteps: len(panel.EvaluationSequence),
		GroupID:    &gid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.jobs.Create(&job); err != nil {
		return "", err
	}

	go uc.runJob(job.ID, func(ctx context.Context) error {
		return uc.executeEvaluation(ctx, job.ID, group.ID)
	})

	return job.ID.String(), nil
}

func (uc *PanelUsecase) GetJobStatus(id string) (*model.PanelJob, error) {
	return uc.jobs.FindByID(id)
}

func (uc *PanelUsecase) ListJobs(page, pageSize int) ([]model.PanelJob, int64, error) {
	return uc.jobs.List(page, pageSize)
}

// runJob is the bounded retry loop around one pipeline execution. Every
// attempt restarts the conversation from turn 0; there is no checkpoint.
func (uc *PanelUsecase) runJob(jobID uuid.UUID, run func(ctx context.Context) error) {
	ctx := context.Background()
	_ = uc.jobs.UpdateFields(jobID, map[string]any{"status": model.JobStatusRunning})

	var lastErr error
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		if attempt > 1 {
			uc.sleep(uc.retryDelay)
		}
		_ = uc.jobs.UpdateFields(jobID, map[string]any{"attempts": attempt})

		err := run(ctx)
		if err == nil {
			return
		}
		lastErr = err
		log.Printf("panel job %s attempt %d/%d failed: %v", jobID, attempt, uc.maxAttempts, err)
		_ = uc.jobs.UpdateFields(jobID, map[string]any{"error_message": err.Error()})
	}

	_ = uc.jobs.UpdateFields(jobID, map[string]any{
		"status":        model.JobStatusFailed,
		"error_message": lastErr.Error(),
	})
}

// candidateOutcome is the compact per-candidate summary stored on the job.
type candidateOutcome struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Decision    string  `json:"decision"`
	Salary      string  `json:"salary_suggestion,omitempty"`
}

func (uc *PanelUsecase) executeScreening(ctx context.Context, jobID uuid.UUID, position model.Position, candidateIDs []uuid.UUID) error {
	roster := panel.NewRoster(uc.speaker)
	related := uc.relatedPositionsContext(ctx, position)

	total := len(candidateIDs)
	outcomes := make([]candidateOutcome, 0, total)
	var markdowns []string
	var records []json.RawMessage

	for i, candidateID := range candidateIDs {
		candidate, err := uc.candidates.FindByID(candidateID.String())
		if err != nil {
			return fmt.Errorf("candidate %s: %w", candidateID, err)
		}

		_ = uc.jobs.UpdateFields(jobID, map[string]any{
			"current_step": i + 1,
			"progress":     i * 100 / total,
		})

		driver := panel.NewDriver(roster, func(role panel.Role, step int) {
			_ = uc.jobs.UpdateFields(jobID, map[string]any{"current_speaker": string(role)})
		})

		conv, err := driver.Run(ctx, screeningPrompt(position, related, candidate), panel.ScreeningSequence)
		if err != nil {
			return fmt.Errorf("screening conversation for %s: %w", candidate.Name, err)
		}

		verdict := panel.Extract(conv)
		panel.Finalize(&verdict)

		report, err := panel.BuildReport(fmt.Sprintf("简历评审报告：%s", candidate.Name), conv, verdict)
		if err != nil {
			return err
		}
		markdowns = append(markdowns, string(report.Markdown))
		records = append(records, json.RawMessage(report.Record))

		candidate.Score = verdict.Composite.Value
		candidate.ScoreFound = verdict.Composite.Found || verdict.HR.Score.Found ||
			verdict.Technical.Score.Found || verdict.Manager.Score.Found
		candidate.Recommendation = verdict.Decision
		candidate.SalarySuggestion = pickSalary(verdict)
		candidate.ScreeningResult = verdict.Reasoning
		if err := candidate.TransitionTo(model.CandidateStatusScreened); err != nil {
			// Re-screening an already screened candidate is fine; other
			// states keep their status and only the result fields update.
			log.Printf("candidate %s stays %s: %v", candidate.ID, candidate.Status, err)
		}
		candidate.UpdatedAt = time.Now()
		if err := uc.candidates.Save(candidate); err != nil {
			return err
		}

		outcomes = append(outcomes, candidateOutcome{
			CandidateID: candidate.ID.String(),
			Name:        candidate.Name,
			Score:       candidate.Score,
			Decision:    candidate.Recommendation,
			Salary:      candidate.SalarySuggestion,
		})
	}

	reportURL, recordURL, err := uc.saveArtifacts(jobID, strings.Join(markdowns, "\n\n---\n\n"), records)
	if err != nil {
		return err
	}

	result, err := json.Marshal(outcomes)
	if err != nil {
		return err
	}

	return uc.jobs.UpdateFields(jobID, map[string]any{
		"status":     model.JobStatusCompleted,
		"progress":   100,
		"result":     string(result),
		"report_url": reportURL,
		"record_url": recordURL,
	})
}

func (uc *PanelUsecase) executeEvaluation(ctx context.Context, jobID uuid.UUID, groupID uuid.UUID) error {
	group, err := uc.groups.FindByID(groupID.String())
	if err != nil {
		return fmt.Errorf("group %s: %w", groupID, err)
	}
	members, err := uc.candidates.FindByGroup(group.ID)
	if err != nil {
		return err
	}

	if err := uc.advanceGroupStatus(group, model.GroupStatusComprehensiveScreening); err != nil {
		return err
	}

	total := len(panel.EvaluationSequence)
	driver := panel.NewDriver(panel.NewRoster(uc.speaker), func(role panel.Role, step int) {
		_ = uc.jobs.UpdateFields(jobID, map[string]any{
			"current_step":    step + 1,
			"current_speaker": string(role),
			"progress":        step * 100 / total,
		})
	})

	prompt, err := uc.evaluationPrompt(group, members)
	if err != nil {
		return err
	}

	conv, err := driver.Run(ctx, prompt, panel.EvaluationSequence)
	if err != nil {
		return fmt.Errorf("evaluation conversation for group %s: %w", group.ID, err)
	}

	verdict := panel.Extract(conv)
	panel.Finalize(&verdict)

	report, err := panel.BuildReport(fmt.Sprintf("综合评审报告：%s", group.Name), conv, verdict)
	if err != nil {
		return err
	}
	reportURL, recordURL, err := uc.saveArtifacts(jobID, string(report.Markdown), []json.RawMessage{json.RawMessage(report.Record)})
	if err != nil {
		return err
	}

	if err := uc.groups.UpdateFields(group.ID, map[string]any{
		"composite_score": verdict.Composite.Value,
		"final_decision":  verdict.Decision,
		"report_url":      reportURL,
	}); err != nil {
		return err
	}
	if err := uc.advanceGroupStatus(group, model.GroupStatusCompleted); err != nil {
		return err
	}

	for i := range members {
		member := &members[i]
		if err := member.TransitionTo(model.CandidateStatusAnalyzed); err != nil {
			log.Printf("candidate %s stays %s: %v", member.ID, member.Status, err)
			continue
		}
		member.UpdatedAt = time.Now()
		if err := uc.candidates.Save(member); err != nil {
			return err
		}
	}

	return uc.jobs.UpdateFields(jobID, map[string]any{
		"status":     model.JobStatusCompleted,
		"progress":   100,
		"result":     string(report.Record),
		"report_url": reportURL,
		"record_url": recordURL,
	})
}

func (uc *PanelUsecase) saveArtifacts(jobID uuid.UUID, markdown string, records []json.RawMessage) (string, string, error) {
	reportURL, err := uc.artifacts.Save(fmt.Sprintf("panel-%s.md", jobID), []byte(markdown))
	if err != nil {
		return "", "", fmt.Errorf("save report: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", "", err
	}
	recordURL, err := uc.artifacts.Save(fmt.Sprintf("panel-%s.json", jobID), data)
	if err != nil {
		return "", "", fmt.Errorf("save record: %w", err)
	}
	return reportURL, recordURL, nil
}

// pickSalary prefers the HR suggestion, then technical, then manager.
func pickSalary(v panel.Verdict) string {
	for _, salary := range []string{v.HR.Salary, v.Technical.Salary, v.Manager.Salary} {
		if salary != "" {
			return salary
		}
	}
	return ""
}
