package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/fadilmartias/panel-review/internal/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCandidate(f *testFixture, groupID *uuid.UUID, name, status string) uuid.UUID {
	candidate := model.Candidate{
		ID:        uuid.New(),
		GroupID:   groupID,
		Name:      name,
		Resume:    "三年后端开发经验，熟悉 Go 与 PostgreSQL。",
		Status:    status,
		CreatedAt: time.Now(),
	}
	_ = f.candidates.Create(&candidate)
	return candidate.ID
}

func seedJob(f *testFixture, kind string, totalSteps int) uuid.UUID {
	job := model.PanelJob{
		ID:         uuid.New(),
		Kind:       kind,
		Status:     model.JobStatusPending,
		TotalSteps: totalSteps,
		CreatedAt:  time.Now(),
	}
	_ = f.jobs.Create(&job)
	return job.ID
}

func TestSubmitScreeningRejectsEmptyResumes(t *testing.T) {
	f := newTestFixture()

	_, err := f.uc.SubmitScreening(ScreeningRequest{
		PositionTitle:   "后端工程师",
		PositionContent: "负责服务端开发",
	})

	require.Error(t, err)
	var formErr *util.FormError
	assert.True(t, errors.As(err, &formErr))
}

func TestSubmitScreeningRejectsMissingPosition(t *testing.T) {
	f := newTestFixture()

	_, err := f.uc.SubmitScreening(ScreeningRequest{
		Resumes: []ResumeSubmission{{Name: "张三", Resume: "简历内容"}},
	})

	require.Error(t, err)
	var formErr *util.FormError
	assert.True(t, errors.As(err, &formErr))
}

func TestScreeningJobSucceedsFirstAttempt(t *testing.T) {
	f := newTestFixture()
	candidateID := seedCandidate(f, nil, "张三", model.CandidateStatusPending)
	jobID := seedJob(f, model.JobKindScreening, 1)

	position := model.Position{Title: "后端工程师", Content: "负责服务端开发"}
	f.uc.runJob(jobID, func(ctx context.Context) error {
		return f.uc.executeScreening(ctx, jobID, position, []uuid.UUID{candidateID})
	})

	job, err := f.jobs.FindByID(jobID.String())
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, 1, job.Attempts)
	assert.NotEmpty(t, job.ReportURL)
	assert.NotEmpty(t, job.RecordURL)
	assert.NotEmpty(t, job.Result)

	candidate, err := f.candidates.FindByID(candidateID.String())
	require.NoError(t, err)
	assert.Equal(t, model.CandidateStatusScreened, candidate.Status)
	// Synthesizer gave an explicit composite; the weighted fallback must
	// not overwrite it.
	assert.Equal(t, 85.0, candidate.Score)
	assert.True(t, candidate.ScoreFound)
	assert.Equal(t, "推荐", candidate.Recommendation)
	assert.Equal(t, "18000", candidate.SalarySuggestion)
}

func TestJobRetriesWholePipelineAndSucceedsOnThirdAttempt(t *testing.T) {
	f := newTestFixture()
	// Fail the first utterance of attempts 1 and 2; attempt 3 runs clean.
	f.speaker.failuresLeft = 2
	candidateID := seedCandidate(f, nil, "张三", model.CandidateStatusPending)
	jobID := seedJob(f, model.JobKindScreening, 1)

	position := model.Position{Title: "后端工程师", Content: "负责服务端开发"}
	f.uc.runJob(jobID, func(ctx context.Context) error {
		return f.uc.executeScreening(ctx, jobID, position, []uuid.UUID{candidateID})
	})

	job, err := f.jobs.FindByID(jobID.String())
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, 3, job.Attempts)
	// Failed attempts abort on turn 0, so two failing calls plus a clean
	// 5-turn conversation means the conversation restarted from scratch.
	assert.Equal(t, 7, f.speaker.calls)
	// Fixed delay between attempts, none before the first.
	assert.Len(t, f.sleeps, 2)
}

func TestJobFailsAfterExhaustingAttempts(t *testing.T) {
	f := newTestFixture()
	f.speaker.failuresLeft = 1 << 30
	candidateID := seedCandidate(f, nil, "张三", model.CandidateStatusPending)
	jobID := seedJob(f, model.JobKindScreening, 1)

	position := model.Position{Title: "后端工程师", Content: "负责服务端开发"}
	f.uc.runJob(jobID, func(ctx context.Context) error {
		return f.uc.executeScreening(ctx, jobID, position, []uuid.UUID{candidateID})
	})

	job, err := f.jobs.FindByID(jobID.String())
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.NotEmpty(t, job.ErrorMessage)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, 3, f.speaker.calls)

	// The candidate is untouched by a failed job.
	candidate, err := f.candidates.FindByID(candidateID.String())
	require.NoError(t, err)
	assert.Equal(t, model.CandidateStatusPending, candidate.Status)
}

func TestSubmitEvaluationRequiresMembers(t *testing.T) {
	f := newTestFixture()
	group := model.CandidateGroup{ID: uuid.New(), Name: "九月批次", Status: model.GroupStatusPending}
	f.groups.put(&group)

	_, err := f.uc.SubmitEvaluation(group.ID.String())

	require.Error(t, err)
	var formErr *util.FormError
	assert.True(t, errors.As(err, &formErr))
}

func TestSubmitEvaluationUnknownGroup(t *testing.T) {
	f := newTestFixture()
	_, err := f.uc.SubmitEvaluation(uuid.New().String())
	require.Error(t, err)
}

func TestEvaluationJobCompletesGroup(t *testing.T) {
	f := newTestFixture()
	group := model.CandidateGroup{ID: uuid.New(), Name: "九月批次", Status: model.GroupStatusInterviewAnalysisCompleted}
	f.groups.put(&group)
	gid := group.ID
	first := seedCandidate(f, &gid, "张三", model.CandidateStatusInterviewing)
	second := seedCandidate(f, &gid, "李四", model.CandidateStatusInterviewing)
	jobID := seedJob(f, model.JobKindEvaluation, 11)

	f.uc.runJob(jobID, func(ctx context.Context) error {
		return f.uc.executeEvaluation(ctx, jobID, group.ID)
	})

	job, err := f.jobs.FindByID(jobID.String())
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	// 11 fixed turns, one utterance each.
	assert.Equal(t, 11, f.speaker.calls)

	updated, err := f.groups.FindByID(group.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.GroupStatusCompleted, updated.Status)
	assert.Equal(t, 85.0, updated.CompositeScore)
	assert.Equal(t, "推荐", updated.FinalDecision)
	assert.NotEmpty(t, updated.ReportURL)

	for _, id := range []uuid.UUID{first, second} {
		candidate, err := f.candidates.FindByID(id.String())
		require.NoError(t, err)
		assert.Equal(t, model.CandidateStatusAnalyzed, candidate.Status)
	}
}
