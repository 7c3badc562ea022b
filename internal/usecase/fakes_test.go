package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type fakeJobStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*model.PanelJob
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[uuid.UUID]*model.PanelJob)}
}

func (s *fakeJobStore) Create(job *model.PanelJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *fakeJobStore) UpdateFields(id uuid.UUID, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "status":
			job.Status = value.(string)
		case "progress":
			job.Progress = value.(int)
		case "current_step":
			job.CurrentStep = value.(int)
		case "current_speaker":
			job.CurrentSpeaker = value.(string)
		case "attempts":
			job.Attempts = value.(int)
		case "error_message":
			job.ErrorMessage = value.(string)
		case "result":
			job.Result = value.(string)
		case "report_url":
			job.ReportURL = value.(string)
		case "record_url":
			job.RecordURL = value.(string)
		}
	}
	return nil
}

func (s *fakeJobStore) FindByID(id string) (*model.PanelJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	job, ok := s.jobs[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *job
	return &copied, nil
}

func (s *fakeJobStore) List(page, pageSize int) ([]model.PanelJob, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PanelJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	return out, int64(len(out)), nil
}

type fakeCandidateStore struct {
	mu         sync.Mutex
	candidates map[uuid.UUID]*model.Candidate
}

func newFakeCandidateStore() *fakeCandidateStore {
	return &fakeCandidateStore{candidates: make(map[uuid.UUID]*model.Candidate)}
}

func (s *fakeCandidateStore) Create(candidate *model.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	copied := *candidate
	s.candidates[candidate.ID] = &copied
	return nil
}

func (s *fakeCandidateStore) Save(candidate *model.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *candidate
	s.candidates[candidate.ID] = &copied
	return nil
}

func (s *fakeCandidateStore) FindByID(id string) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	candidate, ok := s.candidates[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *candidate
	return &copied, nil
}

func (s *fakeCandidateStore) FindByGroup(groupID uuid.UUID) ([]model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Candidate
	for _, candidate := range s.candidates {
		if candidate.GroupID != nil && *candidate.GroupID == groupID {
			out = append(out, *candidate)
		}
	}
	return out, nil
}

type fakeGroupStore struct {
	mu     sync.Mutex
	groups map[uuid.UUID]*model.CandidateGroup
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{groups: make(map[uuid.UUID]*model.CandidateGroup)}
}

func (s *fakeGroupStore) put(group *model.CandidateGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *group
	s.groups[group.ID] = &copied
}

func (s *fakeGroupStore) Create(group *model.CandidateGroup) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	s.put(group)
	return nil
}

func (s *fakeGroupStore) FindByID(id string) (*model.CandidateGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	group, ok := s.groups[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *group
	return &copied, nil
}

func (s *fakeGroupStore) UpdateFields(id uuid.UUID, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group, ok := s.groups[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "status":
			group.Status = value.(string)
		case "composite_score":
			group.CompositeScore = value.(float64)
		case "final_decision":
			group.FinalDecision = value.(string)
		case "report_url":
			group.ReportURL = value.(string)
		}
	}
	return nil
}

type fakeAnalysisStore struct {
	mu       sync.Mutex
	analyses map[uuid.UUID]*model.InterviewAnalysis // keyed by candidate id
}

func newFakeAnalysisStore() *fakeAnalysisStore {
	return &fakeAnalysisStore{analyses: make(map[uuid.UUID]*model.InterviewAnalysis)}
}

func (s *fakeAnalysisStore) Create(analysis *model.InterviewAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if analysis.ID == uuid.Nil {
		analysis.ID = uuid.New()
	}
	copied := *analysis
	s.analyses[analysis.CandidateID] = &copied
	return nil
}

func (s *fakeAnalysisStore) Save(analysis *model.InterviewAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *analysis
	s.analyses[analysis.CandidateID] = &copied
	return nil
}

func (s *fakeAnalysisStore) FindByCandidate(candidateID uuid.UUID) (*model.InterviewAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	analysis, ok := s.analyses[candidateID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *analysis
	return &copied, nil
}

func (s *fakeAnalysisStore) FindByCandidates(candidateIDs []uuid.UUID) ([]model.InterviewAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.InterviewAnalysis
	for _, id := range candidateIDs {
		if analysis, ok := s.analyses[id]; ok {
			out = append(out, *analysis)
		}
	}
	return out, nil
}

type fakePositionStore struct {
	mu        sync.Mutex
	positions map[uuid.UUID]*model.Position
}

func newFakePositionStore() *fakePositionStore {
	return &fakePositionStore{positions: make(map[uuid.UUID]*model.Position)}
}

func (s *fakePositionStore) Create(position *model.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *position
	s.positions[position.ID] = &copied
	return nil
}

func (s *fakePositionStore) FindByID(id string) (*model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	position, ok := s.positions[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *position
	return &copied, nil
}

func (s *fakePositionStore) SearchSimilar(embedding pgvector.Vector, topK int) ([]model.Position, error) {
	return nil, nil
}

type fakeArtifactStore struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func newFakeArtifactStore() *fakeArtifactStore {
	return &fakeArtifactStore{saved: make(map[string][]byte)}
}

func (s *fakeArtifactStore) Save(filename string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[filename] = data
	return "mem://" + filename, nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

// flakySpeaker fails the first failuresLeft utterance calls, then replies
// with a full structured verdict.
type flakySpeaker struct {
	mu           sync.Mutex
	failuresLeft int
	calls        int
}

const cannedVerdict = "HR评分：80分，建议月薪：18000\n技术评分：90分\n经理评分：70分\n综合评分：85分\n招聘建议：推荐\n综合来看候选人值得录用。"

func (s *flakySpeaker) Produce(_ context.Context, _ string, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failuresLeft > 0 {
		s.failuresLeft--
		return "", fmt.Errorf("simulated upstream failure")
	}
	return cannedVerdict, nil
}

type testFixture struct {
	uc         *PanelUsecase
	jobs       *fakeJobStore
	candidates *fakeCandidateStore
	groups     *fakeGroupStore
	analyses   *fakeAnalysisStore
	positions  *fakePositionStore
	artifacts  *fakeArtifactStore
	speaker    *flakySpeaker
	sleeps     []int // delay count record
}

func newTestFixture() *testFixture {
	f := &testFixture{
		jobs:       newFakeJobStore(),
		candidates: newFakeCandidateStore(),
		groups:     newFakeGroupStore(),
		analyses:   newFakeAnalysisStore(),
		positions:  newFakePositionStore(),
		artifacts:  newFakeArtifactStore(),
		speaker:    &flakySpeaker{},
	}
	f.uc = NewPanelUsecase(f.jobs, f.candidates, f.groups, f.analyses, f.positions, f.artifacts, f.speaker, fakeEmbedder{})
	f.uc.retryDelay = time.Millisecond
	f.uc.sleep = func(d time.Duration) { f.sleeps = append(f.sleeps, int(d)) }
	return f
}
