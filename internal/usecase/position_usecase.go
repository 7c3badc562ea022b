package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/fadilmartias/panel-review/internal/util"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// CreatePosition registers a position and stores its description embedding
// for later similarity lookups.
func (uc *PanelUsecase) CreatePosition(ctx context.Context, title, content string) (*model.Position, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, util.NewFormError("validation failed", map[string]string{
			"title":   "title is required",
			"content": "content is required",
		})
	}

	embedding, err := uc.embedder.GenerateEmbedding(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("embed position: %w", err)
	}

	now := time.Now()
	position := model.Position{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		Embedding: pgvector.NewVector(embedding),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.positions.Create(&position); err != nil {
		return nil, err
	}
	return &position, nil
}

// resolvePosition loads the referenced position or builds a transient one
// from the inline fields.
func (uc *PanelUsecase) resolvePosition(req ScreeningRequest) (model.Position, error) {
	if req.PositionID != "" {
		position, err := uc.positions.FindByID(req.PositionID)
		if err != nil {
			return model.Position{}, fmt.Errorf("position %s: %w", req.PositionID, err)
		}
		return *position, nil
	}
	if strings.TrimSpace(req.PositionContent) == "" {
		return model.Position{}, util.NewFormError("validation failed", map[string]string{
			"position": "position_id or position_content is required",
		})
	}
	return model.Position{Title: req.PositionTitle, Content: req.PositionContent}, nil
}

// relatedPositionsContext enriches the screening prompt with similar
// openings. Failures here are non-fatal; screening proceeds without the
// extra context.
func (uc *PanelUsecase) relatedPositionsContext(ctx context.Context, position model.Position) string {
	embedding, err := uc.embedder.GenerateEmbedding(ctx, position.Content)
	if err != nil {
		log.Printf("skip related positions: embedding failed: %v", err)
		return ""
	}
	related, err := uc.positions.SearchSimilar(pgvector.NewVector(embedding), 3)
	if err != nil {
		log.Printf("skip related positions: search failed: %v", err)
		return ""
	}

	var b strings.Builder
	for i, p := range related {
		if p.ID == position.ID {
			continue
		}
		fmt.Fprintf(&b, "相关岗位%d：%s\n%s\n\n", i+1, p.Title, p.Content)
	}
	return b.String()
}

func screeningPrompt(position model.Position, related string, candidate *model.Candidate) string {
	var b strings.Builder
	b.WriteString("本次评审会的任务是对候选人简历进行初筛评估。\n\n")
	fmt.Fprintf(&b, "目标岗位：%s\n%s\n\n", position.Title, position.Content)
	if related != "" {
		b.WriteString("公司内其他相关岗位，供参考：\n")
		b.WriteString(related)
	}
	fmt.Fprintf(&b, "候选人：%s\n简历内容：\n%s\n", candidate.Name, candidate.Resume)
	return b.String()
}

func (uc *PanelUsecase) evaluationPrompt(group *model.CandidateGroup, members []model.Candidate) (string, error) {
	var b strings.Builder
	b.WriteString("本次评审会的任务是对面试后的候选人进行综合评估。\n\n")
	fmt.Fprintf(&b, "候选组：%s\n\n", group.Name)
	for i := range members {
		member := &members[i]
		fmt.Fprintf(&b, "候选人%d：%s（初筛得分 %.1f）\n简历摘要：\n%s\n", i+1, member.Name, member.Score, member.Resume)
		analysis, err := uc.analyses.FindByCandidate(member.ID)
		if err == nil && analysis.Summary != "" {
			fmt.Fprintf(&b, "面试分析摘要：\n%s\n", analysis.Summary)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
