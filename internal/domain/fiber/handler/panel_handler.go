package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fadilmartias/panel-review/internal/dto"
	"github.com/fadilmartias/panel-review/internal/middleware"
	"github.com/fadilmartias/panel-review/internal/model"
	"github.com/fadilmartias/panel-review/internal/response"
	"github.com/fadilmartias/panel-review/internal/usecase"
	"github.com/fadilmartias/panel-review/internal/util"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PanelHandler struct {
	uc *usecase.PanelUsecase
}

func NewPanelHandler(uc *usecase.PanelUsecase) *PanelHandler {
	return &PanelHandler{uc: uc}
}

func (h *PanelHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/positions", h.CreatePosition)
	app.Post("/groups", h.CreateGroup)
	app.Get("/groups/:id", h.GetGroup)
	app.Post("/screenings", middleware.RateLimiter(5, 1*time.Minute), h.SubmitScreening)
	app.Post("/groups/:id/evaluations", middleware.RateLimiter(5, 1*time.Minute), h.SubmitEvaluation)
	app.Get("/jobs", h.ListJobs)
	app.Get("/jobs/:id", h.JobStatus)
	app.Patch("/candidates/:id/status", h.TransitionCandidate)
	app.Post("/candidates/:id/analyses", h.StartAnalysis)
	app.Post("/candidates/:id/analyses/complete", h.CompleteAnalysis)
}

func (h *PanelHandler) CreatePosition(c *fiber.Ctx) error {
	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	position, err := h.uc.CreatePosition(c.Context(), body.Title, body.Content)
	if err != nil {
		return h.mapError(c, err, "failed to create position")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create position",
		Data:    fiber.Map{"id": position.ID, "title": position.Title},
	})
}

func (h *PanelHandler) CreateGroup(c *fiber.Ctx) error {
	var body struct {
		Name       string `json:"name"`
		PositionID string `json:"position_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	group, err := h.uc.CreateGroup(body.Name, body.PositionID)
	if err != nil {
		return h.mapError(c, err, "failed to create group")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create group",
		Data:    fiber.Map{"id": group.ID, "name": group.Name, "status": group.Status},
	})
}

// GetGroup recomputes the group status from its members' analyses before
// returning it, so reads always reflect the latest analysis progress.
func (h *PanelHandler) GetGroup(c *fiber.Ctx) error {
	group, err := h.uc.RefreshGroupStatus(c.Params("id"))
	if err != nil {
		return h.mapError(c, err, "failed to get group")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get group",
		Data: fiber.Map{
			"id":              group.ID,
			"name":            group.Name,
			"status":          group.Status,
			"composite_score": group.CompositeScore,
			"final_decision":  group.FinalDecision,
			"report_url":      group.ReportURL,
		},
	})
}

// SubmitScreening accepts either a JSON body with resume texts or a
// multipart form with resume PDFs.
func (h *PanelHandler) SubmitScreening(c *fiber.Ctx) error {
	var req usecase.ScreeningRequest

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		parsed, err := h.parseMultipartScreening(c)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: err.Error(),
			}, err)
		}
		req = parsed
	} else if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	id, err := h.uc.SubmitScreening(req)
	if err != nil {
		return h.mapError(c, err, "failed to submit screening")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Success submit screening",
		Data:    fiber.Map{"id": id, "status": model.JobStatusPending},
	})
}

func (h *PanelHandler) parseMultipartScreening(c *fiber.Ctx) (usecase.ScreeningRequest, error) {
	req := usecase.ScreeningRequest{
		PositionID:      c.FormValue("position_id"),
		PositionTitle:   c.FormValue("position_title"),
		PositionContent: c.FormValue("position_content"),
		GroupID:         c.FormValue("group_id"),
	}

	form, err := c.MultipartForm()
	if err != nil {
		return req, fmt.Errorf("invalid multipart form: %w", err)
	}

	files := form.File["resumes"]
	for _, file := range files {
		if file.Size > 5*1024*1024 {
			return req, fmt.Errorf("resume %s is too large (max 5MB)", file.Filename)
		}
		if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
			return req, fmt.Errorf("unsupported resume file type: %s", file.Filename)
		}

		savePath := filepath.Join("./uploads/resumes/", filepath.Base(file.Filename))
		if err := c.SaveFile(file, savePath); err != nil {
			return req, fmt.Errorf("cannot save resume file %s: %w", file.Filename, err)
		}

		content, err := util.ExtractResumePDF(savePath)
		if err != nil {
			return req, fmt.Errorf("failed to extract resume text from %s: %w", file.Filename, err)
		}

		name := strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
		req.Resumes = append(req.Resumes, usecase.ResumeSubmission{Name: name, Resume: content})
	}

	return req, nil
}

func (h *PanelHandler) SubmitEvaluation(c *fiber.Ctx) error {
	id, err := h.uc.SubmitEvaluation(c.Params("id"))
	if err != nil {
		return h.mapError(c, err, "failed to submit evaluation")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Success submit evaluation",
		Data:    fiber.Map{"id": id, "status": model.JobStatusPending},
	})
}

func (h *PanelHandler) JobStatus(c *fiber.Ctx) error {
	job, err := h.uc.GetJobStatus(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "job not found",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job status",
		Data:    dto.NewPanelJobDTO(job),
	})
}

func (h *PanelHandler) ListJobs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	jobs, total, err := h.uc.ListJobs(page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list jobs",
		}, err)
	}

	data := make([]dto.PanelJobDTO, 0, len(jobs))
	for i := range jobs {
		data = append(data, dto.NewPanelJobDTO(&jobs[i]))
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	from := (page-1)*pageSize + 1
	if len(data) == 0 {
		from = 0
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list jobs",
		Data:    data,
		Pagination: &response.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalItems: total,
			HasMore:    int64(page) < totalPages,
			From:       from,
			To:         from + len(data) - 1,
		},
	})
}

func (h *PanelHandler) TransitionCandidate(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	candidate, err := h.uc.TransitionCandidate(c.Params("id"), body.Status)
	if err != nil {
		return h.mapError(c, err, "failed to update candidate status")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update candidate status",
		Data:    fiber.Map{"id": candidate.ID, "status": candidate.Status},
	})
}

func (h *PanelHandler) StartAnalysis(c *fiber.Ctx) error {
	analysis, err := h.uc.StartAnalysis(c.Params("id"))
	if err != nil {
		return h.mapError(c, err, "failed to start interview analysis")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success start interview analysis",
		Data:    fiber.Map{"id": analysis.ID, "status": analysis.Status},
	})
}

func (h *PanelHandler) CompleteAnalysis(c *fiber.Ctx) error {
	var body struct {
		Summary string `json:"summary"`
	}
	_ = c.BodyParser(&body)

	analysis, err := h.uc.CompleteAnalysis(c.Params("id"), body.Summary)
	if err != nil {
		return h.mapError(c, err, "failed to complete interview analysis")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success complete interview analysis",
		Data:    fiber.Map{"id": analysis.ID, "status": analysis.Status},
	})
}

// mapError translates the usecase error taxonomy to HTTP codes: form and
// transition errors are 400, missing records 404, everything else 500.
func (h *PanelHandler) mapError(c *fiber.Ctx, err error, message string) error {
	var formErr *util.FormError
	if errors.As(err, &formErr) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: formErr.Message,
			Details: formErr.Errors,
		}, err)
	}
	var invalid *model.ErrInvalidTransition
	if errors.As(err, &invalid) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: invalid.Error(),
		}, err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "record not found",
		}, err)
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Message: message,
	}, err)
}
