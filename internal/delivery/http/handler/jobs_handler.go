package handler

import (
	"errors"
	"strconv"

	"skill-compass/internal/delivery/http/dto"
	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/pkg/response"
	"skill-compass/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	uc usecase.JobUsecase
}

type createJobRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	SkillIDs    []int64 `json:"skill_ids"`
}

func NewJobsHandler(uc usecase.JobUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) List(c fiber.Ctx) error {
	page, err := parseQueryIntStrict(c, "page", 1)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	size, err := parseQueryIntStrict(c, "size", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	pageData, err := h.uc.ListJobs(c.Context(), page, size)
	if err != nil {
		return mapJobUsecaseError(err)
	}

	items := make([]dto.JobResponse, 0, len(pageData.Items))
	for _, it := range pageData.Items {
		items = append(items, toJobResponse(it))
	}

	res := dto.JobListResponse{
		Total: pageData.Total,
		Page:  pageData.Page,
		Size:  pageData.Size,
		Pages: pageData.Pages,
		Items: items,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *JobsHandler) Get(c fiber.Ctx) error {
	jobID, err := parseJobIDParam(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	item, err := h.uc.GetJob(c.Context(), jobID)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toJobResponse(item))
}

func (h *JobsHandler) Create(c fiber.Ctx) error {
	var req createJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	item, err := h.uc.CreateJob(c.Context(), usecase.CreateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Company:     req.Company,
		Location:    req.Location,
		SkillIDs:    req.SkillIDs,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Job created", toJobResponse(item))
}

func parseJobIDParam(c fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("jobID"), 10, 64)
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidSkillIDs):
		return middleware.NewAppError(fiber.StatusBadRequest, "One or more skills not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Job title is required", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
