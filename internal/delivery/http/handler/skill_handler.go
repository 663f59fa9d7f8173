package handler

import (
	"errors"

	"skill-compass/internal/delivery/http/dto"
	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/pkg/response"
	"skill-compass/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

type createSkillRequest struct {
	Name string `json:"name"`
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListSkills(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	res := make([]dto.SkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.SkillResponse{ID: it.ID, Name: it.Name})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

// Create is get-or-create: posting a name that already exists returns the
// stored row with 200 instead of an error.
func (h *SkillHandler) Create(c fiber.Ctx) error {
	var req createSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	skill, created, err := h.uc.AddSkill(c.Context(), req.Name)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Skill name is required", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	res := dto.SkillResponse{ID: skill.ID, Name: skill.Name}
	if created {
		return response.Success(c, fiber.StatusCreated, "Skill created", res)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
