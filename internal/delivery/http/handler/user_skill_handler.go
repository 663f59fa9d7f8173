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

type UserSkillHandler struct {
	uc usecase.UserSkillUsecase
}

func NewUserSkillHandler(uc usecase.UserSkillUsecase) *UserSkillHandler {
	return &UserSkillHandler{uc: uc}
}

func (h *UserSkillHandler) List(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListUserSkills(c.Context(), userID)
	if err != nil {
		return mapUserSkillUsecaseError(err)
	}

	res := make([]dto.UserSkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.UserSkillResponse{SkillID: it.SkillID, SkillName: it.SkillName})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *UserSkillHandler) Attach(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	skillID, err := parseSkillIDParam(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	attached, err := h.uc.AttachSkill(c.Context(), userID, skillID)
	if err != nil {
		return mapUserSkillUsecaseError(err)
	}

	res := dto.UserSkillResponse{SkillID: attached.SkillID, SkillName: attached.SkillName}
	return response.Success(c, fiber.StatusCreated, "Skill added successfully", res)
}

func (h *UserSkillHandler) Detach(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	skillID, err := parseSkillIDParam(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.DetachSkill(c.Context(), userID, skillID); err != nil {
		return mapUserSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Skill removed successfully", nil)
}

func parseSkillIDParam(c fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("skillID"), 10, 64)
}

func mapUserSkillUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrSkillAlreadyExists):
		return middleware.NewAppError(fiber.StatusConflict, "User already has this skill", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrSkillNotAttached):
		return middleware.NewAppError(fiber.StatusNotFound, "User does not have this skill", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
