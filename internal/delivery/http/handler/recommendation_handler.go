package handler

import (
	"errors"
	"strconv"

	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/domain/recommend"
	"skill-compass/internal/pkg/response"
	"skill-compass/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RecommendationHandler struct {
	recs     usecase.RecommendationUsecase
	suggest  usecase.SkillSuggestionUsecase
	defaults recommend.Weights
}

// NewRecommendationHandler needs the configured default weights so a request
// that overrides only one of the two query parameters still gets the other
// from configuration rather than a zero.
func NewRecommendationHandler(recs usecase.RecommendationUsecase, suggest usecase.SkillSuggestionUsecase, defaults recommend.Weights) *RecommendationHandler {
	if err := defaults.Validate(); err != nil {
		defaults = recommend.DefaultWeights()
	}
	return &RecommendationHandler{recs: recs, suggest: suggest, defaults: defaults}
}

func (h *RecommendationHandler) Cosine(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	res, err := h.recs.RecommendCosine(c.Context(), userID, c.IP())
	if err != nil {
		return mapRecommendationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *RecommendationHandler) LLR(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	res, err := h.recs.RecommendLLR(c.Context(), userID, c.IP())
	if err != nil {
		return mapRecommendationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *RecommendationHandler) Combined(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	override, err := h.weightsFromQuery(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.recs.RecommendCombined(c.Context(), userID, override, c.IP())
	if err != nil {
		return mapRecommendationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *RecommendationHandler) SkillsAnalysis(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := parseJobIDParam(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.recs.AnalyzeJobSkills(c.Context(), userID, jobID, c.IP())
	if err != nil {
		return mapRecommendationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *RecommendationHandler) SkillSuggestions(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	topN, err := parseQueryIntStrict(c, "top_n", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.suggest.SuggestSkills(c.Context(), userID, topN, c.IP())
	if err != nil {
		return mapRecommendationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

// weightsFromQuery returns nil when neither weight parameter is present, so
// the usecase keeps its configured pair. Malformed numbers fail here; weight
// pairs that parse but are invalid fail engine validation with a 422.
func (h *RecommendationHandler) weightsFromQuery(c fiber.Ctx) (*recommend.Weights, error) {
	cosRaw := c.Query("weight_cosine")
	llrRaw := c.Query("weight_llr")
	if cosRaw == "" && llrRaw == "" {
		return nil, nil
	}

	w := h.defaults
	if cosRaw != "" {
		v, err := strconv.ParseFloat(cosRaw, 64)
		if err != nil {
			return nil, err
		}
		w.Cosine = v
	}
	if llrRaw != "" {
		v, err := strconv.ParseFloat(llrRaw, 64)
		if err != nil {
			return nil, err
		}
		w.LLR = v
	}
	return &w, nil
}

func mapRecommendationError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, recommend.ErrInvalidWeights):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Invalid weights", nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
