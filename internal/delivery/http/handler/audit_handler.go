package handler

import (
	"skill-compass/internal/delivery/http/dto"
	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/pkg/response"
	"skill-compass/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AuditHandler struct {
	uc usecase.AuditUsecase
}

func NewAuditHandler(uc usecase.AuditUsecase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// History lists recommendation audit rows newest first. The route sits behind
// the admin middleware, so role checks are already done by the time we run.
func (h *AuditHandler) History(c fiber.Ctx) error {
	skip, err := parseQueryIntStrict(c, "skip", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	limit, err := parseQueryIntStrict(c, "limit", 10)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Limit must be between 1 and 100", nil, nil)
	}

	records, total, err := h.uc.ListHistory(c.Context(), skip, limit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	out := make([]dto.AuditRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.AuditRecordResponse{
			ID:        rec.ID,
			UserID:    rec.UserID,
			Username:  rec.Username,
			IPAddress: rec.IPAddress,
			Algorithm: rec.Algorithm,
			Result:    rec.Result,
			CreatedAt: rec.CreatedAt,
		})
	}

	res := dto.AuditHistoryResponse{Total: total, Skip: skip, Limit: limit, Records: out}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
