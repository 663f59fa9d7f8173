package handler

import (
	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/pkg/response"
	"skill-compass/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CorpusHandler struct {
	status usecase.CorpusStatusUsecase
	ingest usecase.CorpusIngestUsecase
}

func NewCorpusHandler(status usecase.CorpusStatusUsecase, ingest usecase.CorpusIngestUsecase) *CorpusHandler {
	return &CorpusHandler{status: status, ingest: ingest}
}

func (h *CorpusHandler) Status(c fiber.Ctx) error {
	st, err := h.status.GetStatus(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}

// TriggerIngest starts a corpus ingestion run in the background. Only one run
// may be in flight at a time; a second trigger while the lock is held gets a
// 409.
func (h *CorpusHandler) TriggerIngest(c fiber.Ctx) error {
	started, err := h.ingest.TriggerIngest(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	if !started {
		return middleware.NewAppError(fiber.StatusConflict, "Ingest already running", nil, nil)
	}
	return response.Success(c, fiber.StatusAccepted, "Ingest started", nil)
}
