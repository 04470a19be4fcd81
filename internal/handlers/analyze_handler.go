package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cv-builder/internal/models"
	"cv-builder/internal/repositories"
	"cv-builder/internal/services"
	apperrors "cv-builder/pkg/errors"
)

// AnalyzeHandler scores a structured CV on demand, independent of the
// extraction pipeline.
type AnalyzeHandler struct {
	analyzer services.AnalyzerService
	cvRepo   repositories.CVRepository
}

func NewAnalyzeHandler(analyzer services.AnalyzerService, cvRepo repositories.CVRepository) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		cvRepo:   cvRepo,
	}
}

// Analyze handles POST /api/v1/analyze. The body carries either an inline
// record or a stored cv id.
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindBadInput, "invalid request body", err))
	}

	record := req.CV
	if record == nil {
		if req.CVID == "" {
			return respondError(c, apperrors.New(apperrors.KindBadInput, "either cv or cvId is required"))
		}
		id, parseErr := uuid.Parse(req.CVID)
		if parseErr != nil {
			return respondError(c, apperrors.New(apperrors.KindBadInput, "invalid cv id"))
		}
		cv, findErr := h.cvRepo.FindByID(id, userID)
		if findErr != nil {
			return respondError(c, notFoundOrPersistence(findErr, "cv not found"))
		}
		record, err = cv.Record()
		if err != nil {
			return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to decode cv data", err))
		}
	}

	report, err := h.analyzer.Analyze(c.Context(), record)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
