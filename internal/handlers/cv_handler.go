package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cv-builder/internal/models"
	"cv-builder/internal/repositories"
	apperrors "cv-builder/pkg/errors"
)

// CVHandler owns the stored-CV CRUD surface. Every operation is scoped to
// the authenticated user; a CV belonging to someone else reads as not found.
type CVHandler struct {
	cvRepo repositories.CVRepository
}

func NewCVHandler(cvRepo repositories.CVRepository) *CVHandler {
	return &CVHandler{cvRepo: cvRepo}
}

// List handles GET /api/v1/cvs.
func (h *CVHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	cvs, err := h.cvRepo.FindByUser(userID)
	if err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to list CVs", err))
	}

	out := make([]models.CVResponse, 0, len(cvs))
	for i := range cvs {
		resp, err := cvResponse(&cvs[i])
		if err != nil {
			return respondError(c, err)
		}
		out = append(out, *resp)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"cvs": out})
}

// Get handles GET /api/v1/cvs/:id.
func (h *CVHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperrors.New(apperrors.KindBadInput, "invalid cv id"))
	}

	cv, err := h.cvRepo.FindByID(id, userID)
	if err != nil {
		return respondError(c, notFoundOrPersistence(err, "cv not found"))
	}

	resp, err := cvResponse(cv)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Create handles POST /api/v1/cvs. A request without an id always creates a
// new row, it never updates an existing one.
func (h *CVHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.SaveCVRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindBadInput, "invalid request body", err))
	}
	if req.Data == nil {
		return respondError(c, apperrors.New(apperrors.KindBadInput, "cv data is required"))
	}
	if err := req.Data.Validate(); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindBadInput, "invalid cv data", err))
	}
	req.Data.EnsureEntryIDs()

	cv := &models.CV{
		UserID: userID,
		Title:  req.Title,
	}
	if cv.Title == "" {
		cv.Title = "Untitled CV"
	}
	if err := cv.SetRecord(req.Data); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to encode cv data", err))
	}
	if err := h.cvRepo.Create(cv); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to save cv", err))
	}

	resp, err := cvResponse(cv)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update handles PUT /api/v1/cvs/:id. Concurrent writers follow last write
// wins at the whole-record level.
func (h *CVHandler) Update(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperrors.New(apperrors.KindBadInput, "invalid cv id"))
	}

	var req models.SaveCVRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindBadInput, "invalid request body", err))
	}
	if req.Data == nil {
		return respondError(c, apperrors.New(apperrors.KindBadInput, "cv data is required"))
	}
	if err := req.Data.Validate(); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindBadInput, "invalid cv data", err))
	}
	req.Data.EnsureEntryIDs()

	cv := &models.CV{
		ID:        id,
		UserID:    userID,
		Title:     req.Title,
		UpdatedAt: time.Now(),
	}
	if err := cv.SetRecord(req.Data); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to encode cv data", err))
	}
	if err := h.cvRepo.Update(cv); err != nil {
		return respondError(c, notFoundOrPersistence(err, "cv not found"))
	}

	resp, err := cvResponse(cv)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Delete handles DELETE /api/v1/cvs/:id.
func (h *CVHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperrors.New(apperrors.KindBadInput, "invalid cv id"))
	}

	if err := h.cvRepo.Delete(id, userID); err != nil {
		return respondError(c, notFoundOrPersistence(err, "cv not found"))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "cv deleted"})
}

func cvResponse(cv *models.CV) (*models.CVResponse, error) {
	rec, err := cv.Record()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to decode cv data", err)
	}
	return &models.CVResponse{
		ID:        cv.ID.String(),
		Title:     cv.Title,
		Data:      rec,
		UpdatedAt: cv.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// notFoundOrPersistence maps a repository miss onto a 404 and everything
// else onto a persistence failure.
func notFoundOrPersistence(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.New(apperrors.KindNotFound, msg)
	}
	return apperrors.Wrap(apperrors.KindPersistenceFailure, "storage operation failed", err)
}
