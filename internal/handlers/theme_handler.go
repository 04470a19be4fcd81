package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cv-builder/internal/models"
	"cv-builder/internal/repositories"
	apperrors "cv-builder/pkg/errors"
)

// ThemeHandler serves the theme catalog: four immutable built-ins plus the
// user's own saved palettes.
type ThemeHandler struct {
	themeRepo repositories.ThemeRepository
}

func NewThemeHandler(themeRepo repositories.ThemeRepository) *ThemeHandler {
	return &ThemeHandler{themeRepo: themeRepo}
}

// List handles GET /api/v1/themes. Built-ins come first, then the user's
// custom themes.
func (h *ThemeHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	specs := models.BuiltinThemes()

	custom, err := h.themeRepo.FindByUser(userID)
	if err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to list themes", err))
	}
	for i := range custom {
		spec, specErr := custom[i].Spec()
		if specErr != nil {
			return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to decode theme", specErr))
		}
		specs = append(specs, spec)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"themes": specs})
}

// Create handles POST /api/v1/themes.
func (h *ThemeHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.SaveThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindBadInput, "invalid request body", err))
	}
	if req.Name == "" {
		return respondError(c, apperrors.New(apperrors.KindBadInput, "theme name is required"))
	}

	theme := &models.Theme{
		UserID: userID,
		Name:   req.Name,
	}
	if err := theme.SetPalette(req.Palette); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to encode theme palette", err))
	}
	if err := h.themeRepo.Create(theme); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to save theme", err))
	}

	spec, err := theme.Spec()
	if err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to decode theme", err))
	}
	return c.Status(fiber.StatusCreated).JSON(spec)
}

// Delete handles DELETE /api/v1/themes/:id. Built-in themes are not rows,
// so their ids are rejected before touching storage.
func (h *ThemeHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	rawID := c.Params("id")
	if _, builtin := models.BuiltinTheme(rawID); builtin {
		return respondError(c, apperrors.New(apperrors.KindBadInput, "built-in themes cannot be deleted"))
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return respondError(c, apperrors.New(apperrors.KindBadInput, "invalid theme id"))
	}

	if err := h.themeRepo.Delete(id, userID); err != nil {
		return respondError(c, notFoundOrPersistence(err, "theme not found"))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "theme deleted"})
}
