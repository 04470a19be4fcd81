package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cv-builder/internal/models"
	"cv-builder/internal/render"
	"cv-builder/internal/repositories"
	apperrors "cv-builder/pkg/errors"
)

// RenderHandler turns a CV and a theme into template HTML. Unknown or empty
// template ids fall back to the default layout rather than erroring.
type RenderHandler struct {
	renderer  *render.Renderer
	cvRepo    repositories.CVRepository
	themeRepo repositories.ThemeRepository
}

func NewRenderHandler(
	renderer *render.Renderer,
	cvRepo repositories.CVRepository,
	themeRepo repositories.ThemeRepository,
) *RenderHandler {
	return &RenderHandler{
		renderer:  renderer,
		cvRepo:    cvRepo,
		themeRepo: themeRepo,
	}
}

// Render handles POST /api/v1/render.
func (h *RenderHandler) Render(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.RenderRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindBadInput, "invalid request body", err))
	}

	record, err := h.resolveRecord(&req, userID)
	if err != nil {
		return respondError(c, err)
	}
	theme, err := h.resolveTheme(&req, userID)
	if err != nil {
		return respondError(c, err)
	}

	templateID := render.ParseTemplateID(req.TemplateID)
	doc, err := h.renderer.Render(record, templateID, theme)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.RenderResponse{
		TemplateID: doc.TemplateID.String(),
		HTML:       doc.HTML,
	})
}

// Templates handles GET /api/v1/templates. The set is closed; clients pick
// from exactly these ids.
func (h *RenderHandler) Templates(c *fiber.Ctx) error {
	ids := render.TemplateIDs()
	out := make([]fiber.Map, 0, len(ids))
	for _, id := range ids {
		out = append(out, fiber.Map{
			"id":      id.String(),
			"default": id == render.TemplateProfessional,
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"templates": out})
}

// resolveRecord prefers the inline record; otherwise it loads the stored CV
// named by cvId scoped to the caller.
func (h *RenderHandler) resolveRecord(req *models.RenderRequest, userID uuid.UUID) (*models.CVRecord, error) {
	if req.CV != nil {
		return req.CV, nil
	}
	if req.CVID == "" {
		return nil, apperrors.New(apperrors.KindBadInput, "either cv or cvId is required")
	}

	id, err := uuid.Parse(req.CVID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindBadInput, "invalid cv id")
	}
	cv, err := h.cvRepo.FindByID(id, userID)
	if err != nil {
		return nil, notFoundOrPersistence(err, "cv not found")
	}
	record, err := cv.Record()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to decode cv data", err)
	}
	return record, nil
}

// resolveTheme prefers an inline palette, then a theme id (built-in before
// custom), then the default theme.
func (h *RenderHandler) resolveTheme(req *models.RenderRequest, userID uuid.UUID) (models.ThemeSpec, error) {
	if req.Theme != nil {
		return models.ThemeSpec{ID: "custom", Name: "Custom", Palette: *req.Theme}, nil
	}
	if req.ThemeID == "" {
		return models.DefaultTheme(), nil
	}

	if spec, ok := models.BuiltinTheme(req.ThemeID); ok {
		return spec, nil
	}

	id, err := uuid.Parse(req.ThemeID)
	if err != nil {
		return models.ThemeSpec{}, apperrors.New(apperrors.KindBadInput, "unknown theme id")
	}
	theme, err := h.themeRepo.FindByID(id, userID)
	if err != nil {
		return models.ThemeSpec{}, notFoundOrPersistence(err, "theme not found")
	}
	spec, err := theme.Spec()
	if err != nil {
		return models.ThemeSpec{}, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to decode theme", err)
	}
	return spec, nil
}
