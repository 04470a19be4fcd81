package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"cv-builder/internal/models"
	"cv-builder/internal/render"
	"cv-builder/internal/services"
	apperrors "cv-builder/pkg/errors"
)

// ExportHandler renders a CV and prints the result to an A4 PDF. The render
// runs through the same pending-result contract the UI uses, so export and
// preview can never disagree on the produced HTML.
type ExportHandler struct {
	renderHandler *RenderHandler
	exporter      services.ExporterService
}

func NewExportHandler(renderHandler *RenderHandler, exporter services.ExporterService) *ExportHandler {
	return &ExportHandler{
		renderHandler: renderHandler,
		exporter:      exporter,
	}
}

// Export handles POST /api/v1/export.
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req models.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindBadInput, "invalid request body", err))
	}

	record, err := h.renderHandler.resolveRecord(&req.RenderRequest, userID)
	if err != nil {
		return respondError(c, err)
	}
	theme, err := h.renderHandler.resolveTheme(&req.RenderRequest, userID)
	if err != nil {
		return respondError(c, err)
	}

	templateID := render.ParseTemplateID(req.TemplateID)
	pending := h.renderHandler.renderer.StartRender(record, templateID, theme)
	result := <-pending.Done
	if result.Err != nil {
		return respondError(c, result.Err)
	}

	pdfData, err := h.exporter.ExportPDF(c.Context(), result.Doc.HTML)
	if err != nil {
		return respondError(c, err)
	}

	fileName := sanitizeFileName(req.FileName)
	if fileName == "" {
		fileName = fmt.Sprintf("cv_%s.pdf", templateID.String())
	}

	log.Printf("✅ Exported %d byte PDF (%s) for user %s", len(pdfData), templateID, userID)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Status(fiber.StatusOK).Send(pdfData)
}

// sanitizeFileName keeps the download name header-safe and forces the .pdf
// suffix.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", "\"", "_", "\n", "_", "\r", "_")
	name = replacer.Replace(name)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
