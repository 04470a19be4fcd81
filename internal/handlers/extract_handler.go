package handlers

import (
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cv-builder/internal/models"
	"cv-builder/internal/repositories"
	"cv-builder/internal/services"
	apperrors "cv-builder/pkg/errors"
)

// ExtractHandler runs the upload-to-structured-record pipeline: load the
// document, persist the source file, call the model, optionally analyze.
// Everything happens synchronously inside the request.
type ExtractHandler struct {
	loader       services.DocumentLoader
	storage      services.StorageService
	extractor    services.ExtractorService
	analyzer     services.AnalyzerService
	documentRepo repositories.DocumentRepository
}

func NewExtractHandler(
	loader services.DocumentLoader,
	storage services.StorageService,
	extractor services.ExtractorService,
	analyzer services.AnalyzerService,
	documentRepo repositories.DocumentRepository,
) *ExtractHandler {
	return &ExtractHandler{
		loader:       loader,
		storage:      storage,
		extractor:    extractor,
		analyzer:     analyzer,
		documentRepo: documentRepo,
	}
}

// Extract handles POST /api/v1/extract. The body is either a multipart
// upload with a "document" file, a JSON {text, analyze} payload, or a form
// post with a "text" field. Any other content type is rejected up front.
func (h *ExtractHandler) Extract(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var (
		text       string
		analyze    bool
		documentID string
	)

	analyze = c.Query("analyze") == "true"

	contentType := string(c.Request().Header.ContentType())
	switch {
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		text, documentID, err = h.loadUpload(c, userID)
		analyze = analyze || c.FormValue("analyze") == "true"
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		var req models.ExtractRequest
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return respondError(c, apperrors.Wrap(apperrors.KindBadInput, "invalid request body", parseErr))
		}
		analyze = analyze || req.Analyze
		text, err = h.loader.LoadText(req.Text)
	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		analyze = analyze || c.FormValue("analyze") == "true"
		text, err = h.loader.LoadText(c.FormValue("text"))
	default:
		return respondError(c, apperrors.New(apperrors.KindUnsupportedFormat,
			"wrong file type: only PDF documents are supported").
			WithDetail("unsupported content type "+contentType))
	}
	if err != nil {
		return respondError(c, err)
	}

	record, err := h.extractor.Extract(c.Context(), text)
	if err != nil {
		return respondError(c, err)
	}

	resp := models.ExtractResponse{
		ExtractedData: record,
		DocumentID:    documentID,
	}

	if analyze && h.analyzer != nil {
		report, analyzeErr := h.analyzer.Analyze(c.Context(), record)
		if analyzeErr != nil {
			return respondError(c, analyzeErr)
		}
		resp.Analysis = report
	}

	log.Printf("✅ Extraction completed for user %s (document=%s)", userID, documentID)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// ReExtract handles POST /api/v1/documents/:id/extract. It re-runs the
// pipeline on a previously uploaded document without a fresh upload.
func (h *ExtractHandler) ReExtract(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperrors.New(apperrors.KindBadInput, "invalid document id"))
	}

	doc, err := h.documentRepo.FindByID(id, userID)
	if err != nil {
		return respondError(c, notFoundOrPersistence(err, "document not found"))
	}

	data, err := h.storage.ReadFile(doc.Filename)
	if err != nil {
		return respondError(c, apperrors.Wrap(apperrors.KindPersistenceFailure,
			"failed to read stored document", err))
	}

	text, err := h.loader.LoadFile(doc.OriginalFileName, data)
	if err != nil {
		return respondError(c, err)
	}

	record, err := h.extractor.Extract(c.Context(), text)
	if err != nil {
		return respondError(c, err)
	}

	resp := models.ExtractResponse{
		ExtractedData: record,
		DocumentID:    doc.ID.String(),
	}

	if c.Query("analyze") == "true" && h.analyzer != nil {
		report, analyzeErr := h.analyzer.Analyze(c.Context(), record)
		if analyzeErr != nil {
			return respondError(c, analyzeErr)
		}
		resp.Analysis = report
	}

	log.Printf("✅ Re-extraction completed for user %s (document=%s)", userID, doc.ID)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteDocument handles DELETE /api/v1/documents/:id. The row goes first;
// a leftover file on disk is logged, not surfaced.
func (h *ExtractHandler) DeleteDocument(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperrors.New(apperrors.KindBadInput, "invalid document id"))
	}

	doc, err := h.documentRepo.FindByID(id, userID)
	if err != nil {
		return respondError(c, notFoundOrPersistence(err, "document not found"))
	}

	if err := h.documentRepo.Delete(id, userID); err != nil {
		return respondError(c, notFoundOrPersistence(err, "document not found"))
	}

	if err := h.storage.DeleteFile(doc.Filename); err != nil {
		log.Printf("⚠️  Failed to remove stored file %s: %v", doc.Filename, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "document deleted"})
}

// loadUpload reads the multipart file, extracts its text and records the
// stored document. The text comes back first so a parse failure skips the
// disk write entirely.
func (h *ExtractHandler) loadUpload(c *fiber.Ctx, userID uuid.UUID) (string, string, error) {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		return "", "", apperrors.Wrap(apperrors.KindBadInput, "missing document file", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", apperrors.Wrap(apperrors.KindBadInput, "could not open uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", apperrors.Wrap(apperrors.KindBadInput, "could not read uploaded file", err)
	}

	text, err := h.loader.LoadFile(fileHeader.Filename, data)
	if err != nil {
		return "", "", err
	}

	filename, filePath, err := h.storage.SaveUpload(fileHeader.Filename, data)
	if err != nil {
		return "", "", apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to store uploaded document", err)
	}

	doc := &models.Document{
		UserID:           userID,
		Filename:         filename,
		OriginalFileName: fileHeader.Filename,
		FilePath:         filePath,
	}
	if err := h.documentRepo.Create(doc); err != nil {
		return "", "", apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to record uploaded document", err)
	}

	return text, doc.ID.String(), nil
}
