package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-builder/internal/models"
	"cv-builder/internal/render"
	"cv-builder/internal/repositories"
	apperrors "cv-builder/pkg/errors"
)

var testUserID = uuid.MustParse("7b8a2f60-0000-4000-8000-000000000001")

const testToken = "test-session-token"

type fakeSessionRepo struct{}

func (fakeSessionRepo) FindByToken(token string) (*models.Session, error) {
	if token != testToken {
		return nil, repositories.ErrNotFound
	}
	return &models.Session{
		Token:     token,
		UserID:    testUserID,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

type fakeCVRepo struct {
	cvs map[uuid.UUID]*models.CV
}

func newFakeCVRepo() *fakeCVRepo {
	return &fakeCVRepo{cvs: make(map[uuid.UUID]*models.CV)}
}

func (r *fakeCVRepo) Create(cv *models.CV) error {
	if cv.ID == uuid.Nil {
		cv.ID = uuid.New()
	}
	cv.UpdatedAt = time.Now()
	r.cvs[cv.ID] = cv
	return nil
}

func (r *fakeCVRepo) FindByID(id, userID uuid.UUID) (*models.CV, error) {
	cv, ok := r.cvs[id]
	if !ok || cv.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return cv, nil
}

func (r *fakeCVRepo) FindByUser(userID uuid.UUID) ([]models.CV, error) {
	var out []models.CV
	for _, cv := range r.cvs {
		if cv.UserID == userID {
			out = append(out, *cv)
		}
	}
	return out, nil
}

func (r *fakeCVRepo) Update(cv *models.CV) error {
	existing, ok := r.cvs[cv.ID]
	if !ok || existing.UserID != cv.UserID {
		return repositories.ErrNotFound
	}
	r.cvs[cv.ID] = cv
	return nil
}

func (r *fakeCVRepo) Delete(id, userID uuid.UUID) error {
	cv, ok := r.cvs[id]
	if !ok || cv.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(r.cvs, id)
	return nil
}

type fakeThemeRepo struct {
	themes map[uuid.UUID]*models.Theme
}

func newFakeThemeRepo() *fakeThemeRepo {
	return &fakeThemeRepo{themes: make(map[uuid.UUID]*models.Theme)}
}

func (r *fakeThemeRepo) Create(theme *models.Theme) error {
	if theme.ID == uuid.Nil {
		theme.ID = uuid.New()
	}
	r.themes[theme.ID] = theme
	return nil
}

func (r *fakeThemeRepo) FindByID(id, userID uuid.UUID) (*models.Theme, error) {
	theme, ok := r.themes[id]
	if !ok || theme.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return theme, nil
}

func (r *fakeThemeRepo) FindByUser(userID uuid.UUID) ([]models.Theme, error) {
	var out []models.Theme
	for _, theme := range r.themes {
		if theme.UserID == userID {
			out = append(out, *theme)
		}
	}
	return out, nil
}

func (r *fakeThemeRepo) Delete(id, userID uuid.UUID) error {
	theme, ok := r.themes[id]
	if !ok || theme.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(r.themes, id)
	return nil
}

type fakeDocumentRepo struct {
	docs map[uuid.UUID]*models.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[uuid.UUID]*models.Document)}
}

func (r *fakeDocumentRepo) Create(doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocumentRepo) FindByID(id, userID uuid.UUID) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok || doc.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return doc, nil
}

func (r *fakeDocumentRepo) Delete(id, userID uuid.UUID) error {
	doc, ok := r.docs[id]
	if !ok || doc.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

type fakeLoader struct{}

func (fakeLoader) LoadFile(filename string, data []byte) (string, error) {
	return "file text", nil
}

func (fakeLoader) LoadText(text string) (string, error) {
	if text == "" {
		return "", apperrors.New(apperrors.KindEmptyDocument, "no text found in document")
	}
	return text, nil
}

type fakeStorage struct {
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (s *fakeStorage) SaveUpload(originalName string, data []byte) (string, string, error) {
	s.files["cv_stored.pdf"] = data
	return "cv_stored.pdf", "/uploads/cv_stored.pdf", nil
}

func (s *fakeStorage) GetFilePath(filename string) string { return "/uploads/" + filename }

func (s *fakeStorage) ReadFile(filename string) ([]byte, error) {
	data, ok := s.files[filename]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

func (s *fakeStorage) DeleteFile(filename string) error {
	delete(s.files, filename)
	return nil
}

func (s *fakeStorage) EnsureUploadDir() error { return nil }

type fakeExtractor struct {
	record *models.CVRecord
	err    error
}

func (f fakeExtractor) Extract(ctx context.Context, text string) (*models.CVRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

type fakeAnalyzer struct {
	report *models.AnalysisReport
	err    error
}

func (f fakeAnalyzer) Analyze(ctx context.Context, record *models.CVRecord) (*models.AnalysisReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeExporter struct{}

func (fakeExporter) ExportPDF(ctx context.Context, html string) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}

type testEnv struct {
	app       *fiber.App
	cvRepo    *fakeCVRepo
	themeRepo *fakeThemeRepo
	docRepo   *fakeDocumentRepo
	storage   *fakeStorage
}

func newTestEnv(t *testing.T, extractor fakeExtractor, analyzer fakeAnalyzer) *testEnv {
	t.Helper()

	cvRepo := newFakeCVRepo()
	themeRepo := newFakeThemeRepo()
	docRepo := newFakeDocumentRepo()
	storage := newFakeStorage()

	extractHandler := NewExtractHandler(fakeLoader{}, storage, extractor, analyzer, docRepo)
	cvHandler := NewCVHandler(cvRepo)
	themeHandler := NewThemeHandler(themeRepo)
	renderHandler := NewRenderHandler(render.NewRenderer(), cvRepo, themeRepo)
	exportHandler := NewExportHandler(renderHandler, fakeExporter{})
	analyzeHandler := NewAnalyzeHandler(analyzer, cvRepo)

	app := fiber.New()
	api := app.Group("/api/v1", RequireSession(fakeSessionRepo{}))
	api.Post("/extract", extractHandler.Extract)
	api.Post("/documents/:id/extract", extractHandler.ReExtract)
	api.Delete("/documents/:id", extractHandler.DeleteDocument)
	api.Post("/render", renderHandler.Render)
	api.Post("/export", exportHandler.Export)
	api.Post("/analyze", analyzeHandler.Analyze)
	api.Get("/templates", renderHandler.Templates)
	api.Get("/themes", themeHandler.List)
	api.Post("/themes", themeHandler.Create)
	api.Delete("/themes/:id", themeHandler.Delete)
	api.Get("/cvs", cvHandler.List)
	api.Post("/cvs", cvHandler.Create)
	api.Get("/cvs/:id", cvHandler.Get)
	api.Put("/cvs/:id", cvHandler.Update)
	api.Delete("/cvs/:id", cvHandler.Delete)

	return &testEnv{app: app, cvRepo: cvRepo, themeRepo: themeRepo, docRepo: docRepo, storage: storage}
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+testToken)
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out), string(data))
}

func TestAuthRejectsMissingToken(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cvs", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, string(apperrors.KindUnauthenticated), body["kind"])
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cvs", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer wrong-token")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExtractFromText(t *testing.T) {
	record := &models.CVRecord{
		PersonalInfo: models.PersonalInfo{FirstName: "Jean", LastName: "Dupont"},
	}
	env := newTestEnv(t, fakeExtractor{record: record}, fakeAnalyzer{})

	req := jsonRequest(http.MethodPost, "/api/v1/extract", models.ExtractRequest{Text: "Jean Dupont, engineer"})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.ExtractResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.ExtractedData)
	assert.Equal(t, "Jean", body.ExtractedData.PersonalInfo.FirstName)
	assert.Nil(t, body.Analysis)
}

func TestExtractWithAnalysis(t *testing.T) {
	record := &models.CVRecord{PersonalInfo: models.PersonalInfo{FirstName: "Jean"}}
	report := &models.AnalysisReport{OverallScore: 72, Summary: "Decent."}
	env := newTestEnv(t, fakeExtractor{record: record}, fakeAnalyzer{report: report})

	req := jsonRequest(http.MethodPost, "/api/v1/extract", models.ExtractRequest{Text: "cv text", Analyze: true})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.ExtractResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.Analysis)
	assert.Equal(t, 72.0, body.Analysis.OverallScore)
}

func TestExtractFromUpload(t *testing.T) {
	record := &models.CVRecord{
		PersonalInfo: models.PersonalInfo{FirstName: "Jean", LastName: "Dupont"},
	}
	env := newTestEnv(t, fakeExtractor{record: record}, fakeAnalyzer{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("document", "cv.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 pretend content"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+testToken)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.ExtractResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.ExtractedData)
	assert.Equal(t, "Jean", body.ExtractedData.PersonalInfo.FirstName)
	assert.NotEmpty(t, body.DocumentID)
}

func TestExtractEmptyText(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	req := jsonRequest(http.MethodPost, "/api/v1/extract", models.ExtractRequest{Text: ""})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, string(apperrors.KindEmptyDocument), body["kind"])
}

func TestExtractUnsupportedContentType(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewBufferString("<xml/>"))
	req.Header.Set(fiber.HeaderContentType, "application/xml")
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+testToken)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestExtractMalformedModelResponse(t *testing.T) {
	extractorErr := apperrors.New(apperrors.KindMalformedModelResponse, "language model reply is not valid JSON")
	env := newTestEnv(t, fakeExtractor{err: extractorErr}, fakeAnalyzer{})

	req := jsonRequest(http.MethodPost, "/api/v1/extract", models.ExtractRequest{Text: "cv text"})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, string(apperrors.KindMalformedModelResponse), body["kind"])
}

func TestExtractUpstreamUnavailable(t *testing.T) {
	extractorErr := apperrors.New(apperrors.KindUpstreamUnavailable, "language model credential is not configured").
		WithDetail(apperrors.CauseMissingCredential)
	env := newTestEnv(t, fakeExtractor{err: extractorErr}, fakeAnalyzer{})

	req := jsonRequest(http.MethodPost, "/api/v1/extract", models.ExtractRequest{Text: "cv text"})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, apperrors.CauseMissingCredential, body["details"])
}

func TestReExtractStoredDocument(t *testing.T) {
	record := &models.CVRecord{
		PersonalInfo: models.PersonalInfo{FirstName: "Jean", LastName: "Dupont"},
	}
	env := newTestEnv(t, fakeExtractor{record: record}, fakeAnalyzer{})

	doc := &models.Document{
		UserID:           testUserID,
		Filename:         "cv_stored.pdf",
		OriginalFileName: "cv.pdf",
	}
	require.NoError(t, env.docRepo.Create(doc))
	env.storage.files["cv_stored.pdf"] = []byte("%PDF-1.4 pretend content")

	req := jsonRequest(http.MethodPost, "/api/v1/documents/"+doc.ID.String()+"/extract", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.ExtractResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.ExtractedData)
	assert.Equal(t, "Jean", body.ExtractedData.PersonalInfo.FirstName)
	assert.Equal(t, doc.ID.String(), body.DocumentID)
}

func TestReExtractInvalidID(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	req := jsonRequest(http.MethodPost, "/api/v1/documents/not-a-uuid/extract", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteDocument(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	doc := &models.Document{
		UserID:           testUserID,
		Filename:         "cv_stored.pdf",
		OriginalFileName: "cv.pdf",
	}
	require.NoError(t, env.docRepo.Create(doc))
	env.storage.files["cv_stored.pdf"] = []byte("%PDF-1.4 pretend content")

	req := jsonRequest(http.MethodDelete, "/api/v1/documents/"+doc.ID.String(), nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, env.storage.files)

	req = jsonRequest(http.MethodPost, "/api/v1/documents/"+doc.ID.String()+"/extract", nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteDocumentOtherUser(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	doc := &models.Document{
		UserID:           uuid.New(),
		Filename:         "cv_stored.pdf",
		OriginalFileName: "cv.pdf",
	}
	require.NoError(t, env.docRepo.Create(doc))

	req := jsonRequest(http.MethodDelete, "/api/v1/documents/"+doc.ID.String(), nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTemplatesList(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	req := jsonRequest(http.MethodGet, "/api/v1/templates", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Templates []struct {
			ID      string `json:"id"`
			Default bool   `json:"default"`
		} `json:"templates"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Templates, 5)
	assert.Equal(t, "professional", body.Templates[0].ID)
	assert.True(t, body.Templates[0].Default)
}

func TestRenderInlineCVUnknownTemplate(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	reqBody := models.RenderRequest{
		CV:         &models.CVRecord{PersonalInfo: models.PersonalInfo{FirstName: "Jean", LastName: "Dupont"}},
		TemplateID: "holographic",
	}
	req := jsonRequest(http.MethodPost, "/api/v1/render", reqBody)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.RenderResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "professional", body.TemplateID)
	assert.Contains(t, body.HTML, "Jean Dupont")
}

func TestRenderRequiresCVOrID(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	req := jsonRequest(http.MethodPost, "/api/v1/render", models.RenderRequest{TemplateID: "modern"})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRenderStoredCVWithBuiltinTheme(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	cv := &models.CV{UserID: testUserID, Title: "Mine"}
	require.NoError(t, cv.SetRecord(&models.CVRecord{
		PersonalInfo: models.PersonalInfo{FirstName: "Jean", LastName: "Dupont"},
	}))
	require.NoError(t, env.cvRepo.Create(cv))

	reqBody := models.RenderRequest{CVID: cv.ID.String(), TemplateID: "modern", ThemeID: "forest"}
	req := jsonRequest(http.MethodPost, "/api/v1/render", reqBody)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.RenderResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "modern", body.TemplateID)

	forest, _ := models.BuiltinTheme("forest")
	assert.Contains(t, body.HTML, forest.Palette.Primary)
}

func TestExportReturnsPDF(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	reqBody := models.ExportRequest{
		RenderRequest: models.RenderRequest{
			CV:         &models.CVRecord{PersonalInfo: models.PersonalInfo{FirstName: "Jean"}},
			TemplateID: "minimal",
		},
		FileName: "my resume",
	}
	req := jsonRequest(http.MethodPost, "/api/v1/export", reqBody)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "my resume.pdf")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestThemeCRUD(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	// Built-ins are always listed.
	req := jsonRequest(http.MethodGet, "/api/v1/themes", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	var listBody struct {
		Themes []models.ThemeSpec `json:"themes"`
	}
	decodeBody(t, resp, &listBody)
	assert.Len(t, listBody.Themes, 4)

	// Create a custom theme.
	createBody := models.SaveThemeRequest{
		Name:    "Mine",
		Palette: models.Palette{Primary: "#123456"},
	}
	req = jsonRequest(http.MethodPost, "/api/v1/themes", createBody)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.ThemeSpec
	decodeBody(t, resp, &created)
	assert.Equal(t, "Mine", created.Name)

	// It now shows up after the built-ins.
	req = jsonRequest(http.MethodGet, "/api/v1/themes", nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	decodeBody(t, resp, &listBody)
	assert.Len(t, listBody.Themes, 5)

	// Deleting it works; deleting a built-in does not.
	req = jsonRequest(http.MethodDelete, "/api/v1/themes/"+created.ID, nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = jsonRequest(http.MethodDelete, "/api/v1/themes/slate", nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCVCRUD(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	record := &models.CVRecord{
		PersonalInfo: models.PersonalInfo{FirstName: "Jean", LastName: "Dupont"},
		Skills:       []models.SkillEntry{{Name: "Go", Level: "Expert"}},
	}

	// Create.
	req := jsonRequest(http.MethodPost, "/api/v1/cvs", models.SaveCVRequest{Title: "Backend CV", Data: record})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.CVResponse
	decodeBody(t, resp, &created)
	assert.Equal(t, "Backend CV", created.Title)
	require.NotNil(t, created.Data)
	assert.NotEmpty(t, created.Data.Skills[0].ID)

	// Get round-trips the record.
	req = jsonRequest(http.MethodGet, "/api/v1/cvs/"+created.ID, nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.CVResponse
	decodeBody(t, resp, &fetched)
	assert.Equal(t, created.Data, fetched.Data)

	// Update.
	record.PersonalInfo.Title = "Senior Backend Engineer"
	req = jsonRequest(http.MethodPut, "/api/v1/cvs/"+created.ID, models.SaveCVRequest{Title: "Backend CV v2", Data: record})
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Delete, then a fetch misses.
	req = jsonRequest(http.MethodDelete, "/api/v1/cvs/"+created.ID, nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = jsonRequest(http.MethodGet, "/api/v1/cvs/"+created.ID, nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCVCreateRejectsBadBirthDate(t *testing.T) {
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{})

	record := &models.CVRecord{
		PersonalInfo: models.PersonalInfo{FirstName: "Jean", BirthDate: "not-a-date"},
	}
	req := jsonRequest(http.MethodPost, "/api/v1/cvs", models.SaveCVRequest{Data: record})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeInlineCV(t *testing.T) {
	report := &models.AnalysisReport{OverallScore: 88}
	env := newTestEnv(t, fakeExtractor{}, fakeAnalyzer{report: report})

	req := jsonRequest(http.MethodPost, "/api/v1/analyze", models.AnalyzeRequest{
		CV: &models.CVRecord{PersonalInfo: models.PersonalInfo{FirstName: "Jean"}},
	})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.AnalysisReport
	decodeBody(t, resp, &body)
	assert.Equal(t, 88.0, body.OverallScore)
}
