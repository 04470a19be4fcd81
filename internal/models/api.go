package models

// ExtractRequest is the JSON body form of POST /extract. File uploads use
// multipart instead; raw form posts carry a single "text" field.
type ExtractRequest struct {
	Text    string `json:"text"`
	Analyze bool   `json:"analyze"`
}

type ExtractResponse struct {
	ExtractedData *CVRecord       `json:"extractedData"`
	Analysis      *AnalysisReport `json:"analysis,omitempty"`
	DocumentID    string          `json:"documentId,omitempty"`
}

// RenderRequest selects what to render. Either an inline record or a stored
// cv id; either an inline palette or a theme id (built-in or custom).
type RenderRequest struct {
	CV         *CVRecord `json:"cv,omitempty"`
	CVID       string    `json:"cvId,omitempty"`
	TemplateID string    `json:"templateId"`
	ThemeID    string    `json:"themeId,omitempty"`
	Theme      *Palette  `json:"theme,omitempty"`
}

type RenderResponse struct {
	TemplateID string `json:"templateId"`
	HTML       string `json:"html"`
}

type ExportRequest struct {
	RenderRequest
	FileName string `json:"fileName,omitempty"`
}

type AnalyzeRequest struct {
	CV   *CVRecord `json:"cv,omitempty"`
	CVID string    `json:"cvId,omitempty"`
}

type SaveCVRequest struct {
	Title string    `json:"title"`
	Data  *CVRecord `json:"data"`
}

type CVResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Data      *CVRecord `json:"data"`
	UpdatedAt string    `json:"updated_at"`
}

type SaveThemeRequest struct {
	Name    string  `json:"name"`
	Palette Palette `json:"palette"`
}
