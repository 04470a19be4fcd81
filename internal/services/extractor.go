package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"cv-builder/internal/models"
	apperrors "cv-builder/pkg/errors"
)

// cvResponseSchema checks the top-level shape of the model's reply. Optional
// sections may be absent (they become empty downstream); only personalInfo is
// required. No coercion or repair is attempted beyond this check.
const cvResponseSchema = `{
  "type": "object",
  "required": ["personalInfo"],
  "properties": {
    "personalInfo": {"type": "object"},
    "experience": {"type": "array"},
    "education": {"type": "array"},
    "skills": {"type": "array"},
    "languages": {"type": "array"},
    "projects": {"type": "array"},
    "interests": {"type": "array"},
    "certifications": {"type": "array"},
    "competences": {"type": "object"}
  }
}`

// ExtractorService turns plain document text into a normalized CVRecord via
// a single language-model call. One call per request, no caching, no retry.
type ExtractorService interface {
	Extract(ctx context.Context, text string) (*models.CVRecord, error)
}

type extractorService struct {
	llm           LLMService
	promptBuilder *PromptBuilder
	schema        *gojsonschema.Schema
}

func NewExtractorService(llm LLMService) (ExtractorService, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(cvResponseSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile cv response schema: %w", err)
	}

	return &extractorService{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		schema:        schema,
	}, nil
}

// Extract implements ExtractorService. The record is all-or-nothing: any
// parse or shape failure returns an error and no partial data.
func (e *extractorService) Extract(ctx context.Context, text string) (*models.CVRecord, error) {
	response, err := e.llm.Complete(ctx,
		e.promptBuilder.ExtractionSystemPrompt(),
		e.promptBuilder.BuildExtractionPrompt(text),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("📊 Extraction response received: %d characters", len(response))

	jsonStr := extractJSON(response)

	result, err := e.schema.Validate(gojsonschema.NewStringLoader(jsonStr))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindMalformedModelResponse,
			"language model reply is not valid JSON", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, apperrors.New(apperrors.KindMalformedModelResponse,
			"language model reply does not match the CV shape").
			WithDetail(strings.Join(msgs, "; "))
	}

	var record models.CVRecord
	if err := json.Unmarshal([]byte(jsonStr), &record); err != nil {
		return nil, apperrors.Wrap(apperrors.KindMalformedModelResponse,
			"failed to decode language model reply", err)
	}

	record.EnsureEntryIDs()
	return &record, nil
}

// extractJSON tries to extract JSON from text that might contain markdown or
// other formatting the model added despite instructions.
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object boundaries
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
