package services

import (
	"context"
	"encoding/json"
	"log"

	"cv-builder/internal/models"
	apperrors "cv-builder/pkg/errors"
)

// AnalyzerService scores a structured CV against the review rubric. It only
// reads the record, so it can run concurrently with rendering.
type AnalyzerService interface {
	Analyze(ctx context.Context, record *models.CVRecord) (*models.AnalysisReport, error)
}

type analyzerService struct {
	llm           LLMService
	rubricStore   RubricStore
	promptBuilder *PromptBuilder
}

// NewAnalyzerService builds an analyzer. rubricStore may be nil; analysis
// then runs without retrieved guidelines.
func NewAnalyzerService(llm LLMService, rubricStore RubricStore) AnalyzerService {
	return &analyzerService{
		llm:           llm,
		rubricStore:   rubricStore,
		promptBuilder: NewPromptBuilder(),
	}
}

// Analyze implements AnalyzerService.
func (a *analyzerService) Analyze(ctx context.Context, record *models.CVRecord) (*models.AnalysisReport, error) {
	cvJSON, err := json.Marshal(record)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindBadInput, "failed to encode cv for analysis", err)
	}

	rubricContext := a.retrieveRubricContext(ctx, record)

	prompt := a.promptBuilder.BuildAnalysisPrompt(string(cvJSON), rubricContext)
	log.Printf("📝 Analysis prompt length: %d characters", len(prompt))

	response, err := a.llm.Complete(ctx, a.promptBuilder.AnalysisSystemPrompt(), prompt)
	if err != nil {
		return nil, err
	}

	var report models.AnalysisReport
	if err := json.Unmarshal([]byte(extractJSON(response)), &report); err != nil {
		return nil, apperrors.Wrap(apperrors.KindMalformedModelResponse,
			"failed to decode analysis response", err)
	}

	return &report, nil
}

// retrieveRubricContext fetches scoring-guideline snippets similar to the
// candidate's profile. Retrieval failure is non-fatal: analysis proceeds
// without guidelines.
func (a *analyzerService) retrieveRubricContext(ctx context.Context, record *models.CVRecord) string {
	if a.rubricStore == nil {
		return ""
	}

	query := record.PersonalInfo.Title
	if record.PersonalInfo.Summary != "" {
		query += "\n" + record.PersonalInfo.Summary
	}
	if query == "" {
		query = "general resume review guidelines"
	}

	embedding, err := a.llm.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("⚠️  Failed to embed rubric query: %v\n", err)
		return ""
	}

	results, err := a.rubricStore.SearchSimilar(ctx, embedding, 3)
	if err != nil {
		log.Printf("⚠️  Failed to retrieve rubric context: %v\n", err)
		return ""
	}

	return FormatRubricContext(results)
}
