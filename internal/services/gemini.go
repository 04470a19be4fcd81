package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	apperrors "cv-builder/pkg/errors"
)

// LLMService is the language-model collaborator: one completion operation
// with a system instruction, a user message, and JSON-formatted output.
// No retry or backoff happens here; retry policy belongs to callers, and the
// core performs none.
type LLMService interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client     *genai.Client
	apiKey     string
	modelName  string
	embedModel string
	timeout    time.Duration
}

func NewGeminiService(apiKey, model string, timeout time.Duration) (LLMService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &geminiService{
		client:     client,
		apiKey:     apiKey,
		modelName:  model,
		embedModel: "text-embedding-004",
		timeout:    timeout,
	}, nil
}

// withTimeout caps the upstream call at the configured deadline. A zero
// timeout leaves the caller's context untouched.
func (g *geminiService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// Complete implements LLMService. The model is asked for application/json
// output so callers can parse the reply directly.
func (g *geminiService) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if g.apiKey == "" {
		return "", apperrors.New(apperrors.KindUpstreamUnavailable,
			"language model credential is not configured").
			WithDetail(apperrors.CauseMissingCredential)
	}

	temperature := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "application/json",
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(userPrompt), config)
	if err != nil {
		return "", classifyUpstreamError(err)
	}

	if resp == nil {
		return "", apperrors.New(apperrors.KindUpstreamUnavailable,
			"language model returned no response").
			WithDetail(apperrors.CauseNetworkUnreachable)
	}

	text := resp.Text()
	if text == "" {
		return "", apperrors.New(apperrors.KindMalformedModelResponse,
			"language model returned no text content")
	}

	return text, nil
}

// GenerateEmbedding implements LLMService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// classifyUpstreamError splits provider failures into the causes the UI can
// act on: bad credential, rate limit, or the network itself.
func classifyUpstreamError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key") ||
		strings.Contains(msg, "API_KEY_INVALID") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "PERMISSION_DENIED"):
		return apperrors.Wrap(apperrors.KindUpstreamUnavailable,
			"language model rejected the configured credential", err).
			WithDetail(apperrors.CauseMissingCredential)
	case strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "rate limit"):
		return apperrors.Wrap(apperrors.KindUpstreamUnavailable,
			"language model is rate limiting requests", err).
			WithDetail(apperrors.CauseRateLimited)
	default:
		return apperrors.Wrap(apperrors.KindUpstreamUnavailable,
			"language model is unreachable", err).
			WithDetail(apperrors.CauseNetworkUnreachable)
	}
}
