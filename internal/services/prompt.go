package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// ExtractionSystemPrompt describes the extraction task and the exact JSON
// shape of the normalized CV record. It is fixed; the raw text travels in the
// user message.
func (pb *PromptBuilder) ExtractionSystemPrompt() string {
	return `You are a résumé parsing engine. The user message contains the raw text of a candidate's CV.
Extract its content into a single JSON object with exactly this shape:

{
  "personalInfo": {
    "firstName": "", "lastName": "", "title": "", "summary": "",
    "email": "", "phone": "", "address": "", "city": "", "country": "",
    "linkedin": "", "website": "", "birthDate": ""
  },
  "experience": [{"company": "", "position": "", "location": "", "startDate": "", "endDate": "", "description": "", "missions": [], "achievements": [], "skillsUsed": []}],
  "education": [{"school": "", "degree": "", "field": "", "startDate": "", "endDate": "", "description": ""}],
  "skills": [{"name": "", "level": "Beginner|Intermediate|Advanced|Expert"}],
  "languages": [{"name": "", "level": ""}],
  "projects": [{"name": "", "description": "", "technologies": [], "url": ""}],
  "interests": [{"name": ""}],
  "certifications": [{"name": "", "issuer": "", "date": ""}],
  "competences": {"technicalBusiness": [], "tools": [], "programmingLanguages": [], "methodologies": [], "softSkills": []}
}

Rules:
- "personalInfo" is mandatory. Omit any other section that has no content.
- Keep dates as they appear in the document; use "present" for ongoing roles.
- "birthDate", when present, must be formatted YYYY-MM-DD.
- Preserve the document's language in all free-text fields.
- Return ONLY the JSON object. No markdown fences, no commentary.`
}

// BuildExtractionPrompt wraps the raw document text as the user message.
func (pb *PromptBuilder) BuildExtractionPrompt(text string) string {
	return fmt.Sprintf("CV TEXT:\n%s", text)
}

// AnalysisSystemPrompt is the scoring rubric for CV analysis.
func (pb *PromptBuilder) AnalysisSystemPrompt() string {
	return `You are an expert career coach reviewing a structured CV.
Score it on a 0-100 scale for each category:
1. Content quality - completeness and clarity of the information
2. Impact - quantified achievements and strong action language
3. Skills coverage - breadth and relevance of listed skills
4. Experience relevance - coherence of the career narrative

Return ONLY a JSON object with this shape:
{
  "content_score": <0-100>,
  "impact_score": <0-100>,
  "skills_coverage_score": <0-100>,
  "experience_relevance_score": <0-100>,
  "overall_score": <0-100>,
  "strengths": ["..."],
  "improvements": ["..."],
  "summary": "<3-5 sentence overall assessment>"
}

Be specific: reference actual entries from the CV in strengths and improvements.`
}

// BuildAnalysisPrompt assembles the user message from the serialized CV and
// optional rubric context retrieved from the reference store.
func (pb *PromptBuilder) BuildAnalysisPrompt(cvJSON, rubricContext string) string {
	var sb strings.Builder
	if rubricContext != "" {
		sb.WriteString("SCORING GUIDELINES:\n")
		sb.WriteString(rubricContext)
		sb.WriteString("\n\n")
	}
	sb.WriteString("STRUCTURED CV:\n")
	sb.WriteString(cvJSON)
	return sb.String()
}

// FormatRubricContext renders retrieved rubric snippets for prompt injection.
func FormatRubricContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Guideline %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
