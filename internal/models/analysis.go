package models

// AnalysisReport is the model's scoring of a CVRecord against the review
// rubric. Sub-scores are on a 0-100 scale.
type AnalysisReport struct {
	ContentScore             float64  `json:"content_score"`
	ImpactScore              float64  `json:"impact_score"`
	SkillsCoverageScore      float64  `json:"skills_coverage_score"`
	ExperienceRelevanceScore float64  `json:"experience_relevance_score"`
	OverallScore             float64  `json:"overall_score"`
	Strengths                []string `json:"strengths"`
	Improvements             []string `json:"improvements"`
	Summary                  string   `json:"summary"`
}
