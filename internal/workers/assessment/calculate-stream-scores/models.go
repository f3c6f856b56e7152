// internal/workers/assessment/calculate-stream-scores/models.go
package calculatestreamscores

import "stream-advisor/internal/assessment"

type Input struct {
	AccessToken string `json:"accessToken"`
	Variant     string `json:"variant,omitempty"`
}

// Output is the engine result with the stored snapshot id alongside.
type Output struct {
	*assessment.Result
	AssessmentID string `json:"assessmentId"`
}

// AnalyticsDocument is the search-index projection of one scoring run.
type AnalyticsDocument struct {
	AccessToken     string                     `json:"accessToken"`
	Variant         string                     `json:"variant"`
	WeightedScore   float64                    `json:"weightedScore"`
	TopStream       string                     `json:"topStream"`
	StreamScores    map[string]float64         `json:"streamScores"`
	CompositeScores assessment.CompositeScores `json:"compositeScores"`
	SkippedAnswers  int                        `json:"skippedAnswers"`
	ScoredAt        string                     `json:"scoredAt"`
}
