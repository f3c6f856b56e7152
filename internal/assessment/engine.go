package assessment

import (
	"stream-advisor/internal/common/logger"
)

// Sections holds one respondent's normalized answers per domain.
type Sections map[Domain]Answers

// SectionsFromRaw picks the sections that belong to v out of a stored
// section-name keyed payload and normalizes each one. Sections of the other
// variant and sections no mapper scores are dropped.
func SectionsFromRaw(v *Variant, raw map[string]interface{}) Sections {
	out := make(Sections, len(Domains))
	for name, answers := range raw {
		d, ok := v.DomainOf(name)
		if !ok {
			continue
		}
		out[d] = NormalizeAny(answers)
	}
	return out
}

// Result is the engine output for one respondent.
type Result struct {
	Variant               SurveyVariant            `json:"variant"`
	AptitudeScores        Scores                   `json:"aptitudeScores"`
	AptitudeCounts        map[string]AptitudeCount `json:"aptitudeCounts"`
	InterestScores        Scores                   `json:"interestScores"`
	InterestPercentages   Scores                   `json:"interestPercentages"`
	AcademicPerformance   Scores                   `json:"academicPerformance"`
	PersonalityTraits     Scores                   `json:"personalityTraits"`
	ContextualInputs      Scores                   `json:"contextualInputs"`
	CompositeScores       CompositeScores          `json:"compositeScores"`
	WeightedScore         float64                  `json:"weightedScore"`
	StreamRecommendations []StreamRecommendation   `json:"streamRecommendations"`
	Skipped               []SkippedAnswer          `json:"skippedAnswers,omitempty"`
}

// Top returns up to n leading recommendations.
func (r *Result) Top(n int) []StreamRecommendation {
	if n <= 0 || n >= len(r.StreamRecommendations) {
		return r.StreamRecommendations
	}
	return r.StreamRecommendations[:n]
}

// Engine runs the scoring pipeline. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	logger logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{logger: log}
}

// Score maps every section, blends the composites and ranks the variant's
// streams. Missing sections score zero.
func (e *Engine) Score(v *Variant, sections Sections) *Result {
	aptitude, counts, skippedApt := ScoreAptitude(sections[DomainAptitude], v.aptitude)
	academic, skippedAcad := ScoreAcademic(sections[DomainAcademic], v.academic)
	interest := ScoreInterest(sections[DomainInterest], v.riasec)
	personality := ScorePersonality(sections[DomainPersonality], v.personality)
	context := ScoreContext(sections[DomainContext], v.context)

	skipped := make([]SkippedAnswer, 0, len(skippedApt)+len(skippedAcad))
	for _, s := range skippedApt {
		s.Section = v.SectionName(DomainAptitude)
		skipped = append(skipped, s)
	}
	for _, s := range skippedAcad {
		s.Section = v.SectionName(DomainAcademic)
		skipped = append(skipped, s)
	}
	for _, s := range skipped {
		e.logger.Warn("skipping answer", map[string]interface{}{
			"section":  s.Section,
			"question": s.Index + 1,
			"answer":   s.Answer,
			"reason":   s.Reason,
		})
	}
	if len(skipped) == 0 {
		skipped = nil
	}

	composite, weighted := Composite(aptitude, interest, academic, personality, context, compositeWeights)

	return &Result{
		Variant:               v.Name,
		AptitudeScores:        aptitude,
		AptitudeCounts:        counts,
		InterestScores:        interest,
		InterestPercentages:   InterestPercentages(interest, v.InterestScale),
		AcademicPerformance:   academic,
		PersonalityTraits:     personality,
		ContextualInputs:      context,
		CompositeScores:       composite,
		WeightedScore:         weighted,
		StreamRecommendations: RankStreams(v.Streams, v.StreamWeights, aptitude, interest, academic, personality, context),
		Skipped:               skipped,
	}
}
