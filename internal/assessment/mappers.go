package assessment

import (
	"math"
	"strings"
)

// Scores maps a category label to its numeric score.
type Scores map[string]float64

// Get returns the score for key, treating a missing key as zero.
func (s Scores) Get(key string) float64 {
	return s[key]
}

// Mean averages the given keys. Missing keys contribute zero.
func (s Scores) Mean(keys []string) float64 {
	if len(keys) == 0 {
		return 0
	}
	sum := 0.0
	for _, k := range keys {
		sum += s[k]
	}
	return sum / float64(len(keys))
}

func zeroScores(keys []string) Scores {
	out := make(Scores, len(keys))
	for _, k := range keys {
		out[k] = 0
	}
	return out
}

// AptitudeCount is the raw tally behind one aptitude category score.
type AptitudeCount struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// SkippedAnswer records an answer left out of scoring because it is not one
// of its question's options.
type SkippedAnswer struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Answer  string `json:"answer"`
	Reason  string `json:"reason"`
}

const (
	pointsPerCorrect = 100
	reasonNotOption  = "answer is not a listed option"
)

// ScoreAptitude awards 100 points per correct answer and averages per
// category. Indices past the end of the bank have no category and are
// ignored.
func ScoreAptitude(answers Answers, bank []Question) (Scores, map[string]AptitudeCount, []SkippedAnswer) {
	sums := zeroScores(AptitudeCategories)
	counts := make(map[string]AptitudeCount, len(AptitudeCategories))
	for _, c := range AptitudeCategories {
		counts[c] = AptitudeCount{}
	}

	var skipped []SkippedAnswer
	for _, e := range answers.Entries() {
		if e.Index >= len(bank) {
			continue
		}
		q := bank[e.Index]
		if !q.HasOption(e.Value) {
			skipped = append(skipped, SkippedAnswer{Index: e.Index, Answer: e.Value, Reason: reasonNotOption})
			continue
		}
		c := counts[q.Category]
		c.Total++
		if e.Value == q.Correct {
			c.Correct++
			sums[q.Category] += pointsPerCorrect
		}
		counts[q.Category] = c
	}

	scores := zeroScores(AptitudeCategories)
	for cat, c := range counts {
		if c.Total > 0 {
			scores[cat] = roundTo(sums[cat]/float64(c.Total), 1)
		}
	}
	return scores, counts, skipped
}

// ScoreAcademic converts each subject's percentage band to its representative
// score. Unknown bands are skipped.
func ScoreAcademic(answers Answers, bank []Question) (Scores, []SkippedAnswer) {
	scores := zeroScores(Subjects)
	var skipped []SkippedAnswer
	for _, e := range answers.Entries() {
		if e.Index >= len(bank) {
			continue
		}
		band, ok := academicBandScores[e.Value]
		if !ok {
			skipped = append(skipped, SkippedAnswer{Index: e.Index, Answer: e.Value, Reason: reasonNotOption})
			continue
		}
		scores[bank[e.Index].Category] = band
	}
	return scores, skipped
}

// ScoreInterest counts "Yes" answers per RIASEC letter. Unmapped indices and
// any other answer leave the counts unchanged.
func ScoreInterest(answers Answers, table map[int]string) Scores {
	scores := zeroScores(RIASECLetters)
	for _, e := range answers.Entries() {
		letter, ok := table[e.Index]
		if !ok || e.Value != "Yes" {
			continue
		}
		scores[letter]++
	}
	return scores
}

// InterestPercentages rescales raw RIASEC counts against scale.
func InterestPercentages(counts Scores, scale float64) Scores {
	out := zeroScores(RIASECLetters)
	if scale <= 0 {
		return out
	}
	for _, l := range RIASECLetters {
		out[l] = math.Round(counts[l] / scale * 100)
	}
	return out
}

// ScorePersonality reports each trait's share of the answers that matched the
// dictionary, as a percentage.
func ScorePersonality(answers Answers, dictionary map[string]string) Scores {
	counts := zeroScores(Traits)
	total := 0
	for _, e := range answers.Entries() {
		trait, ok := dictionary[e.Value]
		if !ok {
			continue
		}
		counts[trait]++
		total++
	}

	scores := zeroScores(Traits)
	if total == 0 {
		return scores
	}
	for _, t := range Traits {
		scores[t] = roundTo(counts[t]/float64(total)*100, 1)
	}
	return scores
}

// ScoreContext scores each factor by keyword in the answer text.
func ScoreContext(answers Answers, bank []Question) Scores {
	scores := zeroScores(ContextFactors)
	for _, e := range answers.Entries() {
		if e.Index >= len(bank) {
			continue
		}
		scores[bank[e.Index].Category] = contextKeywordScore(e.Value)
	}
	return scores
}

func contextKeywordScore(answer string) float64 {
	for _, rule := range contextKeywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(answer, kw) {
				return rule.score
			}
		}
	}
	return contextFallbackScore
}

func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
