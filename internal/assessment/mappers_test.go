package assessment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allCorrectAptitude() map[string]string {
	out := make(map[string]string, len(aptitudeBank))
	for i, q := range aptitudeBank {
		out[fmt.Sprintf("q%d", i+1)] = q.Correct
	}
	return out
}

// wrongAptitude answers every question with a listed option that is not the
// correct one.
func wrongAptitude(i int) string {
	for _, o := range aptitudeBank[i].Options {
		if o != aptitudeBank[i].Correct {
			return o
		}
	}
	return ""
}

func TestScoreAptitude(t *testing.T) {
	t.Run("numerical only correct", func(t *testing.T) {
		raw := make(map[string]string)
		for i := range aptitudeBank {
			v := wrongAptitude(i)
			if aptitudeBank[i].Category == Numerical {
				v = aptitudeBank[i].Correct
			}
			raw[fmt.Sprintf("q%d", i+1)] = v
		}

		scores, counts, skipped := ScoreAptitude(NormalizeAnswers(raw), aptitudeBank)

		assert.Equal(t, Scores{Numerical: 100, Verbal: 0, Spatial: 0, Mechanical: 0, Logical: 0}, scores)
		assert.Equal(t, AptitudeCount{Correct: 5, Total: 5}, counts[Numerical])
		assert.Equal(t, AptitudeCount{Correct: 0, Total: 5}, counts[Verbal])
		assert.Empty(t, skipped)
	})

	t.Run("all correct scores exactly 100", func(t *testing.T) {
		scores, _, _ := ScoreAptitude(NormalizeAnswers(allCorrectAptitude()), aptitudeBank)
		for _, c := range AptitudeCategories {
			assert.Equal(t, 100.0, scores[c], c)
		}
	})

	t.Run("partial category rounds to one place", func(t *testing.T) {
		raw := map[string]string{"q1": "30", "q2": "$3.00", "q3": "24"}
		scores, counts, _ := ScoreAptitude(NormalizeAnswers(raw), aptitudeBank)
		assert.Equal(t, 33.3, scores[Numerical])
		assert.Equal(t, AptitudeCount{Correct: 1, Total: 3}, counts[Numerical])
	})

	t.Run("invalid option is skipped and reported", func(t *testing.T) {
		raw := map[string]string{"q1": "31", "q6": "Joyful"}
		scores, counts, skipped := ScoreAptitude(NormalizeAnswers(raw), aptitudeBank)

		assert.Equal(t, 0.0, scores[Numerical])
		assert.Equal(t, 0, counts[Numerical].Total)
		assert.Equal(t, 100.0, scores[Verbal])
		require.Len(t, skipped, 1)
		assert.Equal(t, 0, skipped[0].Index)
		assert.Equal(t, "31", skipped[0].Answer)
	})

	t.Run("indices beyond the bank are ignored", func(t *testing.T) {
		raw := allCorrectAptitude()
		for i := 26; i <= 50; i++ {
			raw[fmt.Sprintf("q%d", i)] = "anything"
		}
		scores, _, skipped := ScoreAptitude(NormalizeAnswers(raw), aptitudeBank)
		assert.Equal(t, 100.0, scores[Logical])
		assert.Empty(t, skipped)
	})
}

func TestScoreAcademic(t *testing.T) {
	t.Run("two subjects answered", func(t *testing.T) {
		raw := map[string]string{"q1": "81-100%", "q2": "41-60%"}
		scores, skipped := ScoreAcademic(NormalizeAnswers(raw), academicBank)
		assert.Equal(t, Scores{Maths: 90, Science: 50, English: 0, SocialScience: 0, Languages: 0}, scores)
		assert.Empty(t, skipped)
	})

	t.Run("every band", func(t *testing.T) {
		raw := map[string]string{"q1": "0-40%", "q2": "41-60%", "q3": "61-80%", "q4": "81-100%"}
		scores, _ := ScoreAcademic(NormalizeAnswers(raw), academicBank)
		assert.Equal(t, 20.0, scores[Maths])
		assert.Equal(t, 50.0, scores[Science])
		assert.Equal(t, 70.0, scores[English])
		assert.Equal(t, 90.0, scores[SocialScience])
	})

	t.Run("unknown band is skipped", func(t *testing.T) {
		scores, skipped := ScoreAcademic(NormalizeAnswers(map[string]string{"q3": "100%"}), academicBank)
		assert.Equal(t, 0.0, scores[English])
		require.Len(t, skipped, 1)
		assert.Equal(t, 2, skipped[0].Index)
	})
}

func TestScoreInterest(t *testing.T) {
	table := buildLetterTable(riasecAssignments)

	t.Run("later assignment wins", func(t *testing.T) {
		tests := []struct {
			key    string
			letter string
		}{
			{"q9", "C"},
			{"q30", "A"},
			{"q20", "S"},
			{"q38", "E"},
			{"q17", "C"},
			{"q37", "C"},
		}
		for _, tt := range tests {
			scores := ScoreInterest(NormalizeAnswers(map[string]string{tt.key: "Yes"}), table)
			assert.Equal(t, 1.0, scores[tt.letter], tt.key)
		}
	})

	t.Run("yes to every question", func(t *testing.T) {
		raw := make(map[string]string)
		for i := 1; i <= 45; i++ {
			raw[fmt.Sprintf("q%d", i)] = "Yes"
		}
		scores := ScoreInterest(NormalizeAnswers(raw), table)
		assert.Equal(t, Scores{"R": 7, "I": 8, "A": 4, "S": 6, "E": 7, "C": 6}, scores)
	})

	t.Run("no and unmapped change nothing", func(t *testing.T) {
		raw := map[string]string{"q1": "No", "q3": "Yes", "q5": "Yes", "q2": "yes"}
		scores := ScoreInterest(NormalizeAnswers(raw), table)
		assert.Equal(t, zeroScores(RIASECLetters), scores)
	})

	t.Run("total never exceeds answered mapped indices", func(t *testing.T) {
		raw := map[string]string{"q1": "Yes", "q2": "Yes", "q3": "Yes", "q4": "No", "q9": "Yes"}
		scores := ScoreInterest(NormalizeAnswers(raw), table)
		total := 0.0
		for _, v := range scores {
			total += v
		}
		assert.Equal(t, 3.0, total)
	})

	t.Run("percentages per scale", func(t *testing.T) {
		counts := Scores{"R": 1, "I": 2, "A": 1}
		assert.Equal(t, 7.0, InterestPercentages(counts, 15)["R"])
		assert.Equal(t, 13.0, InterestPercentages(counts, 15)["I"])
		assert.Equal(t, 20.0, InterestPercentages(counts, 10)["I"])
		assert.Equal(t, zeroScores(RIASECLetters), InterestPercentages(counts, 0))
	})
}

func TestScorePersonality(t *testing.T) {
	t.Run("share of matched answers", func(t *testing.T) {
		raw := map[string]string{
			"q1": "Values and wisdom",
			"q2": "Honest and smart",
			"q3": "Fun and dynamic",
			"q4": "Calm, composed, balanced",
			"q5": "Something unlisted",
		}
		scores := ScorePersonality(NormalizeAnswers(raw), personalityDictionary)
		assert.Equal(t, Scores{Openness: 50, Conscientiousness: 0, Extraversion: 25, Agreeableness: 25, Neuroticism: 0}, scores)
	})

	t.Run("rounds to one place", func(t *testing.T) {
		raw := map[string]string{"q1": "Values and wisdom", "q2": "Reliable and respectful", "q3": "Fun and dynamic"}
		scores := ScorePersonality(NormalizeAnswers(raw), personalityDictionary)
		assert.Equal(t, 33.3, scores[Openness])
		assert.Equal(t, 33.3, scores[Conscientiousness])
	})

	t.Run("no matches", func(t *testing.T) {
		scores := ScorePersonality(NormalizeAnswers(map[string]string{"q1": "nope"}), personalityDictionary)
		assert.Equal(t, zeroScores(Traits), scores)
	})

	t.Run("long role answers", func(t *testing.T) {
		raw := map[string]string{
			"q1": "I make sure everything and everyone is taken care of. My role is the protector.",
			"q2": "I help my family understand work ethic, hustle, and the value of having resources. My role is material support.",
		}
		scores := ScorePersonality(NormalizeAnswers(raw), personalityDictionary)
		assert.Equal(t, 50.0, scores[Agreeableness])
		assert.Equal(t, 50.0, scores[Conscientiousness])
	})
}

func TestPersonalityDictionary(t *testing.T) {
	require.Len(t, personalityDictionary, len(personalityAssignments))
	for _, a := range personalityAssignments {
		assert.Contains(t, Traits, a.trait, a.answer)
	}
}

func TestScoreContext(t *testing.T) {
	t.Run("keyword priority", func(t *testing.T) {
		raw := map[string]string{"q1": "Very aware", "q2": "Good access", "q3": "Somewhat supportive"}
		scores := ScoreContext(NormalizeAnswers(raw), contextBank)
		assert.Equal(t, Scores{CareerAwareness: 90, ResourceAccess: 70, ParentalSupport: 50}, scores)
	})

	tests := []struct {
		answer string
		want   float64
	}{
		{"Excellent access", 90},
		{"Moderately supportive", 70},
		{"Moderate access", 30},
		{"Limited access", 30},
		{"Not aware at all", 30},
		{"Not supportive", 30},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, contextKeywordScore(tt.answer))
		})
	}
}

func TestMappersZeroOnUnrecognizedKeys(t *testing.T) {
	answers := NormalizeAnswers(map[string]string{"foo": "Yes", "q0": "Yes", "qq": "30"})
	require.Empty(t, answers)

	apt, _, _ := ScoreAptitude(answers, aptitudeBank)
	acad, _ := ScoreAcademic(answers, academicBank)

	for _, s := range []Scores{
		apt,
		acad,
		ScoreInterest(answers, buildLetterTable(riasecAssignments)),
		ScorePersonality(answers, personalityDictionary),
		ScoreContext(answers, contextBank),
	} {
		require.NotEmpty(t, s)
		for k, v := range s {
			assert.Equal(t, 0.0, v, k)
		}
	}
}
