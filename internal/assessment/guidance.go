package assessment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var labels = map[string]string{
	Numerical:  "Numerical",
	Verbal:     "Verbal",
	Spatial:    "Spatial",
	Mechanical: "Mechanical",
	Logical:    "Logical",

	Maths:         "Mathematics",
	Science:       "Science",
	English:       "English",
	SocialScience: "Social Science",
	Languages:     "Languages",

	Openness:          "Openness",
	Conscientiousness: "Conscientiousness",
	Extraversion:      "Extraversion",
	Agreeableness:     "Agreeableness",
	Neuroticism:       "Neuroticism",

	CareerAwareness: "Career Awareness",
	ResourceAccess:  "Resource Access",
	ParentalSupport: "Parental Support",
}

// Label returns the display name of a category key.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

// Grade converts a 0-100 score to a letter grade.
func Grade(score float64) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 75:
		return "B+"
	case score >= 65:
		return "B"
	case score >= 55:
		return "C+"
	case score >= 45:
		return "C"
	case score >= 35:
		return "D"
	default:
		return "F"
	}
}

// Guidance is the narrative advice printed after the score tables.
type Guidance struct {
	StudyStrategies  []string `json:"studyStrategies"`
	SkillRoadmap     []string `json:"skillRoadmap"`
	AlignmentNotes   []string `json:"alignmentNotes"`
	ImmediateActions []string `json:"immediateActions"`
}

const maxStudyStrategies = 6

// BuildGuidance derives variant-specific advice from a result.
func BuildGuidance(r *Result) Guidance {
	if r.Variant == VHSC {
		return vhscGuidance(r)
	}
	return regularGuidance(r)
}

func vhscGuidance(r *Result) Guidance {
	var top StreamRecommendation
	if len(r.StreamRecommendations) > 0 {
		top = r.StreamRecommendations[0]
	}

	abroad := "Consider improving academic scores for international opportunities"
	if len(top.AbroadStudyOptions) > 0 {
		abroad = "Available based on your profile"
	}
	sectors := "Focus on skill development for emerging opportunities"
	if len(top.HighDemandSectors) > 0 {
		sectors = "Multiple growing sectors identified"
	}

	return Guidance{
		StudyStrategies: []string{
			"Focus on core subjects relevant to your recommended stream",
			"Practice past question papers and mock tests regularly",
			"Join study groups and discuss concepts with peers",
			"Use online resources and educational platforms for additional learning",
		},
		SkillRoadmap: []string{
			"Stream Selection: Choose your preferred stream based on assessment results",
			"Subject Focus: Strengthen foundation in stream-specific subjects",
			"Entrance Preparation: Prepare for relevant entrance examinations",
			"Career Planning: Research colleges and career options in your stream",
			"Skill Development: Build practical skills through projects and internships",
		},
		AlignmentNotes: []string{
			"Top Recommended Stream: " + top.Stream,
			"Academic Strengths: Based on your Grade 10 performance",
			"Aptitude Profile: Aligned with stream requirements",
			"Interest Alignment: Matches your RIASEC preferences",
			"Abroad Study Options: " + abroad,
			"High-Demand Sectors: " + sectors,
		},
		ImmediateActions: []string{
			"Review your stream recommendations carefully",
			"Discuss results with parents and teachers",
			"Research colleges offering your preferred stream",
			"Start preparing for stream-specific entrance exams",
		},
	}
}

func regularGuidance(r *Result) Guidance {
	strategies := []string{
		"Blend visual, auditory, and kinesthetic methods",
		"Weekly teach-back session to a peer",
		"Use spaced repetition for retention",
		"Adapt study methods based on the subject matter",
	}
	if r.AptitudeScores.Get(Logical) > 70 {
		strategies = append(strategies, "Focus on analytical problem-solving and logical reasoning exercises")
	}
	if r.AptitudeScores.Get(Spatial) > 70 {
		strategies = append(strategies, "Incorporate spatial visualization techniques in your studies")
	}
	var weak []string
	for _, s := range Subjects {
		if r.AcademicPerformance.Get(s) < 60 {
			weak = append(weak, Label(s))
		}
	}
	if len(weak) > 0 {
		strategies = append(strategies, "Dedicate extra time to improve in: "+strings.Join(weak, ", "))
	}
	if len(strategies) > maxStudyStrategies {
		strategies = strategies[:maxStudyStrategies]
	}

	var top StreamRecommendation
	if len(r.StreamRecommendations) > 0 {
		top = r.StreamRecommendations[0]
	}

	return Guidance{
		StudyStrategies: strategies,
		SkillRoadmap: []string{
			"Stream Selection: Review your stream recommendations and choose your preferred path",
			"Subject Mastery: Strengthen foundation in stream-specific subjects",
			"Aptitude Development: Focus on improving key aptitude areas identified",
			"Career Exploration: Research colleges and career options in your chosen stream",
			"Skill Building: Develop practical skills through projects and internships",
			"Personal Growth: Work on personality traits that support your career goals",
		},
		AlignmentNotes: []string{
			fmt.Sprintf("Top Recommended Stream: %s (Score: %s/100)", top.Stream, strconv.FormatFloat(top.Score, 'f', -1, 64)),
			fmt.Sprintf("RIASEC Interests: %s - Shows your vocational preferences", strings.Join(topKeys(r.InterestScores, RIASECLetters, 3), ", ")),
			"Strongest Aptitudes: " + strings.Join(labelsOf(topKeys(r.AptitudeScores, AptitudeCategories, 2)), ", "),
			fmt.Sprintf("Academic Profile: %s are your strongest subjects", strings.Join(labelsOf(topKeys(r.AcademicPerformance, Subjects, 2)), ", ")),
			fmt.Sprintf("Personality Traits: %s are prominent", strings.Join(labelsOf(topKeys(r.PersonalityTraits, Traits, 2)), ", ")),
			"Contextual Support: " + strings.Join(labelsOf(topKeys(r.ContextualInputs, ContextFactors, 2)), ", "),
		},
		ImmediateActions: []string{
			"Review your comprehensive assessment results and identify your top stream choice",
			"Discuss results with parents, teachers, and career counselors",
			"Research colleges and entrance exams for your chosen stream",
			"Create a study plan focusing on your weaker subjects and aptitude areas",
			"Start building a portfolio of projects related to your interests",
			"Connect with professionals in your recommended career paths",
		},
	}
}

// topKeys returns the n highest-scoring keys; ties keep the order of keys.
func topKeys(s Scores, keys []string, n int) []string {
	ordered := append([]string(nil), keys...)
	sort.SliceStable(ordered, func(i, j int) bool { return s[ordered[i]] > s[ordered[j]] })
	if n < len(ordered) {
		ordered = ordered[:n]
	}
	return ordered
}

func labelsOf(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = Label(k)
	}
	return out
}
