package assessment

import "sort"

// Breakdown exposes the sub-means a stream score was built from.
type Breakdown struct {
	Academic float64 `json:"academic"`
	Aptitude float64 `json:"aptitude"`
	Interest float64 `json:"interest"`
	Context  float64 `json:"context"`
}

// StreamRecommendation is one ranked stream. Position in the result list is
// its rank.
type StreamRecommendation struct {
	Stream             string         `json:"stream"`
	Score              float64        `json:"score"`
	Reasoning          string         `json:"reasoning"`
	Subjects           []string       `json:"subjects"`
	CareerPaths        []string       `json:"careerPaths"`
	HighDemandSectors  []Sector       `json:"highDemandSectors,omitempty"`
	AbroadStudyOptions []AbroadOption `json:"abroadStudyOptions,omitempty"`
	Breakdown          Breakdown      `json:"breakdown"`
}

// RankStreams scores every stream of the catalog and returns them best
// first. Streams with equal scores keep catalog order.
func RankStreams(streams []Stream, w StreamWeights, aptitude, interest, academic, personality, context Scores) []StreamRecommendation {
	profile := Profile{
		AverageAcademic: academic.Mean(Subjects),
		Openness:        personality.Get(Openness),
		ResourceAccess:  context.Get(ResourceAccess),
	}
	contextMean := context.Mean(ContextFactors)

	type scored struct {
		rec   StreamRecommendation
		score float64
	}
	ranked := make([]scored, 0, len(streams))
	for _, s := range streams {
		b := Breakdown{
			Academic: academic.Mean(s.RequiredSubjects),
			Aptitude: aptitude.Mean(s.RequiredAptitudes),
			Interest: interest.Mean(s.RequiredInterests),
			Context:  contextMean,
		}
		score := b.Academic*w.Academic + b.Aptitude*w.Aptitude + b.Interest*w.Interest + b.Context*w.Context
		ranked = append(ranked, scored{
			score: roundTo(score, 2),
			rec: StreamRecommendation{
				Stream:             s.Name,
				Reasoning:          s.Reasoning,
				Subjects:           append([]string(nil), s.RequiredSubjects...),
				CareerPaths:        append([]string(nil), s.CareerPaths...),
				HighDemandSectors:  cloneSectors(s.HighDemandSectors),
				AbroadStudyOptions: s.Abroad.OptionsFor(profile),
				Breakdown: Breakdown{
					Academic: roundTo(b.Academic, 2),
					Aptitude: roundTo(b.Aptitude, 2),
					Interest: roundTo(b.Interest, 2),
					Context:  roundTo(b.Context, 2),
				},
			},
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]StreamRecommendation, len(ranked))
	for i, r := range ranked {
		r.rec.Score = r.score
		out[i] = r.rec
	}
	return out
}

func cloneSectors(in []Sector) []Sector {
	if len(in) == 0 {
		return nil
	}
	out := make([]Sector, len(in))
	for i, s := range in {
		s.Skills = append([]string(nil), s.Skills...)
		s.CareerPaths = append([]string(nil), s.CareerPaths...)
		out[i] = s
	}
	return out
}
