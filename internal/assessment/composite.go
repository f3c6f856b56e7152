package assessment

// CompositeScores holds one average per domain.
type CompositeScores struct {
	Aptitude    float64 `json:"aptitude"`
	Interest    float64 `json:"interest"`
	Academic    float64 `json:"academic"`
	Personality float64 `json:"personality"`
	Context     float64 `json:"context"`
}

// Weighted applies w to the domain averages.
func (c CompositeScores) Weighted(w CompositeWeights) float64 {
	return c.Aptitude*w.Aptitude +
		c.Interest*w.Interest +
		c.Academic*w.Academic +
		c.Personality*w.Personality +
		c.Context*w.Context
}

func (c CompositeScores) rounded() CompositeScores {
	return CompositeScores{
		Aptitude:    roundTo(c.Aptitude, 2),
		Interest:    roundTo(c.Interest, 2),
		Academic:    roundTo(c.Academic, 2),
		Personality: roundTo(c.Personality, 2),
		Context:     roundTo(c.Context, 2),
	}
}

// Composite averages each domain over its full category set and blends the
// averages with w. The weighted score is taken from the unrounded averages;
// both results are rounded to two places.
func Composite(aptitude, interest, academic, personality, context Scores, w CompositeWeights) (CompositeScores, float64) {
	raw := CompositeScores{
		Aptitude:    aptitude.Mean(AptitudeCategories),
		Interest:    interest.Mean(RIASECLetters),
		Academic:    academic.Mean(Subjects),
		Personality: personality.Mean(Traits),
		Context:     context.Mean(ContextFactors),
	}
	return raw.rounded(), roundTo(raw.Weighted(w), 2)
}
