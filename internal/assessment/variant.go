package assessment

import (
	"fmt"
	"math"
	"strings"
)

// SurveyVariant selects which tables, weights and catalog apply to a scoring
// call. Variants are never mixed within one call.
type SurveyVariant string

const (
	Regular SurveyVariant = "regular"
	VHSC    SurveyVariant = "vhsc"
)

// Domain names a survey section independent of variant prefix.
type Domain string

const (
	DomainAptitude    Domain = "aptitude"
	DomainAcademic    Domain = "academic"
	DomainInterest    Domain = "career"
	DomainPersonality Domain = "personality"
	DomainContext     Domain = "context"
)

// Domains lists every scored domain in pipeline order.
var Domains = []Domain{DomainAptitude, DomainAcademic, DomainInterest, DomainPersonality, DomainContext}

const vhscPrefix = "vhsc-"

// StreamWeights blend the per-stream sub-means.
type StreamWeights struct {
	Academic float64 `json:"academic"`
	Aptitude float64 `json:"aptitude"`
	Interest float64 `json:"interest"`
	Context  float64 `json:"context"`
}

// Validate rejects negative weights and sets summing above 1.
func (w StreamWeights) Validate() error {
	parts := []float64{w.Academic, w.Aptitude, w.Interest, w.Context}
	sum := 0.0
	for _, p := range parts {
		if p < 0 {
			return fmt.Errorf("stream weights must be non-negative: %+v", w)
		}
		sum += p
	}
	if sum > 1+1e-9 {
		return fmt.Errorf("stream weights sum to %.4f, must not exceed 1", sum)
	}
	return nil
}

// CompositeWeights blend the five domain averages into weightedScore.
type CompositeWeights struct {
	Aptitude    float64 `json:"aptitude"`
	Interest    float64 `json:"interest"`
	Academic    float64 `json:"academic"`
	Personality float64 `json:"personality"`
	Context     float64 `json:"context"`
}

// Validate requires non-negative weights summing to exactly 1.
func (w CompositeWeights) Validate() error {
	parts := []float64{w.Aptitude, w.Interest, w.Academic, w.Personality, w.Context}
	sum := 0.0
	for _, p := range parts {
		if p < 0 {
			return fmt.Errorf("composite weights must be non-negative: %+v", w)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("composite weights sum to %.4f, must equal 1", sum)
	}
	return nil
}

var (
	defaultStreamWeights = StreamWeights{Academic: 0.40, Aptitude: 0.30, Interest: 0.20, Context: 0.10}

	// compositeWeights is the fixed 40/25/20/10/5 blend behind weightedScore.
	compositeWeights = CompositeWeights{
		Aptitude:    0.40,
		Interest:    0.25,
		Academic:    0.20,
		Personality: 0.10,
		Context:     0.05,
	}
)

// Variant bundles every static table a scoring call needs. Values are built
// once at package init and must be treated as read-only.
type Variant struct {
	Name          SurveyVariant
	SectionPrefix string
	InterestScale float64 // RIASEC count that maps to 100%
	StreamWeights StreamWeights
	Streams       []Stream

	aptitude    []Question
	academic    []Question
	context     []Question
	riasec      map[int]string
	personality map[string]string
}

var (
	regularVariant = &Variant{
		Name:          Regular,
		SectionPrefix: "",
		InterestScale: 15,
		StreamWeights: defaultStreamWeights,
		Streams:       regularStreams,
		aptitude:      aptitudeBank,
		academic:      academicBank,
		context:       contextBank,
		riasec:        buildLetterTable(riasecAssignments),
		personality:   personalityDictionary,
	}

	vhscVariant = &Variant{
		Name:          VHSC,
		SectionPrefix: vhscPrefix,
		InterestScale: 10,
		StreamWeights: defaultStreamWeights,
		Streams:       vhscStreams,
		aptitude:      aptitudeBank,
		academic:      academicBank,
		context:       contextBank,
		riasec:        buildLetterTable(riasecAssignments),
		personality:   personalityDictionary,
	}
)

// ParseVariant resolves a variant name case-insensitively. An empty name is
// rejected so callers decide their own default.
func ParseVariant(name string) (SurveyVariant, error) {
	switch SurveyVariant(strings.ToLower(strings.TrimSpace(name))) {
	case Regular:
		return Regular, nil
	case VHSC:
		return VHSC, nil
	default:
		return "", fmt.Errorf("unknown survey variant %q", name)
	}
}

// LookupVariant returns the static configuration for name.
func LookupVariant(name string) (*Variant, error) {
	v, err := ParseVariant(name)
	if err != nil {
		return nil, err
	}
	return VariantFor(v), nil
}

// VariantFor returns the configuration for a parsed variant.
func VariantFor(v SurveyVariant) *Variant {
	if v == VHSC {
		return vhscVariant
	}
	return regularVariant
}

// VariantOfSection infers the variant a stored section name belongs to.
func VariantOfSection(section string) SurveyVariant {
	if strings.HasPrefix(section, vhscPrefix) {
		return VHSC
	}
	return Regular
}

// SectionName returns the stored section name for d under this variant.
func (v *Variant) SectionName(d Domain) string {
	return v.SectionPrefix + string(d)
}

// DomainOf maps a stored section name back to its domain. Sections belonging
// to the other variant, or not scored at all, report false.
func (v *Variant) DomainOf(section string) (Domain, bool) {
	if VariantOfSection(section) != v.Name {
		return "", false
	}
	name := strings.TrimPrefix(section, v.SectionPrefix)
	for _, d := range Domains {
		if string(d) == name {
			return d, true
		}
	}
	return "", false
}

// WithStreamWeights returns a copy of v ranking streams with w. The composite
// weights are fixed for every variant.
func (v *Variant) WithStreamWeights(w StreamWeights) (*Variant, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	cp := *v
	cp.StreamWeights = w
	return &cp, nil
}
