package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"stream-advisor/internal/assessment"
)

var riasecNames = map[string]string{
	"R": "Realistic",
	"I": "Investigative",
	"A": "Artistic",
	"S": "Social",
	"E": "Enterprising",
	"C": "Conventional",
}

var variantNames = map[assessment.SurveyVariant]string{
	assessment.Regular: "Comprehensive Assessment",
	assessment.VHSC:    "VHSC Stream Assessment",
}

// MarkdownAssembler writes the report as GitHub-flavoured markdown. The other
// assemblers start from its output.
type MarkdownAssembler struct {
	opts Options
}

func NewMarkdownAssembler(opts Options) *MarkdownAssembler {
	return &MarkdownAssembler{opts: opts.withDefaults()}
}

func (a *MarkdownAssembler) Format() Format { return FormatMarkdown }

func (a *MarkdownAssembler) Assemble(_ context.Context, who Respondent, result *assessment.Result) (*Document, error) {
	if result == nil {
		return nil, fmt.Errorf("no assessment result to render")
	}
	return &Document{
		Format:      FormatMarkdown,
		ContentType: "text/markdown; charset=utf-8",
		Body:        []byte(a.Render(who, result)),
	}, nil
}

// Render builds the markdown body.
func (a *MarkdownAssembler) Render(who Respondent, r *assessment.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(a.opts.Title))
	fmt.Fprintf(&b, "- **Name:** %s\n", escape(orDash(who.Name)))
	fmt.Fprintf(&b, "- **Current qualification:** %s\n", escape(orDash(who.CurrentQualification)))
	fmt.Fprintf(&b, "- **Contact:** %s\n", escape(orDash(who.ContactInfo())))
	fmt.Fprintf(&b, "- **Assessment:** %s\n", variantNames[r.Variant])
	fmt.Fprintf(&b, "- **Date:** %s\n\n", a.opts.Now().Format("January 2, 2006"))

	b.WriteString("## Overall Profile\n\n")
	b.WriteString("| Area | Score | Grade |\n|---|---|---|\n")
	c := r.CompositeScores
	writeGradedRow(&b, "Aptitude", c.Aptitude)
	fmt.Fprintf(&b, "| Interest | %s | - |\n", num(c.Interest))
	writeGradedRow(&b, "Academic", c.Academic)
	fmt.Fprintf(&b, "| Personality | %s | - |\n", num(c.Personality))
	fmt.Fprintf(&b, "| Context | %s | - |\n", num(c.Context))
	writeGradedRow(&b, "**Weighted score**", r.WeightedScore)
	b.WriteString("\n")

	b.WriteString("## Aptitude\n\n| Category | Score | Correct | Grade |\n|---|---|---|---|\n")
	for _, k := range assessment.AptitudeCategories {
		cnt := r.AptitudeCounts[k]
		fmt.Fprintf(&b, "| %s | %s | %d/%d | %s |\n",
			assessment.Label(k), num(r.AptitudeScores[k]), cnt.Correct, cnt.Total, assessment.Grade(r.AptitudeScores[k]))
	}
	b.WriteString("\n")

	b.WriteString("## Academic Performance\n\n| Subject | Score | Grade |\n|---|---|---|\n")
	for _, k := range assessment.Subjects {
		writeGradedRow(&b, assessment.Label(k), r.AcademicPerformance[k])
	}
	b.WriteString("\n")

	b.WriteString("## Interests (RIASEC)\n\n| Type | Count | Percentage |\n|---|---|---|\n")
	for _, k := range assessment.RIASECLetters {
		fmt.Fprintf(&b, "| %s (%s) | %s | %s%% |\n", riasecNames[k], k, num(r.InterestScores[k]), num(r.InterestPercentages[k]))
	}
	b.WriteString("\n")

	b.WriteString("## Personality Traits\n\n| Trait | Score |\n|---|---|\n")
	for _, k := range assessment.Traits {
		fmt.Fprintf(&b, "| %s | %s |\n", assessment.Label(k), num(r.PersonalityTraits[k]))
	}
	b.WriteString("\n")

	b.WriteString("## Contextual Factors\n\n| Factor | Score |\n|---|---|\n")
	for _, k := range assessment.ContextFactors {
		fmt.Fprintf(&b, "| %s | %s |\n", assessment.Label(k), num(r.ContextualInputs[k]))
	}
	b.WriteString("\n")

	b.WriteString("## Recommended Streams\n\n")
	for i, rec := range r.Top(a.opts.TopN) {
		writeRecommendation(&b, i+1, rec)
	}

	g := assessment.BuildGuidance(r)
	b.WriteString("## Guidance\n\n")
	writeList(&b, "Study Strategies", g.StudyStrategies)
	writeList(&b, "Skill Roadmap", g.SkillRoadmap)
	writeList(&b, "Alignment Notes", g.AlignmentNotes)
	writeList(&b, "Immediate Actions", g.ImmediateActions)

	return b.String()
}

func writeRecommendation(b *strings.Builder, rank int, rec assessment.StreamRecommendation) {
	fmt.Fprintf(b, "### %d. %s (%s/100)\n\n", rank, escape(rec.Stream), num(rec.Score))
	fmt.Fprintf(b, "%s\n\n", escape(rec.Reasoning))

	subjects := make([]string, len(rec.Subjects))
	for i, s := range rec.Subjects {
		subjects[i] = assessment.Label(s)
	}
	fmt.Fprintf(b, "**Key subjects:** %s\n\n", strings.Join(subjects, ", "))

	if len(rec.CareerPaths) > 0 {
		b.WriteString("**Career paths:**\n\n")
		for _, p := range rec.CareerPaths {
			fmt.Fprintf(b, "- %s\n", escape(p))
		}
		b.WriteString("\n")
	}

	if len(rec.HighDemandSectors) > 0 {
		b.WriteString("**High-demand sectors:**\n\n")
		for _, s := range rec.HighDemandSectors {
			fmt.Fprintf(b, "- **%s** (%s). Skills: %s. Roles: %s. Employers: %s\n",
				escape(s.Sector), s.Growth, strings.Join(s.Skills, ", "), strings.Join(s.CareerPaths, ", "), escape(s.JobOpportunities))
		}
		b.WriteString("\n")
	}

	if len(rec.AbroadStudyOptions) > 0 {
		b.WriteString("**Study abroad:**\n\n")
		for _, o := range rec.AbroadStudyOptions {
			fmt.Fprintf(b, "- **%s**: %s. Programs: %s. Requirements: %s\n",
				escape(o.Country), strings.Join(o.Universities, ", "), strings.Join(o.Programs, ", "), escape(o.Requirements))
		}
		b.WriteString("\n")
	}
}

func writeGradedRow(b *strings.Builder, label string, score float64) {
	fmt.Fprintf(b, "| %s | %s | %s |\n", label, num(score), assessment.Grade(score))
}

func writeList(b *strings.Builder, heading string, items []string) {
	fmt.Fprintf(b, "### %s\n\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", escape(it))
	}
	b.WriteString("\n")
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

var mdEscaper = strings.NewReplacer(`|`, `\|`, `*`, `\*`, `_`, `\_`, "`", "\\`", `<`, "&lt;", `>`, "&gt;")

func escape(s string) string {
	return mdEscaper.Replace(s)
}
