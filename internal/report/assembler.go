// internal/report/assembler.go
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stream-advisor/internal/assessment"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// ParseFormat resolves a format name case-insensitively. "md" is accepted as
// an alias of markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// Respondent is the metadata printed in the report header.
type Respondent struct {
	Name                 string
	CurrentQualification string
	Email                string
	PhoneNo              string
}

// ContactInfo joins whatever contact details are known.
func (r Respondent) ContactInfo() string {
	var parts []string
	if r.Email != "" {
		parts = append(parts, r.Email)
	}
	if r.PhoneNo != "" {
		parts = append(parts, r.PhoneNo)
	}
	return strings.Join(parts, " / ")
}

// Document is a rendered report.
type Document struct {
	Format      Format
	ContentType string
	Body        []byte
}

// Assembler renders a scored assessment for one respondent.
type Assembler interface {
	Format() Format
	Assemble(ctx context.Context, who Respondent, result *assessment.Result) (*Document, error)
}

// Options configure every assembler.
type Options struct {
	Title      string
	TopN       int
	ChromePath string
	Timeout    time.Duration
	// Now stamps the report date; tests pin it.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Stream Recommendation Report"
	}
	if o.TopN <= 0 {
		o.TopN = 3
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// New returns the assembler for format.
func New(format Format, opts Options) (Assembler, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownAssembler(opts), nil
	case FormatHTML:
		return NewHTMLAssembler(opts), nil
	case FormatPDF:
		return NewPDFAssembler(opts), nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}
