package report

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"stream-advisor/internal/assessment"
)

const reportCSS = `body{font-family:"Segoe UI",Helvetica,Arial,sans-serif;color:#1f2937;margin:0;padding:1.5rem;background:#fff;}
.report{max-width:960px;margin:0 auto;}
h1{color:#1e3a8a;border-bottom:3px solid #1e3a8a;padding-bottom:.4rem;}
h2{color:#1e40af;margin-top:1.8rem;}
h3{color:#374151;}
table{width:100%;border-collapse:collapse;margin:.6rem 0;font-size:.9rem;}
th,td{border:1px solid #cbd5e1;padding:.35rem .5rem;text-align:left;vertical-align:top;}
thead th{background:#eff6ff;}
html,body,*{-webkit-print-color-adjust:exact;print-color-adjust:exact;}
@media print{@page{size:A4;margin:12mm;} body{padding:0;} h2{break-after:avoid;}}`

// HTMLAssembler converts the markdown report into a standalone HTML page.
type HTMLAssembler struct {
	markdown *MarkdownAssembler
	md       goldmark.Markdown
}

func NewHTMLAssembler(opts Options) *HTMLAssembler {
	return &HTMLAssembler{
		markdown: NewMarkdownAssembler(opts),
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (a *HTMLAssembler) Format() Format { return FormatHTML }

func (a *HTMLAssembler) Assemble(_ context.Context, who Respondent, result *assessment.Result) (*Document, error) {
	if result == nil {
		return nil, fmt.Errorf("no assessment result to render")
	}
	page, err := a.Render(who, result)
	if err != nil {
		return nil, err
	}
	return &Document{
		Format:      FormatHTML,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(page),
	}, nil
}

// Render returns the full HTML document.
func (a *HTMLAssembler) Render(who Respondent, result *assessment.Result) (string, error) {
	var content bytes.Buffer
	if err := a.md.Convert([]byte(a.markdown.Render(who, result)), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'>" +
		"<title>" + html.EscapeString(a.markdown.opts.Title) + "</title>" +
		"<style>" + reportCSS + "</style></head><body>" +
		"<div class='report'>" + content.String() + "</div>" +
		"</body></html>", nil
}
