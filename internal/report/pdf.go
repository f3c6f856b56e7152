package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"stream-advisor/internal/assessment"
)

// PDFAssembler prints the HTML report with headless Chromium.
type PDFAssembler struct {
	html       *HTMLAssembler
	chromePath string
	opts       Options
}

func NewPDFAssembler(opts Options) *PDFAssembler {
	opts = opts.withDefaults()
	path := opts.ChromePath
	if path == "" {
		path = DetectChromePath()
	}
	return &PDFAssembler{
		html:       NewHTMLAssembler(opts),
		chromePath: path,
		opts:       opts,
	}
}

func (a *PDFAssembler) Format() Format { return FormatPDF }

func (a *PDFAssembler) Assemble(ctx context.Context, who Respondent, result *assessment.Result) (*Document, error) {
	if result == nil {
		return nil, fmt.Errorf("no assessment result to render")
	}
	htmlDoc, err := a.html.Render(who, result)
	if err != nil {
		return nil, err
	}
	pdf, err := a.print(ctx, htmlDoc)
	if err != nil {
		return nil, err
	}
	return &Document{Format: FormatPDF, ContentType: "application/pdf", Body: pdf}, nil
}

func (a *PDFAssembler) print(ctx context.Context, htmlDoc string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if a.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(a.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}

// DetectChromePath returns the first Chromium binary found in the usual
// locations, or "" to let chromedp search PATH.
func DetectChromePath() string {
	for _, p := range []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
