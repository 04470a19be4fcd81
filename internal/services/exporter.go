package services

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	apperrors "cv-builder/pkg/errors"
)

// ExporterService turns a rendered HTML document into a downloadable PDF
// through headless Chrome. The export is a presentational snapshot of one
// A4 page; it does not re-flow text for pagination.
type ExporterService interface {
	ExportPDF(ctx context.Context, html string) ([]byte, error)
}

type chromeExporter struct {
	chromePath string
	timeout    time.Duration
}

func NewChromeExporter(chromePath string, timeout time.Duration) ExporterService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &chromeExporter{
		chromePath: chromePath,
		timeout:    timeout,
	}
}

// ExportPDF implements ExporterService. Either a complete PDF is returned or
// an error; a partial file is never offered to the caller.
func (e *chromeExporter) ExportPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(e.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, e.timeout)
	defer cancelRun()

	dataURL := "data:text/html;charset=utf-8;base64," + encodeBase64(html)

	var pdfBuf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindExportFailure, "failed to export document", err)
	}

	if len(pdfBuf) == 0 || !strings.HasPrefix(string(pdfBuf[:minInt(len(pdfBuf), 4)]), "%PDF") {
		return nil, apperrors.New(apperrors.KindExportFailure, "export produced an invalid PDF")
	}

	return pdfBuf, nil
}

func encodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
