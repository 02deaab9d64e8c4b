package assets

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeRenderer rasterizes SVG documents to PDF through a headless
// Chrome instance. The browser is launched once and reused for every
// render; Close must be called at the end of the run.
type ChromeRenderer struct {
	browserCtx  context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewChromeRenderer launches the headless browser. Construction fails
// fast when no Chrome binary is available, letting the caller decide
// whether to continue without PDF rendering.
func NewChromeRenderer(ctx context.Context) (*ChromeRenderer, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so a missing binary surfaces here, not
	// in the middle of the asset loop.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("starting headless browser: %w", err)
	}

	return &ChromeRenderer{
		browserCtx:  browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Render loads the SVG into a minimal HTML page in a fresh tab and
// prints it to PDF.
func (r *ChromeRenderer) Render(ctx context.Context, svg []byte, title string) ([]byte, error) {
	doc := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title>
<style>body{margin:0}svg{max-width:100%%;height:auto}</style>
</head>
<body>%s</body>
</html>`, html.EscapeString(title), svg)

	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(doc))

	tabCtx, cancel := chromedp.NewContext(r.browserCtx)
	defer cancel()

	// Honor the caller's deadline/cancellation on top of the tab context.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("printing %q to PDF: %w", title, err)
	}
	return pdf, nil
}

// Close shuts the browser down.
func (r *ChromeRenderer) Close() {
	r.cancelCtx()
	r.cancelAlloc()
}
