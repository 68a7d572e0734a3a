package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"suba-radar/config"
	"suba-radar/utils"
)

// PDFExporter prints the HTML dashboard to PDF with headless Chrome.
type PDFExporter struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
	retry     *utils.RetryConfig
}

// NewPDFExporter creates an exporter from the render settings in cfg.
func NewPDFExporter(cfg *config.Config, logger *utils.Logger) *PDFExporter {
	bin := cfg.ChromeBin
	if bin == "" {
		bin = findChromeBinary()
	}
	timeout := time.Duration(cfg.RenderTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PDFExporter{
		chromeBin: bin,
		timeout:   timeout,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Export writes data as a self-contained page and prints it to outPath.
// Chart sources in data should be data URIs since Chrome opens the page
// from disk.
func (e *PDFExporter) Export(ctx context.Context, data *PageData, outPath string) error {
	var html bytes.Buffer
	if err := WritePage(&html, data); err != nil {
		return fmt.Errorf("render: pdf: build page: %w", err)
	}

	tmp, err := os.CreateTemp("", "radar-*.html")
	if err != nil {
		return fmt.Errorf("render: pdf: temp page: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(html.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("render: pdf: temp page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("render: pdf: temp page: %w", err)
	}

	e.logger.Info("[pdf] Using browser binary: %s", e.chromeBin)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var pdf []byte
	err = e.retry.Do(ctx, "print-pdf", func() error {
		tabCtx, cancelTab := chromedp.NewContext(browserCtx)
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, e.timeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.Navigate("file://"+tmp.Name()),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.ActionFunc(func(ctx context.Context) error {
				buf, _, err := page.PrintToPDF().
					WithPrintBackground(true).
					WithLandscape(true).
					Do(ctx)
				if err != nil {
					return err
				}
				pdf = buf
				return nil
			}),
		)
	})
	if err != nil {
		return fmt.Errorf("render: pdf: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("render: pdf: create dir: %w", err)
	}
	if err := os.WriteFile(outPath, pdf, 0644); err != nil {
		return fmt.Errorf("render: pdf: write: %w", err)
	}
	e.logger.Info("[pdf] Wrote %s (%d bytes)", outPath, len(pdf))
	return nil
}

func (e *PDFExporter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("allow-file-access-from-files", true),
	)
	if e.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(e.chromeBin))
	}
	return opts
}

// findChromeBinary searches PATH and the usual install locations. An
// explicit CHROME_BIN reaches the exporter through config instead.
func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
