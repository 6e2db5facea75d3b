package snapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"airbnb-dashboard/utils"
)

// chartsSelector is the element that holds every rendered chart.
const chartsSelector = "#charts"

// Capturer renders the dashboard page in headless Chrome and saves a
// full-page screenshot.
type Capturer struct {
	chromeBin string
	timeout   time.Duration
	settle    time.Duration
	logger    *utils.Logger
	retry     *utils.RetryConfig
}

// New creates a Capturer. chromeBin may be empty to auto-detect a browser.
func New(chromeBin string, maxRetries int, logger *utils.Logger) *Capturer {
	return &Capturer{
		chromeBin: chromeBin,
		timeout:   60 * time.Second,
		settle:    3 * time.Second,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Capture navigates to pageURL, waits for the charts to render and writes a
// PNG to outPath. Intermediate directories are created automatically.
func (c *Capturer) Capture(ctx context.Context, pageURL, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}

	chromeBin := findChromeBinary(c.chromeBin)
	c.logger.Info("[snapshot] Using browser binary: %s", orDefault(chromeBin, "(chromedp default)"))

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1600, 1200),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var png []byte
	err := c.retry.DoContext(ctx, "snapshot", func() error {
		// Suppress chromedp log noise
		tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.Navigate(pageURL),
			chromedp.WaitVisible(chartsSelector, chromedp.ByQuery),
			chromedp.Sleep(c.settle),
			chromedp.FullScreenshot(&png, 90),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot: capture %s: %w", pageURL, err)
	}

	if err := os.WriteFile(outPath, png, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", outPath, err)
	}
	c.logger.Info("[snapshot] Saved %d KB screenshot to %s", len(png)/1024, outPath)
	return nil
}

func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

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

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
