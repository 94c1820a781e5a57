package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// anchorsScript reads the browser-resolved href property of every anchor.
const anchorsScript = `els => els.map(e => e.href)`

// chromiumArgs keep Chromium usable in containers and CI runners.
var chromiumArgs = []string{"--disable-gpu", "--no-sandbox"}

// DefaultNavigationTimeout bounds each page navigation.
const DefaultNavigationTimeout = 30 * time.Second

// LaunchOptions configures the headless Chromium session.
type LaunchOptions struct {
	NavigationTimeout time.Duration // Per-navigation timeout (Playwright default when zero)
	UserAgent         string        // Overrides the browser user agent when set
	InstallBrowsers   bool          // Download the Playwright driver and Chromium if missing
}

// Chromium is a Session backed by a single headless Chromium page.
type Chromium struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

// Launch starts the Playwright driver and a headless Chromium instance with
// GPU acceleration and the OS sandbox disabled.
func Launch(opts LaunchOptions) (*Chromium, error) {
	if opts.InstallBrowsers {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(&playwright.RunOptions{SkipInstallBrowsers: true})
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(launchOptions())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("launch chromium: %w", err), pw.Stop())
	}

	contextOpts := playwright.BrowserNewContextOptions{}
	if opts.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(opts.UserAgent)
	}
	browserCtx, err := browser.NewContext(contextOpts)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create browser context: %w", err), browser.Close(), pw.Stop())
	}
	if opts.NavigationTimeout > 0 {
		browserCtx.SetDefaultNavigationTimeout(float64(opts.NavigationTimeout.Milliseconds()))
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open page: %w", err), browser.Close(), pw.Stop())
	}

	return &Chromium{pw: pw, browser: browser, page: page}, nil
}

// launchOptions runs Chromium headless with GPU acceleration and the OS
// sandbox disabled.
func launchOptions() playwright.BrowserTypeLaunchOptions {
	return playwright.BrowserTypeLaunchOptions{
		Headless:        playwright.Bool(true),
		ChromiumSandbox: playwright.Bool(false),
		Args:            chromiumArgs,
	}
}

// Links navigates the shared page to pageURL and collects anchor targets.
// Playwright calls are not context aware, so ctx is only checked up front.
func (c *Chromium) Links(ctx context.Context, pageURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := c.page.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", pageURL, err)
	}

	raw, err := c.page.Locator("a[href]").EvaluateAll(anchorsScript)
	if err != nil {
		return nil, fmt.Errorf("extract anchors from %s: %w", pageURL, err)
	}
	return hrefStrings(raw), nil
}

// Close shuts down the browser and stops the Playwright driver.
func (c *Chromium) Close() error {
	var errs []error
	if c.browser != nil {
		if err := c.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
		c.browser = nil
	}
	if c.pw != nil {
		if err := c.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
		c.pw = nil
	}
	return errors.Join(errs...)
}

// hrefStrings keeps the non-empty string values of an EvaluateAll result.
// SVG anchors expose href as an object and are dropped.
func hrefStrings(raw any) []string {
	values, ok := raw.([]any)
	if !ok {
		return nil
	}
	links := make([]string, 0, len(values))
	for _, v := range values {
		if href, ok := v.(string); ok && href != "" {
			links = append(links, href)
		}
	}
	return links
}
