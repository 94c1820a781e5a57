// Package browser provides the page-loading engines used to discover links:
// a headless Chromium driven by Playwright, and a static HTML engine for
// sites that do not need JavaScript.
package browser

import "context"

// Session loads pages and reports the resolved targets of their anchors.
// A Session is not safe for concurrent use.
type Session interface {
	// Links navigates to pageURL and returns the absolute href of every
	// anchor that carries one, in document order. Duplicates are allowed.
	Links(ctx context.Context, pageURL string) ([]string, error)
	// Close releases the underlying browser or connections.
	Close() error
}
