package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Static is a Session that downloads pages over plain HTTP and extracts
// anchors from the served HTML without running scripts.
type Static struct {
	client    *http.Client
	userAgent string
}

// NewStatic creates a Static session. A nil client uses http.DefaultClient.
func NewStatic(client *http.Client, userAgent string) *Static {
	if client == nil {
		client = http.DefaultClient
	}
	return &Static{client: client, userAgent: userAgent}
}

// Links fetches pageURL and extracts its anchors, resolving them against the
// final URL after redirects.
func (s *Static) Links(ctx context.Context, pageURL string) (links []string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", pageURL, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	links, err = ExtractLinks(resp.Body, resp.Request.URL)
	var hrefErr *HrefError
	if errors.As(err, &hrefErr) {
		// A browser would simply leave such anchors unresolved.
		log.Debug().Err(err).Str("url", pageURL).Msg("Skipped unresolvable anchors")
		return links, nil
	}
	if err != nil {
		return nil, fmt.Errorf("extract links from %s: %w", pageURL, err)
	}
	return links, nil
}

// Close releases idle connections held by the client.
func (s *Static) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
