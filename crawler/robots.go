package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"

	"github.com/lukemcguire/statuscat/urlutil"
)

// maxRobotsBytes caps how much of a robots.txt body is read.
const maxRobotsBytes = 512 << 10

// RobotsChecker decides whether seed pages may be loaded according to the
// serving host's robots.txt. Rules are fetched once per host for the life of
// the checker. Any failure to obtain rules allows the page.
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	groups    map[string]*robotstxt.Group // keyed by robots.txt URL; nil means allow all
}

// NewRobotsChecker creates a RobotsChecker evaluating rules for userAgent.
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether pageURL may be fetched. The returned error is
// informational: when it is non-nil the page is allowed.
func (r *RobotsChecker) Allowed(ctx context.Context, pageURL string) (bool, error) {
	robotsURL, err := urlutil.RobotsURL(pageURL)
	if err != nil {
		return true, err
	}

	group, cached := r.groups[robotsURL]
	if !cached {
		group, err = r.fetch(ctx, robotsURL)
		r.groups[robotsURL] = group
		if err != nil {
			return true, err
		}
	}
	if group == nil {
		return true, nil
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	path := parsed.EscapedPath()
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return group.Test(path), nil
}

func (r *RobotsChecker) fetch(ctx context.Context, robotsURL string) (*robotstxt.Group, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create robots.txt request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", robotsURL, err)
	}
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	closeErr := resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("read %s: %w", robotsURL, readErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close %s: %w", robotsURL, closeErr)
	}

	// Missing or failing robots.txt means no restrictions.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return nil, nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", robotsURL, err)
	}
	return data.FindGroup(r.userAgent), nil
}
