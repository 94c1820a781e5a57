// Package urlutil provides URL helpers shared by the fetch engines,
// the robots.txt checker and configuration validation.
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}

// ResolveHref resolves an anchor's href attribute against the document URL
// the way a browser fills in HTMLAnchorElement.href: an empty href points
// at the document itself, relative references are made absolute, and any
// other scheme (mailto:, javascript:, ...) passes through untouched.
// Fragments are kept.
func ResolveHref(base *url.URL, href string) (string, error) {
	if base == nil {
		return "", errors.New("resolve href: nil base URL")
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return base.String(), nil
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse href %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// RobotsURL returns the robots.txt location for the host serving pageURL.
func RobotsURL(pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse URL %q: %w", pageURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("URL %q must have both scheme and host", pageURL)
	}
	return (&url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: "/robots.txt"}).String(), nil
}
