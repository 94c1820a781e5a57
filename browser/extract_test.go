package browser

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestExtractLinks(t *testing.T) {
	baseURL, _ := url.Parse("https://example.com/docs/")

	tests := []struct {
		name     string
		html     string
		expected []string
	}{
		{
			name:     "extracts absolute link",
			html:     `<a href="https://example.com/page">Link</a>`,
			expected: []string{"https://example.com/page"},
		},
		{
			name:     "resolves root-relative link",
			html:     `<a href="/about">About</a>`,
			expected: []string{"https://example.com/about"},
		},
		{
			name:     "resolves document-relative link",
			html:     `<a href="intro">Intro</a>`,
			expected: []string{"https://example.com/docs/intro"},
		},
		{
			name:     "skips anchors without href",
			html:     `<a name="top">Top</a><a>Nothing</a>`,
			expected: nil,
		},
		{
			name:     "empty href points at the document",
			html:     `<a href="">Self</a>`,
			expected: []string{"https://example.com/docs/"},
		},
		{
			name:     "keeps non-http schemes",
			html:     `<a href="mailto:user@example.com">Email</a>`,
			expected: []string{"mailto:user@example.com"},
		},
		{
			name: "keeps duplicates in document order",
			html: `<a href="/b">B</a>
			       <a href="/a">A</a>
			       <a href="/b">B again</a>`,
			expected: []string{"https://example.com/b", "https://example.com/a", "https://example.com/b"},
		},
		{
			name:     "honours base element",
			html:     `<head><base href="https://cdn.example.com/assets/"></head><a href="logo.png">Logo</a>`,
			expected: []string{"https://cdn.example.com/assets/logo.png"},
		},
		{
			name:     "handles malformed HTML gracefully",
			html:     `<a href="/unclosed">Unclosed`,
			expected: []string{"https://example.com/unclosed"},
		},
		{
			name:     "ignores other tags",
			html:     `<link href="/style.css"><img src="/x.png"><area href="/map">`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links, err := ExtractLinks(strings.NewReader(tt.html), baseURL)
			if err != nil {
				t.Fatalf("ExtractLinks returned error: %v", err)
			}

			if len(links) != len(tt.expected) {
				t.Fatalf("expected %d links, got %d: %v", len(tt.expected), len(links), links)
			}
			for i := range tt.expected {
				if links[i] != tt.expected[i] {
					t.Errorf("link %d = %q, want %q", i, links[i], tt.expected[i])
				}
			}
		})
	}
}

func TestExtractLinksEmptyInput(t *testing.T) {
	baseURL, _ := url.Parse("https://example.com")

	links, err := ExtractLinks(strings.NewReader(""), baseURL)
	if err != nil {
		t.Fatalf("ExtractLinks returned error for empty input: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("expected 0 links for empty input, got %d", len(links))
	}
}

func TestExtractLinksBadHref(t *testing.T) {
	baseURL, _ := url.Parse("https://example.com")

	links, err := ExtractLinks(strings.NewReader(`<a href="http://[::1">bad</a><a href="/ok">ok</a>`), baseURL)

	var hrefErr *HrefError
	if !errors.As(err, &hrefErr) {
		t.Fatalf("expected *HrefError, got %v", err)
	}
	if hrefErr.Count != 1 {
		t.Errorf("Count = %d, want 1", hrefErr.Count)
	}
	if len(links) != 1 || links[0] != "https://example.com/ok" {
		t.Errorf("expected the good link to survive, got %v", links)
	}
}
