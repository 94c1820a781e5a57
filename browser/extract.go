package browser

import (
	"fmt"
	"io"
	"net/url"

	"github.com/lukemcguire/statuscat/urlutil"
	"golang.org/x/net/html"
)

// ExtractLinks parses HTML from body and returns the resolved href of every
// anchor tag that has one, in document order. A <base href> element, when
// present before the anchors, replaces documentURL as the resolution base.
// Hrefs that cannot be parsed are skipped and reported as a *HrefError
// alongside the links that were extracted.
func ExtractLinks(body io.Reader, documentURL *url.URL) ([]string, error) {
	tokenizer := html.NewTokenizer(body)
	base := documentURL
	var links []string
	var errs []error

	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != nil && err != io.EOF {
				return links, fmt.Errorf("tokenize html: %w", err)
			}
			if len(errs) > 0 {
				return links, &HrefError{Count: len(errs), First: errs[0]}
			}
			return links, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "base":
				if href, ok := attr(token, "href"); ok {
					if resolved, err := documentURL.Parse(href); err == nil {
						base = resolved
					}
				}
			case "a":
				href, ok := attr(token, "href")
				if !ok {
					continue
				}
				resolved, err := urlutil.ResolveHref(base, href)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				links = append(links, resolved)
			}
		}
	}
}

// HrefError reports anchors whose href could not be resolved.
type HrefError struct {
	Count int
	First error
}

func (e *HrefError) Error() string {
	return fmt.Sprintf("encountered %d bad hrefs (first: %v)", e.Count, e.First)
}

func (e *HrefError) Unwrap() error {
	return e.First
}

func attr(token html.Token, key string) (string, bool) {
	for _, a := range token.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
