package crawler

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lukemcguire/statuscat/browser"
	"github.com/lukemcguire/statuscat/result"
)

// FetchPage loads pageURL in session and returns the set of links found on
// it. Any navigation or extraction failure is logged and yields an empty
// set with ok false; it never aborts the caller.
func FetchPage(ctx context.Context, session browser.Session, pageURL string) (links result.LinkSet, ok bool) {
	log.Info().Str("url", pageURL).Msg("Accessing page")

	hrefs, err := session.Links(ctx, pageURL)
	if err != nil {
		log.Error().Err(err).Str("url", pageURL).Msg("Failed to access page")
		return result.NewLinkSet(), false
	}

	links = result.NewLinkSet()
	for _, href := range hrefs {
		if href != "" {
			links.Add(href)
		}
	}
	log.Debug().Str("url", pageURL).Int("links", links.Len()).Msg("Collected links")
	return links, true
}
