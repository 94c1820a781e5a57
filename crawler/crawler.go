// Package crawler runs the statuscat pipeline: it collects links from seed
// pages through a single browser session, then checks every unique link's
// HTTP status in sorted order.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lukemcguire/statuscat/browser"
	"github.com/lukemcguire/statuscat/result"
)

// Opener acquires the browser session used for all seed pages.
type Opener func(ctx context.Context) (browser.Session, error)

// PageStats summarises the collection stage.
type PageStats struct {
	Pages  int // Seed pages processed
	Failed int // Seed pages that failed to load or were disallowed
}

// Crawler coordinates link collection and probing.
type Crawler struct {
	cfg    Config
	open   Opener
	prober *Prober
	robots *RobotsChecker
	events chan<- Event
}

// New creates a Crawler with the given configuration.
// The events parameter is optional; pass nil to disable progress events.
// When set, Run closes it on return.
func New(cfg Config, open Opener, events chan<- Event) *Crawler {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	client := &http.Client{}
	c := &Crawler{
		cfg:    cfg,
		open:   open,
		prober: NewProber(cfg, client),
		events: events,
	}
	if cfg.RespectRobots {
		c.robots = NewRobotsChecker(&http.Client{Timeout: 5 * time.Second}, cfg.UserAgent)
	}
	return c
}

// CollectLinks opens one session, fetches every seed page through it in
// order and returns the union of their links. The session is closed exactly
// once before returning, whether the loop completes, fails or panics.
func (c *Crawler) CollectLinks(ctx context.Context) (links result.LinkSet, stats PageStats, err error) {
	if c.open == nil {
		return nil, stats, errors.New("no session opener configured")
	}

	session, err := c.open(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("open browser session: %w", err)
	}
	if session == nil {
		return nil, stats, errors.New("open browser session: opener returned no session")
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close browser session")
		}
	}()

	links = result.NewLinkSet()
	total := len(c.cfg.Seeds)
	for i, seed := range c.cfg.Seeds {
		stats.Pages++

		if !c.allowed(ctx, seed) {
			stats.Failed++
			c.emit(ctx, Event{Kind: EventPage, URL: seed, Done: i + 1, Total: total, Failed: true})
			continue
		}

		pageLinks, ok := FetchPage(ctx, session, seed)
		if !ok {
			stats.Failed++
		}
		links.Union(pageLinks)
		c.emit(ctx, Event{
			Kind:   EventPage,
			URL:    seed,
			Done:   i + 1,
			Total:  total,
			Links:  pageLinks.Len(),
			Failed: !ok,
		})
	}

	return links, stats, nil
}

// allowed consults robots.txt when enabled.
func (c *Crawler) allowed(ctx context.Context, seed string) bool {
	if c.robots == nil {
		return true
	}
	allowed, err := c.robots.Allowed(ctx, seed)
	if err != nil {
		log.Debug().Err(err).Str("url", seed).Msg("robots.txt unavailable, allowing page")
	}
	if !allowed {
		log.Warn().Str("url", seed).Msg("Page disallowed by robots.txt, skipping")
	}
	return allowed
}

// Run collects links from the seed pages, probes each unique link in sorted
// order and returns one result per link.
func (c *Crawler) Run(ctx context.Context) (*result.Result, error) {
	if c.events != nil {
		defer close(c.events)
	}
	start := time.Now()

	links, pages, err := c.CollectLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect links: %w", err)
	}

	sorted := links.Sorted()
	log.Info().Int("links", len(sorted)).Int("pages", pages.Pages).Msg("Checking link status")

	unreachable := 0
	results := c.prober.ProbeAll(ctx, sorted, func(done int, res result.StatusResult) {
		if res.Status.IsUnreachable() {
			unreachable++
		}
		c.emit(ctx, Event{
			Kind:   EventProbe,
			URL:    res.Link,
			Done:   done,
			Total:  len(sorted),
			Status: res.Status,
		})
	})

	return &result.Result{
		Links: results,
		Stats: result.Stats{
			Pages:       pages.Pages,
			PagesFailed: pages.Failed,
			Links:       len(results),
			Unreachable: unreachable,
			Duration:    time.Since(start),
		},
	}, nil
}

// emit sends evt unless events are disabled or ctx is done.
func (c *Crawler) emit(ctx context.Context, evt Event) {
	if c.events == nil {
		return
	}
	select {
	case c.events <- evt:
	case <-ctx.Done():
	}
}
