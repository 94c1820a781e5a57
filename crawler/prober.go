package crawler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/lukemcguire/statuscat/result"
)

// Prober checks links with a single HEAD request each.
type Prober struct {
	client  *http.Client
	cfg     Config
	limiter *rate.Limiter
}

// NewProber creates a Prober. A nil client gets a fresh http.Client, which
// follows up to 10 redirects.
func NewProber(cfg Config, client *http.Client) *Prober {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	if client == nil {
		client = &http.Client{}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Prober{
		client:  client,
		cfg:     cfg,
		limiter: limiter,
	}
}

// Probe issues one HEAD request for link, following redirects, and returns
// the final status code. Transport failures of any kind are logged and
// reported as an unreachable Status rather than returned.
func (p *Prober) Probe(ctx context.Context, link string) result.Status {
	status, err := p.head(ctx, link)
	if err != nil {
		log.Warn().Err(err).Str("link", link).Msg("Failed to check link")
		return result.Unreachable(err)
	}
	return status
}

func (p *Prober) head(ctx context.Context, link string) (status result.Status, err error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return status, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, link, nil)
	if err != nil {
		return status, err
	}
	if p.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", p.cfg.UserAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return status, err
	}
	if closeErr := resp.Body.Close(); closeErr != nil {
		log.Debug().Err(closeErr).Str("link", link).Msg("Failed to close response body")
	}
	return result.Success(resp.StatusCode), nil
}

// ProbeAll probes links one at a time in the given order and returns exactly
// one StatusResult per link. onResult, when non-nil, is called after each
// probe with the number of links done so far.
func (p *Prober) ProbeAll(ctx context.Context, links []string, onResult func(done int, res result.StatusResult)) []result.StatusResult {
	results := make([]result.StatusResult, 0, len(links))
	for i, link := range links {
		res := result.StatusResult{Link: link, Status: p.Probe(ctx, link)}
		results = append(results, res)
		if onResult != nil {
			onResult(i+1, res)
		}
	}
	return results
}
