package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukemcguire/statuscat/result"
)

func TestProbe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.ProbeTimeout = 100 * time.Millisecond
	p := NewProber(cfg, nil)

	tests := []struct {
		name string
		link string
		want result.Status
	}{
		{"success", srv.URL + "/ok", result.Success(200)},
		{"not found", srv.URL + "/missing", result.Success(404)},
		{"redirect followed", srv.URL + "/moved", result.Success(200)},
		{"teapot", srv.URL + "/teapot", result.Success(418)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Probe(context.Background(), tt.link)
			if got != tt.want {
				t.Errorf("Probe(%q) = %v, want %v", tt.link, got, tt.want)
			}
		})
	}

	t.Run("timeout", func(t *testing.T) {
		got := p.Probe(context.Background(), srv.URL+"/slow")
		require.True(t, got.IsUnreachable())
		assert.Equal(t, result.CategoryTimeout, got.Reason)
		assert.Equal(t, result.ErrorMarker, got.String())
	})
}

func TestProbe_Unreachable(t *testing.T) {
	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	p := NewProber(DefaultConfig(), nil)

	tests := []struct {
		name string
		link string
		want result.ErrorCategory
	}{
		{"connection refused", closedURL + "/", result.CategoryConnectionRefused},
		{"malformed url", "http://[::1", result.CategoryInvalidURL},
		{"mailto scheme", "mailto:someone@example.test", result.CategoryInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Probe(context.Background(), tt.link)
			require.True(t, got.IsUnreachable(), "Probe(%q) = %v", tt.link, got)
			assert.Equal(t, tt.want, got.Reason)
			assert.NotEmpty(t, got.Err)
		})
	}
}

func TestProbe_SendsHeadWithUserAgent(t *testing.T) {
	seen := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(context.Background())
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.UserAgent = "statuscat-test"
	p := NewProber(cfg, srv.Client())

	got := p.Probe(context.Background(), srv.URL)
	assert.Equal(t, result.Success(200), got)
	req := <-seen
	assert.Equal(t, http.MethodHead, req.Method)
	assert.Equal(t, "statuscat-test", req.UserAgent())
}

func TestProbe_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := NewProber(DefaultConfig(), nil).Probe(ctx, srv.URL)
	require.True(t, got.IsUnreachable())
	assert.Equal(t, result.CategoryCanceled, got.Reason)
}

func TestProbe_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.RateLimit = 10
	p := NewProber(cfg, nil)

	start := time.Now()
	p.ProbeAll(context.Background(), []string{srv.URL + "/1", srv.URL + "/2", srv.URL + "/3"}, nil)
	// burst of one, then 100ms between probes
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestProbeAll_OneResultPerLinkInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
		}
	}))
	defer srv.Close()

	links := []string{srv.URL + "/a", srv.URL + "/gone", "not a url"}
	var dones []int
	results := NewProber(DefaultConfig(), nil).ProbeAll(context.Background(), links, func(done int, res result.StatusResult) {
		dones = append(dones, done)
	})

	require.Len(t, results, len(links))
	for i, res := range results {
		assert.Equal(t, links[i], res.Link)
	}
	assert.Equal(t, result.Success(200), results[0].Status)
	assert.Equal(t, result.Success(410), results[1].Status)
	assert.True(t, results[2].Status.IsUnreachable())
	assert.Equal(t, []int{1, 2, 3}, dones)
}

func TestProbeAll_Empty(t *testing.T) {
	results := NewProber(DefaultConfig(), nil).ProbeAll(context.Background(), nil, nil)
	assert.Empty(t, results)
}
