package crawler

import "time"

// DefaultProbeTimeout bounds each HEAD probe.
const DefaultProbeTimeout = 10 * time.Second

// DefaultUserAgent identifies statuscat to the sites it visits.
const DefaultUserAgent = "statuscat/1.0 (+https://github.com/lukemcguire/statuscat)"

// Config holds crawler configuration.
type Config struct {
	Seeds         []string      // Pages scanned for links, in order
	ProbeTimeout  time.Duration // Per-probe timeout (default 10s)
	RateLimit     float64       // Probes per second, 0 for no limit
	UserAgent     string        // Sent with probes and robots.txt requests
	RespectRobots bool          // Skip seed pages disallowed by robots.txt
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(seeds ...string) Config {
	return Config{
		Seeds:        seeds,
		ProbeTimeout: DefaultProbeTimeout,
		UserAgent:    DefaultUserAgent,
	}
}
