// Package config loads statuscat settings. Values are layered: built-in
// defaults, then an optional YAML file, then .env files and the process
// environment. Command-line flags are applied last by main.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/lukemcguire/statuscat/browser"
	"github.com/lukemcguire/statuscat/crawler"
	"github.com/lukemcguire/statuscat/urlutil"
)

// Page loading engines.
const (
	EngineBrowser = "browser"
	EngineStatic  = "static"
)

// DefaultOutput is where the HTML report is written.
const DefaultOutput = "links_status.html"

// minTimeout is the shortest probe or navigation timeout accepted.
const minTimeout = time.Millisecond

// DefaultSeeds are the pages scanned when none are configured.
var DefaultSeeds = []string{"https://www.meusite.com.br"}

// Environment variables read by ApplyEnv.
const (
	EnvSeeds    = "STATUSCAT_SEEDS"
	EnvOutput   = "STATUSCAT_OUTPUT"
	EnvLogLevel = "STATUSCAT_LOG_LEVEL"
	EnvEngine   = "STATUSCAT_ENGINE"
)

// Config holds every setting of a statuscat run.
type Config struct {
	Seeds             []string      `yaml:"seeds"`
	Output            string        `yaml:"output"`
	JSONOutput        string        `yaml:"json"`
	CSVOutput         string        `yaml:"csv"`
	Engine            string        `yaml:"engine"`
	ProbeTimeout      time.Duration `yaml:"probe_timeout"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	RateLimit         float64       `yaml:"rate_limit"`
	RespectRobots     bool          `yaml:"respect_robots"`
	UserAgent         string        `yaml:"user_agent"`
	InstallBrowsers   bool          `yaml:"install_browsers"`
	Title             string        `yaml:"title"`
	ImageBaseURL      string        `yaml:"image_base_url"`
	LogLevel          string        `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Seeds:             append([]string(nil), DefaultSeeds...),
		Output:            DefaultOutput,
		Engine:            EngineBrowser,
		ProbeTimeout:      crawler.DefaultProbeTimeout,
		NavigationTimeout: browser.DefaultNavigationTimeout,
		UserAgent:         crawler.DefaultUserAgent,
		LogLevel:          "info",
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays STATUSCAT_* variables. Values come from the given .env
// files (".env" when none are named; missing files are skipped), and the
// process environment takes precedence over them.
func (c *Config) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	vars := make(map[string]string)
	for _, file := range files {
		values, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read env file %s: %w", file, err)
		}
		for k, v := range values {
			vars[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}

	if v, ok := lookup(EnvSeeds); ok && strings.TrimSpace(v) != "" {
		c.Seeds = splitList(v)
	}
	if v, ok := lookup(EnvOutput); ok && v != "" {
		c.Output = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvEngine); ok && v != "" {
		c.Engine = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	for _, seed := range c.Seeds {
		if !urlutil.IsHTTPScheme(seed) {
			errs = append(errs, fmt.Errorf("invalid seed %q: must start with http:// or https://", seed))
		}
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output path must not be empty"))
	}
	switch c.Engine {
	case EngineBrowser, EngineStatic:
	default:
		errs = append(errs, fmt.Errorf("unknown engine %q: want %s or %s", c.Engine, EngineBrowser, EngineStatic))
	}
	if c.ProbeTimeout < minTimeout {
		errs = append(errs, fmt.Errorf("probe timeout must be at least %s, got %s", minTimeout, c.ProbeTimeout))
	}
	if c.NavigationTimeout < minTimeout {
		errs = append(errs, fmt.Errorf("navigation timeout must be at least %s, got %s", minTimeout, c.NavigationTimeout))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit must not be negative, got %s", strconv.FormatFloat(c.RateLimit, 'g', -1, 64)))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// CrawlerConfig converts the settings used by the crawler package.
func (c *Config) CrawlerConfig() crawler.Config {
	return crawler.Config{
		Seeds:         append([]string(nil), c.Seeds...),
		ProbeTimeout:  c.ProbeTimeout,
		RateLimit:     c.RateLimit,
		UserAgent:     c.UserAgent,
		RespectRobots: c.RespectRobots,
	}
}
