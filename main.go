// Package main provides the statuscat CLI entrypoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/statuscat/browser"
	"github.com/lukemcguire/statuscat/config"
	"github.com/lukemcguire/statuscat/crawler"
	"github.com/lukemcguire/statuscat/report"
	"github.com/lukemcguire/statuscat/result"
	"github.com/lukemcguire/statuscat/tui"
)

// exitCanceled is the conventional status for a run interrupted by Ctrl+C.
const exitCanceled = 130

// flags holds the command-line options. Only flags set explicitly override
// the file and environment configuration.
type flags struct {
	configPath    string
	output        string
	jsonOutput    string
	csvOutput     string
	engine        string
	timeout       time.Duration
	navTimeout    time.Duration
	rateLimit     float64
	respectRobots bool
	install       bool
	userAgent     string
	title         string
	imageBase     string
	logLevel      string
	noTUI         bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*flags, error) {
	f := &flags{}
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.output, "o", config.DefaultOutput, "HTML report path")
	fs.StringVar(&f.jsonOutput, "json", "", "also write results as JSON to this path")
	fs.StringVar(&f.csvOutput, "csv", "", "also write results as CSV to this path")
	fs.StringVar(&f.engine, "engine", config.EngineBrowser, "page engine: browser or static")
	fs.DurationVar(&f.timeout, "timeout", crawler.DefaultProbeTimeout, "timeout for each link check")
	fs.DurationVar(&f.navTimeout, "nav-timeout", browser.DefaultNavigationTimeout, "timeout for each page navigation")
	fs.Float64Var(&f.rateLimit, "rate-limit", 0, "link checks per second, 0 for no limit")
	fs.BoolVar(&f.respectRobots, "respect-robots", false, "skip seed pages disallowed by robots.txt")
	fs.BoolVar(&f.install, "install", false, "download Chromium before starting")
	fs.StringVar(&f.userAgent, "user-agent", crawler.DefaultUserAgent, "user agent string")
	fs.StringVar(&f.title, "title", report.DefaultTitle, "report title")
	fs.StringVar(&f.imageBase, "image-base", report.DefaultImageBaseURL, "base URL of the status images")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.BoolVar(&f.noTUI, "no-tui", false, "plain log output even on a terminal")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// loadConfig layers defaults, the config file, the environment, explicitly
// set flags and finally positional seed URLs.
func loadConfig(fs *flag.FlagSet, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			cfg.Output = f.output
		case "json":
			cfg.JSONOutput = f.jsonOutput
		case "csv":
			cfg.CSVOutput = f.csvOutput
		case "engine":
			cfg.Engine = f.engine
		case "timeout":
			cfg.ProbeTimeout = f.timeout
		case "nav-timeout":
			cfg.NavigationTimeout = f.navTimeout
		case "rate-limit":
			cfg.RateLimit = f.rateLimit
		case "respect-robots":
			cfg.RespectRobots = f.respectRobots
		case "install":
			cfg.InstallBrowsers = f.install
		case "user-agent":
			cfg.UserAgent = f.userAgent
		case "title":
			cfg.Title = f.title
		case "image-base":
			cfg.ImageBaseURL = f.imageBase
		case "log-level":
			cfg.LogLevel = f.logLevel
		}
	})
	if fs.NArg() > 0 {
		cfg.Seeds = fs.Args()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupLogging(out io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
}

// opener picks the page engine. The browser is launched lazily so a launch
// failure surfaces from the run as a collection error.
func opener(cfg *config.Config) crawler.Opener {
	if cfg.Engine == config.EngineStatic {
		return func(context.Context) (browser.Session, error) {
			client := &http.Client{Timeout: cfg.NavigationTimeout}
			return browser.NewStatic(client, cfg.UserAgent), nil
		}
	}
	return func(context.Context) (browser.Session, error) {
		return browser.Launch(browser.LaunchOptions{
			NavigationTimeout: cfg.NavigationTimeout,
			UserAgent:         cfg.UserAgent,
			InstallBrowsers:   cfg.InstallBrowsers,
		})
	}
}

func main() {
	fs := flag.NewFlagSet("statuscat", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: statuscat [flags] [seed-url ...]")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	f, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	setupLogging(os.Stderr, f.logLevel)

	cfg, err := loadConfig(fs, f)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(os.Stderr, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	useTUI := !f.noTUI && isatty.IsTerminal(os.Stdout.Fd())

	var res *result.Result
	if useTUI {
		res = runTUI(ctx, cancel, cfg)
	} else {
		res = runPlain(ctx, cfg)
	}

	opts := report.Options{Title: cfg.Title, ImageBaseURL: cfg.ImageBaseURL}
	if err := report.WriteFile(cfg.Output, res.Links, opts); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Output).Msg("Failed to write report")
	}
	if cfg.JSONOutput != "" {
		if err := writeExport(cfg.JSONOutput, res.Links, result.WriteJSON); err != nil {
			log.Error().Err(err).Str("path", cfg.JSONOutput).Msg("Failed to write JSON export")
		}
	}
	if cfg.CSVOutput != "" {
		if err := writeExport(cfg.CSVOutput, res.Links, result.WriteCSV); err != nil {
			log.Error().Err(err).Str("path", cfg.CSVOutput).Msg("Failed to write CSV export")
		}
	}

	log.Info().Str("path", cfg.Output).Int("links", len(res.Links)).Msg("Report generated")
}

// runTUI drives the pipeline behind the Bubble Tea interface. Logs are
// printed above the interface while it runs.
func runTUI(ctx context.Context, cancel context.CancelFunc, cfg *config.Config) *result.Result {
	events := make(chan crawler.Event, 100)
	c := crawler.New(cfg.CrawlerConfig(), opener(cfg), events)

	program := tea.NewProgram(tui.NewModel(ctx, cancel, c, events))
	logs := tui.NewLogWriter(program, os.Stderr)
	setupLogging(logs, cfg.LogLevel)
	finalModel, err := program.Run()
	logs.Detach()
	if err != nil {
		log.Fatal().Err(err).Msg("Terminal UI failed")
	}

	model := finalModel.(tui.Model)
	if model.Canceled() {
		os.Exit(exitCanceled)
	}
	if model.Err() != nil {
		log.Fatal().Err(model.Err()).Msg("Link check failed")
	}
	return model.GetResult()
}

// runPlain runs the pipeline alongside a logger for its progress events and
// prints a summary table to stdout.
func runPlain(ctx context.Context, cfg *config.Config) *result.Result {
	events := make(chan crawler.Event, 100)
	c := crawler.New(cfg.CrawlerConfig(), opener(cfg), events)

	var res *result.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = c.Run(gctx)
		return err
	})
	g.Go(func() error {
		for evt := range events {
			logEvent(evt)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Link check failed")
	}

	result.PrintSummary(os.Stdout, res)
	return res
}

func logEvent(evt crawler.Event) {
	switch evt.Kind {
	case crawler.EventPage:
		log.Info().Str("url", evt.URL).Int("links", evt.Links).Bool("failed", evt.Failed).
			Msgf("[%d/%d] Page processed", evt.Done, evt.Total)
	case crawler.EventProbe:
		log.Info().Str("link", evt.URL).Str("status", evt.Status.String()).
			Msgf("[%d/%d] Link checked", evt.Done, evt.Total)
	}
}

func writeExport(path string, results []result.StatusResult, write func(io.Writer, []result.StatusResult) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return write(file, results)
}
