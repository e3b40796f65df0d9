package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/config"
	"github.com/jonathan/job-extractor/internal/dom/browser"
	"github.com/jonathan/job-extractor/internal/extraction"
	"github.com/jonathan/job-extractor/internal/fetch"
	"github.com/jonathan/job-extractor/internal/jobsapi"
	"github.com/jonathan/job-extractor/internal/logging"
	"github.com/jonathan/job-extractor/internal/pipeline"
)

// app carries the flags and the resolved settings shared by every command.
type app struct {
	configPath string
	logLevel   string
	logJSON    bool

	// page loading
	useBrowser    bool
	headless      bool
	chromePath    string
	userAgent     string
	pageTimeout   time.Duration
	settleDelay   time.Duration
	ratePerSecond float64

	// extraction actions
	expand      bool
	openInsight bool

	// crawl
	workers int
	maxJobs int

	// jobs API
	apiURL   string
	apiToken string

	cfg    config.Config
	logger *zap.Logger
	getenv func(string) string
}

func newRootCmd() *cobra.Command {
	a := &app{getenv: os.Getenv}

	rootCmd := &cobra.Command{
		Use:   "job_extractor",
		Short: "Job posting extraction engine",
		Long: `Extracts structured job postings (title, company, location, description, apply URL,
posted date, work type and skills) from job pages, harvests job links from search result
pages and upserts the postings into a jobs API.

Configuration can be loaded from a JSON file using --config. Environment variables
override the file and command-line flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(
		newExtractCmd(a),
		newHarvestCmd(a),
		newCrawlCmd(a),
		newValidateCmd(a),
		newValidateConfigCmd(a),
	)
	return rootCmd
}

func (a *app) addLoadFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&a.useBrowser, "browser", false, "Load pages in headless Chrome instead of plain HTTP")
	f.BoolVar(&a.headless, "headless", true, "Run Chrome headless")
	f.StringVar(&a.chromePath, "chrome-path", "", "Chrome/Chromium executable (defaults to CHROME_PATH or auto-detect)")
	f.StringVar(&a.userAgent, "user-agent", "", "User-Agent header for HTTP fetches and the browser")
	f.DurationVar(&a.pageTimeout, "page-timeout", 0, "Timeout for loading one page")
	f.DurationVar(&a.settleDelay, "settle-delay", 0, "Wait after navigation and clicks for the page to settle")
	f.Float64Var(&a.ratePerSecond, "rate", 0, "Maximum HTTP requests per second per host")
}

func (a *app) addActionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&a.expand, "expand", false, "Click the description's show-more control before extracting")
	f.BoolVar(&a.openInsight, "open-insight", false, "Open the skills insight modal before extracting")
}

func (a *app) addAPIFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&a.apiURL, "api-url", "", "Jobs API base URL (defaults to JOBS_API_URL)")
	f.StringVar(&a.apiToken, "api-token", "", "Jobs API bearer token (defaults to JOBS_API_TOKEN)")
}

// prepare resolves settings from file, environment and flags, then sets up logging.
func (a *app) prepare(cmd *cobra.Command) error {
	var cfg config.Config
	if a.configPath != "" {
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())
	cfg.ApplyEnv(a.getenv)

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = a.logJSON
	}
	if flags.Changed("browser") {
		cfg.UseBrowser = a.useBrowser
	}
	if flags.Changed("headless") {
		cfg.Headless = a.headless
	}
	if flags.Changed("chrome-path") {
		cfg.ChromePath = a.chromePath
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = a.userAgent
	}
	if flags.Changed("page-timeout") {
		cfg.PageTimeout = config.Duration(a.pageTimeout)
	}
	if flags.Changed("settle-delay") {
		cfg.SettleDelay = config.Duration(a.settleDelay)
	}
	if flags.Changed("rate") {
		cfg.RatePerSecond = a.ratePerSecond
	}
	if flags.Changed("expand") {
		cfg.ExpandDescription = a.expand
	}
	if flags.Changed("open-insight") {
		cfg.OpenInsight = a.openInsight
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if flags.Changed("max-jobs") {
		cfg.MaxJobs = a.maxJobs
	}
	if flags.Changed("api-url") {
		cfg.APIBaseURL = a.apiURL
	}
	if flags.Changed("api-token") {
		cfg.APIToken = a.apiToken
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) extractor() *extraction.Extractor {
	return extraction.New(
		extraction.WithExpandDescription(a.cfg.ExpandDescription),
		extraction.WithOpenInsight(a.cfg.OpenInsight),
		extraction.WithLogger(a.logger),
	)
}

// loader returns the page loader for the configured mode and a function releasing it.
func (a *app) loader(ctx context.Context) (pipeline.Loader, func(), error) {
	if a.cfg.UseBrowser {
		opts := browser.DefaultOptions()
		opts.Headless = a.cfg.Headless
		opts.ExecPath = a.cfg.ChromePath
		opts.UserAgent = a.cfg.UserAgent
		opts.NavigateTimeout = a.cfg.PageTimeout.Std()
		opts.SettleDelay = a.cfg.SettleDelay.Std()
		opts.Logger = a.logger
		l, err := pipeline.NewBrowserLoader(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		return l, l.Close, nil
	}

	fopts := fetch.DefaultOptions()
	fopts.Timeout = a.cfg.PageTimeout.Std()
	if a.cfg.UserAgent != "" {
		fopts.UserAgent = a.cfg.UserAgent
	}
	fetcher := fetch.NewFetcher(fopts, a.cfg.RatePerSecond, a.logger)
	return pipeline.NewStaticLoader(fetcher, a.logger), func() {}, nil
}

// apiClient returns a jobs API client, or an error when no base URL is configured.
func (a *app) apiClient() (*jobsapi.Client, error) {
	if a.cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("jobs API URL is required: set --api-url, %s or api_base_url", config.EnvAPIURL)
	}
	return jobsapi.NewClient(a.cfg.APIBaseURL, a.cfg.APIToken, jobsapi.WithLogger(a.logger))
}

func (a *app) runnerOptions() pipeline.Options {
	return pipeline.Options{
		Workers:     a.cfg.Workers,
		PageTimeout: a.cfg.PageTimeout.Std(),
		MaxJobs:     a.cfg.MaxJobs,
	}
}
