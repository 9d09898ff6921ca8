// Package cmd provides the command-line interface: flag parsing,
// configuration loading, and wiring of the scraping run.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/MaudeOps/dredge/internal/archive"
	"github.com/MaudeOps/dredge/internal/archive/postgres"
	"github.com/MaudeOps/dredge/internal/archive/sqlite"
	"github.com/MaudeOps/dredge/internal/block"
	"github.com/MaudeOps/dredge/internal/config"
	"github.com/MaudeOps/dredge/internal/export"
	"github.com/MaudeOps/dredge/internal/fingerprint"
	"github.com/MaudeOps/dredge/internal/metrics"
	"github.com/MaudeOps/dredge/internal/scraper"
	"github.com/MaudeOps/dredge/internal/serp"
	"github.com/MaudeOps/dredge/pkg/proxy"
)

var (
	cfgFile   string
	version   string
	buildTime string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dredge [terms...]",
	Short: "A Bing search-results scraper with soft-block recovery",
	Long: `Dredge fetches Bing result pages for a set of search queries,
extracts the structured records (organic results, ads, people-also-ask,
related queries), and writes them out as JSON, CSV, or XML.

Queries come from positional arguments, a JSON inputs file, or both.`,
	Args: cobra.ArbitraryArgs,
	RunE: runScrape,
}

// ExecuteContext runs the root command under the given context. Interrupts
// cancel the context, which aborts in-flight fetches and sleeps.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets version information for the CLI
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dredge.yml)")

	rootCmd.Flags().Bool("show-config", false, "Display current configuration in YAML format and exit")
	rootCmd.Flags().CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")

	// Query flags
	rootCmd.Flags().StringP("inputs", "i", "", "Path to JSON query-inputs file")
	rootCmd.Flags().IntP("pages", "p", 1, "Pages to fetch per query")
	rootCmd.Flags().IntP("results-per-page", "n", 10, "Results requested per page")
	rootCmd.Flags().StringP("market", "m", "en-US", "Bing market code (mkt parameter)")
	rootCmd.Flags().String("lang", "en", "Bing UI language (setLang parameter)")
	rootCmd.Flags().String("base-url", "https://www.bing.com/search", "Search endpoint")
	rootCmd.Flags().IntP("concurrency", "c", 1, "Number of queries scraped in parallel")

	// Request flags
	rootCmd.Flags().DurationP("timeout", "t", 10*time.Second, "HTTP request timeout")
	rootCmd.Flags().Int("max-retries", 3, "Retry ceiling per page for network errors and soft blocks")
	rootCmd.Flags().Float64("backoff-factor", 1.5, "Exponential backoff base between retries")
	rootCmd.Flags().StringSlice("proxy", []string{}, "Outbound proxy URLs (use multiple times to rotate)")
	rootCmd.Flags().String("fingerprint", "", "TLS ClientHello profile: chrome, firefox, safari")

	// Output flags
	rootCmd.Flags().StringP("output-dir", "o", "./output", "Directory for output files")
	rootCmd.Flags().String("base-name", "bing_results", "Output file name without extension")
	rootCmd.Flags().StringSliceP("formats", "f", []string{"json"}, "Output formats: json, csv, xml")
	rootCmd.Flags().Bool("include-html", false, "Attach raw page markup to the JSON records")

	// Archive and observability flags
	rootCmd.Flags().String("archive-backend", "", "Raw-snapshot store: sqlite or postgres (empty disables)")
	rootCmd.Flags().String("archive-dsn", "", "Connection string for the snapshot store")
	rootCmd.Flags().Int("metrics-port", 0, "Prometheus metrics port (0 disables)")

	bindFlags := []struct {
		viperKey string
		flagName string
	}{
		{"pages", "pages"},
		{"results_per_page", "results-per-page"},
		{"market_code", "market"},
		{"language_code", "lang"},
		{"base_url", "base-url"},
		{"concurrency", "concurrency"},
		{"request.timeout", "timeout"},
		{"request.max_retries", "max-retries"},
		{"request.backoff_factor", "backoff-factor"},
		{"request.proxies", "proxy"},
		{"request.fingerprint", "fingerprint"},
		{"output.dir", "output-dir"},
		{"output.base_name", "base-name"},
		{"output.formats", "formats"},
		{"output.include_html", "include-html"},
		{"archive.backend", "archive-backend"},
		{"archive.dsn", "archive-dsn"},
		{"metrics_port", "metrics-port"},
	}

	for _, bind := range bindFlags {
		if err := viper.BindPFlag(bind.viperKey, rootCmd.Flags().Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("dredge")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("DREDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func newLogger(verbosity int) *slog.Logger {
	var level slog.Level
	switch {
	case verbosity <= 0:
		level = slog.LevelWarn
	case verbosity == 1:
		level = slog.LevelInfo
	default:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func showCurrentConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: configuration validation failed: %v\n\n", err)
	}

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal configuration: %w", err)
	}

	fmt.Printf("# Current dredge configuration\n")
	fmt.Printf("# Generated at: %s\n\n", time.Now().Format(time.RFC3339))
	fmt.Print(string(yamlData))
	return nil
}

// collectQueries merges positional terms and the inputs file, both over the
// configured defaults.
func collectQueries(args []string, inputsPath string, cfg *config.Config, logger *slog.Logger) ([]serp.QuerySpec, error) {
	var specs []serp.QuerySpec

	for _, term := range args {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		specs = append(specs, serp.QuerySpec{
			Term:           term,
			Pages:          cfg.Pages,
			ResultsPerPage: cfg.ResultsPerPage,
			MarketCode:     cfg.MarketCode,
			LanguageCode:   cfg.LanguageCode,
		})
	}

	if inputsPath != "" {
		fromFile, err := config.LoadQueries(inputsPath, cfg, logger)
		if err != nil && (len(specs) == 0 || !errors.Is(err, config.ErrNoQueries)) {
			return nil, err
		}
		specs = append(specs, fromFile...)
	}

	if len(specs) == 0 {
		return nil, config.ErrNoQueries
	}
	return specs, nil
}

// newArchiveBackend opens the configured snapshot store, or returns nil when
// archiving is disabled.
func newArchiveBackend(ctx context.Context, cfg *config.Config) (archive.Backend, error) {
	switch cfg.Archive.Backend {
	case "":
		return nil, nil
	case "sqlite":
		return sqlite.New(cfg.Archive.DSN)
	case "postgres":
		return postgres.New(ctx, cfg.Archive.DSN)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Archive.Backend)
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	showConfig, _ := cmd.Flags().GetBool("show-config")
	verbosity, _ := cmd.Flags().GetCount("verbose")
	inputsPath, _ := cmd.Flags().GetString("inputs")

	cfg := config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if showConfig {
		return showCurrentConfig(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(verbosity)
	slog.SetDefault(logger)

	specs, err := collectQueries(args, inputsPath, cfg, logger)
	if err != nil {
		return err
	}

	store, err := newArchiveBackend(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open archive backend: %w", err)
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	var metricsServer *metrics.Server
	if cfg.MetricsPort > 0 {
		metricsServer = metrics.Start(cfg.MetricsPort)
		logger.Info("metrics server listening", "port", cfg.MetricsPort)
		defer func() { _ = metricsServer.Stop(context.Background()) }()
	}

	var proxies *proxy.Rotation
	if len(cfg.Request.Proxies) > 0 {
		proxies, err = proxy.New(cfg.Request.Proxies...)
		if err != nil {
			return fmt.Errorf("invalid proxy configuration: %w", err)
		}
	}

	runner := scraper.NewRunner(scraper.RunnerConfig{
		BaseURL:     cfg.BaseURL,
		IncludeHTML: cfg.Output.IncludeHTML,
		Concurrency: cfg.Concurrency,
		Fetch: scraper.FetchConfig{
			Timeout:        cfg.Request.Timeout,
			MaxRetries:     cfg.Request.MaxRetries,
			Backoff:        block.Backoff{Factor: cfg.Request.BackoffFactor},
			Detector:       block.NewDetector(cfg.BlockPhrases),
			Proxies:        proxies,
			Fingerprint:    fingerprint.Profile(cfg.Request.Fingerprint),
			AcceptLanguage: cfg.LanguageCode,
			Logger:         logger,
		},
	}, nil, store, logger)

	logger.Info("starting scrape",
		"queries", len(specs), "concurrency", cfg.Concurrency,
		"formats", strings.Join(cfg.Output.Formats, ","))

	records, err := runner.Run(cmd.Context(), specs)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		logger.Warn("no pages collected, skipping export")
		return nil
	}

	if err := export.All(records, cfg.Output.Dir, cfg.Output.BaseName, cfg.Output.Formats, logger); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	logger.Info("scrape complete", "pages", len(records))
	return nil
}
