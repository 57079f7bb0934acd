package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dealhawk/deal-service/config"
	"github.com/dealhawk/deal-service/internal/feed"
	"github.com/dealhawk/deal-service/internal/search"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deal-service",
	Short: "Deal Service CLI - incremental deal search aggregation tool",
	Long: `A CLI tool for running deal searches against the search endpoint,
aggregating paginated results into a deduplicated collection and exporting
snapshots as spreadsheets or charts.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stdout
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

// newController builds a controller wired to the configured search endpoint.
func newController() *feed.Controller {
	feedCfg := feed.DefaultConfig()
	searchCfg := search.DefaultConfig("http://localhost:8080")

	if cfg != nil {
		feedCfg = feed.Config{
			PageSize:       cfg.Feed.PageSize,
			IdentityKey:    feed.IdentityKey(cfg.Feed.IdentityKey),
			MinDiscount:    cfg.Feed.MinDiscount,
			DebugFlag:      cfg.Endpoints.DebugFlag,
			HighlightDwell: cfg.Feed.HighlightDwell,
			Seeds:          cfg.Feed.Seeds,
			SeedDelay:      cfg.Feed.SeedDelay,
		}
		searchCfg = search.Config{
			BaseURL:           cfg.Endpoints.SearchBaseURL,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			MaxRetries:        cfg.RateLimit.MaxRetries,
			InitialBackoff:    time.Duration(cfg.RateLimit.InitialBackoffMs) * time.Millisecond,
			MaxBackoff:        time.Duration(cfg.RateLimit.MaxBackoffMs) * time.Millisecond,
		}
	}

	searcher := search.NewClient(searchCfg, *logger)
	return feed.New(searcher, feedCfg, *logger)
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
