package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cobweb/config"
	"github.com/s0up4200/cobweb/filter"
	"github.com/s0up4200/cobweb/prepmod"
	"github.com/s0up4200/cobweb/report"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	showAll    bool
	fromDate   string
	venueName  string
	wait       bool
	maxPages   int
	format     string
	filterExpr string
	preset     string
	verbose    bool
	logLevel   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cobweb",
	Short: "Find open vaccination appointments on a PrepMod clinic site",
	Long: `cobweb pages through the public clinic search of a PrepMod site
(maimmunizations.org by default) and reports which clinics have
appointments available, with their registration links.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initializeApp,
	RunE:              runSearch,
}

// SetVersion records the build version for the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.Flags().BoolVarP(&showAll, "all", "a", false, "show clinics without availability too")
	rootCmd.Flags().StringVarP(&fromDate, "from", "f", "", "only clinics on or after this date (MM/DD/YYYY)")
	rootCmd.Flags().StringVarP(&venueName, "name", "n", "", "only venues whose name contains this text")
	rootCmd.Flags().BoolVarP(&wait, "wait", "w", false, "keep polling while the site shows its waiting room")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many result pages (0 for no limit)")
	rootCmd.Flags().StringVar(&format, "format", "", "output format (text, table)")
	rootCmd.Flags().StringVar(&filterExpr, "filter", "", "filter expression applied to the results")
	rootCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeApp loads the configuration and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyFlagOverrides(cmd)

	logger = setupLogger(cfg.Logging)
	return nil
}

// applyFlagOverrides copies explicitly set flags over the loaded config
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()

	if flags.Changed("all") {
		cfg.Search.ShowAll = showAll
	}
	if flags.Changed("from") {
		cfg.Search.FromDate = fromDate
	}
	if flags.Changed("name") {
		cfg.Search.VenueName = venueName
	}
	if flags.Changed("wait") {
		cfg.Search.Wait = wait
	}
	if flags.Changed("max-pages") {
		cfg.Search.MaxPages = maxPages
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("verbose") && verbose {
		cfg.Logging.Level = "debug"
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func userAgent() string {
	if cfg.Search.UserAgent != "" {
		return cfg.Search.UserAgent
	}
	return prepmod.DefaultUserAgent + "/" + version
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Resolve the filter and formatter before touching the network
	presets := filter.NewManager()
	if err := presets.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}
	match, err := presets.Resolve(filterExpr, preset, cfg.Filter.Default)
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	formatter, err := report.New(cfg.Output.Format)
	if err != nil {
		return err
	}

	client, err := prepmod.NewClient(cfg.Search.BaseURL, logger,
		prepmod.WithTimeout(cfg.Search.Timeout),
		prepmod.WithUserAgent(userAgent()),
	)
	if err != nil {
		return fmt.Errorf("failed to create PrepMod client: %w", err)
	}

	out := cmd.OutOrStdout()
	searcher, err := prepmod.NewSearcher(client, logger,
		prepmod.WithOutput(out),
		prepmod.WithWaitInterval(cfg.Search.WaitInterval),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Searching %s\n\n", client.BaseURL())

	result, err := searcher.Run(cmd.Context(), prepmod.SearchOptions{
		Filters: prepmod.SearchFilters{
			FromDate:  cfg.Search.FromDate,
			VenueName: cfg.Search.VenueName,
		},
		Wait:     cfg.Search.Wait,
		MaxPages: cfg.Search.MaxPages,
	})
	if err != nil {
		logger.Debug().
			Int("pages", result.PagesFetched).
			Int("clinics", len(result.Records)).
			Msg("Search aborted with partial results")
		return fmt.Errorf("search failed: %w", err)
	}

	logger.Debug().
		Int("pages", result.PagesFetched).
		Int("clinics", len(result.Records)).
		Int("waiting_room_retries", result.WaitingRoomRetries).
		Bool("bailed_out", result.BailedOut).
		Msg("Search finished")

	clinics := filter.Apply(result.Records, match)
	fmt.Fprint(out, formatter.FormatClinics(clinics, report.Options{ShowAll: cfg.Search.ShowAll}))
	fmt.Fprint(out, formatter.FormatSummary(report.Summarize(clinics, result.PagesFetched)))

	return nil
}
