package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/rollforward/internal/config"
	"github.com/roach88/rollforward/internal/session"
)

// RootOptions holds global flags for all commands. The root command resolves
// them through config.Load; subcommands built directly (as in tests) use the
// fields as set.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	Model       string // working model file
	ConfigFile  string
	APIURL      string
	DB          string // local repository; empty means the HTTP service
	MetricsFile string
	Retries     uint
	Timeout     time.Duration

	// Service overrides the backend (for testing).
	Service session.Service
	// Tokens overrides the request token generator (for testing).
	Tokens session.TokenGenerator
	// LogWriter receives log records. Default: os.Stderr.
	LogWriter io.Writer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the rollforward CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	d := config.Defaults()

	cmd := &cobra.Command{
		Use:   "rollforward",
		Short: "Edit, store and run planning models",
		Long: `Edit a planning model (products, unit schedules, yields, receipts,
orders, demand and formulations) in a local working file, save and load it
through the roll-forward service or a local SQLite repository, and render the
roll-forward results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), opts.ConfigFile)
			if err != nil {
				return WrapExitError(ExitCommandError, "configuration", err)
			}
			opts.apply(cfg)
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(opts)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, config.KeyVerbose, "v", false, "verbose output")
	flags.StringVar(&opts.Format, config.KeyFormat, d.Format, "output format (json|text)")
	flags.StringVarP(&opts.Model, config.KeyModel, "m", d.Model, "working model file")
	flags.StringVar(&opts.ConfigFile, "config", "", "YAML config file")
	flags.StringVar(&opts.APIURL, config.KeyAPIURL, d.APIURL, "roll-forward service base URL")
	flags.StringVar(&opts.DB, config.KeyDB, "", "use a local SQLite repository instead of the service")
	flags.StringVar(&opts.MetricsFile, config.KeyMetricsFile, "", "write Prometheus metrics to this file on exit")
	flags.UintVar(&opts.Retries, config.KeyRetries, d.Retries, "attempts per service request")
	flags.DurationVar(&opts.Timeout, config.KeyTimeout, d.Timeout, "service request timeout")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewMetaCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))
	cmd.AddCommand(NewSectionCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewOutputCommand(opts))

	return cmd
}

func (o *RootOptions) apply(cfg config.Config) {
	o.Model = cfg.Model
	o.Format = cfg.Format
	o.Verbose = cfg.Verbose
	o.APIURL = cfg.APIURL
	o.DB = cfg.DB
	o.MetricsFile = cfg.MetricsFile
	o.Retries = cfg.Retries
	o.Timeout = cfg.Timeout
}

// setupLogging installs a text handler at debug level when verbose.
func setupLogging(opts *RootOptions) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	w := opts.LogWriter
	if w == nil {
		w = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})))
}

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
