package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raaihank/regex-splitter/internal/config"
	"github.com/raaihank/regex-splitter/internal/logger"
	"github.com/raaihank/regex-splitter/internal/splitter"
	"github.com/raaihank/regex-splitter/internal/watch"
)

const version = "0.1.0"

// errMissingInput is returned when no input file path is given
var errMissingInput = errors.New("input file path is required")

type options struct {
	configPath string
	engine     string
	format     string
	logLevel   string
	watch      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:     "splitter <input_file_path> [output_file_path]",
		Short:   "Split regex test inputs into positive and negative sets",
		Long:    "Reads an NDJSON file of {regex, inputs, file_path} entries and writes, per entry,\nthe inputs the regex matches and those it does not.",
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errMissingInput
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			return runSplit(cmd, opts, args[0], output)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Configuration file path (default: splitter.yaml in . or ./configs)")
	flags.StringVar(&opts.engine, "engine", "", "Regex engine: ecmascript, perl, or re2")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, or error")
	root.Flags().StringVar(&opts.format, "format", "", "Output format: auto, ndjson, or parquet")
	root.Flags().BoolVar(&opts.watch, "watch", false, "Re-run whenever the input file changes")

	root.AddCommand(newStatsCmd(opts))
	return root
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <classified_file_path>",
		Short: "Print record count and median input counts of a split output file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runStats(cmd, opts, args[0])
		},
	}
}

// setup loads configuration, applies flag overrides and builds the logger
func setup(cmd *cobra.Command, opts *options) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.engine != "" {
		cfg.Splitter.Engine = opts.engine
	}
	if opts.format != "" {
		cfg.Splitter.OutputFormat = opts.format
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	}
	if cfg.Logging.File.Enabled {
		logCfg.File = &logger.FileConfig{
			Enabled:    true,
			Path:       cfg.Logging.File.Path,
			MaxSize:    cfg.Logging.File.MaxSize,
			MaxAge:     cfg.Logging.File.MaxAge,
			MaxBackups: cfg.Logging.File.MaxBackups,
			Compress:   cfg.Logging.File.Compress,
		}
	}

	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

// runSplit processes the input file and prints the summary
func runSplit(cmd *cobra.Command, opts *options, inputPath, outputPath string) error {
	cfg, log, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Debug("Starting regex splitter",
		zap.String("version", version),
		zap.String("config", opts.configPath))

	s, err := splitter.NewSplitter(&cfg.Splitter, log.WithComponent("splitter").Logger)
	if err != nil {
		return fmt.Errorf("failed to create splitter: %w", err)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := func(ctx context.Context) error {
		result, err := s.Process(ctx, inputPath, outputPath)
		if err != nil {
			return fmt.Errorf("split failed: %w", err)
		}
		return splitter.WriteSummary(cmd.OutOrStdout(), result)
	}

	if err := run(ctx); err != nil {
		log.Error("Split failed", zap.Error(err))
		return err
	}

	if !opts.watch {
		return nil
	}

	w, err := watch.New(inputPath, cfg.Watch.Debounce, log.WithComponent("watch").Logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, run)
}

// runStats summarizes an existing split output file
func runStats(cmd *cobra.Command, opts *options, path string) error {
	cfg, log, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := splitter.NewSplitter(&cfg.Splitter, log.WithComponent("stats").Logger)
	if err != nil {
		return fmt.Errorf("failed to create splitter: %w", err)
	}

	result, err := s.Analyze(cmd.Context(), path)
	if err != nil {
		log.Error("Stats failed", zap.Error(err))
		return err
	}
	return splitter.WriteAnalysis(cmd.OutOrStdout(), result)
}
