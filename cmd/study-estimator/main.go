package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/iwvelando/study-estimator/internal/config"
	"github.com/iwvelando/study-estimator/internal/estimator"
	"github.com/iwvelando/study-estimator/internal/server"
	"github.com/iwvelando/study-estimator/pkg/constants"
	"github.com/iwvelando/study-estimator/pkg/export"
	"github.com/iwvelando/study-estimator/pkg/output"
	"github.com/iwvelando/study-estimator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	// Estimates go to stdout, so logs default to stderr.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		cfg.OutputPaths = []string{loggingConfig.OutputFile}
		cfg.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return cfg.Build()
}

// options holds the persistent flag values shared by every subcommand.
type options struct {
	configPath   string
	logLevel     string
	outputFormat string
	exportPath   string
	serverConfig string
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "study-estimator",
		Short: "Estimate data-center bus counts and power-system study costs",
		Long: `study-estimator derives the electrical bus count of a data center from its
load figures and tier, then prices load flow, short circuit, coordination,
arc flash and optional harmonic and transient studies for that bus count.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(stdout, opts, output.SectionAll)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	flags.StringVar(&opts.exportPath, "export", "", "also write the estimate to this .xlsx or .pdf file")

	root.AddCommand(
		&cobra.Command{
			Use:   "estimate",
			Short: "Compute the bus count and the study cost",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEstimate(stdout, opts, output.SectionAll)
			},
		},
		&cobra.Command{
			Use:   "buses",
			Short: "Compute the load split, equipment counts and bus count only",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEstimate(stdout, opts, output.SectionBuses)
			},
		},
		&cobra.Command{
			Use:   "cost",
			Short: "Compute the study cost breakdown",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEstimate(stdout, opts, output.SectionCost)
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Load the configuration and report warnings without estimating",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runValidate(stdout, opts)
			},
		},
		newServeCmd(opts),
	)

	return root
}

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimate API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(opts.serverConfig)
			if err != nil {
				return err
			}

			logger, err := initializeLogger(cfg.Logging, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Serve(ctx, logger, cfg, version)
		},
	}
	cmd.Flags().StringVar(&opts.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	return cmd
}

// loadRun loads the configuration, builds the logger and logs configuration
// warnings. The returned warnings are also included in the rendered output.
func loadRun(opts *options) (*config.Configuration, *zap.Logger, []string, error) {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return conf, logger, warnings, nil
}

func runEstimate(stdout io.Writer, opts *options, sections output.Section) error {
	conf, logger, warnings, err := loadRun(opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	outputFormat = strings.ToLower(outputFormat)
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	var exportFormat string
	if opts.exportPath != "" {
		if exportFormat, err = validation.ExportFormatFromPath(opts.exportPath); err != nil {
			return err
		}
	}

	request, _ := conf.ToRequest()
	result := estimator.NewEngine(logger).Estimate(request)
	result.Warnings = validation.MergeWarnings(warnings, result.Warnings)

	header := output.Header{
		Project:  conf.Project.Name,
		Client:   conf.Project.Client,
		Type:     conf.Project.Type,
		Currency: conf.Project.Currency,
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(stdout, header, result, sections)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(stdout, result, sections)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(stdout, header, result, sections)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s output: %w", outputFormat, err)
	}

	if exportFormat != "" {
		data := export.BuildData(header, result, time.Now())
		body, _, err := export.Generate(exportFormat, data)
		if err != nil {
			return fmt.Errorf("failed to generate %s export: %w", exportFormat, err)
		}
		if err := os.WriteFile(opts.exportPath, body, 0644); err != nil {
			return fmt.Errorf("failed to write export %s: %w", opts.exportPath, err)
		}
		logger.Info("estimate exported",
			zap.String("op", "main"),
			zap.String("path", opts.exportPath),
			zap.String("reference", data.Reference),
		)
	}

	return nil
}

func runValidate(stdout io.Writer, opts *options) error {
	_, logger, warnings, err := loadRun(opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	if len(warnings) == 0 {
		_, err = fmt.Fprintf(stdout, "%s: configuration is valid\n", opts.configPath)
		return err
	}

	if _, err := fmt.Fprintf(stdout, "%s: %d warning(s)\n", opts.configPath, len(warnings)); err != nil {
		return err
	}
	for _, warning := range warnings {
		if _, err := fmt.Fprintf(stdout, "  - %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	ctx := context.Background()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q}\n", err.Error())
		os.Exit(1)
	}
}
