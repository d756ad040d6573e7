// Command decom decodes telemetry recordings into records and wild point logs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/askiada/go-decom/internal/app"
	"github.com/askiada/go-decom/internal/config"
	"github.com/askiada/go-decom/internal/logging"
)

var errHelp = errors.New("help requested")

type flags struct {
	configPath string
	inputs     []string
}

// parseFlags loads the configuration file named by --config, then the environment, then
// applies the flags set explicitly on the command line.
func parseFlags(args []string, stderr io.Writer) (*config.Config, *flags, error) {
	fs := pflag.NewFlagSet("decom", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := config.Default()

	var (
		configPath  = fs.StringP("config", "c", "", "YAML configuration file.")
		outputDir   = fs.StringP("output-dir", "o", "", "Output directory. Defaults to the directory of each input.")
		format      = fs.StringP("format", "f", string(defaults.Format), "Records format: csv, sqlite or xlsx.")
		capacity    = fs.Int("capacity", defaults.Capacity, "Capacity in bytes of the pipes between stages.")
		workers     = fs.Int("workers", defaults.Workers, "Number of inputs decoded at the same time.")
		graph       = fs.Bool("graph", false, "Write the stage graph of each input in DOT next to its records.")
		metricsPath = fs.String("metrics", "", "Write the stage metrics to this file in the Prometheus text format.")
		logLevel    = fs.String("log-level", defaults.Logging.Level, "Log level: debug, info, warn or error.")
		logDev      = fs.Bool("log-dev", false, "Human readable logs.")
		help        = fs.BoolP("help", "h", false, "Display help text.")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "decom - decode telemetry recordings\n")
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Usage: decom [OPTIONS] FILE...\n")
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Each FILE.dat produces FILE.<format> and FILE%s.\n", app.WildPointsSuffix)
		fmt.Fprintf(stderr, "Options can also be set with %s_ environment variables.\n", config.EnvPrefix)
		fs.PrintDefaults()
	}

	err := fs.Parse(args)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to parse flags")
	}

	if *help {
		fs.Usage()

		return nil, nil, errHelp
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, err
	}

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "output-dir":
			cfg.OutputDir = *outputDir
		case "format":
			cfg.Format = config.Format(*format)
		case "capacity":
			cfg.Capacity = *capacity
		case "workers":
			cfg.Workers = *workers
		case "graph":
			cfg.Graph = *graph
		case "metrics":
			cfg.MetricsPath = *metricsPath
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-dev":
			cfg.Logging.Development = *logDev
		}
	})

	err = cfg.Validate()
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid configuration")
	}

	if fs.NArg() == 0 {
		fs.Usage()

		return nil, nil, app.ErrNoInput
	}

	return cfg, &flags{configPath: *configPath, inputs: fs.Args()}, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	defer func() { _ = logger.Sync() }()

	logger = logger.With(zap.String("run", uuid.NewString()))
	logger.Info("starting",
		zap.Strings("inputs", f.inputs),
		zap.String("config", f.configPath),
		zap.String("format", string(cfg.Format)),
		zap.Int("workers", cfg.Workers),
	)

	err = app.RunFiles(logging.WithContext(ctx, logger), cfg, f.inputs)
	if err != nil {
		logger.Error("decommutation failed", zap.Error(err))

		return err
	}

	logger.Info("done")

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stderr)

	stop()

	switch {
	case err == nil:
	case errors.Is(err, errHelp):
	default:
		fmt.Fprintf(os.Stderr, "decom: %v\n", err)
		os.Exit(1)
	}
}
