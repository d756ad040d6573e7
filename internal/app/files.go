package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-decom/internal/config"
	"github.com/askiada/go-decom/internal/logging"
	"github.com/askiada/go-decom/pkg/sink"
	"github.com/askiada/go-decom/pkg/telemetry"
)

// WildPointsSuffix is appended to the input name to build the wild point file name.
const WildPointsSuffix = "_wildpoints.csv"

// Outputs are the files written for one input.
type Outputs struct {
	Records    string
	WildPoints string
	// Graph is empty unless the configuration asks for graphs.
	Graph string
}

// OutputsFor returns the files written for input: for data/flight.dat and the csv format,
// flight.csv and flight_wildpoints.csv in the output directory, or in data/ without one.
func OutputsFor(cfg *config.Config, input string) Outputs {
	dir := cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}

	base := filepath.Join(dir, strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)))

	outputs := Outputs{
		Records:    base + cfg.Format.Extension(),
		WildPoints: base + WildPointsSuffix,
	}

	if cfg.Graph {
		outputs.Graph = base + ".dot"
	}

	return outputs
}

func checkOutputs(cfg *config.Config, inputs []string) error {
	seen := make(map[string]string, len(inputs))

	for _, input := range inputs {
		records := OutputsFor(cfg, input).Records
		if other, ok := seen[records]; ok {
			return errors.Wrapf(ErrDuplicateOutput, "%s and %s", other, input)
		}

		seen[records] = input
	}

	return nil
}

// RunFiles decommutates every input, at most cfg.Workers at the same time. Once an input
// fails, the inputs not started yet are skipped; the ones running finish.
func RunFiles(ctx context.Context, cfg *config.Config, inputs []string) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}

	err := checkOutputs(cfg, inputs)
	if err != nil {
		return err
	}

	if cfg.OutputDir != "" {
		err = os.MkdirAll(cfg.OutputDir, 0o755)
		if err != nil {
			return errors.Wrapf(err, "unable to create %s", cfg.OutputDir)
		}
	}

	var reg *prometheus.Registry
	if cfg.MetricsPath != "" {
		reg = prometheus.NewRegistry()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, input := range inputs {
		g.Go(func() error {
			return runFile(gctx, cfg, input, reg)
		})
	}

	err = g.Wait()

	if reg != nil {
		writeErr := prometheus.WriteToTextfile(cfg.MetricsPath, reg)
		if writeErr != nil {
			err = multierr.Append(err, errors.Wrapf(writeErr, "unable to write metrics to %s", cfg.MetricsPath))
		}
	}

	return err
}

type closers []io.Closer

// Close closes in reverse order and returns every error.
func (c closers) Close() error {
	var err error
	for i := len(c) - 1; i >= 0; i-- {
		err = multierr.Append(err, c[i].Close())
	}

	return err
}

func openSinks(ctx context.Context, format config.Format, outputs Outputs) (telemetry.RecordSink, telemetry.WildPointLog, closers, error) {
	wildPoints, err := sink.CreateCSV(outputs.WildPoints)
	if err != nil {
		return nil, nil, nil, err
	}

	opened := closers{wildPoints}

	switch format {
	case config.FormatCSV:
		records, err := sink.CreateCSV(outputs.Records)
		if err != nil {
			return nil, nil, nil, multierr.Append(err, opened.Close())
		}

		return records, wildPoints, append(opened, records), nil
	case config.FormatSQLite:
		db, err := sink.NewSQLite(ctx, outputs.Records)
		if err != nil {
			return nil, nil, nil, multierr.Append(err, opened.Close())
		}

		return db, sink.MultiWildPoint(wildPoints, db), append(opened, db), nil
	case config.FormatXLSX:
		workbook, err := sink.NewXLSX(outputs.Records)
		if err != nil {
			return nil, nil, nil, multierr.Append(err, opened.Close())
		}

		return workbook, wildPoints, append(opened, workbook), nil
	default:
		return nil, nil, nil, multierr.Append(errors.Wrapf(config.ErrUnknownFormat, "%q", format), opened.Close())
	}
}

func runFile(ctx context.Context, cfg *config.Config, input string, reg *prometheus.Registry) (err error) {
	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), "skipping %s", input)
	}

	logger := logging.FromContext(ctx).With(zap.String("input", input))
	outputs := OutputsFor(cfg, input)

	file, err := os.Open(input)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", input)
	}
	defer file.Close()

	records, wildPoints, opened, err := openSinks(ctx, cfg.Format, outputs)
	if err != nil {
		return errors.Wrapf(err, "unable to open outputs of %s", input)
	}

	defer func() {
		err = multierr.Append(err, opened.Close())
	}()

	logger.Info("decommutating",
		zap.String("records", outputs.Records),
		zap.String("wild_points", outputs.WildPoints),
	)

	opts := Options{
		Capacity:  cfg.Capacity,
		GraphPath: outputs.Graph,
	}

	if reg != nil {
		opts.Registerer = prometheus.WrapRegistererWith(prometheus.Labels{"input": input}, reg)
	}

	return Run(logging.WithContext(ctx, logger), Stream{
		Name:       filepath.Base(input),
		Input:      file,
		Records:    records,
		WildPoints: wildPoints,
	}, opts)
}
