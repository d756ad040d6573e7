// Package app wires the decommutation pipeline of one telemetry stream, and runs it over files.
package app

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/askiada/go-decom/internal/logging"
	"github.com/askiada/go-decom/pkg/pipeline"
	"github.com/askiada/go-decom/pkg/pipeline/drawer"
	"github.com/askiada/go-decom/pkg/pipeline/measure"
	"github.com/askiada/go-decom/pkg/pipeline/model"
	"github.com/askiada/go-decom/pkg/telemetry"
)

// Stage names, in stream order.
const (
	SourceStage      = "source"
	CorrectStage     = "correct"
	DecommutateStage = "decommutate"
)

// Stream is one telemetry stream and where its frames go.
type Stream struct {
	Name    string
	Input   io.Reader
	Records telemetry.RecordSink
	// WildPoints may be nil.
	WildPoints telemetry.WildPointLog
}

// Options tunes Run. The zero value is valid.
type Options struct {
	// Capacity of the pipes between stages. Zero keeps the pipe default.
	Capacity int
	// GraphPath, when set, receives the stage graph and its timings in DOT.
	GraphPath string
	// Registerer, when set, receives the stage metrics.
	Registerer prometheus.Registerer
}

func (o Options) pipelineOptions() []model.PipelineOption {
	opts := []model.PipelineOption{}

	if o.GraphPath != "" {
		msr := measure.NewDefaultMeasure()
		opts = append(opts,
			measure.PipelineMeasure(msr),
			drawer.PipelineDrawer(drawer.NewDOTDrawer(o.GraphPath), msr),
		)
	}

	if o.Registerer != nil {
		opts = append(opts, measure.PipelinePrometheus(o.Registerer))
	}

	return opts
}

// Run decommutates stream: a source stage copies the raw bytes, a correction stage replaces
// wild altitudes and a sink stage rebuilds frames for stream.Records. It returns once every
// stage has exited, so the sinks are no longer used.
func Run(ctx context.Context, stream Stream, opts Options) error {
	if stream.Input == nil || stream.Records == nil {
		return ErrStreamMustBeSet
	}

	logger := logging.FromContext(ctx).With(zap.String("stream", stream.Name))
	ctx = logging.WithContext(ctx, logger)

	p, err := pipeline.New(ctx, opts.pipelineOptions()...)
	if err != nil {
		return errors.Wrap(err, "unable to create pipeline")
	}

	p.SetLogger(logger)

	stageOpts := []pipeline.StageOption{}
	if opts.Capacity > 0 {
		stageOpts = append(stageOpts, pipeline.StageCapacity(opts.Capacity))
	}

	source, err := pipeline.AddRootStage(p, SourceStage, func(_ context.Context, output io.Writer) error {
		_, err := io.Copy(output, stream.Input)

		return errors.Wrap(err, "unable to copy input")
	}, stageOpts...)
	if err != nil {
		return errors.Wrap(err, "unable to add source stage")
	}

	corrected, err := pipeline.AddStage(p, CorrectStage, source, telemetry.NewCorrector(stream.WildPoints), stageOpts...)
	if err != nil {
		return errors.Wrap(err, "unable to add correction stage")
	}

	err = pipeline.AddSink(p, DecommutateStage, corrected, telemetry.NewDecommutator(stream.Records))
	if err != nil {
		return errors.Wrap(err, "unable to add decommutation stage")
	}

	start := time.Now()

	err = p.Run()
	if err != nil {
		return errors.Wrapf(err, "unable to decommutate %s", stream.Name)
	}

	logger.Info("stream decommutated", zap.Duration("elapsed", time.Since(start)))

	return nil
}
