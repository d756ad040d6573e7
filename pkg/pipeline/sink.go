package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-decom/pkg/pipeline/model"
	"github.com/askiada/go-decom/pkg/wire"
)

// Consumer is the work of a sink.
type Consumer interface {
	Consume(ctx context.Context, field wire.Field) error
	// Flush runs once the input has ended, or after a failure as a best effort.
	Flush(ctx context.Context) error
}

func runSink(ctx context.Context, p *Pipeline, input *model.Stage, details *model.StageInfo, consumer Consumer) (err error) {
	logger := p.stageLogger(details.Name)
	stats := &stageStats{}
	start := time.Now()

	flushed := false

	logger.Info("sink reading")

	defer func() {
		if err != nil && !flushed {
			flushErr := consumer.Flush(ctx)
			if flushErr != nil {
				logger.Warn("unable to flush failed sink", zap.Error(flushErr))
			}
		}

		if err != nil {
			input.Output.Drain()
			logger.Error("sink failed", zap.Error(err))
		}

		stats.log(logger, "sink exiting")

		for _, opt := range p.opts {
			hookErr := opt.AfterSink(details, time.Since(start))
			if hookErr != nil && err == nil {
				err = errors.Wrap(hookErr, "unable to run after sink function")
			}
		}
	}()

	for {
		startIter := time.Now()

		field, done, err := readField(logger, input.Output, stats)
		if err != nil {
			return err
		}

		if done {
			break
		}

		startFn := time.Now()

		err = consumer.Consume(ctx, field)
		if err != nil {
			return errors.Wrapf(err, "unable to consume %d bytes into the sink", stats.read)
		}

		endFn := time.Since(startFn)

		for _, opt := range p.opts {
			err := opt.OnSinkOutput(input.Details, details, startFn.Sub(startIter), endFn)
			if err != nil {
				return errors.Wrap(err, "unable to run sink output function")
			}
		}
	}

	flushed = true

	err = consumer.Flush(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to flush sink")
	}

	return nil
}

// AddSink adds the last stage of the pipeline, consuming the fields written by input.
func AddSink(p *Pipeline, name string, input *model.Stage, consumer Consumer) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}

	if input == nil || input.Output == nil || input.Details == nil {
		return ErrInputMustBeSet
	}

	if consumer == nil {
		return ErrTransformMustBeSet
	}

	details := &model.StageInfo{
		Type: model.SinkStageType,
		Name: name,
	}

	err := p.link(input.Details.Name, name)
	if err != nil {
		return err
	}

	for _, opt := range p.opts {
		err := opt.PrepareSink(input.Details, details)
		if err != nil {
			return errors.Wrap(err, "unable to run prepare sink function")
		}
	}

	addGoFn(p, name, func(ctx context.Context) error {
		return runSink(ctx, p, input, details, consumer)
	})

	return nil
}
