package pipeline

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-decom/pkg/pipe"
	"github.com/askiada/go-decom/pkg/pipeline/model"
	"github.com/askiada/go-decom/pkg/wire"
)

// Transformer is the work of a stage, independent of the loop driving it.
type Transformer interface {
	// Transform returns the fields to write for one input field, in order.
	Transform(ctx context.Context, field wire.Field) ([]wire.Field, error)
	// Flush returns what the transformer still holds once the input has ended.
	Flush(ctx context.Context) ([]wire.Field, error)
}

// TransformFunc turns a stateless function into a Transformer.
type TransformFunc func(ctx context.Context, field wire.Field) ([]wire.Field, error)

// Transform calls f.
func (f TransformFunc) Transform(ctx context.Context, field wire.Field) ([]wire.Field, error) {
	return f(ctx, field)
}

// Flush does nothing.
func (f TransformFunc) Flush(context.Context) ([]wire.Field, error) {
	return nil, nil
}

type stageStats struct {
	read, written uint64
}

func (s *stageStats) log(logger *zap.Logger, msg string) {
	logger.Info(msg,
		zap.String("bytes_read", humanize.Bytes(s.read)),
		zap.String("bytes_written", humanize.Bytes(s.written)),
	)
}

// readField reads the next field. done is true when the input has ended, cleanly or not.
func readField(logger *zap.Logger, input *pipe.Pipe, stats *stageStats) (field wire.Field, done bool, err error) {
	field, err = wire.Read(input)
	switch {
	case err == nil:
		stats.read += wire.FieldSize

		return field, false, nil
	case errors.Is(err, pipe.ErrEndOfStream):
		return wire.Field{}, true, nil
	case errors.Is(err, wire.ErrTruncatedField):
		logger.Warn("input ended inside a field, dropping it")

		return wire.Field{}, true, nil
	default:
		return wire.Field{}, true, errors.Wrap(err, "unable to read input")
	}
}

func writeFields(output *pipe.Pipe, fields []wire.Field, stats *stageStats) error {
	for _, field := range fields {
		err := wire.Write(output, field)
		if err != nil {
			return err
		}

		stats.written += wire.FieldSize
	}

	return nil
}

// flushStage writes what the transformer still holds. It is also used after a failure, where
// its own error is only logged.
func flushStage(ctx context.Context, output *pipe.Pipe, transformer Transformer, stats *stageStats) error {
	outs, err := transformer.Flush(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to flush stage")
	}

	return writeFields(output, outs, stats)
}

func runStage(ctx context.Context, p *Pipeline, input, output *model.Stage, transformer Transformer) (err error) {
	logger := p.stageLogger(output.Details.Name)
	stats := &stageStats{}
	start := time.Now()

	logger.Info("stage reading")

	defer func() {
		closeErr := output.Output.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "unable to close output")
		}

		if err != nil {
			dropped := input.Output.Drain()
			logger.Error("stage failed", zap.Error(err), zap.String("dropped", humanize.Bytes(uint64(dropped))))
		}

		stats.log(logger, "stage exiting")

		for _, opt := range p.opts {
			hookErr := opt.AfterStage(output.Details, time.Since(start))
			if hookErr != nil && err == nil {
				err = errors.Wrap(hookErr, "unable to run after stage function")
			}
		}
	}()

	for {
		startIter := time.Now()

		field, done, err := readField(logger, input.Output, stats)
		if err != nil {
			bestEffortFlush(ctx, logger, output.Output, transformer, stats)

			return err
		}

		if done {
			break
		}

		startFn := time.Now()

		outs, err := transformer.Transform(ctx, field)
		if err != nil {
			bestEffortFlush(ctx, logger, output.Output, transformer, stats)

			return errors.Wrapf(err, "unable to transform %d bytes into the stage", stats.read)
		}

		endFn := time.Since(startFn)

		err = writeFields(output.Output, outs, stats)
		if err != nil {
			bestEffortFlush(ctx, logger, output.Output, transformer, stats)

			return err
		}

		for _, opt := range p.opts {
			err := opt.OnStageOutput(input.Details, output.Details, startFn.Sub(startIter), endFn)
			if err != nil {
				bestEffortFlush(ctx, logger, output.Output, transformer, stats)

				return errors.Wrap(err, "unable to run stage output function")
			}
		}
	}

	return flushStage(ctx, output.Output, transformer, stats)
}

func bestEffortFlush(ctx context.Context, logger *zap.Logger, output *pipe.Pipe, transformer Transformer, stats *stageStats) {
	err := flushStage(ctx, output, transformer, stats)
	if err != nil {
		logger.Warn("unable to flush failed stage", zap.Error(err))
	}
}

func prepareStage(p *Pipeline, name string, input *model.Stage, opts ...StageOption) (*model.Stage, error) {
	details := &model.StageInfo{
		Type:     model.NormalStageType,
		Name:     name,
		Capacity: pipe.DefaultCapacity,
	}
	for _, opt := range opts {
		opt(details)
	}

	output, err := pipe.New(details.Capacity)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create output of stage %s", name)
	}

	err = p.link(input.Details.Name, name)
	if err != nil {
		return nil, err
	}

	for _, opt := range p.opts {
		err := opt.PrepareStage(input.Details, details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare stage function")
		}
	}

	return &model.Stage{Output: output, Details: details}, nil
}

// link registers child as the only consumer of parent.
func (p *Pipeline) link(parentName, childName string) error {
	err := p.topology.checkInput(parentName)
	if err != nil {
		return err
	}

	err = p.topology.addStage(childName)
	if err != nil {
		return err
	}

	return p.topology.addLink(parentName, childName)
}

func addGoFn(p *Pipeline, name string, fn func(ctx context.Context) error) {
	errC := make(chan error, 1)
	decoratedError := newErrorChan(name, errC)

	p.goFn = append(p.goFn, func(ctx context.Context) {
		defer close(errC)

		err := fn(ctx)
		if err != nil {
			errC <- err
		}
	})
	p.errcList.add(decoratedError)
}

// AddStage adds a stage reading fields from input and writing what transformer returns.
func AddStage(p *Pipeline, name string, input *model.Stage, transformer Transformer, opts ...StageOption) (*model.Stage, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	if input == nil || input.Output == nil || input.Details == nil {
		return nil, ErrInputMustBeSet
	}

	if transformer == nil {
		return nil, ErrTransformMustBeSet
	}

	stage, err := prepareStage(p, name, input, opts...)
	if err != nil {
		return nil, err
	}

	addGoFn(p, name, func(ctx context.Context) error {
		return runStage(ctx, p, input, stage, transformer)
	})

	return stage, nil
}
