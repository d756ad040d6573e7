package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-decom/pkg/pipe"
	"github.com/askiada/go-decom/pkg/pipeline/model"
)

type countingWriter struct {
	w       io.Writer
	written uint64
}

func (cw *countingWriter) Write(b []byte) (int, error) {
	n, err := cw.w.Write(b)
	cw.written += uint64(n)

	return n, err
}

func runRootStage(ctx context.Context, p *Pipeline, stage *model.Stage, stageFn func(ctx context.Context, output io.Writer) error) (err error) {
	logger := p.stageLogger(stage.Details.Name)
	output := &countingWriter{w: stage.Output}
	start := time.Now()

	logger.Info("stage writing")

	defer func() {
		closeErr := stage.Output.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "unable to close output")
		}

		if err != nil {
			logger.Error("stage failed", zap.Error(err))
		}

		(&stageStats{written: output.written}).log(logger, "stage exiting")

		for _, opt := range p.opts {
			hookErr := opt.AfterStage(stage.Details, time.Since(start))
			if hookErr != nil && err == nil {
				err = errors.Wrap(hookErr, "unable to run after stage function")
			}
		}
	}()

	return stageFn(ctx, output)
}

// AddRootStage adds the first stage of the pipeline. stageFn writes raw bytes to output, the
// end of the stream is signalled when it returns.
func AddRootStage(p *Pipeline, name string, stageFn func(ctx context.Context, output io.Writer) error, opts ...StageOption) (*model.Stage, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	if stageFn == nil {
		return nil, ErrTransformMustBeSet
	}

	details := &model.StageInfo{
		Type:     model.RootStageType,
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

	err = p.topology.addStage(name)
	if err != nil {
		return nil, err
	}

	for _, opt := range p.opts {
		err := opt.PrepareStage(model.StartStage, details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare stage function")
		}
	}

	stage := &model.Stage{Output: output, Details: details}

	addGoFn(p, name, func(ctx context.Context) error {
		return runRootStage(ctx, p, stage, stageFn)
	})

	return stage, nil
}
