package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-decom/pkg/pipeline/model"
)

// Pipeline is a pipeline of stages.
type Pipeline struct {
	ctx       context.Context
	logger    *zap.Logger
	errcList  *errorChans
	opts      []model.PipelineOption
	topology  *topology
	startTime time.Time
	goFn      []func(ctx context.Context)
	started   bool
}

// New creates a new pipeline. ctx is handed to every stage function and does not stop the
// stages. The pipeline logs nothing until SetLogger is called.
func New(ctx context.Context, opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		ctx:       ctx,
		logger:    zap.NewNop(),
		errcList:  &errorChans{},
		topology:  newTopology(),
		startTime: time.Now(),
		opts:      opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// SetLogger sets the logger of every stage. Each stage adds its name in the "stage" field.
func (p *Pipeline) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	p.logger = logger
}

func (p *Pipeline) stageLogger(name string) *zap.Logger {
	if p.logger == nil {
		return zap.NewNop()
	}

	return p.logger.With(zap.String("stage", name))
}

// Stages returns the names of the stages in topological order.
func (p *Pipeline) Stages() ([]string, error) {
	return p.topology.order()
}

// waitForPipeline waits for results from all error channels.
// It returns the first error once every channel is closed.
func waitForPipeline(errs ...*errorChan) error {
	var first error

	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil && first == nil {
			first = err
		}
	}

	return first
}

// Run starts every stage and waits for all of them to finish.
func (p *Pipeline) Run() error {
	if p.started {
		return ErrPipelineAlreadyRun
	}

	p.started = true
	p.startTime = time.Now()

	for _, fn := range p.goFn {
		go fn(p.ctx)
	}

	err := waitForPipeline(p.errcList.list...)
	if err != nil {
		return err
	}

	return p.finishRun()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
