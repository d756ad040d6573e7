package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-decom/pkg/pipeline/model"
)

// ErrUnknownStage is returned when a hook runs for a stage that was never prepared.
var ErrUnknownStage = errors.New("unknown stage")

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.startTime = time.Now()
	pm.AddMetric(model.StartStage.Name)
	pm.AddMetric(model.EndStage.Name)

	return nil
}

func (pm *pipelineMeasure) metric(name string) (Metric, error) {
	mt := pm.GetMetric(name)
	if mt == nil {
		return nil, errors.Wrap(ErrUnknownStage, name)
	}

	return mt, nil
}

func (pm *pipelineMeasure) PrepareStage(_, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) OnStageOutput(parentStage, stage *model.StageInfo, iterationDuration, computationDuration time.Duration) error {
	mt, err := pm.metric(stage.Name)
	if err != nil {
		return err
	}

	mt.AddDuration(computationDuration)
	mt.AddTransportDuration(parentStage.Name, iterationDuration)

	return nil
}

func (pm *pipelineMeasure) AfterStage(stage *model.StageInfo, totalDuration time.Duration) error {
	mt, err := pm.metric(stage.Name)
	if err != nil {
		return err
	}

	mt.SetTotalDuration(totalDuration)

	return nil
}

func (pm *pipelineMeasure) PrepareSink(_, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) OnSinkOutput(parentStage, stage *model.StageInfo, iterationDuration, computationDuration time.Duration) error {
	return pm.OnStageOutput(parentStage, stage, iterationDuration, computationDuration)
}

func (pm *pipelineMeasure) AfterSink(stage *model.StageInfo, totalDuration time.Duration) error {
	return pm.AfterStage(stage, totalDuration)
}

func (pm *pipelineMeasure) Finish() error {
	return pm.AfterStage(model.EndStage, time.Since(pm.startTime))
}

// PipelineMeasure records the timings of every stage into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
