package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineStageOption
	pipelineSinkOption

	// Finish runs after the pipeline is finished.
	Finish() error
}

// pipelineStageOption defines the interface for stage options at the pipeline level.
type pipelineStageOption interface {
	// PrepareStage runs when the stage is added to the pipeline.
	PrepareStage(parentStage, stage *StageInfo) error
	// OnStageOutput runs everytime the stage has written the result of one field.
	OnStageOutput(parentStage, stage *StageInfo, iterationDuration, computationDuration time.Duration) error
	// AfterStage runs once the stage has closed its output.
	AfterStage(stage *StageInfo, totalDuration time.Duration) error
}

// pipelineSinkOption defines the interface for sink options at the pipeline level.
type pipelineSinkOption interface {
	// PrepareSink runs when the sink is added to the pipeline.
	PrepareSink(parentStage, stage *StageInfo) error
	// OnSinkOutput runs everytime the sink has consumed one field.
	OnSinkOutput(parentStage, stage *StageInfo, iterationDuration, computationDuration time.Duration) error
	// AfterSink runs once the sink has flushed.
	AfterSink(stage *StageInfo, totalDuration time.Duration) error
}
