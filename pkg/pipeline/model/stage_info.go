package model

import "github.com/askiada/go-decom/pkg/pipe"

type stageType string

const (
	RootStageType   stageType = "root"
	NormalStageType stageType = "stage"
	SinkStageType   stageType = "sink"
)

// StageInfo describes a stage to the pipeline options.
type StageInfo struct {
	Type     stageType
	Name     string
	Capacity int
}

var (
	StartStage = &StageInfo{Name: "start"}
	EndStage   = &StageInfo{Name: "end"}
)

// Stage is a running stage as seen by the stage reading from it.
type Stage struct {
	// Output is the pipe the stage writes to. It is nil for a sink.
	Output  *pipe.Pipe
	Details *StageInfo
}
