package drawer

import (
	"time"

	"github.com/askiada/go-decom/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStage adds a stage to the pipeline drawer.
	AddStage(stageName string) error
	// AddLink adds a link between a stage and the stage reading its output.
	AddLink(parentStageName, childStageName string) error
	// Draw writes the pipeline graph.
	Draw() error
	// SetTotalTime labels the stage with the time elapsed since startTime.
	SetTotalTime(stageName string, startTime time.Time) error
	// AddMeasure adds a measure to the pipeline drawer.
	AddMeasure(measure measure.Measure) error
}
