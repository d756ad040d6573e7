package pipeline

import "github.com/askiada/go-decom/pkg/pipeline/model"

// StageOption configures a stage when it is added to the pipeline.
type StageOption func(s *model.StageInfo)

// StageCapacity sets the capacity in bytes of the pipe the stage writes to.
func StageCapacity(capacity int) StageOption {
	return func(s *model.StageInfo) {
		s.Capacity = capacity
	}
}
