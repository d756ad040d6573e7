package pipeline

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorChans(t *testing.T) {
	t.Parallel()

	ecs := errorChans{}
	ec1 := &errorChan{}
	ec2 := &errorChan{}
	doneChan := make(chan struct{}, 2)

	go func() {
		ecs.add(ec1)

		doneChan <- struct{}{}
	}()

	go func() {
		ecs.add(ec2)

		doneChan <- struct{}{}
	}()

	<-doneChan
	<-doneChan
	assert.ElementsMatch(t, []*errorChan{ec1, ec2}, ecs.list)
}

var (
	errSource = errors.New("source failed")
	errSink   = errors.New("sink failed")
)

func TestMergeErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		withNil bool
	}{
		"every stage reports": {},
		"one stage never set": {withNil: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			chan1 := make(chan error)
			chan2 := make(chan error)
			ecs := []*errorChan{newErrorChan("source", chan1), newErrorChan("sink", chan2)}

			if tc.withNil {
				ecs = append(ecs, newErrorChan("unset", nil))
			}

			go func() {
				defer close(chan1)
				defer close(chan2)

				chan1 <- errSource

				chan2 <- errSink
			}()

			gotErrs := []error{}
			for err := range mergeErrors(ecs...) {
				gotErrs = append(gotErrs, err)
			}

			sort.Slice(gotErrs, func(i, j int) bool {
				return gotErrs[i].Error() < gotErrs[j].Error()
			})

			require.Len(t, gotErrs, 2)
			require.ErrorIs(t, gotErrs[0], errSink)
			assert.Contains(t, gotErrs[0].Error(), "sink:")
			require.ErrorIs(t, gotErrs[1], errSource)
			assert.Contains(t, gotErrs[1].Error(), "source:")
		})
	}
}

func TestWaitForPipelineWaitsForEveryStage(t *testing.T) {
	t.Parallel()

	failed := make(chan error, 1)
	slow := make(chan error)
	released := make(chan struct{})

	failed <- errSource
	close(failed)

	go func() {
		<-released
		close(slow)
	}()

	done := make(chan error, 1)

	go func() {
		done <- waitForPipeline(newErrorChan("source", failed), newErrorChan("sink", slow))
	}()

	select {
	case <-done:
		t.Fatal("returned before every stage finished")
	default:
	}

	close(released)
	require.ErrorIs(t, <-done, errSource)
}

func TestWaitForPipelineNoError(t *testing.T) {
	t.Parallel()

	c := make(chan error)
	close(c)

	require.NoError(t, waitForPipeline(newErrorChan("stage", c), newErrorChan("unset", nil)))
}
