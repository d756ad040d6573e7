package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-decom/pkg/pipe"
	"github.com/askiada/go-decom/pkg/pipeline/model"
	"github.com/askiada/go-decom/pkg/wire"
)

func createInputStage(t *testing.T, name string, fields []wire.Field, tail []byte) *model.Stage {
	t.Helper()

	input, err := pipe.New(16)
	require.NoError(t, err)

	go func() {
		defer input.Close()

		for _, f := range fields {
			_ = wire.Write(input, f)
		}

		_, _ = input.Write(tail)
	}()

	return &model.Stage{Output: input, Details: &model.StageInfo{Name: name}}
}

func createOutputStage(t *testing.T, name string) *model.Stage {
	t.Helper()

	output, err := pipe.New(16)
	require.NoError(t, err)

	return &model.Stage{Output: output, Details: &model.StageInfo{Name: name}}
}

func processOutputPipe(t *testing.T, output *pipe.Pipe) []wire.Field {
	t.Helper()

	res := []wire.Field{}

	for {
		f, err := wire.Read(output)
		if err != nil {
			return res
		}

		res = append(res, f)
	}
}

func fieldsUpTo(total int) []wire.Field {
	fields := make([]wire.Field, 0, total)
	for i := range total {
		fields = append(fields, wire.Field{Tag: wire.Tag(i % 5), Value: uint64(i)})
	}

	return fields
}
