package sink_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/askiada/go-decom/pkg/sink"
)

func TestXLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.xlsx")

	s, err := sink.NewXLSX(path)
	require.NoError(t, err)
	require.NoError(t, s.EmitFrame(context.Background(), rawFrame(100)))
	require.NoError(t, s.EmitFrame(context.Background(), correctedFrame(99.5)))
	require.NoError(t, s.Close())

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = file.Close() })

	rows, err := file.GetRows(sink.RecordsSheet)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		sink.Header,
		{formattedFrameTime, "12.5", "100", "-3.25", "60"},
		{formattedFrameTime, "12.5", "99.5*", "-3.25", "60"},
	}, rows)
}

func TestXLSXInvalidPath(t *testing.T) {
	t.Parallel()

	s, err := sink.NewXLSX(filepath.Join(t.TempDir(), "missing", "out.xlsx"))
	require.NoError(t, err)
	require.Error(t, s.Close())
}
