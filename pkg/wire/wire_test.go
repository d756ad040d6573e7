package wire_test

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/askiada/go-decom/pkg/wire"
)

func TestAppendLayout(t *testing.T) {
	t.Parallel()

	got := wire.Append(nil, wire.Field{Tag: 0x01020304, Value: 0x1112131415161718})
	assert.Equal(t, []byte{
		0x01, 0x02, 0x03, 0x04,
		0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18,
	}, got)
}

func TestWriteRead(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		fields := rapid.SliceOf(rapid.Custom(func(t *rapid.T) wire.Field {
			return wire.Field{
				Tag:   wire.Tag(rapid.Uint32().Draw(t, "tag")),
				Value: rapid.Uint64().Draw(t, "value"),
			}
		})).Draw(t, "fields")

		buf := &bytes.Buffer{}
		for _, f := range fields {
			require.NoError(t, wire.Write(buf, f))
		}

		assert.Equal(t, len(fields)*wire.FieldSize, buf.Len())

		for _, expected := range fields {
			got, err := wire.Read(buf)
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		}

		_, err := wire.Read(buf)
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestReadDoubleBits(t *testing.T) {
	t.Parallel()

	raw := wire.Append(nil, wire.Field{Tag: 2, Value: math.Float64bits(3.14)})

	got, err := wire.Read(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(3.14), got.Value)
}

func TestReadTruncated(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		size int
	}{
		"tag only":      {size: wire.TagSize},
		"one byte":      {size: 1},
		"missing value": {size: wire.FieldSize - 1},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			raw := wire.Append(nil, wire.Field{Tag: 1, Value: 1})

			_, err := wire.Read(bytes.NewReader(raw[:tc.size]))
			require.ErrorIs(t, err, wire.ErrTruncatedField)
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	err := wire.Write(failingWriter{}, wire.Field{Tag: 4})
	require.ErrorIs(t, err, assert.AnError)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}
