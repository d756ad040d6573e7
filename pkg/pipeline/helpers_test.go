package pipeline_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/askiada/go-decom/pkg/wire"
)

func writeFields(total int) func(ctx context.Context, output io.Writer) error {
	return func(_ context.Context, output io.Writer) error {
		for i := range total {
			err := wire.Write(output, wire.Field{Tag: wire.Tag(i % 3), Value: uint64(i)})
			if err != nil {
				return err
			}
		}

		return nil
	}
}

type collector struct {
	mu     sync.Mutex
	values []uint64
	failAt int
}

func (c *collector) Consume(_ context.Context, field wire.Field) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failAt > 0 && len(c.values) == c.failAt {
		return errConsume
	}

	c.values = append(c.values, field.Value)

	return nil
}

func (c *collector) Flush(context.Context) error {
	return nil
}

func (c *collector) got(t *testing.T) []uint64 {
	t.Helper()

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.values
}

func sequence(total int) []uint64 {
	res := make([]uint64, 0, total)
	for i := range total {
		res = append(res, uint64(i))
	}

	return res
}
