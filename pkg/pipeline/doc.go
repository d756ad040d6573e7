// Package pipeline runs a chain of stages connected by bounded byte pipes.
//
// A root stage produces raw bytes, every following stage reads fixed width fields from the
// pipe of the stage before it, transforms them and writes the result to its own pipe, and a
// sink consumes the fields of the last pipe. Each stage runs in its own goroutine and only
// the pipes synchronise them: a full pipe stalls its producer, an empty one stalls its
// consumer.
//
// There is no cancellation. A stage stops when its input pipe reaches the end of the stream,
// flushes what it still holds and closes its output, so the end of the stream travels down
// the pipeline. A stage failing on anything else stops the same way after a best effort
// flush, then drains its input so the stage before it is never left blocked. Run waits for
// every stage and returns the first error.
package pipeline
