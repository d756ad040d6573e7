// Package pipe provides a bounded, blocking byte pipe connecting two pipeline stages.
//
// A Pipe has exactly one producer and one consumer. The producer blocks while the buffer is
// full, the consumer blocks while it is empty. When the producer is done it calls Close, and
// the consumer keeps reading the buffered bytes until the pipe is drained, at which point
// reads fail with ErrEndOfStream.
package pipe

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

// DefaultCapacity is the buffer size used when a stage does not ask for another one.
const DefaultCapacity = 4096

var (
	// ErrEndOfStream is returned by reads once the pipe is closed and empty.
	// It is io.EOF so a Pipe can be handed to anything expecting an io.Reader.
	ErrEndOfStream = io.EOF
	// ErrWriteAfterClose is returned when the producer writes to a pipe it already closed.
	ErrWriteAfterClose = errors.New("write after end of stream")
	// ErrAlreadyClosed is returned by a second call to Close.
	ErrAlreadyClosed = errors.New("end of stream already signaled")
	// ErrInvalidCapacity is returned by New for a capacity lower than 1.
	ErrInvalidCapacity = errors.New("capacity must be greater than 0")
)

// Pipe is a fixed capacity ring buffer of bytes.
type Pipe struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	buf      []byte
	head     int
	size     int
	closed   bool
}

// New creates a pipe able to buffer capacity bytes.
func New(capacity int) (*Pipe, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}

	p := &Pipe{
		buf: make([]byte, capacity),
	}
	p.notEmpty = sync.NewCond(&p.mu)
	p.notFull = sync.NewCond(&p.mu)

	return p, nil
}

// WriteByte appends one byte, blocking while the pipe is full.
func (p *Pipe) WriteByte(c byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.size == len(p.buf) && !p.closed {
		p.notFull.Wait()
	}

	if p.closed {
		return ErrWriteAfterClose
	}

	p.push(c)
	p.notEmpty.Signal()

	return nil
}

// ReadByte removes the oldest byte, blocking while the pipe is empty and still open.
func (p *Pipe) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.size == 0 && !p.closed {
		p.notEmpty.Wait()
	}

	if p.size == 0 {
		return 0, ErrEndOfStream
	}

	c := p.pop()
	p.notFull.Signal()

	return c, nil
}

// Write buffers all of b, blocking as often as needed for the consumer to free space.
func (p *Pipe) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	written := 0
	for written < len(b) {
		for p.size == len(p.buf) && !p.closed {
			p.notFull.Wait()
		}

		if p.closed {
			return written, ErrWriteAfterClose
		}

		for written < len(b) && p.size < len(p.buf) {
			p.push(b[written])
			written++
		}

		p.notEmpty.Signal()
	}

	return written, nil
}

// Read copies up to len(b) buffered bytes into b. It blocks until at least one byte is
// available and returns ErrEndOfStream once the pipe is closed and drained.
func (p *Pipe) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for p.size == 0 && !p.closed {
		p.notEmpty.Wait()
	}

	if p.size == 0 {
		return 0, ErrEndOfStream
	}

	n := 0
	for n < len(b) && p.size > 0 {
		b[n] = p.pop()
		n++
	}

	p.notFull.Signal()

	return n, nil
}

// Close signals the end of the stream. It must be called exactly once, by the producer,
// after its last write.
func (p *Pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrAlreadyClosed
	}

	p.closed = true
	p.notEmpty.Broadcast()
	p.notFull.Broadcast()

	return nil
}

// Drain discards everything until the end of the stream and returns the number of bytes
// dropped. A consumer that gives up calls it so its producer is never left blocked.
func (p *Pipe) Drain() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	dropped := 0
	for {
		for p.size == 0 && !p.closed {
			p.notEmpty.Wait()
		}

		if p.size == 0 {
			return dropped
		}

		dropped += p.size
		p.head = 0
		p.size = 0
		p.notFull.Signal()
	}
}

// Len returns the number of buffered bytes.
func (p *Pipe) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.size
}

// Cap returns the capacity of the pipe.
func (p *Pipe) Cap() int {
	return len(p.buf)
}

func (p *Pipe) push(c byte) {
	p.buf[(p.head+p.size)%len(p.buf)] = c
	p.size++
}

func (p *Pipe) pop() byte {
	c := p.buf[p.head]
	p.head = (p.head + 1) % len(p.buf)
	p.size--

	return c
}

var (
	_ io.ReadWriteCloser = (*Pipe)(nil)
	_ io.ByteReader      = (*Pipe)(nil)
	_ io.ByteWriter      = (*Pipe)(nil)
)
