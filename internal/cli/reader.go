package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

type line struct {
	text string
	err  error
}

// NonBlockingReader reads lines from a reader that may block forever (a
// terminal) while letting the caller give up through its context.
//
// A single goroutine owns the underlying reader and hands lines over one at
// a time, so a line typed after a cancelled prompt is delivered to the next
// ReadLine instead of being lost.
type NonBlockingReader struct {
	reader *bufio.Reader
	start  sync.Once
	lines  chan line
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}
	return &NonBlockingReader{
		reader: bufio.NewReader(reader),
		lines:  make(chan line),
	}
}

func (r *NonBlockingReader) pump() {
	defer close(r.lines)
	for {
		text, err := r.reader.ReadString('\n')
		if text != "" {
			r.lines <- line{text: text}
		}
		if err != nil {
			r.lines <- line{err: err}
			return
		}
	}
}

// ReadLine returns the next line without surrounding whitespace. It returns
// ErrInputCancelled when ctx ends first and io.EOF once the input is exhausted.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case l, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(l.text), l.err
	}
}
