package agent

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Stream yields the messages of one agent run in arrival order. It is
// consumed once:
//
//	for s.Next() {
//		switch m := s.Message().(type) { ... }
//	}
//	if err := s.Err(); err != nil { ... }
//
// When the output is exhausted the process is awaited; a nonzero exit is
// reported by Err even if a result message was already delivered.
type Stream struct {
	r    *bufio.Reader
	wait func() error
	msg  Message
	err  error
	done bool
}

// NewStream builds a stream over r. wait is called once after r is drained
// and its error becomes the stream's error; it may be nil.
func NewStream(r io.Reader, wait func() error) *Stream {
	return &Stream{r: bufio.NewReader(r), wait: wait}
}

// Next advances to the next decodable message. Lines that do not decode are
// skipped, and a trailing line without a newline is discarded.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	for {
		line, err := s.r.ReadBytes('\n')
		if err == nil {
			if msg, ok := DecodeLine(line); ok {
				s.msg = msg
				return true
			}
			continue
		}
		if !errors.Is(err, io.EOF) {
			s.err = fmt.Errorf("failed to read agent output: %w", err)
			io.Copy(io.Discard, s.r)
		}
		s.finish()
		return false
	}
}

// Message returns the message produced by the last call to Next.
func (s *Stream) Message() Message {
	return s.msg
}

// Err returns the read or exit error once Next has returned false.
func (s *Stream) Err() error {
	return s.err
}

// Close drains any unread output and waits for the process.
// Safe to call after the stream is exhausted.
func (s *Stream) Close() error {
	if !s.done {
		io.Copy(io.Discard, s.r)
		s.finish()
	}
	return s.err
}

func (s *Stream) finish() {
	s.done = true
	s.msg = nil
	if s.wait == nil {
		return
	}
	if err := s.wait(); err != nil && s.err == nil {
		s.err = err
	}
}
