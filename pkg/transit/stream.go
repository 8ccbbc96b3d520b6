package transit

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Stream is a lazy sequence of newline delimited JSON records. Each record
// is normalized before it is handed out. The response body is released on
// exhaustion, on the first error and on Close.
//
// A Stream is consumed by one goroutine; Close may be called from another
// one to abort a blocked read.
type Stream struct {
	body       io.ReadCloser
	r          *bufio.Reader
	url        string
	shape      Shape
	normalizer Normalizer
	logger     *slog.Logger

	cur     Normalized
	err     error
	eof     bool
	done    bool
	records int

	closed    atomic.Bool
	closeOnce sync.Once
}

func newStream(body io.ReadCloser, url string, shape Shape, n Normalizer, logger *slog.Logger) *Stream {
	return &Stream{
		body:       body,
		r:          bufio.NewReader(body),
		url:        url,
		shape:      shape,
		normalizer: n,
		logger:     logger,
	}
}

// Next advances to the next record. It returns false when the stream is
// exhausted, failed or closed; Err tells which.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	if s.eof {
		s.finish(nil)
		return false
	}

	for {
		line, err := s.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			if s.closed.Load() {
				s.finish(nil)
			} else {
				s.finish(&TransportError{URL: s.url, Err: err})
			}
			return false
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err == io.EOF {
				s.finish(nil)
				return false
			}
			continue
		}

		rec, nerr := s.normalizer.Normalize(line, s.shape)
		if nerr != nil {
			s.finish(nerr)
			return false
		}
		s.cur = rec
		s.records++
		s.eof = err == io.EOF
		return true
	}
}

// Raw returns the current normalized record.
func (s *Stream) Raw() Normalized { return s.cur }

// Decode unmarshals the current record into v.
func (s *Stream) Decode(v any) error {
	if s.cur == nil {
		return &DecodeError{Err: errors.New("no current record")}
	}
	return s.cur.Decode(v)
}

// Err returns the error that ended the stream, if any.
func (s *Stream) Err() error { return s.err }

// Close releases the underlying connection. It is safe to call more than
// once and after the stream ended on its own.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		err = s.body.Close()
	})
	return err
}

// Records yields every remaining record and, last, the error that ended
// the stream. Breaking out of the loop closes the stream.
func (s *Stream) Records() iter.Seq2[Normalized, error] {
	return func(yield func(Normalized, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.cur, nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Each decodes every remaining record of s into a T.
func Each[T any](s *Stream) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for rec, err := range s.Records() {
			var v T
			if err == nil {
				err = rec.Decode(&v)
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains s into a slice. It is meant for finite streams.
func Collect[T any](s *Stream) ([]T, error) {
	var out []T
	for v, err := range Each[T](s) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Stream) finish(err error) {
	s.done = true
	s.err = err
	s.cur = nil
	if cerr := s.Close(); cerr != nil && err == nil {
		s.logger.Debug("closing stream body", "error", cerr)
	}
	s.logger.Debug("transit stream closed", "url", s.url, "records", s.records, "error", err)
}
