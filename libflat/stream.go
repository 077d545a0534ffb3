package libflat

import (
	"fmt"
	"io"
	"strings"

	"github.com/flat-structures/flat.SDK/goflat"
)

// ConnectionStream carries saddle connections through a channel pipeline.
// Streams exist for composing output stages; the surface itself must stay
// quiescent while a stream drains.
type ConnectionStream[T goflat.Elem[T]] struct {
	Outlet chan *SaddleConnection[T]
}

func NewConnectionStream[T goflat.Elem[T]]() *ConnectionStream[T] {
	return &ConnectionStream[T]{
		Outlet: make(chan *SaddleConnection[T], 1),
	}
}

func (stream *ConnectionStream[T]) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// Stream drains the query through a channel.  The query should be bounded,
// otherwise the stream never closes.
func (sc *SaddleConnections[T]) Stream() *ConnectionStream[T] {
	next := NewConnectionStream[T]()
	go func() {
		it := sc.Iterate()
		for {
			c, ok := it.Next()
			if !ok {
				break
			}
			next.Outlet <- c
		}
		next.Close()
	}()
	return next
}

// Stream drains the by-length sequence through a channel.
func (by *SaddleConnectionsByLength[T]) Stream() *ConnectionStream[T] {
	next := NewConnectionStream[T]()
	go func() {
		it := by.Iterate()
		for {
			c, ok := it.Next()
			if !ok {
				break
			}
			next.Outlet <- c
		}
		next.Close()
	}()
	return next
}

// PullAll drains the stream and returns how many connections passed.
func (stream *ConnectionStream[T]) PullAll() int {
	count := 0
	for range stream.Outlet {
		count++
	}
	return count
}

// Print formats each connection onto out as it passes through.
func (stream *ConnectionStream[T]) Print(out io.Writer, opts goflat.PrintOpts) *ConnectionStream[T] {
	next := NewConnectionStream[T]()

	go func() {
		buf := strings.Builder{}
		buf.Grow(128)

		count := 0
		for c := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
				buf.WriteByte(',')
			}
			count++
			if opts.Numbered {
				fmt.Fprintf(&buf, "%06d,", count)
			}
			fmt.Fprintf(&buf, "%s -> %s", c.Source(), c.Target())
			if opts.Vectors {
				fmt.Fprintf(&buf, ",%s", c.Vector())
			}
			if opts.Chain {
				fmt.Fprintf(&buf, ",%s", c.Chain())
			}
			buf.WriteByte('\n')
			io.WriteString(out, buf.String())
			buf.Reset()
			next.Outlet <- c
		}
		next.Close()
	}()

	return next
}
