// Package display provides the character sinks frames are written to.
package display

import "errors"

// ErrNotTerminal is returned when output is not attached to a terminal and
// no explicit size was given.
var ErrNotTerminal = errors.New("not a terminal")

// Sink receives finished frames one row at a time. Rows are separated by a
// single '\n' written with WriteByte; no newline precedes the first row.
type Sink interface {
	// Size reports the current grid size in character cells.
	Size() (width, height int, err error)
	WriteByte(c byte) error
	WriteLine(line []byte) error
}

// Flusher is implemented by sinks that buffer output. Flush is called once
// per frame after the last row.
type Flusher interface {
	Flush() error
}
