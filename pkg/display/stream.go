package display

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
)

// SizeFunc reports a grid size.
type SizeFunc func() (width, height int, err error)

// TerminalSize returns a SizeFunc that queries the terminal on fd.
func TerminalSize(fd uintptr) SizeFunc {
	return func() (int, int, error) {
		w, h, err := term.GetSize(fd)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %w", ErrNotTerminal, err)
		}
		return w, h, nil
	}
}

// FixedSize returns a SizeFunc that always reports width x height.
func FixedSize(width, height int) SizeFunc {
	return func() (int, int, error) {
		return width, height, nil
	}
}

// Stream writes glyph bytes verbatim to an io.Writer.
type Stream struct {
	w    *bufio.Writer
	size SizeFunc
}

// NewStream wraps w. size supplies the grid dimensions each frame.
func NewStream(w io.Writer, size SizeFunc) *Stream {
	return &Stream{w: bufio.NewWriter(w), size: size}
}

// NewStdout returns a stream on standard output sized from the terminal.
func NewStdout() (*Stream, error) {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdout: %w", ErrNotTerminal)
	}
	return NewStream(os.Stdout, TerminalSize(fd)), nil
}

// Size implements Sink.
func (s *Stream) Size() (int, int, error) {
	return s.size()
}

// WriteByte implements Sink.
func (s *Stream) WriteByte(c byte) error {
	return s.w.WriteByte(c)
}

// WriteLine implements Sink.
func (s *Stream) WriteLine(line []byte) error {
	_, err := s.w.Write(line)
	return err
}

// Flush implements Flusher.
func (s *Stream) Flush() error {
	return s.w.Flush()
}
