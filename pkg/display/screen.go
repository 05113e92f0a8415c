package display

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

// Screen writes frames into an ultraviolet cell grid. When it owns a
// terminal, the grid is displayed on every Flush.
type Screen struct {
	scr  uv.Screen
	term *uv.Terminal

	x, y          int
	width, height int
}

// NewScreen wraps an existing cell grid. Its size is the grid's bounds.
func NewScreen(scr uv.Screen) *Screen {
	return &Screen{scr: scr}
}

// OpenTerminal takes over the controlling terminal: alt screen, hidden
// cursor. Call Close to restore it.
func OpenTerminal(logger uv.Logger) (*Screen, error) {
	t := uv.DefaultTerminal()
	if logger != nil {
		t.SetLogger(logger)
	}

	width, height, err := t.GetSize()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotTerminal, err)
	}
	if err := t.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	t.EnterAltScreen()
	t.HideCursor()
	if err := t.Resize(width, height); err != nil {
		return nil, fmt.Errorf("resize terminal: %w", err)
	}

	return &Screen{scr: t, term: t, width: width, height: height}, nil
}

// Size implements Sink. A terminal is queried directly and the cell grid is
// resized to match whenever the window size changed.
func (s *Screen) Size() (int, int, error) {
	if s.term == nil {
		b := s.scr.Bounds()
		return b.Dx(), b.Dy(), nil
	}

	w, h, err := s.term.GetSize()
	if err != nil {
		return 0, 0, err
	}
	if w != s.width || h != s.height {
		s.term.Erase()
		if err := s.term.Resize(w, h); err != nil {
			return 0, 0, err
		}
		s.width, s.height = w, h
	}
	return w, h, nil
}

func (s *Screen) set(c byte) {
	s.scr.SetCell(s.x, s.y, &uv.Cell{Content: string(rune(c)), Width: 1})
	s.x++
}

// WriteByte implements Sink. '\n' moves to the start of the next row.
func (s *Screen) WriteByte(c byte) error {
	if c == '\n' {
		s.x = 0
		s.y++
		return nil
	}
	s.set(c)
	return nil
}

// WriteLine implements Sink.
func (s *Screen) WriteLine(line []byte) error {
	for _, c := range line {
		s.set(c)
	}
	return nil
}

// Flush implements Flusher. It rewinds to the top-left cell and, for a
// terminal, renders the changed cells.
func (s *Screen) Flush() error {
	s.x, s.y = 0, 0
	if s.term == nil {
		return nil
	}
	return s.term.Display()
}

// Watch cancels the run when the user presses ctrl+c, escape or q. It
// returns once ctx is done. Only terminal-backed screens produce events.
func (s *Screen) Watch(ctx context.Context, cancel context.CancelFunc) {
	if s.term == nil {
		return
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-s.term.Events():
				if !ok {
					return
				}
				if key, isKey := ev.(uv.KeyPressEvent); isKey && key.MatchString("ctrl+c", "escape", "q") {
					cancel()
					return
				}
			}
		}
	}()
}

// Close restores the terminal.
func (s *Screen) Close() error {
	if s.term == nil {
		return nil
	}
	s.term.ExitAltScreen()
	s.term.ShowCursor()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return s.term.Shutdown(ctx)
}
