package display

import "bytes"

// Size is a grid size in character cells.
type Size struct {
	Width, Height int
}

// Recorder is a headless sink. It replays a scripted size sequence and keeps
// every flushed frame.
type Recorder struct {
	// Sizes is returned by successive Size calls; the last entry repeats.
	Sizes []Size
	// SizeErr, when set, is returned by Size.
	SizeErr error
	// WriteErr, when set, is returned by writes.
	WriteErr error

	Frames    []string // Flushed frames, oldest first
	SizeCalls int

	cur bytes.Buffer
}

// NewRecorder creates a recorder reporting sizes in order.
func NewRecorder(sizes ...Size) *Recorder {
	return &Recorder{Sizes: sizes}
}

// Size implements Sink.
func (r *Recorder) Size() (int, int, error) {
	if r.SizeErr != nil {
		return 0, 0, r.SizeErr
	}
	if len(r.Sizes) == 0 {
		return 0, 0, nil
	}
	s := r.Sizes[min(r.SizeCalls, len(r.Sizes)-1)]
	r.SizeCalls++
	return s.Width, s.Height, nil
}

// WriteByte implements Sink.
func (r *Recorder) WriteByte(c byte) error {
	if r.WriteErr != nil {
		return r.WriteErr
	}
	return r.cur.WriteByte(c)
}

// WriteLine implements Sink.
func (r *Recorder) WriteLine(line []byte) error {
	if r.WriteErr != nil {
		return r.WriteErr
	}
	_, err := r.cur.Write(line)
	return err
}

// Flush implements Flusher. Empty frames are recorded too.
func (r *Recorder) Flush() error {
	r.Frames = append(r.Frames, r.cur.String())
	r.cur.Reset()
	return nil
}

// Last returns the most recent frame, or "" if none was flushed.
func (r *Recorder) Last() string {
	if len(r.Frames) == 0 {
		return ""
	}
	return r.Frames[len(r.Frames)-1]
}
