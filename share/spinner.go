package share

import (
	"fmt"
	"strings"
	"sync"
)

// spinnerWidth is the number of marker positions in the ring.
const spinnerWidth = 10

// Spinner is the shared transfer-progress indicator: a fixed ring of
// marker positions advanced one step per progress tick from any task. It is
// one process-wide animation, not a per-file progress bar, so concurrent
// tasks interleave their ticks and the percentage shown is whichever task
// ticked last.
type Spinner struct {
	mu   sync.Mutex
	pos  int
	last string
}

func NewSpinner() *Spinner {
	return &Spinner{}
}

// Tick advances the ring and renders the frame. With a determinate total it
// appends floor(loaded/total*100) percent; otherwise only the ring renders.
func (s *Spinner) Tick(loaded, total int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = (s.pos + 1) % spinnerWidth
	var b strings.Builder
	for i := 0; i < spinnerWidth; i++ {
		if i == s.pos {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
	}
	frame := b.String()
	if total > 0 {
		frame = fmt.Sprintf("%s %d%%", frame, loaded*100/total)
	}
	s.last = frame
	return frame
}

// Frame returns the most recently rendered frame.
func (s *Spinner) Frame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
