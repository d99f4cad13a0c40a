package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/doeshing/asoforge/internal/ports"
)

// Spinner displays an animated spinner during streaming calls, with an
// optional activity label fed by tool start/complete events.
type Spinner struct {
	frames   []string
	interval time.Duration
	writer   io.Writer

	mu       sync.Mutex
	label    string
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

var _ ports.ProgressIndicator = (*Spinner)(nil)

// NewSpinner creates a spinner writing to stderr so it never mixes with
// rendered content.
func NewSpinner() *Spinner {
	return &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 80 * time.Millisecond,
		writer:   os.Stderr,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.label = ""
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		idx := 0
		for {
			select {
			case <-s.stopChan:
				fmt.Fprintf(s.writer, "\r\033[K")
				return
			default:
				s.mu.Lock()
				label := s.label
				s.mu.Unlock()
				fmt.Fprintf(s.writer, "\r\033[K%s %s", s.frames[idx%len(s.frames)], label)
				idx++
				time.Sleep(s.interval)
			}
		}
	}()
}

// SetLabel updates the activity label shown next to the spinner. An empty
// label reverts to the bare spinner.
func (s *Spinner) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopChan := s.stopChan
	s.mu.Unlock()

	close(stopChan)
	s.wg.Wait()
}
