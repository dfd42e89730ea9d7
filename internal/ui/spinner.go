package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on stderr while a long step runs, such as
// loading and indexing every .yy of a large project. On a non-terminal it
// prints the message once.
type Spinner struct {
	out     io.Writer
	animate bool

	mu      sync.Mutex
	message string

	stop chan struct{}
	done chan struct{}
}

// NewSpinner returns a spinner writing to stderr.
func NewSpinner(message string) *Spinner {
	return newSpinner(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()), message)
}

func newSpinner(out io.Writer, animate bool, message string) *Spinner {
	return &Spinner{out: out, animate: animate, message: message}
}

// Start begins animating. Calling Start twice has no effect.
func (s *Spinner) Start() {
	if !s.animate {
		fmt.Fprintf(s.out, "%s...\n", s.message)
		return
	}
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.done)
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-s.stop:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-tick.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()
			fmt.Fprintf(s.out, "\r\033[K%s %s", Bold.Render(spinnerFrames[frame%len(spinnerFrames)]), msg)
		}
	}
}

// Update replaces the status message.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
	if !s.animate {
		fmt.Fprintf(s.out, "%s...\n", message)
	}
}

// Stop clears the status line and waits for the animation to end.
func (s *Spinner) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
}
