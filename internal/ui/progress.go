package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Spinner shows an animated status line for long operations. It only
// animates when colors are supported; otherwise Stop prints the final line.
type Spinner struct {
	w         io.Writer
	frames    []string
	current   int
	message   string
	startTime time.Time
	animate   bool
	stop      chan struct{}
	done      chan struct{}
	stopped   bool
	mu        sync.Mutex
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message: message,
		animate: supportsColor,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	s.mu.Lock()
	s.startTime = time.Now()
	s.mu.Unlock()

	if !s.animate {
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.w, "\r%s %s %s",
					ColorProgress(s.frames[s.current]),
					s.message,
					strings.Repeat(" ", 20),
				)
				s.current = (s.current + 1) % len(s.frames)
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation and prints the outcome with the elapsed time.
func (s *Spinner) Stop(success bool, message string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stop)
	<-s.done

	if s.animate {
		fmt.Fprint(s.w, "\r\033[K")
	}

	mark := ColorSuccess("✓")
	if !success {
		mark = ColorError("✗")
	}
	fmt.Fprintf(s.w, "%s %s (%s)\n", mark, message, formatDuration(time.Since(s.startTime)))
}

// UpdateMessage updates the spinner message
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
