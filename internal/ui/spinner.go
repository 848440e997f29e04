package ui

import (
	"fmt"
	"sync"
	"time"
)

var brailleFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// elapsedAfter is how long a spinner runs before it shows elapsed time.
const elapsedAfter = time.Second

// Spinner shows that a request is in flight.
type Spinner struct {
	start    time.Time
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// StartSpinner shows msg with an animated indicator until Stop is called.
// Once the spinner has run for a second the line also shows the elapsed
// time, e.g. "  ⠹ Calling eth_call on sepolia (2.4s)". Without a terminal
// the message is printed once as "  msg...".
func (u *UI) StartSpinner(msg string) *Spinner {
	s := &Spinner{
		start:   time.Now(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	if !u.isTTY {
		u.printf("  %s...\n", msg)
		close(s.stopped)
		return s
	}

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.done:
				_, _ = fmt.Fprint(u.out, "\r\033[K")
				return
			case <-ticker.C:
				line := "  " + brailleFrames[i%len(brailleFrames)] + " " + msg
				if d := time.Since(s.start); d >= elapsedAfter {
					line += u.render(u.styles.faint, fmt.Sprintf(" (%.1fs)", d.Seconds()))
				}
				_, _ = fmt.Fprint(u.out, "\r"+line)
			}
		}
	}()
	return s
}

// Stop clears the spinner line and returns how long the spinner ran. It is
// safe to call more than once.
func (s *Spinner) Stop() time.Duration {
	s.stopOnce.Do(func() { close(s.done) })
	<-s.stopped
	return time.Since(s.start)
}
