package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a one-line status message with the elapsed time until
// it is stopped or its context ends.
type Spinner struct {
	message string
	out     io.Writer

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	start   time.Time
	started bool
	once    sync.Once
	mu      sync.Mutex // serializes writes to out
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		out:     os.Stderr,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation. Call it at most once.
func (s *Spinner) Start() {
	s.start = time.Now()
	s.started = true
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) draw(frame string) {
	elapsed := time.Since(s.start).Truncate(100 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message), StyleDim.Render(elapsed.String()))
}

// Stop ends the animation and clears the line. Extra calls do nothing.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+16))
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context is done, either through
// its parent or because Stop was called.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
