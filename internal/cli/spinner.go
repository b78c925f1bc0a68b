package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// spinnerFrames is the braille animation shared by the spinner and the
// watch dashboard.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a progress line on stderr while a fit or bench run
// works. It stops on Stop or when its context is cancelled, and clears
// the line it drew on either way.
//
// The animation goroutine is the only writer; Stop waits for it to exit
// before returning, so no locking is needed.
type Spinner struct {
	message string
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	idle    chan struct{}
}

// newSpinnerWithContext creates a spinner bound to ctx.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		out:     os.Stderr,
		ctx:     sctx,
		cancel:  cancel,
		idle:    make(chan struct{}),
	}
}

// Start begins drawing. Call Stop or one of its variants to release the
// line again.
func (s *Spinner) Start() {
	go func() {
		defer close(s.idle)
		defer s.clearLine()

		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				glyph := spinnerFrames[frame%len(spinnerFrames)]
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.message))
			}
		}
	}()
}

// Stop halts the animation and waits for the line to be cleared. Safe to
// call more than once.
func (s *Spinner) Stop() {
	s.cancel()
	<-s.idle
}

func (s *Spinner) clearLine() {
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
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

// Cancelled reports whether the spinner's context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
