package session

import (
	"sync"
	"time"
)

// generationSteps are the labels cycled while a model call is in flight, so
// the UI shows movement during a long request.
var generationSteps = []string{
	"Analyzing requirements...",
	"Defining component schema...",
	"Generating responsive Tailwind layout...",
	"Applying polished UI styling...",
}

const exportStep = "Syncing to GitHub..."

const defaultStepInterval = 2500 * time.Millisecond

// progress holds the current step label and rotates through a label list on
// a fixed interval. It is safe for concurrent use.
type progress struct {
	mu    sync.Mutex
	label string
	stop  chan struct{}
}

// set replaces the label with a single static value, stopping any rotation.
func (p *progress) set(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.label = label
}

// startRotation shows labels[0] immediately and advances through labels
// modulo their count every interval until stopped.
func (p *progress) startRotation(labels []string, interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	p.label = labels[0]
	stop := make(chan struct{})
	p.stop = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		idx := 1
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				p.mu.Lock()
				// A tick can race a concurrent stop; only write while
				// this rotation is still the active one.
				if p.stop == stop {
					p.label = labels[idx%len(labels)]
				}
				p.mu.Unlock()
				idx++
			}
		}
	}()
}

// stopRotation halts the ticker and clears the label. Safe to call twice.
func (p *progress) stopRotation() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.label = ""
}

func (p *progress) stopLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// current returns the label to display, or "" when nothing is running.
func (p *progress) current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.label
}

// running reports whether a rotation goroutine is active.
func (p *progress) running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}
