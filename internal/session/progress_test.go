package session

import (
	"testing"
	"time"
)

func TestProgress_RotatesThroughLabels(t *testing.T) {
	var p progress
	p.startRotation([]string{"one", "two"}, 2*time.Millisecond)
	defer p.stopRotation()

	if got := p.current(); got != "one" {
		t.Errorf("initial label = %q, want one", got)
	}
	waitFor(t, func() bool { return p.current() == "two" }, "label to advance")
	// Labels wrap around instead of stopping at the last one.
	waitFor(t, func() bool { return p.current() == "one" }, "label to wrap")
}

func TestProgress_StopIsIdempotent(t *testing.T) {
	var p progress
	p.startRotation(generationSteps, time.Millisecond)
	p.stopRotation()
	p.stopRotation()

	if p.running() {
		t.Error("running after stop")
	}
	if got := p.current(); got != "" {
		t.Errorf("label = %q after stop, want empty", got)
	}
}

func TestProgress_SetStaticLabel(t *testing.T) {
	var p progress
	p.startRotation(generationSteps, time.Millisecond)
	p.set(exportStep)

	if p.running() {
		t.Error("rotation should stop when a static label is set")
	}
	if got := p.current(); got != exportStep {
		t.Errorf("label = %q, want %q", got, exportStep)
	}
}
