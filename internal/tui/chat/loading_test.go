package chat

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
)

func TestLoadingIndicatorLifecycle(t *testing.T) {
	l := newLoadingIndicator()
	if l.Active() {
		t.Fatal("indicator should start inactive")
	}
	if l.Frame() != "⣷" {
		t.Fatalf("first frame = %q", l.Frame())
	}

	start := l.Start()
	if start == nil {
		t.Fatal("Start should schedule a tick")
	}
	if l.Start() != nil {
		t.Fatal("second Start should be a no-op")
	}

	tick, ok := start().(spinner.TickMsg)
	if !ok {
		t.Fatal("expected a spinner tick")
	}
	if !l.Owns(tick) {
		t.Fatal("indicator should own its own tick")
	}

	frames := []string{l.Frame()}
	for range len(loadingFrames.Frames) {
		if l.Update(tick) == nil {
			t.Fatal("active indicator should keep ticking")
		}
		frames = append(frames, l.Frame())
	}
	if frames[0] != frames[len(frames)-1] {
		t.Fatalf("frames should cycle back to the start: %v", frames)
	}

	l.Stop()
	if l.Update(tick) != nil {
		t.Fatal("stopped indicator must not tick")
	}
}

func TestLoadingIndicatorIgnoresOtherSpinners(t *testing.T) {
	a := newLoadingIndicator()
	b := newLoadingIndicator()
	a.Start()
	tick, _ := b.Start()().(spinner.TickMsg)

	if a.Owns(tick) {
		t.Fatal("tick of another indicator must not be owned")
	}
	if a.Update(tick) != nil {
		t.Fatal("foreign tick must be dropped")
	}
	if a.Frame() != "⣷" {
		t.Fatalf("frame advanced to %q", a.Frame())
	}
}
