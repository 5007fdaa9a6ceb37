package grove

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestFrameGate_WaitsForDuration(t *testing.T) {
	clk := newFakeClock()
	g := frameGate{last: clk.Now()}

	clk.Advance(99 * time.Millisecond)
	if g.advance(clk.Now(), 100*time.Millisecond, 4) {
		t.Error("advanced before the frame duration elapsed")
	}
	clk.Advance(time.Millisecond)
	if !g.advance(clk.Now(), 100*time.Millisecond, 4) || g.frame != 1 {
		t.Errorf("frame = %d, want 1", g.frame)
	}
}

func TestFrameGate_FrameRateIndependent(t *testing.T) {
	// Stepping at 30 and 144 updates per second over one second must land
	// on the same frame.
	for _, hz := range []int{30, 60, 144} {
		clk := newFakeClock()
		g := frameGate{last: clk.Now()}
		step := time.Second / time.Duration(hz)
		for range hz {
			clk.Advance(step)
			g.advance(clk.Now(), 100*time.Millisecond, 8)
		}
		clk.Advance(time.Second - step*time.Duration(hz))
		g.advance(clk.Now(), 100*time.Millisecond, 8)
		if g.frame != 10%8 {
			t.Errorf("%d Hz: frame = %d, want %d", hz, g.frame, 10%8)
		}
	}
}

func TestFrameGate_CatchesUpAfterStall(t *testing.T) {
	clk := newFakeClock()
	g := frameGate{last: clk.Now()}
	clk.Advance(350 * time.Millisecond)
	g.advance(clk.Now(), 100*time.Millisecond, 10)
	if g.frame != 3 {
		t.Errorf("frame = %d, want 3", g.frame)
	}
	// The 50ms remainder carries over.
	clk.Advance(50 * time.Millisecond)
	g.advance(clk.Now(), 100*time.Millisecond, 10)
	if g.frame != 4 {
		t.Errorf("frame = %d, want 4", g.frame)
	}
}

func TestFrameGate_SingleFrameNeverAdvances(t *testing.T) {
	clk := newFakeClock()
	g := frameGate{last: clk.Now()}
	clk.Advance(time.Second)
	if g.advance(clk.Now(), 100*time.Millisecond, 1) {
		t.Error("single-frame animation advanced")
	}
}

func TestAnimator_ForgetRestarts(t *testing.T) {
	clk := newFakeClock()
	a := newAnimator[string](clk.Now)
	if a.frame("torch") != 0 {
		t.Fatal("new gate should start at 0")
	}
	clk.Advance(250 * time.Millisecond)
	if f, changed := a.step("torch", clk.Now(), 100*time.Millisecond, 4); f != 2 || !changed {
		t.Errorf("step = %d, %v; want 2, true", f, changed)
	}
	a.forget("torch")
	if a.frame("torch") != 0 {
		t.Error("forget should restart at frame 0")
	}
}
