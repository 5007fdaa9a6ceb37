package grove

import "time"

// frameGate advances a looping frame index on wall-clock time, so playback
// speed does not depend on how often it is stepped.
type frameGate struct {
	frame int
	last  time.Time
}

// advance moves the gate forward by as many whole frame durations as have
// elapsed since the last change. It reports whether the frame changed.
func (g *frameGate) advance(now time.Time, d time.Duration, n int) bool {
	if n <= 1 || d <= 0 {
		return false
	}
	elapsed := now.Sub(g.last)
	if elapsed < d {
		return false
	}
	steps := int(elapsed / d)
	g.frame = (g.frame + steps) % n
	g.last = g.last.Add(time.Duration(steps) * d)
	return steps%n != 0
}

// animator owns one frameGate per animated entry. The clock is injectable so
// tests can drive playback without sleeping.
type animator[K comparable] struct {
	now   func() time.Time
	gates map[K]*frameGate
}

func newAnimator[K comparable](now func() time.Time) animator[K] {
	if now == nil {
		now = time.Now
	}
	return animator[K]{now: now, gates: make(map[K]*frameGate)}
}

// frame returns the current frame for key, starting its gate on first use.
func (a *animator[K]) frame(key K) int {
	return a.gate(key).frame
}

func (a *animator[K]) gate(key K) *frameGate {
	g, ok := a.gates[key]
	if !ok {
		g = &frameGate{last: a.now()}
		a.gates[key] = g
	}
	return g
}

// step advances key's gate against now and returns its frame and whether
// the frame changed.
func (a *animator[K]) step(key K, now time.Time, d time.Duration, n int) (int, bool) {
	g := a.gate(key)
	changed := g.advance(now, d, n)
	return g.frame, changed
}

// forget drops key's gate; the next use restarts at frame 0.
func (a *animator[K]) forget(key K) {
	delete(a.gates, key)
}

// reset drops every gate.
func (a *animator[K]) reset() {
	clear(a.gates)
}
