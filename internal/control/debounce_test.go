package control

import "testing"

func TestDebounce_ActivatesOnThreshold(t *testing.T) {
	d := debounce{threshold: 3}

	// Two consecutive hits (threshold-1) must never activate.
	if d.observe(true) {
		t.Error("active after 1 hit, want inactive")
	}
	if d.observe(true) {
		t.Error("active after 2 hits, want inactive")
	}

	// The third consecutive hit activates on that same tick.
	if !d.observe(true) {
		t.Error("inactive after 3 hits, want active")
	}
}

func TestDebounce_NearMissNeverActivates(t *testing.T) {
	d := debounce{threshold: 3}

	// Repeated bursts of threshold-1 hits separated by misses: the
	// counter decays by one per miss, so it can creep upward, but a
	// single miss between bursts keeps it below the threshold here.
	for cycle := 0; cycle < 5; cycle++ {
		d.observe(true)
		if d.observe(false) {
			t.Fatalf("cycle %d: activated without %d consecutive hits", cycle, d.threshold)
		}
	}
}

func TestDebounce_DecayKeepsGestureActive(t *testing.T) {
	d := debounce{threshold: 3}
	for i := 0; i < 3; i++ {
		d.observe(true)
	}
	if !d.active {
		t.Fatal("gesture should be active after threshold hits")
	}

	// Once active, the gesture survives threshold-1 misses before
	// releasing on the tick the counter drains to zero.
	if !d.observe(false) {
		t.Error("deactivated after 1 miss, want latched active")
	}
	if !d.observe(false) {
		t.Error("deactivated after 2 misses, want latched active")
	}
	if d.observe(false) {
		t.Error("still active after 3 misses, want inactive")
	}
}

func TestDebounce_LatchesBetweenBounds(t *testing.T) {
	d := debounce{threshold: 3}
	for i := 0; i < 3; i++ {
		d.observe(true)
	}

	// Alternating miss/hit keeps the counter strictly between 0 and the
	// threshold; the active flag must hold its last value throughout.
	for i := 0; i < 6; i++ {
		if !d.observe(i%2 == 0) {
			t.Fatalf("tick %d: active flag dropped while counter latched", i)
		}
	}
}

func TestDebounce_Reset(t *testing.T) {
	d := debounce{threshold: 3}
	for i := 0; i < 3; i++ {
		d.observe(true)
	}

	d.reset()

	if d.active {
		t.Error("active after reset")
	}
	if d.count != 0 {
		t.Errorf("count = %d after reset, want 0", d.count)
	}
}

func TestStability_ExposesCommandAfterRun(t *testing.T) {
	s := stability{threshold: 3}

	if got := s.observe(CommandLeft); got != CommandNone {
		t.Errorf("1st tick: got %q, want none", got)
	}
	if got := s.observe(CommandLeft); got != CommandNone {
		t.Errorf("2nd tick: got %q, want none", got)
	}
	if got := s.observe(CommandLeft); got != CommandLeft {
		t.Errorf("3rd tick: got %q, want %q", got, CommandLeft)
	}

	// Still stable while the run continues.
	if got := s.observe(CommandLeft); got != CommandLeft {
		t.Errorf("4th tick: got %q, want %q", got, CommandLeft)
	}
}

func TestStability_ResetsOnLabelChange(t *testing.T) {
	s := stability{threshold: 3}
	for i := 0; i < 3; i++ {
		s.observe(CommandForward)
	}

	// A different label restarts the run from 1.
	if got := s.observe(CommandStop); got != CommandNone {
		t.Errorf("after change: got %q, want none", got)
	}
	s.observe(CommandStop)
	if got := s.observe(CommandStop); got != CommandStop {
		t.Errorf("after 3 STOPs: got %q, want %q", got, CommandStop)
	}
}
