package control

// debounce is the hysteresis state machine for one discrete gesture. The
// counter rises by one per tick while the raw predicate holds (capped at
// the threshold) and falls by one otherwise. The active flag turns on only
// when the counter reaches the threshold and off only when it drains to
// zero; in between the previous value is latched. A gesture therefore has
// to be seen for N consecutive frames to activate, and survives brief
// dropouts for up to N-1 frames before releasing.
type debounce struct {
	threshold int
	count     int
	active    bool
}

// observe feeds one tick's raw predicate and returns the debounced state.
func (d *debounce) observe(hit bool) bool {
	if hit {
		if d.count < d.threshold {
			d.count++
		}
	} else if d.count > 0 {
		d.count--
	}

	switch d.count {
	case d.threshold:
		d.active = true
	case 0:
		d.active = false
	}
	return d.active
}

// reset drops the gesture immediately, as when the hand disappears.
func (d *debounce) reset() {
	d.count = 0
	d.active = false
}

// stability tracks how many consecutive ticks produced the same discrete
// command. Downstream actuators only ever see a command once it has been
// the classifier's output for threshold ticks in a row, which throttles
// datagram traffic to a physical car and suppresses oscillation.
type stability struct {
	threshold int
	last      Command
	count     int
}

// observe records this tick's command and returns it once stable,
// CommandNone otherwise.
func (s *stability) observe(cmd Command) Command {
	if cmd == s.last {
		s.count++
	} else {
		s.last = cmd
		s.count = 1
	}
	if s.count >= s.threshold {
		return s.last
	}
	return CommandNone
}

// reset clears the run, as when the hand disappears.
func (s *stability) reset() {
	s.last = CommandNone
	s.count = 0
}
