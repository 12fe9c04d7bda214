package control

import (
	"math"

	"github.com/ayusman/gesturedrive/internal/detector"
)

// Pipeline turns one frame's hand landmarks into a ControlState. A Pipeline
// owns its smoothing and debounce state exclusively; it must only be used
// from a single goroutine.
type Pipeline struct {
	cfg Config

	prevSteering float64
	prevThrottle float64

	brake  debounce
	boost  debounce
	stable stability
}

// NewPipeline creates a Pipeline with the given configuration. Non-positive
// thresholds and exponents fall back to the defaults so a partially filled
// Config cannot disable the hysteresis entirely.
func NewPipeline(cfg Config) *Pipeline {
	def := DefaultConfig()
	if cfg.DebounceFrames <= 0 {
		cfg.DebounceFrames = def.DebounceFrames
	}
	if cfg.StabilityThreshold <= 0 {
		cfg.StabilityThreshold = def.StabilityThreshold
	}
	if cfg.SteeringArc <= 0 {
		cfg.SteeringArc = def.SteeringArc
	}
	if cfg.SteeringCurve <= 0 {
		cfg.SteeringCurve = def.SteeringCurve
	}
	if cfg.ThrottleCurve <= 0 {
		cfg.ThrottleCurve = def.ThrottleCurve
	}

	return &Pipeline{
		cfg:    cfg,
		brake:  debounce{threshold: cfg.DebounceFrames},
		boost:  debounce{threshold: cfg.DebounceFrames},
		stable: stability{threshold: cfg.StabilityThreshold},
	}
}

// Config returns the pipeline's effective configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Process consumes one tick's landmarks (pixel space, 21 points) and the
// frame dimensions, and produces the control state for that tick. A nil or
// short slice is the explicit "no hand" signal. Process never panics; any
// unusable input degrades to the no-hand path, holding the previous
// smoothed values.
func (p *Pipeline) Process(points []detector.Point, width, height int) ControlState {
	f := extractFeatures(points, width, height, p.cfg)
	if !f.valid {
		return p.processNoHand()
	}

	// Continuous controls are updated on every tick with a visible hand,
	// including ticks that resolve to a discrete gesture, so the smoothed
	// values stay current when driving resumes.
	rawSteering := steeringFromAngle(f.angle, p.cfg)
	rawThrottle := throttleFromHeight(f.wristY, height, p.cfg)
	if math.IsNaN(rawSteering) || math.IsNaN(rawThrottle) {
		return p.processNoHand()
	}

	steering := clamp(ema(p.prevSteering, rawSteering, p.cfg.SteeringSmoothing), -1, 1)
	throttle := clamp(ema(p.prevThrottle, rawThrottle, p.cfg.ThrottleSmoothing), 0, 1)
	p.prevSteering = steering
	p.prevThrottle = throttle

	// Raw gesture predicates for this tick.
	stopNow := f.allExtended && f.spread && f.palmFacing
	boostNow := f.thumbRaised && f.allCurled
	brakeNow := f.allCurled && !f.thumbRaised

	// The debounce machines observe the raw predicates every tick so
	// activation and decay advance even while a higher-priority gesture
	// wins the classification.
	brakeActive := p.brake.observe(brakeNow)
	boostActive := p.boost.observe(boostNow)

	state := ControlState{
		Steering: steering,
		Throttle: throttle,
	}

	// Classification: first match wins. The ordering makes the emergency
	// stop unambiguously override everything else.
	var cmd Command
	switch {
	case stopNow:
		state.Gesture = GestureOpenPalmStop
		state.GestureName = "Stop"
		cmd = CommandStop
	case boostNow:
		state.Gesture = GestureThumbUpBoost
		state.GestureName = "Boost"
		cmd = CommandForwardBoost
	case brakeNow:
		state.Gesture = GestureFistBrake
		state.GestureName = "Brake"
		cmd = CommandStop
	default:
		state.Gesture = GestureDriving
		switch {
		case steering < -p.cfg.SteeringDeadzone:
			state.GestureName = "Turning Left"
			cmd = CommandLeft
		case steering > p.cfg.SteeringDeadzone:
			state.GestureName = "Turning Right"
			cmd = CommandRight
		case throttle > p.cfg.MinForwardThrottle:
			state.GestureName = "Forward"
			cmd = CommandForward
		default:
			state.GestureName = "Forward"
			cmd = CommandStop
		}
	}

	// Forced outputs, same priority order. The stop gesture acts
	// immediately (no debounce) because it is the emergency path; brake
	// and boost act through their hysteresis.
	switch {
	case stopNow:
		state.Braking = true
		state.Throttle = 0
		state.Steering = 0
	case boostActive:
		state.Boost = true
		state.Throttle = 1
	case brakeActive:
		state.Braking = true
		state.Throttle = 0
	}

	state.StableCommand = p.stable.observe(cmd)
	return state
}

// processNoHand handles a tick without a usable hand: boost drops
// immediately, the brake decays through its hysteresis so a briefly lost
// hand does not release the brake, and the smoothed continuous values are
// held for the next detection.
func (p *Pipeline) processNoHand() ControlState {
	p.boost.reset()
	brakeActive := p.brake.observe(false)
	p.stable.reset()

	state := ControlState{
		Steering:    p.prevSteering,
		Throttle:    p.prevThrottle,
		Gesture:     GestureNoHand,
		GestureName: GestureNoHand.String(),
	}
	if brakeActive {
		state.Braking = true
		state.Throttle = 0
	}
	return state
}

// Reset clears all smoothing and debounce state, as on detector
// re-initialization.
func (p *Pipeline) Reset() {
	p.prevSteering = 0
	p.prevThrottle = 0
	p.brake.reset()
	p.boost.reset()
	p.stable.reset()
}
