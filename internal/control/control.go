// Package control converts per-frame hand landmarks into car control signals.
//
// The pipeline is synchronous and pull-based: the application loop calls
// Process once per frame with the landmarks of the tracked hand (or nil when
// no hand is visible) and consumes the returned ControlState. All smoothing
// and debounce state lives inside the Pipeline instance.
package control

// Gesture identifies the discrete hand pose recognized on a tick.
// Exactly one gesture is active per tick.
type Gesture int

const (
	// GestureNoHand means no hand was detected (or the input was unusable).
	GestureNoHand Gesture = iota
	// GestureDriving means the hand is steering; continuous controls apply.
	GestureDriving
	// GestureFistBrake is a closed fist: brake.
	GestureFistBrake
	// GestureOpenPalmStop is an open spread palm facing the camera:
	// emergency stop. It overrides every other gesture.
	GestureOpenPalmStop
	// GestureThumbUpBoost is a fist with the thumb raised: boost.
	GestureThumbUpBoost
)

// String returns the display name of the gesture.
func (g Gesture) String() string {
	switch g {
	case GestureDriving:
		return "Driving"
	case GestureFistBrake:
		return "Brake"
	case GestureOpenPalmStop:
		return "Stop"
	case GestureThumbUpBoost:
		return "Boost"
	default:
		return "No hand detected"
	}
}

// Command is the discrete token sent to a physical car over the datagram
// link. Commands are only exposed downstream once they have been stable for
// Config.StabilityThreshold consecutive ticks.
type Command string

const (
	CommandNone         Command = ""
	CommandForward      Command = "FORWARD"
	CommandLeft         Command = "LEFT"
	CommandRight        Command = "RIGHT"
	CommandStop         Command = "STOP"
	CommandForwardBoost Command = "FORWARD_BOOST"
)

// ControlState is the control signal produced for one tick. It is emitted
// fresh each tick and consumed once by the car model (and optionally the
// remote link via StableCommand).
type ControlState struct {
	// Steering is the smoothed steering value in [-1, 1]
	// (-1 full left, 1 full right).
	Steering float64 `json:"steering"`

	// Throttle is the smoothed throttle value in [0, 1].
	Throttle float64 `json:"throttle"`

	// Braking is true while the brake is applied (fist or stop gesture,
	// including the debounce decay window).
	Braking bool `json:"braking"`

	// Boost is true while the boost gesture is active.
	Boost bool `json:"boost"`

	// Gesture is the pose recognized on this tick.
	Gesture Gesture `json:"-"`

	// GestureName is the display label for Gesture, with the steering
	// direction folded in while driving.
	GestureName string `json:"gesture_name"`

	// StableCommand is the discrete command once it has been produced for
	// StabilityThreshold consecutive ticks, CommandNone otherwise.
	StableCommand Command `json:"stable_command,omitempty"`
}

// Config holds every tunable of the pipeline. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// SteeringSmoothing is the EMA weight given to the previous steering
	// value (higher = smoother, slower).
	SteeringSmoothing float64

	// ThrottleSmoothing is the EMA weight given to the previous throttle value.
	ThrottleSmoothing float64

	// SteeringCurve is the power-law exponent reshaping raw steering so
	// small deviations near center steer proportionally less.
	SteeringCurve float64

	// ThrottleCurve is the power-law exponent applied to the normalized
	// hand height.
	ThrottleCurve float64

	// NeutralAngle is the hand orientation (degrees) mapped to steering 0.
	NeutralAngle float64

	// SteeringArc is the half-width (degrees) of the angular window mapped
	// onto the full steering range; outside it steering saturates.
	SteeringArc float64

	// SteeringDeadzone is the |steering| above which the discrete command
	// becomes LEFT or RIGHT instead of FORWARD.
	SteeringDeadzone float64

	// MinForwardThrottle is the throttle below which the discrete command
	// while driving straight is STOP rather than FORWARD.
	MinForwardThrottle float64

	// DebounceFrames is the number of consecutive frames a brake or boost
	// predicate must hold before the gesture activates, and the length of
	// the decay window once it releases.
	DebounceFrames int

	// StabilityThreshold is the number of consecutive identical commands
	// required before StableCommand is exposed.
	StabilityThreshold int

	// CurlRatio: a finger counts as curled when its tip-to-MCP distance is
	// below this fraction of the palm width.
	CurlRatio float64

	// SpreadRatio: adjacent fingertips count as spread when their distance
	// exceeds this fraction of the palm width.
	SpreadRatio float64

	// PalmFacingRatio: the palm counts as facing the camera when the
	// index-PIP to pinky-PIP distance exceeds this fraction of the palm width.
	PalmFacingRatio float64

	// ThumbRaiseFraction: the thumb counts as raised when its tip is above
	// the wrist by more than this fraction of the frame height.
	ThumbRaiseFraction float64
}

// DefaultConfig returns the tuning used by the desktop demo.
func DefaultConfig() Config {
	return Config{
		SteeringSmoothing:  0.5,
		ThrottleSmoothing:  0.4,
		SteeringCurve:      1.5,
		ThrottleCurve:      1.5,
		NeutralAngle:       -90,
		SteeringArc:        45,
		SteeringDeadzone:   0.3,
		MinForwardThrottle: 0.1,
		DebounceFrames:     3,
		StabilityThreshold: 3,
		CurlRatio:          0.45,
		SpreadRatio:        0.2,
		PalmFacingRatio:    0.6,
		ThumbRaiseFraction: 0.10,
	}
}
