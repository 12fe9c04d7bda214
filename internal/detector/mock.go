package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// The preset hands below are laid out in normalized camera coordinates
// (origin top-left, y grows downward) and calibrated against a 640x480
// frame so that each pose triggers the matching control-pipeline gesture.

// OpenPalmLandmarks returns a hand with all five fingers extended and
// spread, palm facing the camera. This is the emergency-stop pose.
func OpenPalmLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point{X: 0.50, Y: 0.80}

	lm.Points[ThumbCMC] = Point{X: 0.44, Y: 0.74}
	lm.Points[ThumbMCP] = Point{X: 0.38, Y: 0.68}
	lm.Points[ThumbIP] = Point{X: 0.34, Y: 0.61}
	lm.Points[ThumbTip] = Point{X: 0.30, Y: 0.55}

	lm.Points[IndexMCP] = Point{X: 0.42, Y: 0.62}
	lm.Points[IndexPIP] = Point{X: 0.41, Y: 0.45}
	lm.Points[IndexDIP] = Point{X: 0.405, Y: 0.37}
	lm.Points[IndexTip] = Point{X: 0.40, Y: 0.30}

	lm.Points[MiddleMCP] = Point{X: 0.47, Y: 0.60}
	lm.Points[MiddlePIP] = Point{X: 0.47, Y: 0.44}
	lm.Points[MiddleDIP] = Point{X: 0.47, Y: 0.35}
	lm.Points[MiddleTip] = Point{X: 0.47, Y: 0.27}

	lm.Points[RingMCP] = Point{X: 0.52, Y: 0.61}
	lm.Points[RingPIP] = Point{X: 0.53, Y: 0.46}
	lm.Points[RingDIP] = Point{X: 0.535, Y: 0.38}
	lm.Points[RingTip] = Point{X: 0.54, Y: 0.30}

	lm.Points[PinkyMCP] = Point{X: 0.57, Y: 0.63}
	lm.Points[PinkyPIP] = Point{X: 0.59, Y: 0.48}
	lm.Points[PinkyDIP] = Point{X: 0.595, Y: 0.42}
	lm.Points[PinkyTip] = Point{X: 0.60, Y: 0.36}

	return lm
}

// FistLandmarks returns a closed fist with the thumb tucked alongside.
// All four fingertips sit close to their knuckles, which is the braking pose.
func FistLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point{X: 0.50, Y: 0.80}

	lm.Points[ThumbCMC] = Point{X: 0.45, Y: 0.75}
	lm.Points[ThumbMCP] = Point{X: 0.42, Y: 0.70}
	lm.Points[ThumbIP] = Point{X: 0.42, Y: 0.71}
	lm.Points[ThumbTip] = Point{X: 0.42, Y: 0.72}

	lm.Points[IndexMCP] = Point{X: 0.44, Y: 0.64}
	lm.Points[IndexPIP] = Point{X: 0.45, Y: 0.60}
	lm.Points[IndexDIP] = Point{X: 0.455, Y: 0.66}
	lm.Points[IndexTip] = Point{X: 0.45, Y: 0.70}

	lm.Points[MiddleMCP] = Point{X: 0.48, Y: 0.63}
	lm.Points[MiddlePIP] = Point{X: 0.48, Y: 0.59}
	lm.Points[MiddleDIP] = Point{X: 0.48, Y: 0.65}
	lm.Points[MiddleTip] = Point{X: 0.48, Y: 0.69}

	lm.Points[RingMCP] = Point{X: 0.52, Y: 0.64}
	lm.Points[RingPIP] = Point{X: 0.52, Y: 0.60}
	lm.Points[RingDIP] = Point{X: 0.52, Y: 0.66}
	lm.Points[RingTip] = Point{X: 0.52, Y: 0.70}

	lm.Points[PinkyMCP] = Point{X: 0.56, Y: 0.66}
	lm.Points[PinkyPIP] = Point{X: 0.55, Y: 0.63}
	lm.Points[PinkyDIP] = Point{X: 0.55, Y: 0.68}
	lm.Points[PinkyTip] = Point{X: 0.55, Y: 0.71}

	return lm
}

// ThumbsUpLandmarks returns a fist with the thumb raised well above the
// wrist, which is the boost pose.
func ThumbsUpLandmarks() HandLandmarks {
	lm := FistLandmarks()

	lm.Points[ThumbCMC] = Point{X: 0.46, Y: 0.74}
	lm.Points[ThumbMCP] = Point{X: 0.48, Y: 0.68}
	lm.Points[ThumbIP] = Point{X: 0.50, Y: 0.61}
	lm.Points[ThumbTip] = Point{X: 0.52, Y: 0.55}

	return lm
}

// PointingLandmarks returns a hand with index and middle fingers extended
// and the rest curled, roughly upright. It matches no discrete gesture and
// exercises the continuous steering/throttle path.
func PointingLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point{X: 0.50, Y: 0.80}

	lm.Points[ThumbCMC] = Point{X: 0.49, Y: 0.77}
	lm.Points[ThumbMCP] = Point{X: 0.48, Y: 0.76}
	lm.Points[ThumbIP] = Point{X: 0.475, Y: 0.755}
	lm.Points[ThumbTip] = Point{X: 0.47, Y: 0.75}

	lm.Points[IndexMCP] = Point{X: 0.56, Y: 0.72}
	lm.Points[IndexPIP] = Point{X: 0.54, Y: 0.58}
	lm.Points[IndexDIP] = Point{X: 0.52, Y: 0.44}
	lm.Points[IndexTip] = Point{X: 0.50, Y: 0.30}

	lm.Points[MiddleMCP] = Point{X: 0.555, Y: 0.67}
	lm.Points[MiddlePIP] = Point{X: 0.545, Y: 0.54}
	lm.Points[MiddleDIP] = Point{X: 0.537, Y: 0.41}
	lm.Points[MiddleTip] = Point{X: 0.53, Y: 0.28}

	lm.Points[RingMCP] = Point{X: 0.55, Y: 0.62}
	lm.Points[RingPIP] = Point{X: 0.565, Y: 0.645}
	lm.Points[RingDIP] = Point{X: 0.563, Y: 0.66}
	lm.Points[RingTip] = Point{X: 0.56, Y: 0.67}

	lm.Points[PinkyMCP] = Point{X: 0.54, Y: 0.57}
	lm.Points[PinkyPIP] = Point{X: 0.555, Y: 0.595}
	lm.Points[PinkyDIP] = Point{X: 0.553, Y: 0.61}
	lm.Points[PinkyTip] = Point{X: 0.55, Y: 0.62}

	return lm
}
