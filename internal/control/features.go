package control

import (
	"math"

	"github.com/ayusman/gesturedrive/internal/detector"
)

// minPalmWidth floors the palm-width reference distance so that a hand
// collapsed to (near) a single point cannot cause a division by zero.
const minPalmWidth = 1e-6

// Per-finger extension factors for the stop-sign pose: a finger counts as
// extended when its tip-to-wrist distance exceeds factor * palm width.
// The outer fingers are anatomically shorter, hence the smaller factors.
const (
	thumbExtendFactor  = 0.5
	indexExtendFactor  = 0.8
	middleExtendFactor = 0.8
	ringExtendFactor   = 0.7
	pinkyExtendFactor  = 0.6
)

// features is the per-tick geometric summary of one hand. All distance
// based flags are normalized by the palm width (index-MCP to pinky-MCP) so
// that detection is invariant to how far the hand is from the camera.
type features struct {
	valid bool

	// angle is the hand orientation in degrees: the arctangent of the
	// index-MCP to pinky-MCP knuckle vector.
	angle float64

	// wristY is the wrist pixel row, used for throttle.
	wristY float64

	palmWidth float64

	// curled flags for index, middle, ring, pinky (tip close to own MCP).
	curled    [4]bool
	allCurled bool

	// thumbRaised is true when the thumb tip sits well above the wrist.
	thumbRaised bool

	// extended flags for thumb, index, middle, ring, pinky measured from
	// the wrist (the stop-sign style test).
	extended    [5]bool
	allExtended bool

	// spread is true when all adjacent fingertip pairs are apart.
	spread bool

	// palmFacing is true when the PIP row is wide, a cheap heuristic for
	// the palm being turned toward the camera rather than edge-on.
	palmFacing bool
}

// extractFeatures computes the feature bundle from pixel-space landmarks.
// It returns an invalid (neutral) bundle when fewer than 21 points are
// supplied or the geometry is degenerate; it never panics.
func extractFeatures(points []detector.Point, width, height int, cfg Config) features {
	var f features
	if len(points) < detector.NumLandmarks || width <= 0 || height <= 0 {
		return f
	}

	wrist := points[detector.Wrist]
	indexMCP := points[detector.IndexMCP]
	pinkyMCP := points[detector.PinkyMCP]

	f.palmWidth = detector.Distance(indexMCP, pinkyMCP)
	if f.palmWidth < minPalmWidth {
		f.palmWidth = minPalmWidth
	}

	// Hand orientation from the knuckle line. The index-to-pinky MCP
	// vector is far more stable frame to frame than any fingertip.
	f.angle = math.Atan2(pinkyMCP.Y-indexMCP.Y, pinkyMCP.X-indexMCP.X) * 180 / math.Pi
	f.wristY = wrist.Y

	tips := [4]detector.Point{
		points[detector.IndexTip],
		points[detector.MiddleTip],
		points[detector.RingTip],
		points[detector.PinkyTip],
	}
	mcps := [4]detector.Point{
		indexMCP,
		points[detector.MiddleMCP],
		points[detector.RingMCP],
		pinkyMCP,
	}

	f.allCurled = true
	for i := range tips {
		f.curled[i] = detector.Distance(tips[i], mcps[i])/f.palmWidth < cfg.CurlRatio
		if !f.curled[i] {
			f.allCurled = false
		}
	}

	thumbTip := points[detector.ThumbTip]
	f.thumbRaised = thumbTip.Y < wrist.Y-float64(height)*cfg.ThumbRaiseFraction

	factors := [5]float64{
		thumbExtendFactor,
		indexExtendFactor,
		middleExtendFactor,
		ringExtendFactor,
		pinkyExtendFactor,
	}
	wristDist := [5]float64{
		detector.Distance(thumbTip, wrist),
		detector.Distance(tips[0], wrist),
		detector.Distance(tips[1], wrist),
		detector.Distance(tips[2], wrist),
		detector.Distance(tips[3], wrist),
	}

	f.allExtended = true
	for i := range factors {
		f.extended[i] = wristDist[i] > factors[i]*f.palmWidth
		if !f.extended[i] {
			f.allExtended = false
		}
	}

	f.spread = true
	for i := 0; i < len(tips)-1; i++ {
		if detector.Distance(tips[i], tips[i+1]) <= cfg.SpreadRatio*f.palmWidth {
			f.spread = false
			break
		}
	}

	f.palmFacing = detector.Distance(points[detector.IndexPIP], points[detector.PinkyPIP]) > cfg.PalmFacingRatio*f.palmWidth

	// Reject degenerate geometry (NaN coordinates propagate through the
	// distance math) so the pipeline treats the tick as "no hand".
	if math.IsNaN(f.angle) || math.IsNaN(f.wristY) {
		return features{}
	}

	f.valid = true
	return f
}
