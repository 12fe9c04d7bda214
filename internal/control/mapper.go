package control

import "math"

// steeringFromAngle maps the hand orientation angle onto [-1, 1]. Inside
// the angular window centered on NeutralAngle the mapping is linear; beyond
// it steering saturates. A power-law curve then flattens the response near
// center so small wobbles around straight-ahead steer proportionally less
// while full tilts still reach the extremes quickly.
func steeringFromAngle(angle float64, cfg Config) float64 {
	lo := cfg.NeutralAngle - cfg.SteeringArc
	hi := cfg.NeutralAngle + cfg.SteeringArc

	var raw float64
	switch {
	case angle < lo:
		raw = -1
	case angle > hi:
		raw = 1
	default:
		raw = (angle - cfg.NeutralAngle) / cfg.SteeringArc
	}

	return shapeCurve(raw, cfg.SteeringCurve)
}

// throttleFromHeight maps the wrist row onto [0, 1]: the higher the hand in
// the frame, the more throttle. The power curve keeps the response gentle
// near the bottom of the frame and increasingly sensitive toward the top.
func throttleFromHeight(wristY float64, height int, cfg Config) float64 {
	norm := 1 - wristY/float64(height)
	norm = clamp(norm, 0, 1)
	return math.Pow(norm, cfg.ThrottleCurve)
}

// shapeCurve applies a sign-preserving power law to v in [-1, 1].
func shapeCurve(v, exponent float64) float64 {
	if exponent <= 0 || exponent == 1 {
		return v
	}
	if v < 0 {
		return -math.Pow(-v, exponent)
	}
	return math.Pow(v, exponent)
}

// ema blends the previous smoothed value with the current raw sample.
// alpha is the weight of the previous value.
func ema(prev, raw, alpha float64) float64 {
	return prev*alpha + raw*(1-alpha)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
