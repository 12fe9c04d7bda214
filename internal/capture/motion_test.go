package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func solidFrame(t *testing.T, value float64) *gocv.Mat {
	t.Helper()

	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(value, value, value, 0),
		120, 160, gocv.MatTypeCV8UC3,
	)
	t.Cleanup(func() { mat.Close() })
	return &mat
}

func TestMotionDetector_FirstFrameSeedsBaseline(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	detected, percent := md.Detect(solidFrame(t, 0))
	if detected {
		t.Error("motion detected on baseline frame")
	}
	if percent != 0 {
		t.Errorf("changePercent = %v on baseline frame, want 0", percent)
	}
}

func TestMotionDetector_StaticScene(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.Detect(solidFrame(t, 128))
	detected, percent := md.Detect(solidFrame(t, 128))
	if detected {
		t.Errorf("motion detected on identical frame (%.2f%% changed)", percent)
	}
}

func TestMotionDetector_SceneChange(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.Detect(solidFrame(t, 0))
	detected, percent := md.Detect(solidFrame(t, 255))
	if !detected {
		t.Errorf("no motion detected on full scene change (%.2f%% changed)", percent)
	}
	if percent < 90 {
		t.Errorf("changePercent = %v on full change, want near 100", percent)
	}
}

func TestMotionDetector_NilAndEmptyFrames(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if detected, _ := md.Detect(nil); detected {
		t.Error("motion detected on nil frame")
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if detected, _ := md.Detect(&empty); detected {
		t.Error("motion detected on empty frame")
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.Detect(solidFrame(t, 0))
	md.Reset()

	// After a reset the next frame is a fresh baseline, so even a big
	// scene change must not register.
	detected, _ := md.Detect(solidFrame(t, 255))
	if detected {
		t.Error("motion detected on first frame after Reset")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	// An absurdly high threshold suppresses even a full scene change.
	md.SetThreshold(101)
	md.Detect(solidFrame(t, 0))
	if detected, _ := md.Detect(solidFrame(t, 255)); detected {
		t.Error("motion detected despite threshold above 100%")
	}

	// Non-positive values leave the threshold untouched.
	md.SetThreshold(0)
	if detected, _ := md.Detect(solidFrame(t, 0)); detected {
		t.Error("threshold dropped by SetThreshold(0)")
	}
}
