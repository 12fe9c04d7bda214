package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func testFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()

	frames := make([]*gocv.Mat, n)
	for i := range frames {
		mat := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
		frames[i] = &mat
	}
	t.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})
	return frames
}

func TestMockCamera_Playback(t *testing.T) {
	cam := NewMockCamera(testFrames(t, 3), false)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() before Open error = %v, want ErrCameraNotOpen", err)
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: ReadFrame() failed: %v", i, err)
		}
		frame.Close()
	}

	// Non-looping playback runs dry after the last frame.
	if _, err := cam.ReadFrame(); err == nil {
		t.Error("ReadFrame() after last frame succeeded, want error")
	}
}

func TestMockCamera_Loop(t *testing.T) {
	cam := NewMockCamera(testFrames(t, 2), true)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	for i := 0; i < 7; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: ReadFrame() failed: %v", i, err)
		}
		frame.Close()
	}
}

func TestMockCamera_Reset(t *testing.T) {
	cam := NewMockCamera(testFrames(t, 1), false)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	frame, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	frame.Close()

	cam.Reset()

	frame, err = cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after Reset failed: %v", err)
	}
	frame.Close()
}

func TestMockCamera_FPS(t *testing.T) {
	cam := NewMockCamera(nil, false)

	if got := cam.FPS(); got != ActiveFPS {
		t.Errorf("FPS() = %d, want %d", got, ActiveFPS)
	}

	cam.SetFPS(IdleFPS)
	if got := cam.FPS(); got != IdleFPS {
		t.Errorf("FPS() = %d after SetFPS, want %d", got, IdleFPS)
	}

	cam.SetFPS(0)
	if got := cam.FPS(); got != IdleFPS {
		t.Errorf("FPS() = %d after SetFPS(0), want unchanged %d", got, IdleFPS)
	}
}
