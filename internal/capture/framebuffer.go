package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// FrameBuffer holds a copy of the most recent frame the driving loop
// captured. The camera has a single reader (the loop); anything else
// that wants pixels, like the MJPEG preview stream, reads from here
// instead of competing for frames.
type FrameBuffer struct {
	mu    sync.Mutex
	frame gocv.Mat
	valid bool
}

// NewFrameBuffer creates an empty buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{frame: gocv.NewMat()}
}

// Update stores a copy of the frame as the latest. Nil or empty frames
// are ignored.
func (b *FrameBuffer) Update(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	frame.CopyTo(&b.frame)
	b.valid = true
}

// Latest returns a copy of the most recent frame; ok is false before the
// first update. The caller owns the returned Mat and must close it.
func (b *FrameBuffer) Latest() (*gocv.Mat, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.valid {
		return nil, false
	}
	frame := b.frame.Clone()
	return &frame, true
}

// Close releases the stored frame.
func (b *FrameBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frame.Close()
	b.valid = false
}
