package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// motionBlurSize is the Gaussian kernel applied before differencing.
	motionBlurSize = 21
	// motionDiffThreshold binarizes the per-pixel difference.
	motionDiffThreshold = 25
	// DefaultMotionHold is how many frames the gate stays open after the
	// last frame with motion.
	DefaultMotionHold = 30
)

// MotionGate decides whether a frame is worth sending to the landmark
// provider. A frame passes when enough pixels changed since the previous
// frame, or when motion was seen within the last hold frames. A gate with a
// threshold <= 0 passes every frame.
type MotionGate struct {
	threshold float64 // percent of pixels that must change
	hold      int
	sinceMove int
	prevGray  gocv.Mat
	primed    bool
	mu        sync.Mutex
}

// NewMotionGate creates a gate. threshold is a percentage: 1.0 means 1% of
// the pixels must change. hold <= 0 selects DefaultMotionHold.
func NewMotionGate(threshold float64, hold int) *MotionGate {
	if hold <= 0 {
		hold = DefaultMotionHold
	}
	return &MotionGate{
		threshold: threshold,
		hold:      hold,
		sinceMove: hold,
		prevGray:  gocv.NewMat(),
	}
}

// Enabled reports whether the gate filters anything at all.
func (g *MotionGate) Enabled() bool {
	return g != nil && g.threshold > 0
}

// Allow reports whether frame should be processed.
func (g *MotionGate) Allow(frame *gocv.Mat) bool {
	if !g.Enabled() {
		return true
	}

	moved, _ := g.Detect(frame)

	g.mu.Lock()
	defer g.mu.Unlock()
	if moved {
		g.sinceMove = 0
		return true
	}
	if g.sinceMove < g.hold {
		g.sinceMove++
		return true
	}
	return false
}

// Detect compares frame with the previous one and returns whether motion was
// detected together with the percentage of changed pixels. The first frame
// only primes the baseline.
func (g *MotionGate) Detect(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(motionBlurSize, motionBlurSize), 0, 0, gocv.BorderDefault)

	if !g.primed {
		blurred.CopyTo(&g.prevGray)
		g.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, motionDiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0

	blurred.CopyTo(&g.prevGray)

	return changed > g.threshold, changed
}

// Close releases the baseline Mat.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clear()
}

func (g *MotionGate) clear() {
	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.primed = false
	g.sinceMove = g.hold
}
