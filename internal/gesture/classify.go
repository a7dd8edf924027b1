package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// IsThumbsUp reports whether any hand shows a thumbs-up: thumb tip above the
// index knuckle, which is above the index fingertip (smaller y is higher).
func IsThumbsUp(hands []detector.HandLandmarks) bool {
	for i := range hands {
		p := &hands[i].Points
		if p[detector.ThumbTip].Y < p[detector.IndexMCP].Y && p[detector.IndexMCP].Y < p[detector.IndexTip].Y {
			return true
		}
	}
	return false
}

// PinchDistance is the normalized distance between thumb tip and index
// fingertip.
func PinchDistance(hand *detector.HandLandmarks) float64 {
	return detector.Distance2D(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
}

// Intensity maps a pinch distance to clamp(round(d*100), 0, 100).
func Intensity(distance float64) int {
	if math.IsNaN(distance) || distance <= 0 {
		return 0
	}
	if distance >= 1 {
		return 100
	}
	return ClampIntensity(int(math.Round(distance * 100)))
}
