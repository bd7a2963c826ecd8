package pose

import (
	"errors"

	"github.com/gwillem/handpose/pkg/hand"
)

// ErrFrameCount is returned when fewer than two frames are requested.
var ErrFrameCount = errors.New("frame count must be at least 2")

// Lerp interpolates component-wise between a and b. p=0 yields a and p=1
// yields b exactly.
func Lerp(a, b hand.AngleVector, p float64) hand.AngleVector {
	var v hand.AngleVector
	for i := range v {
		v[i] = a[i]*(1-p) + b[i]*p
	}
	return v
}

// Progress returns the fraction of the transition completed at frame.
func Progress(frame, frames int) float64 {
	return float64(frame) / float64(frames-1)
}

// Interpolate returns one pose per frame, from initial at frame 0 to final
// at frame frames-1.
func Interpolate(initial, final hand.AngleVector, frames int) ([]hand.AngleVector, error) {
	if frames < 2 {
		return nil, ErrFrameCount
	}
	track := make([]hand.AngleVector, frames)
	for f := range track {
		track[f] = Lerp(initial, final, Progress(f, frames))
	}
	return track, nil
}
