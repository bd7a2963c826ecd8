package scene

import "math"

// Quat is a rotation quaternion stored as (w, x, y, z).
type Quat [4]float64

// Identity is the rest rotation.
var Identity = Quat{1, 0, 0, 0}

// Components of a Quat.
const (
	W = iota
	X
	Y
	Z
)

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
