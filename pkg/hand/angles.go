package hand

import (
	"encoding/json"
	"fmt"
)

// AngleVector holds one angle in degrees per joint, in joint order.
type AngleVector [NumJoints]float64

// Map returns the vector keyed by joint.
func (v AngleVector) Map() map[Joint]float64 {
	m := make(map[Joint]float64, NumJoints)
	for _, j := range AllJoints() {
		m[j] = v[j]
	}
	return m
}

// Range is the legal angle interval of a joint, in degrees.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Contains reports whether deg lies in [Min, Max].
func (r Range) Contains(deg float64) bool {
	return deg >= r.Min && deg <= r.Max
}

// Normalize converts an angle in degrees to a normalized value in the range [-100, 100].
func (r Range) Normalize(deg float64) float64 {
	span := r.Span()
	if span == 0 {
		return 0
	}
	return ((deg-r.Min)/span)*200 - 100
}

// Denormalize converts a normalized value [-100, 100] to degrees.
func (r Range) Denormalize(norm float64) float64 {
	return (norm+100)/200*r.Span() + r.Min
}

// Bounds holds the sampling range of every joint, in joint order.
type Bounds [NumJoints]Range

// DefaultBounds returns the joint limits of the stock hand rig.
func DefaultBounds() Bounds {
	return Bounds{
		WristHorizontal: {Min: -10, Max: 10},
		WristVertical:   {Min: -30, Max: 30},
		Thumb:           {Min: -5, Max: 40},
		IndexFinger:     {Min: -5, Max: 40},
		MiddleFinger:    {Min: -5, Max: 40},
		RingFinger:      {Min: -5, Max: 40},
		Pinky:           {Min: -5, Max: 40},
	}
}

// Validate checks that every range is ordered.
func (b Bounds) Validate() error {
	for _, j := range AllJoints() {
		if b[j].Min > b[j].Max {
			return fmt.Errorf("bounds %s: min %g exceeds max %g", j, b[j].Min, b[j].Max)
		}
	}
	return nil
}

// MarshalJSON encodes the bounds as an object keyed by joint name.
func (b Bounds) MarshalJSON() ([]byte, error) {
	m := make(map[Joint]Range, NumJoints)
	for _, j := range AllJoints() {
		m[j] = b[j]
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes an object keyed by joint name. Joints missing from
// the object keep their current range.
func (b *Bounds) UnmarshalJSON(data []byte) error {
	var m map[Joint]Range
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for j, r := range m {
		b[j] = r
	}
	return nil
}

// FlexPolicy holds the thresholds used when sampling finger flex. Each of
// the middle, ring and pinky joints gets one uniform draw t: t < Extended
// straightens the joint to 0, Extended <= t < Flexed bends it to its max
// bound.
type FlexPolicy struct {
	Extended float64 `json:"extended"`
	Flexed   float64 `json:"flexed"`
	// Ordered is the chance the outer fingers are made at least as flexed
	// as their inner neighbour.
	Ordered float64 `json:"ordered"`
}

// DefaultFlexPolicy returns the stock finger flex thresholds.
func DefaultFlexPolicy() FlexPolicy {
	return FlexPolicy{
		Extended: 0.4,
		Flexed:   0.6,
		Ordered:  0.8,
	}
}

// Validate checks the thresholds are in range and ordered.
func (p FlexPolicy) Validate() error {
	for name, v := range map[string]float64{"extended": p.Extended, "flexed": p.Flexed, "ordered": p.Ordered} {
		if v < 0 || v > 1 {
			return fmt.Errorf("flex policy %s: %g not in [0, 1]", name, v)
		}
	}
	if p.Extended > p.Flexed {
		return fmt.Errorf("flex policy: extended %g exceeds flexed %g", p.Extended, p.Flexed)
	}
	return nil
}
