package pose

import "github.com/gwillem/handpose/pkg/hand"

// Source is a uniform random source over [0, 1). *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Sampler draws random target poses within the joint bounds.
type Sampler struct {
	bounds hand.Bounds
	flex   hand.FlexPolicy
	rng    Source
}

// NewSampler creates a sampler using the given bounds, flex policy and random source.
func NewSampler(bounds hand.Bounds, flex hand.FlexPolicy, rng Source) *Sampler {
	return &Sampler{
		bounds: bounds,
		flex:   flex,
		rng:    rng,
	}
}

// Sample returns a random target pose.
//
// Every joint is first drawn uniformly within its bounds. The middle, ring
// and pinky joints are then forced fully extended (0) or fully flexed (max)
// according to the policy's thresholds, since real hands rest at the
// extremes more often than in between. With probability Ordered the outer
// fingers are made at least as flexed as their inner neighbour. Finally the
// pinky copies the ring finger, whose tendons are coupled.
func (s *Sampler) Sample() hand.AngleVector {
	var v hand.AngleVector
	for _, j := range hand.AllJoints() {
		r := s.bounds[j]
		v[j] = s.rng.Float64()*r.Span() + r.Min
	}

	for _, j := range []hand.Joint{hand.MiddleFinger, hand.RingFinger, hand.Pinky} {
		t := s.rng.Float64()
		switch {
		case t < s.flex.Extended:
			v[j] = 0
		case t < s.flex.Flexed:
			v[j] = s.bounds[j].Max
		}
	}

	if s.rng.Float64() < s.flex.Ordered {
		v[hand.RingFinger] = max(v[hand.MiddleFinger], v[hand.RingFinger])
		v[hand.Pinky] = max(v[hand.RingFinger], v[hand.Pinky])
	}

	v[hand.Pinky] = v[hand.RingFinger]
	return v
}
