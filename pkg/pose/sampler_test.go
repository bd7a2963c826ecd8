package pose

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/handpose/pkg/hand"
)

// scriptedSource replays fixed draws in order.
type scriptedSource struct {
	t     *testing.T
	draws []float64
	next  int
}

func newScriptedSource(t *testing.T, draws ...float64) *scriptedSource {
	return &scriptedSource{t: t, draws: draws}
}

func (s *scriptedSource) Float64() float64 {
	if s.next >= len(s.draws) {
		s.t.Fatalf("sampler drew more than %d values", len(s.draws))
	}
	v := s.draws[s.next]
	s.next++
	return v
}

func newDefaultSampler(rng Source) *Sampler {
	return NewSampler(hand.DefaultBounds(), hand.DefaultFlexPolicy(), rng)
}

func TestSampler_WithinBounds(t *testing.T) {
	bounds := hand.DefaultBounds()

	for seed := int64(0); seed < 2000; seed++ {
		s := newDefaultSampler(rand.New(rand.NewSource(seed)))
		v := s.Sample()

		require.Len(t, v, hand.NumJoints)
		for _, j := range hand.AllJoints() {
			require.Truef(t, bounds[j].Contains(v[j]),
				"seed %d: %s = %g outside [%g, %g]", seed, j, v[j], bounds[j].Min, bounds[j].Max)
		}
		require.Equalf(t, v[hand.RingFinger], v[hand.Pinky], "seed %d: ring and pinky differ", seed)
	}
}

func TestSampler_Reproducible(t *testing.T) {
	a := newDefaultSampler(rand.New(rand.NewSource(7))).Sample()
	b := newDefaultSampler(rand.New(rand.NewSource(7))).Sample()
	assert.Equal(t, a, b)
}

func TestSampler_DrawCount(t *testing.T) {
	// 7 base draws, 3 flex draws, 1 ordering draw.
	src := newScriptedSource(t, 0, 0, 0, 0, 0, 0, 0, 0.9, 0.9, 0.9, 0.9)
	newDefaultSampler(src).Sample()
	assert.Equal(t, 11, src.next)
}

func TestSampler_BaseDraws(t *testing.T) {
	src := newScriptedSource(t,
		0.5, 0.25, 0, 0.5, 0.5, 0.5, 0.5, // base
		0.9, 0.9, 0.9, // keep sampled flex
		0.95, // skip ordering
	)
	v := newDefaultSampler(src).Sample()

	assert.InDelta(t, 0.0, v[hand.WristHorizontal], 1e-9)
	assert.InDelta(t, -15.0, v[hand.WristVertical], 1e-9)
	assert.InDelta(t, -5.0, v[hand.Thumb], 1e-9)
	assert.InDelta(t, 17.5, v[hand.IndexFinger], 1e-9)
	assert.InDelta(t, 17.5, v[hand.MiddleFinger], 1e-9)
	assert.InDelta(t, 17.5, v[hand.RingFinger], 1e-9)
	assert.InDelta(t, 17.5, v[hand.Pinky], 1e-9)
}

func TestSampler_FlexOverrides(t *testing.T) {
	src := newScriptedSource(t,
		0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5,
		0.1,  // middle: extended
		0.5,  // ring: flexed
		0.39, // pinky: extended, then copied from ring
		0.95, // skip ordering
	)
	v := newDefaultSampler(src).Sample()

	assert.Equal(t, 0.0, v[hand.MiddleFinger])
	assert.Equal(t, 40.0, v[hand.RingFinger])
	assert.Equal(t, 40.0, v[hand.Pinky])
}

func TestSampler_FlexThresholdEdges(t *testing.T) {
	tests := []struct {
		draw float64
		want float64
		keep bool
	}{
		{0.0, 0, false},
		{0.3999, 0, false},
		{0.4, 40, false},
		{0.5999, 40, false},
		{0.6, 0, true},
		{0.99, 0, true},
	}

	for _, tt := range tests {
		src := newScriptedSource(t,
			0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2,
			tt.draw, 0.9, 0.9,
			0.95,
		)
		v := newDefaultSampler(src).Sample()
		if tt.keep {
			assert.InDeltaf(t, 4.0, v[hand.MiddleFinger], 1e-9, "draw %g", tt.draw)
		} else {
			assert.Equalf(t, tt.want, v[hand.MiddleFinger], "draw %g", tt.draw)
		}
	}
}

func TestSampler_Ordering(t *testing.T) {
	src := newScriptedSource(t,
		0.5, 0.5, 0.5, 0.5,
		0.8, 0.2, 0, // middle 31, ring 4, pinky -5
		0.9, 0.9, 0.9,
		0.1, // apply ordering
	)
	v := newDefaultSampler(src).Sample()

	assert.InDelta(t, 31.0, v[hand.MiddleFinger], 1e-9)
	assert.Equal(t, v[hand.MiddleFinger], v[hand.RingFinger])
	assert.Equal(t, v[hand.RingFinger], v[hand.Pinky])
}

func TestSampler_OrderingLiftsExtendedFinger(t *testing.T) {
	src := newScriptedSource(t,
		0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5,
		0.5, // middle: flexed to 40
		0.1, // ring: extended to 0
		0.9,
		0.79, // apply ordering
	)
	v := newDefaultSampler(src).Sample()

	assert.Equal(t, 40.0, v[hand.MiddleFinger])
	assert.Equal(t, 40.0, v[hand.RingFinger])
	assert.Equal(t, 40.0, v[hand.Pinky])
}

func TestSampler_NoOrderingKeepsExtendedFinger(t *testing.T) {
	src := newScriptedSource(t,
		0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5,
		0.5, 0.1, 0.9,
		0.8, // at the threshold: no ordering
	)
	v := newDefaultSampler(src).Sample()

	assert.Equal(t, 40.0, v[hand.MiddleFinger])
	assert.Equal(t, 0.0, v[hand.RingFinger])
	assert.Equal(t, 0.0, v[hand.Pinky])
}
