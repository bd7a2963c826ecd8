package rig

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gwillem/handpose/pkg/hand"
	"github.com/gwillem/handpose/pkg/pose"
)

var (
	_ Device    = (*Hand)(nil)
	_ pose.Host = (*Host)(nil)
)

type fakeDevice struct {
	enabled  bool
	angles   map[hand.Joint]float64
	writes   []map[hand.Joint]float64
	writeErr error
}

func newFakeDevice(v hand.AngleVector) *fakeDevice {
	return &fakeDevice{angles: v.Map()}
}

func (d *fakeDevice) Enable(ctx context.Context) error {
	d.enabled = true
	return nil
}

func (d *fakeDevice) ReadAngles(ctx context.Context) (map[hand.Joint]float64, error) {
	return d.angles, nil
}

func (d *fakeDevice) WriteAngles(ctx context.Context, angles map[hand.Joint]float64) error {
	if d.writeErr != nil {
		return d.writeErr
	}
	d.writes = append(d.writes, angles)
	return nil
}

func TestHost_Animate(t *testing.T) {
	start := hand.AngleVector{2, 4, 6, 8, 10, 12, 12}
	dev := newFakeDevice(start)
	h := NewHost(dev, "Hand", 1000, zaptest.NewLogger(t))
	defer h.Close()

	cfg := hand.DefaultConfig()
	cfg.Frames = 5
	a := pose.NewAnimator(h, nil, cfg)

	ctx := context.Background()
	require.NoError(t, h.SelectPoseMode(ctx, "Hand"))
	assert.True(t, dev.enabled)

	initial, err := pose.ReadAngles(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, start, initial)

	final := hand.AngleVector{0, 0, 40, 40, 40, 40, 40}
	require.NoError(t, a.Animate(ctx, initial, final, 5))

	require.Len(t, dev.writes, 5)
	require.Len(t, h.Track(), 5)
	assert.Equal(t, start, h.Track()[0])
	assert.Equal(t, final, h.Track()[4])
	assert.Equal(t, final.Map(), dev.writes[4])
}

func TestHost_WrongObject(t *testing.T) {
	dev := newFakeDevice(hand.AngleVector{})
	h := NewHost(dev, "Hand", 1000, nil)

	err := h.SelectPoseMode(context.Background(), "Armature")
	assert.ErrorIs(t, err, ErrWrongObject)
	assert.False(t, dev.enabled)

	_, err = h.JointAngle(context.Background(), hand.Thumb)
	assert.ErrorIs(t, err, ErrNotSelected)
}

func TestHost_SetJointAngleBeforeSelect(t *testing.T) {
	h := NewHost(newFakeDevice(hand.AngleVector{}), "Hand", 1000, nil)

	assert.ErrorIs(t, h.SetJointAngle(context.Background(), hand.Thumb, 12), ErrNotSelected)
	assert.Empty(t, h.pending)

	require.NoError(t, h.SelectPoseMode(context.Background(), "Hand"))
	assert.NoError(t, h.SetJointAngle(context.Background(), hand.Thumb, 12))
}

func TestHost_MissingReading(t *testing.T) {
	dev := &fakeDevice{angles: map[hand.Joint]float64{hand.Thumb: 1}}
	h := NewHost(dev, "Hand", 1000, nil)

	assert.ErrorContains(t, h.SelectPoseMode(context.Background(), "Hand"), "wrist_horizontal")
}

func TestHost_WriteError(t *testing.T) {
	boom := errors.New("bus timeout")
	dev := newFakeDevice(hand.AngleVector{})
	dev.writeErr = boom
	h := NewHost(dev, "Hand", 1000, nil)
	defer h.Close()

	ctx := context.Background()
	require.NoError(t, h.SelectPoseMode(ctx, "Hand"))
	require.NoError(t, h.SetFrame(ctx, 0))
	for _, j := range hand.AllJoints()[:hand.NumJoints-1] {
		require.NoError(t, h.RecordKeyframe(ctx, j, 0))
	}
	assert.ErrorIs(t, h.RecordKeyframe(ctx, hand.Pinky, 0), boom)
}

func TestHost_FrameMismatch(t *testing.T) {
	h := NewHost(newFakeDevice(hand.AngleVector{}), "Hand", 1000, nil)
	defer h.Close()

	ctx := context.Background()
	require.NoError(t, h.SetFrame(ctx, 0))
	assert.Error(t, h.RecordKeyframe(ctx, hand.Thumb, 3))
}

func TestHost_SetFrameCanceled(t *testing.T) {
	h := NewHost(newFakeDevice(hand.AngleVector{}), "Hand", 1, nil)
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.SetFrame(ctx, 0))
	cancel()
	assert.ErrorIs(t, h.SetFrame(ctx, 1), context.Canceled)
}
