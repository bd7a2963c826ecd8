package rig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gwillem/handpose/pkg/hand"
)

var (
	// ErrWrongObject is returned when asked to select an object other than the rig.
	ErrWrongObject = errors.New("object is not the connected rig")
	// ErrNotSelected is returned when joints are accessed before SelectPoseMode.
	ErrNotSelected = errors.New("rig not selected")
)

// Device is a servo hand. *Hand implements it.
type Device interface {
	Enable(ctx context.Context) error
	ReadAngles(ctx context.Context) (map[hand.Joint]float64, error)
	WriteAngles(ctx context.Context, angles map[hand.Joint]float64) error
}

// Host plays keyframed poses on a physical hand in real time. A frame's pose
// is sent to the servos once every joint of that frame has been keyframed,
// and frames are paced at the configured rate.
type Host struct {
	dev    Device
	object string
	hz     int
	logger *zap.Logger

	current hand.AngleVector
	loaded  bool
	pending map[hand.Joint]float64
	keyed   map[hand.Joint]bool
	frame   int
	ticker  *time.Ticker
	track   []hand.AngleVector
}

// NewHost creates a host for dev, answering to the given object name and
// playing frames at hz.
func NewHost(dev Device, object string, hz int, logger *zap.Logger) *Host {
	if hz <= 0 {
		hz = hand.DefaultFPS
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{
		dev:     dev,
		object:  object,
		hz:      hz,
		logger:  logger,
		pending: make(map[hand.Joint]float64, hand.NumJoints),
		keyed:   make(map[hand.Joint]bool, hand.NumJoints),
	}
}

// Close stops frame pacing.
func (h *Host) Close() {
	if h.ticker != nil {
		h.ticker.Stop()
		h.ticker = nil
	}
}

// Track returns the poses sent to the servos, one per frame.
func (h *Host) Track() []hand.AngleVector {
	return h.track
}

// SelectPoseMode enables torque and reads the rig's current pose.
func (h *Host) SelectPoseMode(ctx context.Context, object string) error {
	if object != h.object {
		return fmt.Errorf("%w: %q (rig is %q)", ErrWrongObject, object, h.object)
	}
	if err := h.dev.Enable(ctx); err != nil {
		return fmt.Errorf("enable torque: %w", err)
	}
	angles, err := h.dev.ReadAngles(ctx)
	if err != nil {
		return err
	}
	for _, j := range hand.AllJoints() {
		deg, ok := angles[j]
		if !ok {
			return fmt.Errorf("no reading for %s", j)
		}
		h.current[j] = deg
	}
	h.loaded = true
	h.logger.Info("rig in pose mode", zap.String("object", object), zap.Float64s("pose", h.current[:]))
	return nil
}

// JointAngle returns the joint's last known angle.
func (h *Host) JointAngle(ctx context.Context, j hand.Joint) (float64, error) {
	if !h.loaded {
		return 0, ErrNotSelected
	}
	return h.current[j], nil
}

// SetJointAngle stages an angle for the current frame.
func (h *Host) SetJointAngle(ctx context.Context, j hand.Joint, deg float64) error {
	if !h.loaded {
		return ErrNotSelected
	}
	h.pending[j] = deg
	return nil
}

// SetFrame waits until frame is due.
func (h *Host) SetFrame(ctx context.Context, frame int) error {
	if h.ticker == nil {
		h.ticker = time.NewTicker(time.Second / time.Duration(h.hz))
	} else {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.ticker.C:
		}
	}
	h.frame = frame
	clear(h.keyed)
	return nil
}

// RecordKeyframe marks the joint as final for the frame. The last joint of
// the frame sends the whole pose to the servos.
func (h *Host) RecordKeyframe(ctx context.Context, j hand.Joint, frame int) error {
	if frame != h.frame {
		return fmt.Errorf("keyframe for frame %d while playing frame %d", frame, h.frame)
	}
	if deg, ok := h.pending[j]; ok {
		h.current[j] = deg
	}
	h.keyed[j] = true
	if len(h.keyed) < hand.NumJoints {
		return nil
	}

	if err := h.dev.WriteAngles(ctx, h.current.Map()); err != nil {
		return err
	}
	h.track = append(h.track, h.current)
	clear(h.pending)
	return nil
}
