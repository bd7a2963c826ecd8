// Package pose samples random hand poses and keyframes linear transitions
// between them on a host rig.
package pose

import (
	"context"

	"github.com/gwillem/handpose/pkg/hand"
)

// Host is the application owning the rigged hand: its scene, pose bones,
// timeline and keyframe store.
type Host interface {
	// SelectPoseMode makes the named object active and switches to pose editing.
	SelectPoseMode(ctx context.Context, object string) error
	// JointAngle reads a joint's current rotation in degrees.
	JointAngle(ctx context.Context, j hand.Joint) (float64, error)
	// SetJointAngle writes a joint's rotation in degrees.
	SetJointAngle(ctx context.Context, j hand.Joint, degrees float64) error
	// SetFrame moves the timeline cursor.
	SetFrame(ctx context.Context, frame int) error
	// RecordKeyframe stores the joint's current rotation as a keyframe.
	RecordKeyframe(ctx context.Context, j hand.Joint, frame int) error
}

// ReadAngles reads the current angle of every joint from the host.
func ReadAngles(ctx context.Context, h Host) (hand.AngleVector, error) {
	var v hand.AngleVector
	for _, j := range hand.AllJoints() {
		deg, err := h.JointAngle(ctx, j)
		if err != nil {
			return v, err
		}
		v[j] = deg
	}
	return v, nil
}

// ApplyAngles writes every joint angle of v to the host.
func ApplyAngles(ctx context.Context, h Host, v hand.AngleVector) error {
	for _, j := range hand.AllJoints() {
		if err := h.SetJointAngle(ctx, j, v[j]); err != nil {
			return err
		}
	}
	return nil
}
