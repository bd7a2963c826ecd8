// Package scene is an in-memory 3D scene implementing pose.Host. It models
// the parts of a content-creation application the pose generator talks to:
// rigged objects with pose bones, the active object and its mode, the
// timeline cursor and a keyframe store.
package scene

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gwillem/handpose/pkg/hand"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrNotInPoseMode  = errors.New("no object in pose mode")
	ErrUnknownBone    = errors.New("unknown pose bone")
)

// Mode is the editing mode of the active object.
type Mode string

const (
	ObjectMode Mode = "OBJECT"
	PoseMode   Mode = "POSE"
)

// Bone is a pose bone and its live rotation.
type Bone struct {
	Name     string `json:"name"`
	Rotation Quat   `json:"rotation_quaternion"`
}

// Object is a rigged object in the scene.
type Object struct {
	Name     string           `json:"name"`
	Selected bool             `json:"selected,omitempty"`
	Bones    map[string]*Bone `json:"bones"`
}

// NewObject creates an object with the given pose bones at rest.
func NewObject(name string, bones ...string) *Object {
	o := &Object{
		Name:  name,
		Bones: make(map[string]*Bone, len(bones)),
	}
	for _, b := range bones {
		o.Bones[b] = &Bone{Name: b, Rotation: Identity}
	}
	return o
}

// NewHand creates a hand rig carrying every joint's bone.
func NewHand(name string) *Object {
	var bones []string
	seen := make(map[string]bool)
	for _, j := range hand.AllJoints() {
		if !seen[j.Bone()] {
			seen[j.Bone()] = true
			bones = append(bones, j.Bone())
		}
	}
	return NewObject(name, bones...)
}

// Keyframe is a bone rotation recorded at a frame.
type Keyframe struct {
	Frame    int    `json:"frame"`
	Bone     string `json:"bone"`
	Rotation Quat   `json:"rotation_quaternion"`
}

type keyframeKey struct {
	object string
	bone   string
	frame  int
}

// Scene holds objects, the active object, the timeline cursor and keyframes.
// It is not safe for concurrent use.
type Scene struct {
	objects   map[string]*Object
	active    *Object
	mode      Mode
	frame     int
	keyframes map[keyframeKey]Quat
}

// New creates a scene containing the given objects.
func New(objects ...*Object) *Scene {
	s := &Scene{
		objects:   make(map[string]*Object, len(objects)),
		mode:      ObjectMode,
		keyframes: make(map[keyframeKey]Quat),
	}
	for _, o := range objects {
		s.objects[o.Name] = o
	}
	return s
}

// Object returns the named object.
func (s *Scene) Object(name string) (*Object, error) {
	o, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	return o, nil
}

// Mode returns the current editing mode.
func (s *Scene) Mode() Mode {
	return s.mode
}

// Frame returns the timeline cursor.
func (s *Scene) Frame() int {
	return s.frame
}

// Active returns the active object, or nil.
func (s *Scene) Active() *Object {
	return s.active
}

// SelectPoseMode selects the named object, makes it active and enters pose mode.
func (s *Scene) SelectPoseMode(ctx context.Context, name string) error {
	o, err := s.Object(name)
	if err != nil {
		return err
	}
	for _, other := range s.objects {
		other.Selected = false
	}
	o.Selected = true
	s.active = o
	s.mode = PoseMode
	return nil
}

func (s *Scene) poseBone(j hand.Joint) (*Bone, error) {
	if s.active == nil || s.mode != PoseMode {
		return nil, ErrNotInPoseMode
	}
	if !j.Valid() {
		return nil, &hand.UnknownJointError{Name: j.String()}
	}
	b, ok := s.active.Bones[j.Bone()]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownBone, j.Bone(), s.active.Name)
	}
	return b, nil
}

func component(j hand.Joint) int {
	if j.Axis() == hand.AxisZ {
		return Z
	}
	return X
}

// JointAngle reads the joint's angle from its bone's rotation component.
func (s *Scene) JointAngle(ctx context.Context, j hand.Joint) (float64, error) {
	b, err := s.poseBone(j)
	if err != nil {
		return 0, err
	}
	return Degrees(b.Rotation[component(j)]), nil
}

// SetJointAngle writes the joint's angle into its bone's rotation component.
func (s *Scene) SetJointAngle(ctx context.Context, j hand.Joint, deg float64) error {
	b, err := s.poseBone(j)
	if err != nil {
		return err
	}
	b.Rotation[component(j)] = Radians(deg)
	return nil
}

// SetFrame moves the timeline cursor.
func (s *Scene) SetFrame(ctx context.Context, frame int) error {
	s.frame = frame
	return nil
}

// RecordKeyframe records the rotation of the joint's bone at frame. Joints
// sharing a bone overwrite the same keyframe.
func (s *Scene) RecordKeyframe(ctx context.Context, j hand.Joint, frame int) error {
	b, err := s.poseBone(j)
	if err != nil {
		return err
	}
	s.keyframes[keyframeKey{object: s.active.Name, bone: b.Name, frame: frame}] = b.Rotation
	return nil
}

// Keyframes returns the keyframes of an object ordered by frame then bone.
func (s *Scene) Keyframes(object string) []Keyframe {
	var out []Keyframe
	for k, rot := range s.keyframes {
		if k.object != object {
			continue
		}
		out = append(out, Keyframe{Frame: k.frame, Bone: k.bone, Rotation: rot})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frame != out[j].Frame {
			return out[i].Frame < out[j].Frame
		}
		return out[i].Bone < out[j].Bone
	})
	return out
}

// Track rebuilds the keyframed joint angles of an object, one vector per
// keyframed frame in frame order. Frames missing a bone keep the previous
// frame's value for it.
func (s *Scene) Track(object string) []hand.AngleVector {
	keys := s.Keyframes(object)
	var (
		track []hand.AngleVector
		cur   hand.AngleVector
	)
	for i, k := range keys {
		for _, j := range hand.AllJoints() {
			if j.Bone() == k.Bone {
				cur[j] = Degrees(k.Rotation[component(j)])
			}
		}
		if i == len(keys)-1 || keys[i+1].Frame != k.Frame {
			track = append(track, cur)
		}
	}
	return track
}
