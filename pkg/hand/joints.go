// Package hand describes the animated joints of a rigged hand and the
// configuration used to sample and keyframe its poses.
package hand

import "strconv"

// Joint identifies one animated degree of freedom of the hand rig.
type Joint int

// Joints in angle-vector order.
const (
	WristHorizontal Joint = iota
	WristVertical
	Thumb
	IndexFinger
	MiddleFinger
	RingFinger
	Pinky
)

// NumJoints is the number of animated joints.
const NumJoints = 7

// Axis is the quaternion component a joint's angle is stored in.
type Axis int

const (
	AxisX Axis = iota
	AxisZ
)

var jointNames = [NumJoints]string{
	"wrist_horizontal",
	"wrist_vertical",
	"thumb",
	"index",
	"middle",
	"ring",
	"pinky",
}

var jointBones = [NumJoints]string{
	"wrist.R",
	"wrist.R",
	"finger1.R",
	"finger2-1.R",
	"finger3-1.R",
	"finger4-1.R",
	"finger5-1.R",
}

// AllJoints returns all joints in angle-vector order.
func AllJoints() []Joint {
	return []Joint{
		WristHorizontal,
		WristVertical,
		Thumb,
		IndexFinger,
		MiddleFinger,
		RingFinger,
		Pinky,
	}
}

// Valid reports whether j is one of the animated joints.
func (j Joint) Valid() bool {
	return j >= 0 && j < NumJoints
}

func (j Joint) String() string {
	if !j.Valid() {
		return "joint(" + strconv.Itoa(int(j)) + ")"
	}
	return jointNames[j]
}

// Bone returns the name of the pose bone carrying the joint.
func (j Joint) Bone() string {
	return jointBones[j]
}

// Axis returns the rotation component holding the joint's angle.
// The vertical wrist swing is stored on Z, everything else on X.
func (j Joint) Axis() Axis {
	if j == WristVertical {
		return AxisZ
	}
	return AxisX
}

// ParseJoint looks up a joint by its name.
func ParseJoint(name string) (Joint, bool) {
	for i, n := range jointNames {
		if n == name {
			return Joint(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler so joints can key JSON maps.
func (j Joint) MarshalText() ([]byte, error) {
	if !j.Valid() {
		return nil, &UnknownJointError{Name: j.String()}
	}
	return []byte(jointNames[j]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (j *Joint) UnmarshalText(text []byte) error {
	parsed, ok := ParseJoint(string(text))
	if !ok {
		return &UnknownJointError{Name: string(text)}
	}
	*j = parsed
	return nil
}

// UnknownJointError is returned when a joint name does not match any joint.
type UnknownJointError struct {
	Name string
}

func (e *UnknownJointError) Error() string {
	return "unknown joint " + e.Name
}
