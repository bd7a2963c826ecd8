package hand

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoint_Table(t *testing.T) {
	joints := AllJoints()
	require.Len(t, joints, NumJoints)

	for i, j := range joints {
		assert.Equal(t, Joint(i), j)
	}

	assert.Equal(t, "wrist.R", WristHorizontal.Bone())
	assert.Equal(t, "wrist.R", WristVertical.Bone())
	assert.Equal(t, "finger1.R", Thumb.Bone())
	assert.Equal(t, "finger5-1.R", Pinky.Bone())

	for _, j := range joints {
		if j == WristVertical {
			assert.Equal(t, AxisZ, j.Axis())
		} else {
			assert.Equal(t, AxisX, j.Axis(), j.String())
		}
	}
}

func TestParseJoint(t *testing.T) {
	for _, j := range AllJoints() {
		got, ok := ParseJoint(j.String())
		require.True(t, ok, j.String())
		assert.Equal(t, j, got)
	}

	_, ok := ParseJoint("camera")
	assert.False(t, ok)
	assert.Equal(t, "joint(9)", Joint(9).String())
}

func TestRange_Normalize(t *testing.T) {
	r := Range{Min: -5, Max: 40}

	assert.InDelta(t, -100.0, r.Normalize(-5), 1e-9)
	assert.InDelta(t, 100.0, r.Normalize(40), 1e-9)
	assert.InDelta(t, 0.0, r.Normalize(17.5), 1e-9)

	for _, deg := range []float64{-5, 0, 12.25, 33, 40} {
		assert.InDelta(t, deg, r.Denormalize(r.Normalize(deg)), 1e-9)
	}

	assert.Equal(t, 0.0, Range{Min: 3, Max: 3}.Normalize(3))
}

func TestBounds_JSON(t *testing.T) {
	data, err := json.Marshal(DefaultBounds())
	require.NoError(t, err)

	var raw map[string]Range
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, Range{Min: -30, Max: 30}, raw["wrist_vertical"])
	assert.Len(t, raw, NumJoints)

	b := DefaultBounds()
	require.NoError(t, json.Unmarshal([]byte(`{"thumb": {"min": 0, "max": 20}}`), &b))
	assert.Equal(t, Range{Min: 0, Max: 20}, b[Thumb])
	assert.Equal(t, DefaultBounds()[IndexFinger], b[IndexFinger])

	assert.Error(t, json.Unmarshal([]byte(`{"camera": {"min": 0, "max": 1}}`), &b))
}

func TestBounds_Validate(t *testing.T) {
	assert.NoError(t, DefaultBounds().Validate())

	b := DefaultBounds()
	b[RingFinger] = Range{Min: 10, Max: 0}
	assert.ErrorContains(t, b.Validate(), "ring")
}

func TestFlexPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultFlexPolicy().Validate())
	assert.Error(t, FlexPolicy{Extended: 0.7, Flexed: 0.5}.Validate())
	assert.NoError(t, FlexPolicy{Extended: 0.5, Flexed: 0.5}.Validate())
	assert.Error(t, FlexPolicy{Ordered: 1.5}.Validate())
	assert.Error(t, FlexPolicy{Extended: -0.1}.Validate())
}
