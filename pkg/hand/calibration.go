package hand

import (
	"encoding/json"
	"fmt"
	"os"
)

// ServoCalibration holds calibration data for the servo driving one joint.
type ServoCalibration struct {
	ID           int `json:"id"`
	DriveMode    int `json:"drive_mode"`
	HomingOffset int `json:"homing_offset"`
	RangeMin     int `json:"range_min"`
	RangeMax     int `json:"range_max"`
}

// Calibration holds servo calibration for every joint of a physical hand rig.
type Calibration map[Joint]ServoCalibration

// LoadCalibration loads calibration data from a JSON file.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var cal Calibration
	if err := json.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("parse calibration JSON: %w", err)
	}

	return cal, nil
}

// Normalize converts a raw servo position to a normalized value in the range [-100, 100].
func (c ServoCalibration) Normalize(raw int) float64 {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	if rangeSize == 0 {
		return 0
	}
	return (float64(raw-c.RangeMin)/rangeSize)*200 - 100
}

// Denormalize converts a normalized value [-100, 100] to a raw servo position.
func (c ServoCalibration) Denormalize(norm float64) int {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	return int((norm+100)/200*rangeSize) + c.RangeMin
}

// RawFromDegrees maps an angle within the joint range r onto the servo's
// calibrated travel: r.Min lands on RangeMin and r.Max on RangeMax.
func (c ServoCalibration) RawFromDegrees(deg float64, r Range) int {
	return c.Denormalize(r.Normalize(deg))
}

// DegreesFromRaw is the inverse of RawFromDegrees.
func (c ServoCalibration) DegreesFromRaw(raw int, r Range) float64 {
	return r.Denormalize(c.Normalize(raw))
}

// ServoIDs returns the servo IDs for all calibrated joints in joint order.
func (c Calibration) ServoIDs() []int {
	ids := make([]int, 0, len(c))
	for _, j := range AllJoints() {
		if sc, ok := c[j]; ok {
			ids = append(ids, sc.ID)
		}
	}
	return ids
}

// ByID returns the joint and calibration for a given servo ID.
func (c Calibration) ByID(id int) (Joint, ServoCalibration, bool) {
	for j, sc := range c {
		if sc.ID == id {
			return j, sc, true
		}
	}
	return 0, ServoCalibration{}, false
}
