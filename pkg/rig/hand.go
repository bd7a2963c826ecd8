// Package rig drives a physical servo hand on a Feetech bus.
package rig

import (
	"context"
	"fmt"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/gwillem/handpose/pkg/hand"
)

// Hand represents a servo hand with one servo per joint.
type Hand struct {
	bus         *feetech.Bus
	group       *feetech.ServoGroup
	calibration hand.Calibration
	bounds      hand.Bounds
}

// Open creates and initializes a hand connection.
func Open(port string, cal hand.Calibration, bounds hand.Bounds) (*Hand, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	group := feetech.NewServoGroupByIDs(bus, cal.ServoIDs()...)

	return &Hand{
		bus:         bus,
		group:       group,
		calibration: cal,
		bounds:      bounds,
	}, nil
}

// Close closes the hand's bus connection.
func (h *Hand) Close() error {
	return h.bus.Close()
}

// Enable enables torque on all servos.
func (h *Hand) Enable(ctx context.Context) error {
	return h.group.EnableAll(ctx)
}

// Disable disables torque on all servos.
func (h *Hand) Disable(ctx context.Context) error {
	return h.group.DisableAll(ctx)
}

// ReadAngles reads the current joint angles in degrees.
func (h *Hand) ReadAngles(ctx context.Context) (map[hand.Joint]float64, error) {
	rawPositions, err := h.group.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	angles := make(map[hand.Joint]float64, len(rawPositions))
	for id, raw := range rawPositions {
		j, cal, ok := h.calibration.ByID(id)
		if !ok {
			continue
		}
		angles[j] = cal.DegreesFromRaw(raw, h.bounds[j])
	}

	return angles, nil
}

// WriteAngles moves the given joints to angles in degrees.
func (h *Hand) WriteAngles(ctx context.Context, angles map[hand.Joint]float64) error {
	rawPositions := make(feetech.PositionMap, len(angles))
	for j, deg := range angles {
		cal, ok := h.calibration[j]
		if !ok {
			continue
		}
		rawPositions[cal.ID] = cal.RawFromDegrees(deg, h.bounds[j])
	}

	if err := h.group.SetPositions(ctx, rawPositions); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}

	return nil
}
