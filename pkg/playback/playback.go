// Package playback replays a keyframed hand track in real time.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gwillem/handpose/pkg/hand"
)

// State is the pose shown at one playback tick.
type State struct {
	Frame     int
	Angles    hand.AngleVector
	Timestamp time.Time
	Error     error
}

// Output receives each played pose. rig.Hand implements it.
type Output interface {
	WriteAngles(ctx context.Context, angles map[hand.Joint]float64) error
}

// Controller manages the playback loop.
type Controller struct {
	track  []hand.AngleVector
	out    Output
	hz     int
	loop   bool
	logger *zap.Logger

	mu      sync.RWMutex
	frame   int
	running bool
	stateCh chan State
	logCh   chan string
}

// Config holds configuration for the controller.
type Config struct {
	Track  []hand.AngleVector
	Output Output // optional
	Hz     int
	Loop   bool
	Logger *zap.Logger
}

// NewController creates a new playback controller.
func NewController(cfg Config) (*Controller, error) {
	if len(cfg.Track) == 0 {
		return nil, errors.New("empty track")
	}
	if cfg.Hz <= 0 {
		cfg.Hz = hand.DefaultFPS
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Controller{
		track:   cfg.Track,
		out:     cfg.Output,
		hz:      cfg.Hz,
		loop:    cfg.Loop,
		logger:  cfg.Logger,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}, nil
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the playback frequency.
func (c *Controller) Hz() int {
	return c.hz
}

// Frames returns the track length.
func (c *Controller) Frames() int {
	return len(c.track)
}

// Frame returns the next frame to be played.
func (c *Controller) Frame() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frame
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.logger.Info(msg)
	msg = fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg)
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start plays the track until it ends (or forever when looping) or ctx is done.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.frame = 0
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	c.log("Playback started: %d frames at %d Hz", len(c.track), c.hz)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log("Playback stopped")
			return ctx.Err()
		case <-ticker.C:
			if !c.step(ctx) {
				c.log("Playback finished")
				return nil
			}
		}
	}
}

// step plays the next frame and reports whether playback continues.
func (c *Controller) step(ctx context.Context) bool {
	c.mu.Lock()
	f := c.frame
	if f >= len(c.track) {
		if !c.loop {
			c.mu.Unlock()
			return false
		}
		f = 0
	}
	c.frame = f + 1
	c.mu.Unlock()

	angles := c.track[f]
	var err error
	if c.out != nil {
		if err = c.out.WriteAngles(ctx, angles.Map()); err != nil {
			c.log("Write error: %v", err)
		}
	}

	c.sendState(State{
		Frame:     f,
		Angles:    angles,
		Timestamp: time.Now(),
		Error:     err,
	})
	return true
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}
