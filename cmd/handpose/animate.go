package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/gwillem/handpose/pkg/hand"
	"github.com/gwillem/handpose/pkg/pose"
	"github.com/gwillem/handpose/pkg/rig"
	"github.com/gwillem/handpose/pkg/scene"
)

type AnimateCommand struct {
	Scene  string `long:"scene" description:"Scene file to animate (default: a new scene with the hand at rest)"`
	Out    string `long:"out" default:"scene.json" description:"Where to save the keyframed scene"`
	Object string `long:"object" description:"Name of the rigged hand object"`
	Frames int    `long:"frames" description:"Number of frames in the transition"`
	Seed   int64  `long:"seed" description:"Random seed (0 picks one from the clock)"`
	Rig    bool   `long:"rig" description:"Play the transition on the calibrated servo hand"`
	FPS    int    `long:"fps" description:"Frame rate when playing on the servo hand"`
}

func (c *AnimateCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if c.Object != "" {
		cfg.Object = c.Object
	}
	if c.Frames != 0 {
		cfg.Frames = c.Frames
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if c.FPS != 0 {
		cfg.FPS = c.FPS
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger()
	defer logger.Sync()

	rng, seed := newRand(cfg.Seed)
	logger.Info("seeded sampler", zap.Int64("seed", seed))
	sampler := pose.NewSampler(cfg.Bounds, cfg.Flex, rng)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if c.Rig {
		return c.animateRig(ctx, cfg, sampler, logger)
	}
	return c.animateScene(ctx, cfg, sampler, logger)
}

func (c *AnimateCommand) animateScene(ctx context.Context, cfg *hand.Config, sampler *pose.Sampler, logger *zap.Logger) error {
	s := scene.New(scene.NewHand(cfg.Object))
	if c.Scene != "" {
		loaded, err := scene.Load(c.Scene)
		if err != nil {
			return err
		}
		s = loaded
	}

	a := pose.NewAnimator(s, sampler, cfg, pose.WithLogger(logger))
	res, err := a.Run(ctx)
	if err != nil {
		return err
	}

	if err := s.Save(c.Out); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	logger.Info("saved keyframed scene",
		zap.String("path", c.Out),
		zap.Int("frames", res.Frames),
		zap.Int("keyframes", len(s.Keyframes(cfg.Object))),
	)
	return nil
}

func (c *AnimateCommand) animateRig(ctx context.Context, cfg *hand.Config, sampler *pose.Sampler, logger *zap.Logger) error {
	if cfg.Rig.Port == "" || !cfg.Rig.IsCalibrated() {
		return errors.New("servo hand not calibrated, run 'handpose calibrate' first")
	}

	h, err := rig.Open(cfg.Rig.Port, cfg.Rig.Calibration, cfg.Bounds)
	if err != nil {
		return err
	}
	defer h.Close()

	host := rig.NewHost(h, cfg.Object, cfg.FPS, logger)
	defer host.Close()

	a := pose.NewAnimator(host, sampler, cfg, pose.WithLogger(logger))
	_, runErr := a.Run(ctx)

	// Keep whatever was played, even if the run was interrupted.
	if track := host.Track(); len(track) > 0 {
		s := scene.New(scene.NewHand(cfg.Object))
		if err := recordTrack(context.Background(), s, cfg.Object, track); err != nil {
			return err
		}
		if err := s.Save(c.Out); err != nil {
			return fmt.Errorf("save scene: %w", err)
		}
		logger.Info("saved played track", zap.String("path", c.Out), zap.Int("frames", len(track)))
	}

	if err := h.Disable(context.Background()); err != nil {
		logger.Warn("failed to disable torque", zap.Error(err))
	}
	return runErr
}

// recordTrack keyframes each pose of track on consecutive frames.
func recordTrack(ctx context.Context, s *scene.Scene, object string, track []hand.AngleVector) error {
	if err := s.SelectPoseMode(ctx, object); err != nil {
		return err
	}
	for f, angles := range track {
		if err := s.SetFrame(ctx, f); err != nil {
			return err
		}
		if err := pose.ApplyAngles(ctx, s, angles); err != nil {
			return err
		}
		for _, j := range hand.AllJoints() {
			if err := s.RecordKeyframe(ctx, j, f); err != nil {
				return err
			}
		}
	}
	return nil
}
