package pose

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gwillem/handpose/pkg/hand"
)

// Animator keyframes random pose transitions on a host.
type Animator struct {
	host    Host
	sampler *Sampler
	object  string
	frames  int
	logger  *zap.Logger
}

// Option configures an Animator.
type Option func(*Animator)

// WithLogger sets the logger used to report progress.
func WithLogger(l *zap.Logger) Option {
	return func(a *Animator) {
		a.logger = l
	}
}

// NewAnimator creates an animator for the object named in cfg. cfg.Frames
// defaults to hand.DefaultFrames when zero.
func NewAnimator(h Host, s *Sampler, cfg *hand.Config, opts ...Option) *Animator {
	a := &Animator{
		host:    h,
		sampler: s,
		object:  cfg.Object,
		frames:  cfg.Frames,
		logger:  zap.NewNop(),
	}
	if a.frames == 0 {
		a.frames = hand.DefaultFrames
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result describes a completed run.
type Result struct {
	Initial hand.AngleVector
	Final   hand.AngleVector
	Frames  int
}

// Run selects the hand, samples a target pose and keyframes the transition
// from the current pose to it.
func (a *Animator) Run(ctx context.Context) (Result, error) {
	if err := a.host.SelectPoseMode(ctx, a.object); err != nil {
		return Result{}, fmt.Errorf("select %s: %w", a.object, err)
	}

	initial, err := ReadAngles(ctx, a.host)
	if err != nil {
		return Result{}, fmt.Errorf("read current pose: %w", err)
	}
	final := a.sampler.Sample()

	a.logger.Info("animating hand pose",
		zap.String("object", a.object),
		zap.Int("frames", a.frames),
		zap.Float64s("initial", initial[:]),
		zap.Float64s("final", final[:]),
	)

	if err := a.Animate(ctx, initial, final, a.frames); err != nil {
		return Result{}, err
	}

	return Result{
		Initial: initial,
		Final:   final,
		Frames:  a.frames,
	}, nil
}

// Animate keyframes a linear transition from initial to final over frames
// frames. For each frame the timeline is moved, all joint angles are
// written, and only then every joint is keyframed.
func (a *Animator) Animate(ctx context.Context, initial, final hand.AngleVector, frames int) error {
	if frames < 2 {
		return ErrFrameCount
	}

	for f := 0; f < frames; f++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		angles := Lerp(initial, final, Progress(f, frames))

		if err := a.host.SetFrame(ctx, f); err != nil {
			return fmt.Errorf("set frame %d: %w", f, err)
		}
		if err := ApplyAngles(ctx, a.host, angles); err != nil {
			return fmt.Errorf("apply pose at frame %d: %w", f, err)
		}
		for _, j := range hand.AllJoints() {
			if err := a.host.RecordKeyframe(ctx, j, f); err != nil {
				return fmt.Errorf("keyframe %s at frame %d: %w", j, f, err)
			}
		}

		a.logger.Debug("keyframed", zap.Int("frame", f))
	}

	return nil
}
