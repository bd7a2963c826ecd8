// Package handpose generates random hand poses and keyframes the transition
// to them, for producing synthetic hand animation data.
//
// A pose is sampled per joint within fixed angle bounds, with fingers biased
// towards fully straight or fully bent, the outer fingers usually at least as
// bent as their neighbours, and the ring and pinky moving together. The
// transition from the current pose is interpolated linearly and keyframed
// frame by frame on a host: an in-memory scene saved as JSON, or a physical
// servo hand.
//
// # Installation
//
//	go install github.com/gwillem/handpose/cmd/handpose@latest
//
// # Usage
//
// Keyframe a 250-frame transition to a random pose and save the scene:
//
//	handpose animate --out scene.json
//
// Watch it:
//
//	handpose preview --scene scene.json
//
// To play poses on a servo hand, calibrate it first:
//
//	handpose calibrate
//	handpose animate --rig
//
// # Packages
//
//   - cmd/handpose: CLI with animate, sample, preview and calibrate commands
//   - pkg/hand: joints, angle bounds, flex policy, calibration and configuration
//   - pkg/pose: pose sampler, interpolation and the keyframing animator
//   - pkg/scene: in-memory scene host with JSON persistence
//   - pkg/rig: servo hand driver and real-time host
//   - pkg/playback: real-time playback of keyframed tracks
//   - pkg/logging: zap logger setup
package handpose
