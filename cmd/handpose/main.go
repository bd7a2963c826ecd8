package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/gwillem/handpose/pkg/hand"
	"github.com/gwillem/handpose/pkg/logging"
)

type Options struct {
	Config  string `long:"config" default:"handpose.json" description:"Configuration file"`
	Verbose bool   `short:"v" long:"verbose" description:"Log every keyframed frame"`
	LogFile string `long:"log-file" description:"Also write JSON logs to this file (rotated)"`

	Animate   AnimateCommand   `command:"animate" description:"Keyframe a transition to a random hand pose"`
	Sample    SampleCommand    `command:"sample" description:"Print a random target pose"`
	Preview   PreviewCommand   `command:"preview" description:"Play back a keyframed scene"`
	Calibrate CalibrateCommand `command:"calibrate" description:"Scan for a servo hand and calibrate it"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "handpose - random hand pose keyframing for synthetic animation data"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	return logging.New(logging.Config{
		Verbose: opts.Verbose,
		File:    opts.LogFile,
	})
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist.
func loadConfig() (*hand.Config, error) {
	cfg, err := hand.LoadConfigFrom(opts.Config)
	if errors.Is(err, os.ErrNotExist) {
		return hand.DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.Config, err)
	}
	return cfg, nil
}

// newRand returns a random source seeded with seed, or with the clock when
// seed is zero.
func newRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}
