package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"penplot/config"
	"penplot/motion/kinematics"
	"penplot/motion/planner"
	"penplot/motion/stepgen"
	"penplot/port"
	"penplot/port/rpio"
	"penplot/port/serial"
	"penplot/port/sim"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	portName   = flag.String("port", "sim", "Output port: sim, rpio or serial")
	feed       = flag.Float64("feed", 3000, "Feed rate (mm/s)")
	accel      = flag.Float64("accel", 1000, "Acceleration (mm/s^2)")
	verbose    = flag.Bool("verbose", false, "Trace every simulated tick")
)

// The demo path: a few short segments the lookahead has to chain, then two
// long travels.
var demoPath = [][config.InputAxisCount]float64{
	{1, 0}, {2, 0}, {3, 0}, {4, 0}, {100, 0}, {200, 0},
}

func main() {
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	kin := kinematics.ForProfile(settings)

	var (
		outPort port.Port
		simPort *sim.Port
	)
	switch *portName {
	case "sim":
		simPort = sim.New(logger)
		outPort = simPort
	case "rpio":
		hw, err := rpio.New(settings.Pins)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer hw.Close()
		outPort = hw
	case "serial":
		remote, err := serial.New(settings.Serial)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer remote.Close()
		outPort = remote
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown port %q\n", *portName)
		os.Exit(1)
	}

	pl := planner.New(settings, kin, outPort)
	st := stepgen.New(outPort, pl)
	if err := st.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start stepper: %v\n", err)
		os.Exit(1)
	}

	logger.Info("queueing demo path",
		zap.String("profile", settings.Profile),
		zap.Float64("feed", *feed),
		zap.Float64("accel", *accel))

	pl.SetPosition([config.InputAxisCount]float64{0, 0})
	start := time.Now()
	for _, pos := range demoPath {
		for {
			err := pl.BufferLine(pos, *feed, *accel)
			if err == nil {
				break
			}
			if !errors.Is(err, planner.ErrBufferFull) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			idle(simPort)
		}
	}

	// Drain: keep ticking until every block has retired.
	for pl.FreePositions() != planner.BlockBufferSize-1 || st.Busy() {
		idle(simPort)
	}

	logger.Info("path complete", zap.Duration("wall", time.Since(start)))
	if simPort != nil {
		pos := simPort.Positions()
		fmt.Printf("Final position: [%d %d] steps, %d us simulated\n",
			pos[0], pos[1], simPort.ElapsedUS())
	}
}

// idle advances time: one simulated tick on the sim port, a short host
// sleep otherwise (hardware ports tick themselves).
func idle(simPort *sim.Port) {
	if simPort != nil {
		simPort.Sleep(1)
		return
	}
	time.Sleep(time.Millisecond)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
