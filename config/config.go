package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"
)

// Axis counts for the two-axis plotter shape. InputAxisCount is what the
// client hands to the planner, OutputAxisCount is the number of motors.
const (
	InputAxisCount  = 2
	OutputAxisCount = 2
)

// Tape-writer drum geometry. The drum axis moves tape, so its linear
// equivalent steps-per-mm is derived from the roll circumference.
const (
	TapeRollDiameterMM = 100.0
	TapeRollMotorSteps = 400.0 * 16.0
)

// Settings holds the full motion tuning surface.
type Settings struct {
	// Profile selects the kinematic map: "plotter" or "tape".
	Profile string `mapstructure:"profile"`

	// StepsPerUnit is the kinematic scale in steps/mm. Negative values
	// invert an axis.
	StepsPerUnit [OutputAxisCount]float64 `mapstructure:"steps_per_unit"`

	// MaxFeedrate is the per-axis velocity ceiling in mm/s.
	MaxFeedrate [OutputAxisCount]float64 `mapstructure:"max_feedrate"`

	// MaxAcceleration is the per-axis acceleration ceiling in mm/s^2.
	MaxAcceleration [OutputAxisCount]float64 `mapstructure:"max_acceleration"`

	// MaxXYJerk is the junction velocity discontinuity allowance in mm/s.
	MaxXYJerk float64 `mapstructure:"max_xy_jerk"`

	// MaxZJerk applies to a third axis when one exists.
	MaxZJerk float64 `mapstructure:"max_z_jerk"`

	// MinimumFeedrate is the floor applied to requested feed rates (mm/s).
	MinimumFeedrate float64 `mapstructure:"minimum_feedrate"`

	// MinimumPlannerSpeed is the speed the planner plans for at the end of
	// the buffer and at all stops (mm/s).
	MinimumPlannerSpeed float64 `mapstructure:"minimum_planner_speed"`

	Pins   PinSettings    `mapstructure:"pins"`
	Serial SerialSettings `mapstructure:"serial"`
}

// PinSettings maps the stepper output port onto GPIO pins.
type PinSettings struct {
	EnablePin int                  `mapstructure:"enable_pin"`
	DirPins   [OutputAxisCount]int `mapstructure:"dir_pins"`
	StepPins  [OutputAxisCount]int `mapstructure:"step_pins"`
}

// SerialSettings configures the remote stepper-driver link.
type SerialSettings struct {
	Device string `mapstructure:"device"`
	Baud   int    `mapstructure:"baud"`
}

// DefaultPlotterSettings returns the tuning for the two-axis pen plotter.
func DefaultPlotterSettings() *Settings {
	return &Settings{
		Profile:             "plotter",
		StepsPerUnit:        [OutputAxisCount]float64{80, 80},
		MaxFeedrate:         [OutputAxisCount]float64{300, 300},
		MaxAcceleration:     [OutputAxisCount]float64{9000, 9000},
		MaxXYJerk:           1.0,
		MaxZJerk:            0.1,
		MinimumFeedrate:     0,
		MinimumPlannerSpeed: 0.05,
		Pins: PinSettings{
			EnablePin: 2,
			DirPins:   [OutputAxisCount]int{11, 9},
			StepPins:  [OutputAxisCount]int{12, 10},
		},
		Serial: SerialSettings{
			Device: "/dev/ttyACM0",
			Baud:   250000,
		},
	}
}

// DefaultTapeSettings returns the tuning for the tape writer. Axis 0 is the
// tape drum, axis 1 a plain linear axis at 400 steps/mm.
func DefaultTapeSettings() *Settings {
	s := DefaultPlotterSettings()
	s.Profile = "tape"
	s.StepsPerUnit = [OutputAxisCount]float64{
		TapeRollMotorSteps / (TapeRollDiameterMM * math.Pi),
		400.0,
	}
	return s
}

// Load reads settings from an optional config file and the environment.
// An empty path falls back to a config.yaml in the working directory.
func Load(configPath string) (*Settings, error) {
	v := viper.New()

	setDefaults(v, DefaultPlotterSettings())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults
	}

	v.SetEnvPrefix("PENPLOT")
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if s.Profile == "tape" {
		// The drum scale is derived, not configured. Only apply it when the
		// file did not override the steps explicitly.
		if !v.InConfig("steps_per_unit") {
			s.StepsPerUnit = DefaultTapeSettings().StepsPerUnit
		}
	}

	return &s, nil
}

func setDefaults(v *viper.Viper, s *Settings) {
	v.SetDefault("profile", s.Profile)
	v.SetDefault("steps_per_unit", s.StepsPerUnit[:])
	v.SetDefault("max_feedrate", s.MaxFeedrate[:])
	v.SetDefault("max_acceleration", s.MaxAcceleration[:])
	v.SetDefault("max_xy_jerk", s.MaxXYJerk)
	v.SetDefault("max_z_jerk", s.MaxZJerk)
	v.SetDefault("minimum_feedrate", s.MinimumFeedrate)
	v.SetDefault("minimum_planner_speed", s.MinimumPlannerSpeed)
	v.SetDefault("pins.enable_pin", s.Pins.EnablePin)
	v.SetDefault("pins.dir_pins", s.Pins.DirPins[:])
	v.SetDefault("pins.step_pins", s.Pins.StepPins[:])
	v.SetDefault("serial.device", s.Serial.Device)
	v.SetDefault("serial.baud", s.Serial.Baud)
}
