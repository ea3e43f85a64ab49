package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/seesaw/internal/beam"
)

// Presets are named beam tunings; each one starts from the defaults.
var Presets = map[string]func(*beam.Params){
	"classic": func(p *beam.Params) {},
	"snappy": func(p *beam.Params) {
		p.FollowSpeed = 0.18
	},
	"heavy": func(p *beam.Params) {
		p.TorqueDivisor = 60
		p.FollowSpeed = 0.08
	},
	"stiff": func(p *beam.Params) {
		p.MaxAngle = 15
	},
	"long": func(p *beam.Params) {
		p.PlankLength = 900
		p.MaxSize = 80
	},
	"forgiving": func(p *beam.Params) {
		p.ClickTolerance = 12
	},
}

// GetPreset returns a config with the named tuning applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(&cfg.Beam)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TunableParams are the beam fields SetParam accepts, by yaml name.
var TunableParams = []string{
	"click_tolerance",
	"follow_speed",
	"max_angle",
	"plank_length",
	"snap_eps",
	"torque_divisor",
}

// SetParam sets a float beam field by its yaml name.
func SetParam(p *beam.Params, name string, v float64) error {
	switch name {
	case "click_tolerance":
		p.ClickTolerance = v
	case "follow_speed":
		p.FollowSpeed = v
	case "max_angle":
		p.MaxAngle = v
	case "plank_length":
		p.PlankLength = v
	case "snap_eps":
		p.SnapEps = v
	case "torque_divisor":
		p.TorqueDivisor = v
	default:
		return fmt.Errorf("unknown parameter: %s (tunable: %v)", name, TunableParams)
	}
	return nil
}
