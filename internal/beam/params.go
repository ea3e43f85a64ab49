package beam

const (
	DefaultPlankLength    = 600.0
	DefaultPlankThickness = 16.0
	DefaultClickTolerance = 0.0
	DefaultGhostOffset    = 140.0

	DefaultMinWeight = 1
	DefaultMaxWeight = 10
	DefaultMinSize   = 28.0
	DefaultMaxSize   = 64.0

	DefaultMaxAngle      = 30.0
	DefaultTorqueDivisor = 30.0
	DefaultFollowSpeed   = 0.12
	DefaultSnapEps       = 0.02

	DefaultLogLimit = 30
)

// Params holds every tunable constant of the model.
type Params struct {
	PlankLength    float64 `yaml:"plank_length"`
	PlankThickness float64 `yaml:"plank_thickness"`
	ClickTolerance float64 `yaml:"click_tolerance"`
	GhostOffset    float64 `yaml:"ghost_offset"`

	MinWeight int     `yaml:"min_weight"`
	MaxWeight int     `yaml:"max_weight"`
	MinSize   float64 `yaml:"min_size"`
	MaxSize   float64 `yaml:"max_size"`

	MaxAngle      float64 `yaml:"max_angle"`
	TorqueDivisor float64 `yaml:"torque_divisor"`
	FollowSpeed   float64 `yaml:"follow_speed"`
	SnapEps       float64 `yaml:"snap_eps"`

	LogLimit int `yaml:"log_limit"`
}

func DefaultParams() Params {
	return Params{
		PlankLength:    DefaultPlankLength,
		PlankThickness: DefaultPlankThickness,
		ClickTolerance: DefaultClickTolerance,
		GhostOffset:    DefaultGhostOffset,
		MinWeight:      DefaultMinWeight,
		MaxWeight:      DefaultMaxWeight,
		MinSize:        DefaultMinSize,
		MaxSize:        DefaultMaxSize,
		MaxAngle:       DefaultMaxAngle,
		TorqueDivisor:  DefaultTorqueDivisor,
		FollowSpeed:    DefaultFollowSpeed,
		SnapEps:        DefaultSnapEps,
		LogLimit:       DefaultLogLimit,
	}
}

// HalfLength is the distance from the pivot to either visible end.
func (p Params) HalfLength() float64 {
	return p.PlankLength / 2
}

// ValidWeight reports whether kg lies in the configured weight range.
func (p Params) ValidWeight(kg int) bool {
	return kg >= p.MinWeight && kg <= p.MaxWeight
}
