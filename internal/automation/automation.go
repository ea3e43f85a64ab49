package automation

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/seesaw/internal/config"
	"github.com/san-kum/seesaw/internal/experiment"
	"github.com/san-kum/seesaw/internal/sim"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields keep the base
// config's value.
type ScenarioStep struct {
	Strategy string              `yaml:"strategy"`
	Preset   string              `yaml:"preset"`
	Duration float64             `yaml:"duration"`
	Interval float64             `yaml:"interval"`
	Drops    int                 `yaml:"drops"`
	Seed     int64               `yaml:"seed"`
	Script   []config.ScriptDrop `yaml:"script"`
	SaveAs   string              `yaml:"save_as"`
}

// StepResult pairs a step's effective config with its run.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Apply returns a copy of base with the step's overrides.
func (s ScenarioStep) Apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	cfg.Run.Script = append([]config.ScriptDrop(nil), base.Run.Script...)

	if s.Preset != "" {
		apply, ok := config.Presets[s.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
		apply(&cfg.Beam)
	}
	if s.Strategy != "" {
		cfg.Run.Strategy = s.Strategy
	}
	if s.Duration > 0 {
		cfg.Run.Duration = s.Duration
	}
	if s.Interval > 0 {
		cfg.Run.Interval = s.Interval
	}
	if s.Drops > 0 {
		cfg.Run.Drops = s.Drops
	}
	if s.Seed != 0 {
		cfg.Run.Seed = s.Seed
	}
	if len(s.Script) > 0 {
		cfg.Run.Script = s.Script
	}
	return &cfg, cfg.Validate()
}

// RunScenario executes all steps in order, stopping at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, registry *experiment.Registry, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("strategy", cfg.Run.Strategy))

		result, err := experiment.New(cfg, registry, log).Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}
