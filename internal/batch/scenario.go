package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lplab/internal/config"
	"github.com/san-kum/lplab/internal/experiment"
)

// Scenario is a named set of problems solved together.
type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Workers     int             `yaml:"workers"`
	Certify     bool            `yaml:"certify"`
	Problems    []config.Config `yaml:"problems"`
	// Presets are added after Problems, in order.
	Presets []string `yaml:"presets"`
}

// LoadScenario loads a scenario from a YAML file, applying problem
// defaults and resolving preset names.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var raw struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Workers     int         `yaml:"workers"`
		Certify     bool        `yaml:"certify"`
		Problems    []yaml.Node `yaml:"problems"`
		Presets     []string    `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}

	sc := &Scenario{
		Name:        raw.Name,
		Description: raw.Description,
		Workers:     raw.Workers,
		Certify:     raw.Certify,
		Presets:     raw.Presets,
	}
	for i := range raw.Problems {
		cfg := config.DefaultConfig()
		cfg.Name = fmt.Sprintf("%s-%d", raw.Name, i+1)
		if err := raw.Problems[i].Decode(cfg); err != nil {
			return nil, fmt.Errorf("scenario: problem %d: %w", i+1, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("scenario: problem %d: %w", i+1, err)
		}
		sc.Problems = append(sc.Problems, *cfg)
	}
	for _, name := range raw.Presets {
		cfg := config.FindPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("scenario: unknown preset %q", name)
		}
		sc.Problems = append(sc.Problems, *cfg)
	}
	return sc, nil
}

// RunScenario executes all problems in a scenario.
func RunScenario(ctx context.Context, sc *Scenario, log *slog.Logger) ([]*experiment.Result, error) {
	cfgs := make([]experiment.Config, 0, len(sc.Problems))
	for i := range sc.Problems {
		ec := experiment.FromConfig(&sc.Problems[i])
		ec.Certify = sc.Certify
		cfgs = append(cfgs, ec)
	}
	if log != nil {
		log.Info("scenario started", "scenario", sc.Name, "problems", len(cfgs), "workers", sc.Workers)
	}
	return Run(ctx, cfgs, Options{Workers: sc.Workers, Logger: log})
}
