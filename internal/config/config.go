package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	KindLP   = "lp"
	KindGame = "game"

	DefaultKind      = KindLP
	DefaultMaxPivots = 10000
)

var ErrInvalidConfig = errors.New("config: invalid problem file")

// Config describes one problem: either an LP (A, b, c) or a zero-sum game
// (payoff). Number checks are left to the solver.
type Config struct {
	Name      string      `yaml:"name" json:"name"`
	Kind      string      `yaml:"kind" json:"kind"`
	A         [][]float64 `yaml:"a,omitempty" json:"a,omitempty"`
	B         []float64   `yaml:"b,omitempty" json:"b,omitempty"`
	C         []float64   `yaml:"c,omitempty" json:"c,omitempty"`
	Payoff    [][]float64 `yaml:"payoff,omitempty" json:"payoff,omitempty"`
	MaxPivots int         `yaml:"max_pivots" json:"max_pivots"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:      "unnamed",
		Kind:      DefaultKind,
		MaxPivots: DefaultMaxPivots,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML problem on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Kind {
	case KindLP:
		if len(c.B) == 0 && len(c.C) == 0 {
			return fmt.Errorf("%w: %s: lp needs b and c", ErrInvalidConfig, c.Name)
		}
		if len(c.Payoff) > 0 {
			return fmt.Errorf("%w: %s: payoff given for lp", ErrInvalidConfig, c.Name)
		}
	case KindGame:
		if len(c.Payoff) == 0 {
			return fmt.Errorf("%w: %s: game needs a payoff matrix", ErrInvalidConfig, c.Name)
		}
		if len(c.A) > 0 || len(c.B) > 0 || len(c.C) > 0 {
			return fmt.Errorf("%w: %s: a/b/c given for game", ErrInvalidConfig, c.Name)
		}
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidConfig, c.Name, c.Kind)
	}
	if c.MaxPivots < 0 {
		return fmt.Errorf("%w: %s: max_pivots must be >= 0", ErrInvalidConfig, c.Name)
	}
	return nil
}

// Clone returns a deep copy, so callers may perturb presets safely.
func (c *Config) Clone() *Config {
	out := *c
	out.A = cloneMatrix(c.A)
	out.B = append([]float64(nil), c.B...)
	out.C = append([]float64(nil), c.C...)
	out.Payoff = cloneMatrix(c.Payoff)
	return &out
}

// Dims returns rows and columns of the constraint or payoff matrix.
func (c *Config) Dims() (m, n int) {
	if c.Kind == KindGame {
		if len(c.Payoff) == 0 {
			return 0, 0
		}
		return len(c.Payoff), len(c.Payoff[0])
	}
	return len(c.B), len(c.C)
}

func cloneMatrix(src [][]float64) [][]float64 {
	if src == nil {
		return nil
	}
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
