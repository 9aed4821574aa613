package trainer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qlearngo/go-qttt/pkg/qlearn"
)

// Config holds the training-run parameters. The Set* methods allow fluent
// construction:
//
//	cfg := trainer.DefaultConfig().SetEpisodes(100000).SetEpsilon(0.2)
type Config struct {
	Episodes     int     // number of training episodes, must be positive
	Alpha        float64 // learning rate
	Gamma        float64 // discount factor
	Epsilon      float64 // exploration rate during training
	EvalInterval int     // episodes between evaluation checkpoints, 0 disables
	EvalEpisodes int     // evaluation games per seat at each checkpoint
	Seed         int64   // seed for the evaluation opponent, 0 uses the clock
}

const (
	DefaultEvalInterval = 1000
	DefaultEvalEpisodes = 100
)

func DefaultConfig() *Config {
	return &Config{
		Alpha:        qlearn.DefaultAlpha,
		Gamma:        qlearn.DefaultGamma,
		Epsilon:      qlearn.DefaultEpsilon,
		EvalInterval: DefaultEvalInterval,
		EvalEpisodes: DefaultEvalEpisodes,
	}
}

func (c Config) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(c)
	return builder.String()
}

func (c *Config) SetEpisodes(episodes int) *Config {
	c.Episodes = episodes
	return c
}

func (c *Config) SetAlpha(alpha float64) *Config {
	c.Alpha = alpha
	return c
}

func (c *Config) SetGamma(gamma float64) *Config {
	c.Gamma = gamma
	return c
}

func (c *Config) SetEpsilon(epsilon float64) *Config {
	c.Epsilon = epsilon
	return c
}

func (c *Config) SetEvalInterval(interval int) *Config {
	c.EvalInterval = interval
	return c
}

func (c *Config) SetEvalEpisodes(episodes int) *Config {
	c.EvalEpisodes = episodes
	return c
}

func (c *Config) SetSeed(seed int64) *Config {
	c.Seed = seed
	return c
}

func (c *Config) Validate() error {
	if c.Episodes <= 0 {
		return fmt.Errorf("trainer: episode count must be positive, got %d", c.Episodes)
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("trainer: alpha must be in (0, 1], got %v", c.Alpha)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("trainer: gamma must be in [0, 1], got %v", c.Gamma)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("trainer: epsilon must be in [0, 1], got %v", c.Epsilon)
	}
	if c.EvalInterval < 0 {
		return fmt.Errorf("trainer: evaluation interval must not be negative, got %d", c.EvalInterval)
	}
	if c.EvalInterval > 0 && c.EvalEpisodes <= 0 {
		return fmt.Errorf("trainer: evaluation episode count must be positive, got %d", c.EvalEpisodes)
	}
	return nil
}
