package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/control"
	"github.com/san-kum/ragdoll/internal/model"
	"github.com/san-kum/ragdoll/internal/physics"
	"github.com/san-kum/ragdoll/internal/pose"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0 / 120.0
	DefaultDuration = 5.0
	DefaultGravity  = 9.8
	DefaultDataDir  = ".ragdoll"
)

type Config struct {
	Model       string         `yaml:"model" env:"RAGDOLL_MODEL"`
	Descriptor  string         `yaml:"descriptor,omitempty" env:"RAGDOLL_DESCRIPTOR"`
	Scene       string         `yaml:"scene,omitempty" env:"RAGDOLL_SCENE"`
	Integrator  string         `yaml:"integrator" env:"RAGDOLL_INTEGRATOR"`
	Control     string         `yaml:"control" env:"RAGDOLL_CONTROL"`
	Dt          float64        `yaml:"dt" env:"RAGDOLL_DT"`
	Duration    float64        `yaml:"duration" env:"RAGDOLL_DURATION"`
	Workers     int            `yaml:"workers" env:"RAGDOLL_WORKERS"`
	Gravity     float64        `yaml:"gravity" env:"RAGDOLL_GRAVITY"`
	MaxOmega    float64        `yaml:"max_omega" env:"RAGDOLL_MAX_OMEGA"`
	BalanceGain float64        `yaml:"balance_gain" env:"RAGDOLL_BALANCE_GAIN"`
	Input       InputConfig    `yaml:"input" envPrefix:"RAGDOLL_INPUT_"`
	Sweep       SweepConfig    `yaml:"sweep" envPrefix:"RAGDOLL_SWEEP_"`
	Capacity    CapacityConfig `yaml:"capacity" envPrefix:"RAGDOLL_CAPACITY_"`
	DataDir     string         `yaml:"data_dir" env:"RAGDOLL_DATA_DIR"`
	Log         LogConfig      `yaml:"log" envPrefix:"RAGDOLL_LOG_"`
}

// InputConfig is a constant control input. Pitch is in degrees.
type InputConfig struct {
	X     float64 `yaml:"x" env:"X"`
	Y     float64 `yaml:"y" env:"Y"`
	Z     float64 `yaml:"z" env:"Z"`
	Pitch float64 `yaml:"pitch" env:"PITCH"`
}

// SweepConfig drives the sweep source. Pitch is in degrees.
type SweepConfig struct {
	X         float64 `yaml:"x" env:"X"`
	Y         float64 `yaml:"y" env:"Y"`
	Z         float64 `yaml:"z" env:"Z"`
	Pitch     float64 `yaml:"pitch" env:"PITCH"`
	Frequency float64 `yaml:"frequency" env:"FREQUENCY"`
}

type CapacityConfig struct {
	Bodies    int `yaml:"bodies" env:"BODIES"`
	Branches  int `yaml:"branches" env:"BRANCHES"`
	Effectors int `yaml:"effectors" env:"EFFECTORS"`
	Bones     int `yaml:"bones" env:"BONES"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:       "tred",
		Integrator:  "symplectic",
		Control:     "none",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Gravity:     DefaultGravity,
		MaxOmega:    physics.MaxOmega,
		BalanceGain: pose.DefaultBalanceGain,
		Capacity: CapacityConfig{
			Bodies:    model.DefaultMaxBodies,
			Branches:  model.DefaultMaxBranches,
			Effectors: model.DefaultMaxEffectors,
			Bones:     model.DefaultMaxBodies,
		},
		DataDir: DefaultDataDir,
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

// ApplyEnv overrides fields from RAGDOLL_* variables that are set.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Model == "" && c.Descriptor == "" {
		return fmt.Errorf("either model or descriptor must be set")
	}
	if c.Descriptor != "" && c.Scene == "" {
		return fmt.Errorf("a descriptor file needs a scene file")
	}
	return nil
}

func (c *Config) PhysicsOptions() physics.Options {
	opts := physics.DefaultOptions()
	opts.Gravity = mgl64.Vec3{0, -c.Gravity, 0}
	opts.Workers = c.Workers
	opts.MaxOmega = c.MaxOmega
	if c.Integrator != "" {
		opts.Integrator = c.Integrator
	}
	return opts
}

func (c *Config) ModelOptions() model.Options {
	return model.Options{
		MaxBodies:    c.Capacity.Bodies,
		MaxBranches:  c.Capacity.Branches,
		MaxEffectors: c.Capacity.Effectors,
		MaxBones:     c.Capacity.Bones,
		BalanceGain:  c.BalanceGain,
	}
}

// ControlInput converts the constant input, pitch to radians.
func (c *Config) ControlInput() model.Input {
	return model.Input{
		X:     c.Input.X,
		Y:     c.Input.Y,
		Z:     c.Input.Z,
		Pitch: mgl64.DegToRad(c.Input.Pitch),
	}
}

func (c *Config) SweepParams() control.SweepParams {
	return control.SweepParams{
		X:         c.Sweep.X,
		Y:         c.Sweep.Y,
		Z:         c.Sweep.Z,
		Pitch:     mgl64.DegToRad(c.Sweep.Pitch),
		Frequency: c.Sweep.Frequency,
	}
}
