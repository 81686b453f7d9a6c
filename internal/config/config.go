// Package config loads the runner's TOML configuration: robot geometry,
// initial pose, motion timing and the task database path.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/farmm/gantry-engine/internal/domain"
	"github.com/farmm/gantry-engine/internal/motion"
)

// RobotConfig describes the frame geometry and the robot's initial pose.
type RobotConfig struct {
	Width  float64 `toml:"width"`
	Depth  float64 `toml:"depth"`
	Height float64 `toml:"height"`

	FrameX   float64 `toml:"frame_x"`
	FrameY   float64 `toml:"frame_y"`
	ToolX    float64 `toml:"tool_x"`
	ToolY    float64 `toml:"tool_y"`
	ToolZ    float64 `toml:"tool_z"`
	Rotation float64 `toml:"rotation"`
}

// MotionConfig holds the motion timing parameters.
type MotionConfig struct {
	ToolSpeed     float64 `toml:"tool_speed"`
	FrameSpeed    float64 `toml:"frame_speed"`
	ToolFireTicks int     `toml:"tool_fire_ticks"`
}

// Config is the runner's full configuration.
type Config struct {
	DBPath         string       `toml:"db_path"`
	TickIntervalMS int          `toml:"tick_interval_ms"`
	Robot          RobotConfig  `toml:"robot"`
	Motion         MotionConfig `toml:"motion"`
}

// Load reads a TOML config file, applies defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config TOML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = "gantry.db"
	}
	if c.TickIntervalMS == 0 {
		c.TickIntervalMS = 50
	}
	if c.Robot.Width == 0 {
		c.Robot.Width = 0.4
	}
	if c.Robot.Depth == 0 {
		c.Robot.Depth = 1.0
	}
	if c.Robot.Height == 0 {
		c.Robot.Height = 0.6
	}
	if c.Robot.ToolX == 0 && c.Robot.ToolY == 0 && c.Robot.ToolZ == 0 {
		c.Robot.ToolX = 0.2
		c.Robot.ToolY = 0.2
		c.Robot.ToolZ = 0.1
	}
	if c.Motion.ToolSpeed == 0 {
		c.Motion.ToolSpeed = 0.1
	}
	if c.Motion.FrameSpeed == 0 {
		c.Motion.FrameSpeed = 0.2
	}
	if c.Motion.ToolFireTicks == 0 {
		c.Motion.ToolFireTicks = 5
	}
}

func (c *Config) validate() error {
	var problems []string

	if c.Robot.Width <= 0 || c.Robot.Depth <= 0 || c.Robot.Height <= 0 {
		problems = append(problems, "robot dimensions must be positive")
	}
	if c.Motion.ToolSpeed <= 0 {
		problems = append(problems, "tool_speed must be positive")
	}
	if c.Motion.FrameSpeed <= 0 {
		problems = append(problems, "frame_speed must be positive")
	}
	if c.Motion.ToolFireTicks <= 0 {
		problems = append(problems, "tool_fire_ticks must be positive")
	}
	if c.TickIntervalMS <= 0 {
		problems = append(problems, "tick_interval_ms must be positive")
	}

	if len(problems) > 0 {
		return &domain.RobotError{
			Code:    domain.ErrConfigInvalid.Code,
			Message: fmt.Sprintf("%s: %v", domain.ErrConfigInvalid.Message, problems),
		}
	}
	return nil
}

// RobotState builds the robot's initial state from the config.
func (c *Config) RobotState() domain.RobotState {
	return domain.RobotState{
		FramePosition: domain.Vec2{X: c.Robot.FrameX, Y: c.Robot.FrameY},
		ToolOffset:    domain.Vec3{X: c.Robot.ToolX, Y: c.Robot.ToolY, Z: c.Robot.ToolZ},
		Rotation:      c.Robot.Rotation,
		Dimensions:    domain.Vec3{X: c.Robot.Width, Y: c.Robot.Depth, Z: c.Robot.Height},
	}
}

// Params builds the executor timing parameters from the config.
func (c *Config) Params() motion.Params {
	return motion.Params{
		ToolSpeed:     c.Motion.ToolSpeed,
		FrameSpeed:    c.Motion.FrameSpeed,
		ToolFireTicks: c.Motion.ToolFireTicks,
	}
}
