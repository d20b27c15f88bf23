package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the recognized engine options. Zero values fall back to the
// defaults from DefaultConfig when passed to New.
type Config struct {
	// Title is the window title.
	Title string `env:"ENGINE_TITLE"`

	// Width and Height are the initial window size in pixels.
	Width  int `env:"ENGINE_WIDTH"`
	Height int `env:"ENGINE_HEIGHT"`

	// TargetFPS is the target frame rate the scheduler paces to.
	TargetFPS int `env:"ENGINE_TARGET_FPS"`

	// FixedStep selects fixed-step scheduling: deterministic simulation
	// steps of exactly 1/TargetFPS, with zero or more update ticks per
	// displayed frame. When false, one update and one render fire per
	// loop iteration with the raw elapsed delta.
	FixedStep bool `env:"ENGINE_FIXED_STEP"`

	// CacheCapacity bounds the engine's resource caches (entry count).
	CacheCapacity int `env:"ENGINE_CACHE_CAPACITY"`

	// TeardownTimeout bounds the OnStop callback during shutdown.
	TeardownTimeout time.Duration `env:"ENGINE_TEARDOWN_TIMEOUT"`

	// VSync asks the backend to sync presents to the display. When set,
	// the loop relies on the swap interval for pacing instead of
	// sleeping.
	VSync bool `env:"ENGINE_VSYNC"`

	// Backend names the registered backend to use. Empty selects the
	// best available by registry priority.
	Backend string `env:"ENGINE_BACKEND"`

	// CoalesceMotion collapses consecutive mouse-motion events into the
	// most recent position before dispatch.
	CoalesceMotion bool `env:"ENGINE_COALESCE_MOTION"`
}

// DefaultConfig returns the engine defaults: 800x600, 60 FPS fixed-step,
// 256-entry caches, one second of teardown grace.
func DefaultConfig() Config {
	return Config{
		Title:           "engine",
		Width:           800,
		Height:          600,
		TargetFPS:       60,
		FixedStep:       true,
		CacheCapacity:   256,
		TeardownTimeout: time.Second,
		CoalesceMotion:  true,
	}
}

// yamlConfig is the on-disk shape of a config file. Durations are strings
// in time.ParseDuration form ("500ms", "2s").
type yamlConfig struct {
	Title           string `yaml:"title"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	TargetFPS       int    `yaml:"target_fps"`
	FixedStep       *bool  `yaml:"fixed_step"`
	CacheCapacity   int    `yaml:"cache_capacity"`
	TeardownTimeout string `yaml:"teardown_timeout"`
	VSync           *bool  `yaml:"vsync"`
	Backend         string `yaml:"backend"`
	CoalesceMotion  *bool  `yaml:"coalesce_motion"`
}

// LoadConfig reads a YAML config file over the defaults and then applies
// ENGINE_* environment variable overrides. Precedence, lowest to highest:
// defaults, file, environment. Options passed to New apply on top of the
// result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("engine: read config: %w", err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("engine: parse config: %w", err)
	}

	if raw.Title != "" {
		cfg.Title = raw.Title
	}
	if raw.Width > 0 {
		cfg.Width = raw.Width
	}
	if raw.Height > 0 {
		cfg.Height = raw.Height
	}
	if raw.TargetFPS > 0 {
		cfg.TargetFPS = raw.TargetFPS
	}
	if raw.FixedStep != nil {
		cfg.FixedStep = *raw.FixedStep
	}
	if raw.CacheCapacity > 0 {
		cfg.CacheCapacity = raw.CacheCapacity
	}
	if raw.TeardownTimeout != "" {
		d, err := time.ParseDuration(raw.TeardownTimeout)
		if err != nil {
			return cfg, fmt.Errorf("engine: parse config teardown_timeout: %w", err)
		}
		cfg.TeardownTimeout = d
	}
	if raw.VSync != nil {
		cfg.VSync = *raw.VSync
	}
	if raw.Backend != "" {
		cfg.Backend = raw.Backend
	}
	if raw.CoalesceMotion != nil {
		cfg.CoalesceMotion = *raw.CoalesceMotion
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg fields from ENGINE_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("engine: parse env: %w", err)
	}
	return nil
}

// Option configures an Engine at construction.
type Option func(*Config)

// WithConfig replaces the whole configuration. Apply it first when mixing
// with other options.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(c *Config) { c.Title = title }
}

// WithSize sets the initial window size in pixels.
func WithSize(width, height int) Option {
	return func(c *Config) { c.Width, c.Height = width, height }
}

// WithTargetFPS sets the target frame rate.
func WithTargetFPS(fps int) Option {
	return func(c *Config) { c.TargetFPS = fps }
}

// WithFixedStep selects fixed-step (true) or variable-step (false)
// scheduling.
func WithFixedStep(fixed bool) Option {
	return func(c *Config) { c.FixedStep = fixed }
}

// WithCacheCapacity bounds the engine's resource caches.
func WithCacheCapacity(capacity int) Option {
	return func(c *Config) { c.CacheCapacity = capacity }
}

// WithTeardownTimeout bounds the OnStop callback during shutdown.
func WithTeardownTimeout(d time.Duration) Option {
	return func(c *Config) { c.TeardownTimeout = d }
}

// WithVSync asks the backend to sync presents to the display.
func WithVSync(vsync bool) Option {
	return func(c *Config) { c.VSync = vsync }
}

// WithBackend selects a registered backend by name.
func WithBackend(name string) Option {
	return func(c *Config) { c.Backend = name }
}

// WithMotionCoalescing toggles mouse-motion coalescing.
func WithMotionCoalescing(on bool) Option {
	return func(c *Config) { c.CoalesceMotion = on }
}
