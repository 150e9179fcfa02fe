package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the ralph configuration for one run
type Config struct {
	ProjectDir             string        `mapstructure:"-"`
	SpecsDir               string        `mapstructure:"specs_dir"`
	PlanFile               string        `mapstructure:"plan_file"`
	ValidationCommand      string        `mapstructure:"validation_command"`
	MaxIterations          int           `mapstructure:"max_iterations"`
	MaxConsecutiveFailures int           `mapstructure:"max_consecutive_failures"`
	IterationDelay         time.Duration `mapstructure:"iteration_delay"`
	CompletionSignal       string        `mapstructure:"completion_signal"`
	ForceBlocked           bool          `mapstructure:"force_blocked"`
	Verbose                bool          `mapstructure:"verbose"`
	NoColor                bool          `mapstructure:"no_color"`
	LogLevel               string        `mapstructure:"log_level"`
	Agent                  AgentConfig   `mapstructure:"agent"`
}

// AgentConfig contains settings for the agent CLI
type AgentConfig struct {
	Binary        string `mapstructure:"binary"`
	AllowAll      bool   `mapstructure:"allow_all"`
	ThreadURLBase string `mapstructure:"thread_url_base"`
}

// FlagKeys maps command line flag names to config keys.
var FlagKeys = map[string]string{
	"specs":          "specs_dir",
	"plan":           "plan_file",
	"validation":     "validation_command",
	"max-iterations": "max_iterations",
	"max-failures":   "max_consecutive_failures",
	"force-blocked":  "force_blocked",
	"verbose":        "verbose",
	"no-color":       "no_color",
	"agent":          "agent.binary",
}

// LoadOptions says where to find configuration.
type LoadOptions struct {
	// ProjectDir is the project root; empty means the working directory.
	ProjectDir string
	// ConfigFile overrides <project>/.ralph/config.yaml. It must exist.
	ConfigFile string
	// Flags, when set, override file values for every flag the user changed.
	Flags *pflag.FlagSet
}

// DefaultConfig returns a config with default values
func DefaultConfig() Config {
	return Config{
		SpecsDir:               "specs",
		PlanFile:               "IMPLEMENTATION_PLAN.md",
		ValidationCommand:      "npm run check",
		MaxIterations:          50,
		MaxConsecutiveFailures: 3,
		IterationDelay:         500 * time.Millisecond,
		CompletionSignal:       "RALPH_COMPLETE",
		LogLevel:               "info",
		Agent: AgentConfig{
			Binary:        "amp",
			AllowAll:      true,
			ThreadURLBase: "https://ampcode.com/threads/",
		},
	}
}

// Load resolves the configuration: defaults, then the config file, then flags.
func Load(opts LoadOptions) (Config, error) {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		projectDir = cwd
	}
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	configPath := opts.ConfigFile
	if configPath == "" {
		configPath = Path(projectDir)
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			configPath = ""
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg, err := Decode(v)
	if err != nil {
		return Config{}, err
	}
	cfg.ProjectDir = projectDir
	return cfg, nil
}

// Decode unmarshals v into a Config, fills in defaults and validates it.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Path returns the default config file location for a project.
func Path(projectDir string) string {
	return filepath.Join(projectDir, ".ralph", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("specs_dir", d.SpecsDir)
	v.SetDefault("plan_file", d.PlanFile)
	v.SetDefault("validation_command", d.ValidationCommand)
	v.SetDefault("max_iterations", d.MaxIterations)
	v.SetDefault("max_consecutive_failures", d.MaxConsecutiveFailures)
	v.SetDefault("iteration_delay", d.IterationDelay)
	v.SetDefault("completion_signal", d.CompletionSignal)
	v.SetDefault("force_blocked", d.ForceBlocked)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("agent.binary", d.Agent.Binary)
	v.SetDefault("agent.allow_all", d.Agent.AllowAll)
	v.SetDefault("agent.thread_url_base", d.Agent.ThreadURLBase)
}

// applyDefaults replaces empty and zero values, so "max_iterations: 0"
// in a config file means the default rather than "never run".
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.SpecsDir == "" {
		cfg.SpecsDir = defaults.SpecsDir
	}
	if cfg.PlanFile == "" {
		cfg.PlanFile = defaults.PlanFile
	}
	if cfg.ValidationCommand == "" {
		cfg.ValidationCommand = defaults.ValidationCommand
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = defaults.MaxIterations
	}
	if cfg.MaxConsecutiveFailures == 0 {
		cfg.MaxConsecutiveFailures = defaults.MaxConsecutiveFailures
	}
	if cfg.CompletionSignal == "" {
		cfg.CompletionSignal = defaults.CompletionSignal
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.Agent.Binary == "" {
		cfg.Agent.Binary = defaults.Agent.Binary
	}
	if cfg.Agent.ThreadURLBase == "" {
		cfg.Agent.ThreadURLBase = defaults.Agent.ThreadURLBase
	}
}

// Validate rejects values the loop cannot work with.
func (c Config) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.MaxConsecutiveFailures < 0 {
		return fmt.Errorf("max_consecutive_failures must be positive, got %d", c.MaxConsecutiveFailures)
	}
	if c.IterationDelay < 0 {
		return fmt.Errorf("iteration_delay must not be negative, got %s", c.IterationDelay)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// PlanPath returns the absolute path of the plan document.
func (c Config) PlanPath() string {
	return c.resolve(c.PlanFile)
}

// SpecsPath returns the absolute path of the specs directory.
func (c Config) SpecsPath() string {
	return c.resolve(c.SpecsDir)
}

func (c Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}
