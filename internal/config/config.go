// Package config loads lpaplan settings from defaults, an optional YAML
// file and LPASTAR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the complete lpaplan configuration
type Config struct {
	Planner   PlannerConfig   `mapstructure:"planner"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// PlannerConfig holds the planner parameters
type PlannerConfig struct {
	// Resolution is the cell size in meters, used when a scenario does not set one
	Resolution float64 `mapstructure:"resolution" validate:"gt=0"`
	// WindowSize is the side, in cells, of the change-detection window
	WindowSize int `mapstructure:"window_size" validate:"gte=1"`
	// LethalCost is the cell cost at or above which a cell is impassable
	LethalCost int `mapstructure:"lethal_cost" validate:"gte=1,lte=255"`
	// CostFactor inflates edges through expensive cells (0 = disabled)
	CostFactor float64 `mapstructure:"cost_factor" validate:"gte=0"`
	// VerifyInvariants checks the consistency invariant after every repair
	VerifyInvariants bool `mapstructure:"verify_invariants"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	// Format is json or text
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// TelemetryConfig controls metric export
type TelemetryConfig struct {
	// MetricExporter is prometheus, stdout or none
	MetricExporter string `mapstructure:"metric_exporter" validate:"oneof=prometheus stdout none"`
	// MetricsAddr is the listen address of the /metrics endpoint
	MetricsAddr string `mapstructure:"metrics_addr" validate:"required_if=MetricExporter prometheus"`
}

// EnvPrefix prefixes environment overrides, e.g. LPASTAR_PLANNER_WINDOW_SIZE.
const EnvPrefix = "LPASTAR"

var validate = validator.New()

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			Resolution: 0.05,
			WindowSize: 70,
			LethalCost: 253,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			MetricExporter: "none",
			MetricsAddr:    ":9090",
		},
	}
}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("planner.resolution", defaults.Planner.Resolution)
	v.SetDefault("planner.window_size", defaults.Planner.WindowSize)
	v.SetDefault("planner.lethal_cost", defaults.Planner.LethalCost)
	v.SetDefault("planner.cost_factor", defaults.Planner.CostFactor)
	v.SetDefault("planner.verify_invariants", defaults.Planner.VerifyInvariants)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("telemetry.metric_exporter", defaults.Telemetry.MetricExporter)
	v.SetDefault("telemetry.metrics_addr", defaults.Telemetry.MetricsAddr)
}

// ConfigDir returns the per-user configuration directory
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "lpaplan")
	}
	return "."
}

// NewViper returns a viper instance with defaults, environment binding and
// the config file search path set up. cfgFile, when non-empty, is used
// instead of searching.
func NewViper(cfgFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	// LPASTAR_PLANNER_WINDOW_SIZE for planner.window_size
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (a missing file in the search path is not an
// error), unmarshals and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the Config for invalid values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			return ValidationErrors(fieldErrors)
		}
		return err
	}
	return nil
}

// ValidationErrors lists every invalid field of a Config
type ValidationErrors validator.ValidationErrors

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return formatFieldError(e[0])
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, fe := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, formatFieldError(fe)))
	}
	return sb.String()
}

// Fields returns the namespaced names of the invalid fields
func (e ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for _, fe := range e {
		fields = append(fields, fe.Namespace())
	}
	return fields
}

func formatFieldError(fe validator.FieldError) string {
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return fmt.Sprintf("%s: must satisfy %s (got: %v)", fe.Namespace(), rule, fe.Value())
}
