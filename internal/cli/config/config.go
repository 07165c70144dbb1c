package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the ECHO checker configuration
type Config struct {
	Output OutputConfig `mapstructure:"output"`
	Check  CheckConfig  `mapstructure:"check"`
}

// OutputConfig controls how diagnostics are rendered
type OutputConfig struct {
	Format string `mapstructure:"format"` // "text" or "json"
	Color  bool   `mapstructure:"color"`
}

// CheckConfig controls analysis behavior at the CLI boundary
type CheckConfig struct {
	MaxErrors        int  `mapstructure:"max_errors"` // display cap, 0 = unlimited
	WarningsAsErrors bool `mapstructure:"warnings_as_errors"`
}

// Load loads the configuration from echo.yml in the working directory.
// A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("output.format", "text")
	v.SetDefault("output.color", true)
	v.SetDefault("check.max_errors", 0)
	v.SetDefault("check.warnings_as_errors", false)

	// Set config name and paths
	v.SetConfigName("echo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support (ECHO_OUTPUT_FORMAT, ...)
	v.SetEnvPrefix("echo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	switch config.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", config.Output.Format)
	}
	if config.Check.MaxErrors < 0 {
		return fmt.Errorf("check.max_errors must not be negative")
	}
	return nil
}
