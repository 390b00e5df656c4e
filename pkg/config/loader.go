package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

// configName is the config file name without extension.
const configName = ".tsfix"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for tsfix settings.
const envPrefix = "TSFIX"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := newViper()

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	return decode(viperCfg)
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(fmt.Sprintf("config: built-in defaults are invalid: %v", err))
	}

	return cfg
}

func newViper() *viper.Viper {
	viperCfg := viper.New()

	applyDefaults(viperCfg)
	viperCfg.SetConfigType(configType)

	return viperCfg
}

func decode(viperCfg *viper.Viper) (*Config, error) {
	schemaErr := ValidateSettings(viperCfg.AllSettings())
	if schemaErr != nil {
		return nil, fmt.Errorf("validate config schema: %w", schemaErr)
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("root", DefaultRoot)
	viperCfg.SetDefault("scan_dir", DefaultScanDir)
	viperCfg.SetDefault("extensions", DefaultExtensions())
	viperCfg.SetDefault("excludes", []string{})
	viperCfg.SetDefault("max_file_size", DefaultMaxFileSize)

	viperCfg.SetDefault("passes.enabled", []string{})
	viperCfg.SetDefault("passes.deny_list", rewrite.DefaultDenyList())
	viperCfg.SetDefault("passes.status_literals", rewrite.DefaultStatusLiterals())
	viperCfg.SetDefault("passes.catch.skip_if_referenced", DefaultCatchSkipIfReferenced)

	viperCfg.SetDefault("logger.name", DefaultLoggerName)
	viperCfg.SetDefault("logger.import", DefaultLoggerImport)
	viperCfg.SetDefault("logger.exempt", DefaultLoggerExempt)

	viperCfg.SetDefault("imports.categories", []map[string]any{})

	viperCfg.SetDefault("lint.enabled", DefaultLintEnabled)
	viperCfg.SetDefault("lint.command", DefaultLintCommand)

	patches := make([]map[string]any, 0, len(DefaultPatches()))
	for _, p := range DefaultPatches() {
		patches = append(patches, map[string]any{"file": p.File, "old": p.Old, "new": p.New})
	}

	viperCfg.SetDefault("patches", patches)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", DefaultLogJSON)
}
