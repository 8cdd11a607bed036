// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves biblioscope settings from flags, environment,
// .env files, the .secrets/ directory and an optional YAML config file.
//
// The Scopus API key is looked up in this order: ELSEVIER_API_KEY (including
// values loaded from .env), api_key in the config file, then
// .secrets/elsevier-api-key.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/biblioscope/internal/search"
	"github.com/pdiddy/biblioscope/internal/secrets"
	"github.com/pdiddy/biblioscope/pkg/types"
)

// Setting keys, usable in the config file or as BIBLIOSCOPE_<KEY> env vars.
const (
	KeyAPIKey    = "api_key"
	KeyEndpoint  = "endpoint"
	KeyTimeout   = "timeout"
	KeyCount     = "count"
	KeyHistory   = "history"
	KeyUserAgent = "user_agent"
)

const (
	// APIKeyEnv is the environment variable holding the Scopus API key.
	APIKeyEnv = "ELSEVIER_API_KEY"

	// EnvPrefix prefixes every other environment setting.
	EnvPrefix = "BIBLIOSCOPE"

	// DefaultCount is the number of results requested when none is given.
	DefaultCount = 10

	// DefaultUserAgent identifies biblioscope to the API.
	DefaultUserAgent = "biblioscope/0.1"

	configName = "biblioscope"
)

// ConfigError reports a required setting that could not be resolved.
type ConfigError struct {
	Setting string
	Hint    string
}

func (e *ConfigError) Error() string {
	msg := e.Setting + " not found in environment variables"
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyEndpoint, search.DefaultEndpoint)
	v.SetDefault(KeyTimeout, search.DefaultTimeout)
	v.SetDefault(KeyCount, DefaultCount)
	v.SetDefault(KeyUserAgent, DefaultUserAgent)
	v.SetDefault(KeyHistory, DefaultHistoryPath())

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// The API key keeps its historical unprefixed name.
	_ = v.BindEnv(KeyAPIKey, APIKeyEnv)
	return v
}

// DefaultHistoryPath is the history database under the user config
// directory, or "" when that directory is unknown.
func DefaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configName, "history.db")
}

// ReadFile reads cfgFile, or searches ./biblioscope.yaml and
// ~/.config/biblioscope/biblioscope.yaml when cfgFile is empty. It returns
// the file used, or "" when no config file was found.
func ReadFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// LoadDotEnv loads each existing file into the process environment.
// Variables already set are never overridden; missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load resolves the full configuration. It returns a *ConfigError when no
// API key is available.
func Load(v *viper.Viper, sec secrets.Set) (types.Config, error) {
	key := v.GetString(KeyAPIKey)
	if key == "" {
		key = sec.Get(secrets.ElsevierAPIKey)
	}
	if key == "" {
		return types.Config{}, &ConfigError{
			Setting: APIKeyEnv,
			Hint:    "please set it in your .env file or environment",
		}
	}

	timeout := v.GetDuration(KeyTimeout)
	if timeout <= 0 {
		timeout = search.DefaultTimeout
	}
	// Explicit non-positive counts clamp to 1 like any other request.
	count := search.ClampCount(v.GetInt(KeyCount))

	return types.Config{
		Client: types.ClientConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: v.GetString(KeyUserAgent),
			},
			APIKey:   key,
			Endpoint: v.GetString(KeyEndpoint),
		},
		DefaultCount: count,
		HistoryPath:  v.GetString(KeyHistory),
	}, nil
}
