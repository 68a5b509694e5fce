package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape. Pointer fields
// distinguish "unset" from zero values so local files can override global
// ones field by field.
type FileConfig struct {
	MinLength       *int    `yaml:"min_length,omitempty"`
	MaxLength       *int    `yaml:"max_length,omitempty"`
	Maximal         *bool   `yaml:"maximal,omitempty"`
	NoColor         *bool   `yaml:"no_color,omitempty"`
	Include         *string `yaml:"include,omitempty"`
	Exclude         *string `yaml:"exclude,omitempty"`
	MaxBytes        *int64  `yaml:"max_bytes,omitempty"`
	Threads         *int    `yaml:"threads,omitempty"`
	PerLine         *bool   `yaml:"per_line,omitempty"`
	DefaultExcludes *bool   `yaml:"default_excludes,omitempty"`

	Oracle *OracleConfig `yaml:"oracle,omitempty"`
}

// OracleConfig configures the generative-language service.
type OracleConfig struct {
	// Model is the Gemini model name. Empty selects the built-in default.
	Model *string `yaml:"model,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv *string `yaml:"api_key_env,omitempty"`

	// Timeout bounds a single request, e.g. "30s".
	Timeout *string `yaml:"timeout,omitempty"`
}

// LocalNames are searched in order by LoadLocal.
var LocalNames = []string{".palindrom.yml", ".palindrom.yaml", "palindrom.yml", "palindrom.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a config file in dir.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "palindrom", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// GetOracleConfig returns the oracle section, never nil.
func (fc FileConfig) GetOracleConfig() OracleConfig {
	if fc.Oracle == nil {
		return OracleConfig{}
	}
	return *fc.Oracle
}

// GetModel returns the configured model or empty string for the default.
func (oc OracleConfig) GetModel() string {
	if oc.Model == nil {
		return ""
	}
	return *oc.Model
}

// GetAPIKeyEnv returns the configured key variable or empty string.
func (oc OracleConfig) GetAPIKeyEnv() string {
	if oc.APIKeyEnv == nil {
		return ""
	}
	return *oc.APIKeyEnv
}

// GetTimeout returns the configured timeout string or empty string.
func (oc OracleConfig) GetTimeout() string {
	if oc.Timeout == nil {
		return ""
	}
	return *oc.Timeout
}
