// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for storyloom.
type Config struct {
	APIURL    string `mapstructure:"api_url" yaml:"api_url"`
	DataDir   string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`
	Voice     string `mapstructure:"voice" yaml:"voice"`
	Theme     string `mapstructure:"theme" yaml:"theme"`
	Watermark bool   `mapstructure:"watermark" yaml:"watermark"`
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("storyloom")

	v.SetDefault("api_url", "https://api.storyloom.io/v1")
	v.SetDefault("data_dir", ".storyloom")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("voice", "")
	v.SetDefault("theme", "")
	v.SetDefault("watermark", true)

	// ENV binding with STORYLOOM_ prefix
	v.SetEnvPrefix("STORYLOOM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better bool parsing
	bindings := map[string]string{
		"api_url":   "STORYLOOM_API_URL",
		"data_dir":  "STORYLOOM_DATA_DIR",
		"log_level": "STORYLOOM_LOG_LEVEL",
		"log_file":  "STORYLOOM_LOG_FILE",
		"voice":     "STORYLOOM_VOICE",
		"theme":     "STORYLOOM_THEME",
		"watermark": "STORYLOOM_WATERMARK",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/storyloom/storyloom.yml or $XDG_CONFIG_HOME/storyloom/storyloom.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "storyloom", "storyloom.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "storyloom", "storyloom.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./storyloom.yml in the current working directory.
func ProjectPath() string {
	return "storyloom.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ProjectPath(), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
