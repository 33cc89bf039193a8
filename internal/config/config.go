// Package config resolves the environment the tool runs in. Everything is
// read once at startup into a plain value; nothing consults the
// environment afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the effective configuration. The environment variables are the
// ones the todo.txt ecosystem already uses, so the tool drops into an
// existing setup; an optional config file can supply defaults for any of
// them.
type Config struct {
	// TodoFile is the file to operate on. Mandatory for slice commands.
	TodoFile string `mapstructure:"todo_file" yaml:"todo_file"`

	// Editor is the command used to edit the slice. Empty means fall back
	// to $EDITOR, $VISUAL, then vi.
	Editor string `mapstructure:"editor" yaml:"editor,omitempty"`

	// DateOnAdd gives newly created tasks today as their creation date.
	DateOnAdd bool `mapstructure:"date_on_add" yaml:"date_on_add"`

	// PreserveLineNumbers keeps blank placeholder lines on save so
	// surviving tasks keep their line numbers.
	PreserveLineNumbers bool `mapstructure:"preserve_line_numbers" yaml:"preserve_line_numbers"`

	// DisableFilter turns off all visibility filtering: completed and
	// future-dated tasks become editable everywhere.
	DisableFilter bool `mapstructure:"disable_filter" yaml:"disable_filter"`

	// ReviewIntervals configures the review slice as priority:days pairs,
	// comma-separated, with _ for unprioritized tasks ("A:7,B:30,_:90").
	ReviewIntervals string `mapstructure:"review_intervals" yaml:"review_intervals,omitempty"`
}

// DefaultPath returns the default config file location,
// ~/.config/todoslice/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "todoslice", "config.yaml")
}

// Load builds the configuration from the environment, with the config file
// at path (if it exists) supplying defaults underneath.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("preserve_line_numbers", true)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	for key, envs := range map[string][]string{
		"todo_file":             {"TODO_FILE"},
		"editor":                {"EDITOR", "VISUAL"},
		"date_on_add":           {"TODOTXT_DATE_ON_ADD"},
		"preserve_line_numbers": {"TODOTXT_PRESERVE_LINE_NUMBERS"},
		"disable_filter":        {"TODOTXT_DISABLE_FILTER"},
		"review_intervals":      {"SLICE_REVIEW_INTERVALS"},
	} {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	return &cfg, nil
}
