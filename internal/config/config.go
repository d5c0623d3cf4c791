// Package config loads CLI configuration for liveline from YAML files and
// LIVELINE_* environment variables.
package config

import (
	"time"
)

// Styles accepted for the leading field of the progress line.
const (
	StyleBar     = "bar"
	StyleLoading = "loading"
)

// Config holds the settings for a liveline run.
type Config struct {
	// Title is the message prefix shown before every line.
	Title string `mapstructure:"title" yaml:"title"`

	// MaxValue is the progress ceiling; percent = current/max*100.
	MaxValue float64 `mapstructure:"max_value" yaml:"max_value"`

	// Width is the bar field width in characters.
	Width int `mapstructure:"width" yaml:"width"`

	// Style selects the leading field: "bar" or "loading".
	Style string `mapstructure:"style" yaml:"style"`

	// NoColor disables ANSI styling.
	NoColor bool `mapstructure:"no_color" yaml:"no_color"`

	// RelayInterval is how often intercepted output is flushed beneath the
	// live line.
	RelayInterval time.Duration `mapstructure:"relay_interval" yaml:"relay_interval"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Title:         "Progress Tool",
		MaxValue:      100,
		Width:         30,
		Style:         StyleBar,
		RelayInterval: time.Second,
	}
}
