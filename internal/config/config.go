// Package config loads the orizon-derive tool configuration.
//
// Configuration comes from orizon-derive.toml, discovered by walking up from
// the working directory, with ORIZON_DERIVE_* environment variables taking
// precedence over file values and file values over built-in defaults.
package config

import (
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/orizon-derive/internal/oerrors"
)

const (
	// ConfigFileName is the project configuration file discovered by walking
	// up from the working directory.
	ConfigFileName = "orizon-derive.toml"
	// EnvPrefix namespaces environment overrides: ORIZON_DERIVE_LOG_LEVEL
	// overrides log_level.
	EnvPrefix = "ORIZON_DERIVE"
)

// Built-in defaults.
const (
	DefaultLanguageVersion = "0.1.0"
	DefaultIndentWidth     = 4
	DefaultColorMode       = "auto"
	DefaultLogLevel        = "info"
	DefaultWatchDebounceMs = 250
)

// Config represents the orizon-derive tool configuration.
type Config struct {
	// LanguageVersion is the Orizon language version derive requests are
	// checked against; traits gated on a newer version are rejected.
	LanguageVersion string `mapstructure:"language_version" toml:"language_version" json:"language_version"`
	// UnstableTraits admits traits registered as unstable.
	UnstableTraits bool `mapstructure:"unstable_traits" toml:"unstable_traits" json:"unstable_traits"`
	// IndentWidth is the number of spaces per indentation level in emitted
	// source.
	IndentWidth int `mapstructure:"indent_width" toml:"indent_width" json:"indent_width"`
	// ColorMode controls diagnostic coloring: auto, always, or never.
	ColorMode string `mapstructure:"color_mode" toml:"color_mode" json:"color_mode"`
	// LogLevel is the minimum level logged to stderr: debug, info, warn, or
	// error.
	LogLevel string `mapstructure:"log_level" toml:"log_level" json:"log_level"`
	// WatchDebounceMs is the quiet period in milliseconds between a file
	// change and re-expansion in watch mode.
	WatchDebounceMs int `mapstructure:"watch_debounce_ms" toml:"watch_debounce_ms" json:"watch_debounce_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LanguageVersion: DefaultLanguageVersion,
		UnstableTraits:  false,
		IndentWidth:     DefaultIndentWidth,
		ColorMode:       DefaultColorMode,
		LogLevel:        DefaultLogLevel,
		WatchDebounceMs: DefaultWatchDebounceMs,
	}
}

// Validate checks field values that later stages would otherwise fail on.
func (c *Config) Validate() error {
	if _, err := semver.NewVersion(c.LanguageVersion); err != nil {
		return oerrors.Wrapf(err, "language_version %q", c.LanguageVersion)
	}
	if c.IndentWidth <= 0 {
		return oerrors.Newf("indent_width must be positive, got %d", c.IndentWidth)
	}
	switch c.ColorMode {
	case "auto", "always", "never":
	default:
		return oerrors.WithHint(
			oerrors.Newf("unknown color_mode %q", c.ColorMode),
			"valid modes are auto, always, and never")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return oerrors.WithHint(
			oerrors.Newf("unknown log_level %q", c.LogLevel),
			"valid levels are debug, info, warn, and error")
	}
	if c.WatchDebounceMs < 0 {
		return oerrors.Newf("watch_debounce_ms must not be negative, got %d", c.WatchDebounceMs)
	}
	return nil
}

// Version parses the configured language version.
func (c *Config) Version() (*semver.Version, error) {
	v, err := semver.NewVersion(c.LanguageVersion)
	if err != nil {
		return nil, oerrors.Wrapf(err, "language_version %q", c.LanguageVersion)
	}
	return v, nil
}

// WatchDebounce returns the watch quiet period as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMs) * time.Millisecond
}
