package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/orizon-lang/orizon-derive/internal/oerrors"
)

var globalConfig *Config

// Load returns the effective configuration. An explicit path reads exactly
// that file; an empty path discovers ConfigFileName by walking up from the
// working directory, falling back to defaults when no file exists, and
// caches the result for later calls. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadPath(path)
	}
	if globalConfig != nil {
		return globalConfig, nil
	}
	cfg, err := loadPath(findProjectConfig())
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}

// Reset clears the cached configuration so the next Load rediscovers it.
func Reset() {
	globalConfig = nil
}

// loadPath builds a viper instance over defaults, the config file when path
// is non-empty, and environment overrides, then unmarshals and validates.
func loadPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, oerrors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, oerrors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, oerrors.Wrapf(err, "config %s", path)
		}
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key, which also makes environment overrides
// visible to Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("language_version", DefaultLanguageVersion)
	v.SetDefault("unstable_traits", false)
	v.SetDefault("indent_width", DefaultIndentWidth)
	v.SetDefault("color_mode", DefaultColorMode)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("watch_debounce_ms", DefaultWatchDebounceMs)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// findProjectConfig walks up from the working directory and returns the
// first orizon-derive.toml found, or the empty string.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
