package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/orizon-lang/orizon-derive/internal/oerrors"
)

// Encode renders a configuration as TOML.
func Encode(c *Config) ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, oerrors.Wrap(err, "marshal config")
	}
	return data, nil
}

// WriteDefault writes the built-in configuration to path, refusing to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return oerrors.Newf("%s already exists", path)
	}
	data, err := Encode(Default())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return oerrors.Wrapf(err, "write %s", path)
	}
	return nil
}
