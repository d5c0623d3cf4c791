package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mvilar/liveline/internal/errors"
)

const (
	// FileName is the per-project config file name.
	FileName = ".liveline.yaml"
	// globalDir is the directory for global config, under the home dir.
	globalDir = ".config/liveline"
	// globalFile is the global config file name.
	globalFile = "config.yaml"
)

// Load reads config from the given path. An empty path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("LIVELINE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(err, errors.ErrConfig, "config file not found").
				WithSuggestion("run 'liveline init' to create one, or pass --config")
		}
		return cfg, errors.Wrap(err, errors.ErrConfig, "cannot read config file").
			WithSuggestion("check the file exists and is valid YAML")
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, errors.ErrConfig, "cannot parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Find locates the config file: the explicit path if given, then
// .liveline.yaml in the working directory, then the global config under the
// home directory. Returns empty when none exists.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrap(err, errors.ErrConfig, "cannot access config file "+explicit)
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err == nil {
		local := filepath.Join(cwd, FileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		global := filepath.Join(home, globalDir, globalFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.MaxValue <= 0 {
		return errors.InvalidArgument("max_value must be positive, got %v", c.MaxValue)
	}
	if c.Width <= 0 {
		return errors.InvalidArgument("width must be positive, got %d", c.Width)
	}
	if c.Style != StyleBar && c.Style != StyleLoading {
		return errors.InvalidArgument("style %q is not supported", c.Style).
			WithSuggestion(`use "bar" or "loading"`)
	}
	if c.RelayInterval < 0 {
		return errors.InvalidArgument("relay_interval must not be negative")
	}
	return nil
}

// Write marshals the config as YAML to path. Refuses to overwrite an
// existing file unless force is set.
func (c Config) Write(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.Newf(errors.ErrConfig, "%s already exists", path).
				WithSuggestion("pass --force to overwrite")
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfig, "cannot marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrConfig, "cannot write "+path)
	}
	return nil
}
