package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/barnwall/hbmon/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the config file looked up in the working directory.
	ConfigFileName = "hbmon.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/hbmon"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix namespaces environment overrides, e.g. HBMON_PORT.
	EnvPrefix = "HBMON"
	// PathEnv names a config file to use instead of searching for one.
	PathEnv = "HBMON_CONFIG"
)

// Option adjusts the viper instance before the config is decoded.
type Option func(v *viper.Viper) error

// WithFlag binds a command-line flag to a config key. The flag wins over
// env and file only when it was set explicitly.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(v *viper.Viper) error {
		if flag == nil {
			return nil
		}
		return v.BindPFlag(key, flag)
	}
}

// Load reads config from path (empty means defaults + env only) and applies
// the options. Precedence: flags, HBMON_* env, file, defaults.
func Load(path string, opts ...Option) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to bind command-line flags",
				"")
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found: "+path,
					"Check the path in "+PathEnv)
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		where := "the environment"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}

	return cfg, nil
}

// Find locates the config file using the search order:
// 1. Explicit path (argument, else $HBMON_CONFIG)
// 2. hbmon.yaml in the current directory
// 3. ~/.config/hbmon/config.yaml
//
// Returns the path to the config file, or empty string if not found.
// An explicit path that does not exist is an error.
func Find(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(PathEnv)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path in "+PathEnv+" is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// Resolve finds, loads, and validates the configuration in one step.
// It returns the config file used, empty when none was found.
func Resolve(explicit string, opts ...Option) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := Load(path, opts...)
	if err != nil {
		return nil, path, err
	}

	if err := Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// setDefaults registers every key so env overrides are seen by Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("port", d.Port)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("buffer_size", d.BufferSize)
	v.SetDefault("max_drain", d.MaxDrain)
	v.SetDefault("stale_after", d.StaleAfter)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}
