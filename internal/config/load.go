package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/cliengo/internal/constants"
	"github.com/mrz1836/cliengo/internal/errors"
)

// newViperInstance creates a new Viper instance with the CLIENGO_ env prefix,
// key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// Load reads configuration from all available sources with proper precedence
// and resolves paths against the cliengo home directory.
//
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	// Global config first, project config merges over it.
	if path, err := GlobalConfigPath(); err == nil && fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrap(err, "failed to read global config file")
		}
	}
	if path := ProjectConfigPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrap(err, "failed to read project config file")
		}
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("store.backend", cfg.Store.Backend).
		Str("store.file.dir", cfg.Store.File.Dir).
		Int("reorder.concurrency", cfg.Reorder.Concurrency).
		Msg("configuration loaded")
	return cfg, nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	if overrides == nil {
		return cfg, nil
	}

	applyOverrides(cfg, overrides)
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}
	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	home, err := HomeDir()
	if err != nil {
		return nil, err
	}
	cfg.ResolvePaths(home)

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// setDefaults registers every key so environment variables bind during Unmarshal.
// Keys must match the mapstructure tags exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.lock_timeout", d.Store.LockTimeout.String())
	v.SetDefault("store.file.dir", "")
	v.SetDefault("store.sqlite.path", "")
	v.SetDefault("store.redis.addr", d.Store.Redis.Addr)
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.namespace", d.Store.Redis.Namespace)
	v.SetDefault("store.redis.dial_timeout", d.Store.Redis.DialTimeout.String())

	v.SetDefault("avatar.dir", "")
	v.SetDefault("avatar.base_url", "")
	v.SetDefault("avatar.max_size_bytes", d.Avatar.MaxSizeBytes)
	v.SetDefault("avatar.allowed_types", d.Avatar.AllowedTypes)

	v.SetDefault("reorder.concurrency", d.Reorder.Concurrency)
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Store.Backend != "" {
		cfg.Store.Backend = overrides.Store.Backend
	}
	if overrides.Store.File.Dir != "" {
		cfg.Store.File.Dir = expandHome(overrides.Store.File.Dir)
	}
	if overrides.Store.SQLite.Path != "" {
		cfg.Store.SQLite.Path = expandHome(overrides.Store.SQLite.Path)
	}
	if overrides.Store.Redis.Addr != "" {
		cfg.Store.Redis.Addr = overrides.Store.Redis.Addr
	}
	if overrides.Store.Redis.Namespace != "" {
		cfg.Store.Redis.Namespace = overrides.Store.Redis.Namespace
	}
	if overrides.Reorder.Concurrency != 0 {
		cfg.Reorder.Concurrency = overrides.Reorder.Concurrency
	}
}

// viperDecoderOption converts duration strings and comma-separated lists,
// which is how both arrive from environment variables.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
