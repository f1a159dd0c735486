package config

import (
	"net/url"
	"slices"
	"strings"

	"github.com/mrz1836/cliengo/internal/errors"
)

const maxReorderConcurrency = 64

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - store.backend must be a known backend
//   - store.lock_timeout must be positive
//   - redis addr and namespace must be set when the redis backend is selected
//   - avatar.max_size_bytes must be positive and allowed_types non-empty image types
//   - avatar.base_url, when set, must be an absolute URL
//   - reorder.concurrency must be between 1 and 64
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	if err := validateStoreConfig(&cfg.Store); err != nil {
		return err
	}
	if err := validateAvatarConfig(&cfg.Avatar); err != nil {
		return err
	}
	return validateReorderConfig(&cfg.Reorder)
}

func validateStoreConfig(cfg *StoreConfig) error {
	if !slices.Contains(Backends, cfg.Backend) {
		return errors.Wrapf(errors.ErrConfigInvalidStore,
			"store.backend must be one of %s, got %q", strings.Join(Backends, ", "), cfg.Backend)
	}
	if cfg.LockTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidStore,
			"store.lock_timeout must be positive, got %s", cfg.LockTimeout)
	}
	if cfg.Backend == BackendRedis {
		if cfg.Redis.Addr == "" {
			return errors.Wrap(errors.ErrConfigInvalidStore, "store.redis.addr must not be empty")
		}
		if cfg.Redis.Namespace == "" {
			return errors.Wrap(errors.ErrConfigInvalidStore, "store.redis.namespace must not be empty")
		}
		if cfg.Redis.DB < 0 {
			return errors.Wrapf(errors.ErrConfigInvalidStore, "store.redis.db cannot be negative, got %d", cfg.Redis.DB)
		}
	}
	return nil
}

func validateAvatarConfig(cfg *AvatarConfig) error {
	if cfg.MaxSizeBytes <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidAvatar,
			"avatar.max_size_bytes must be positive, got %d", cfg.MaxSizeBytes)
	}
	if len(cfg.AllowedTypes) == 0 {
		return errors.Wrap(errors.ErrConfigInvalidAvatar, "avatar.allowed_types must not be empty")
	}
	for _, t := range cfg.AllowedTypes {
		if !strings.HasPrefix(t, "image/") {
			return errors.Wrapf(errors.ErrConfigInvalidAvatar,
				"avatar.allowed_types must be image types, got %q", t)
		}
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Wrapf(errors.ErrConfigInvalidAvatar,
				"avatar.base_url must be an absolute URL, got %q", cfg.BaseURL)
		}
	}
	return nil
}

func validateReorderConfig(cfg *ReorderConfig) error {
	if cfg.Concurrency < 1 || cfg.Concurrency > maxReorderConcurrency {
		return errors.Wrapf(errors.ErrConfigInvalidReorder,
			"reorder.concurrency must be between 1 and %d, got %d", maxReorderConcurrency, cfg.Concurrency)
	}
	return nil
}
