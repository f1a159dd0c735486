package config

import (
	"time"

	"github.com/mrz1836/cliengo/internal/constants"
)

// DefaultAllowedAvatarTypes are the content types accepted for avatars.
var DefaultAllowedAvatarTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

const (
	defaultRedisAddr        = "localhost:6379"
	defaultRedisNamespace   = "default"
	defaultRedisDialTimeout = 5 * time.Second
)

// DefaultConfig returns a new Config with default values. Paths are left
// empty and resolved against the cliengo home directory by Load.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:     BackendFile,
			LockTimeout: constants.DefaultLockTimeout,
			Redis: RedisStoreConfig{
				Addr:        defaultRedisAddr,
				Namespace:   defaultRedisNamespace,
				DialTimeout: defaultRedisDialTimeout,
			},
		},
		Avatar: AvatarConfig{
			MaxSizeBytes: constants.DefaultAvatarMaxBytes,
			AllowedTypes: append([]string(nil), DefaultAllowedAvatarTypes...),
		},
		Reorder: ReorderConfig{
			Concurrency: constants.DefaultReorderConcurrency,
		},
	}
}
