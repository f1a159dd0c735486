// Package config provides configuration management for cliengo with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (CLIENGO_* prefix)
//  3. Project config (.cliengo/config.yaml)
//  4. Global config (~/.cliengo/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/client or the store packages.
package config

import "time"

// Store backend names accepted in store.backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Backends lists every supported store backend.
var Backends = []string{BackendFile, BackendSQLite, BackendRedis, BackendMemory}

// Config is the root configuration structure for cliengo.
type Config struct {
	// Store selects and configures where client records and profiles live.
	Store StoreConfig `yaml:"store" json:"store" mapstructure:"store"`

	// Avatar configures the avatar blob store and upload limits.
	Avatar AvatarConfig `yaml:"avatar" json:"avatar" mapstructure:"avatar"`

	// Reorder configures how a new display order is persisted.
	Reorder ReorderConfig `yaml:"reorder" json:"reorder" mapstructure:"reorder"`
}

// StoreConfig contains settings for the record store.
type StoreConfig struct {
	// Backend is one of "file", "sqlite", "redis" or "memory".
	// "memory" keeps records for one process only and is meant for tests;
	// the cliengo commands refuse it.
	// Default: "file"
	Backend string `yaml:"backend" json:"backend" mapstructure:"backend"`

	// LockTimeout bounds how long the file backend waits for a record lock.
	// Default: 5 seconds
	LockTimeout time.Duration `yaml:"lock_timeout" json:"lock_timeout" mapstructure:"lock_timeout"`

	File   FileStoreConfig   `yaml:"file" json:"file" mapstructure:"file"`
	SQLite SQLiteStoreConfig `yaml:"sqlite" json:"sqlite" mapstructure:"sqlite"`
	Redis  RedisStoreConfig  `yaml:"redis" json:"redis" mapstructure:"redis"`
}

// FileStoreConfig contains settings for the YAML file backend.
type FileStoreConfig struct {
	// Dir is the store root. Empty means the cliengo home directory.
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`
}

// SQLiteStoreConfig contains settings for the sqlite backend.
type SQLiteStoreConfig struct {
	// Path is the database file. Empty means cliengo.db in the cliengo home.
	Path string `yaml:"path" json:"path" mapstructure:"path"`
}

// RedisStoreConfig contains settings for the Redis backend.
type RedisStoreConfig struct {
	// Addr is host:port of the Redis server.
	// Default: "localhost:6379"
	Addr string `yaml:"addr" json:"addr" mapstructure:"addr"`

	// Password is read from CLIENGO_STORE_REDIS_PASSWORD when not in a file.
	Password string `yaml:"password,omitempty" json:"password,omitempty" mapstructure:"password"`

	// DB is the Redis logical database number.
	DB int `yaml:"db" json:"db" mapstructure:"db"`

	// Namespace isolates this installation's keys.
	// Default: "default"
	Namespace string `yaml:"namespace" json:"namespace" mapstructure:"namespace"`

	// DialTimeout bounds connecting to the server.
	// Default: 5 seconds
	DialTimeout time.Duration `yaml:"dial_timeout" json:"dial_timeout" mapstructure:"dial_timeout"`
}

// AvatarConfig contains settings for avatar uploads.
type AvatarConfig struct {
	// Dir is where avatar blobs are written. Empty means avatars/ in the
	// cliengo home directory.
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`

	// BaseURL prefixes blob paths to form public URLs. Empty means file URLs.
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// MaxSizeBytes is the largest accepted upload.
	// Default: 5MB
	MaxSizeBytes int64 `yaml:"max_size_bytes" json:"max_size_bytes" mapstructure:"max_size_bytes"`

	// AllowedTypes lists accepted content types.
	// Default: image/jpeg, image/jpg, image/png, image/webp
	AllowedTypes []string `yaml:"allowed_types" json:"allowed_types" mapstructure:"allowed_types"`
}

// ReorderConfig contains settings for persisting a new order.
type ReorderConfig struct {
	// Concurrency is how many position updates run in parallel.
	// Default: 8, Valid range: 1-64
	Concurrency int `yaml:"concurrency" json:"concurrency" mapstructure:"concurrency"`
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	out := *c
	if out.Store.Redis.Password != "" {
		out.Store.Redis.Password = "[REDACTED]"
	}
	out.Avatar.AllowedTypes = append([]string(nil), c.Avatar.AllowedTypes...)
	return out
}
