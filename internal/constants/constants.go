// Package constants provides centralized constant values used throughout cliengo.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by cliengo for organizing data.
const (
	// CliengoHome is the hidden directory name where cliengo stores all its data.
	// This directory is created in the user's home directory.
	CliengoHome = ".cliengo"

	// HomeEnvVar overrides the home directory location, mainly for tests.
	HomeEnvVar = "CLIENGO_HOME"

	// EnvPrefix is the prefix for configuration environment variables.
	EnvPrefix = "CLIENGO"

	// ClientsDir is where the file backend keeps one directory per owner.
	ClientsDir = "clients"

	// ProfilesDir is where the file backend keeps profile documents.
	ProfilesDir = "profiles"

	// AvatarsDir is the default avatar blob directory.
	AvatarsDir = "avatars"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// File locking.
const (
	// LockRetryInterval is the delay between attempts to take a file lock.
	LockRetryInterval = 50 * time.Millisecond

	// DefaultLockTimeout bounds how long a store waits for a file lock.
	DefaultLockTimeout = 5 * time.Second
)

// Reorder persistence.
const (
	// DefaultReorderConcurrency is the number of position updates issued in parallel.
	DefaultReorderConcurrency = 8
)

// Avatar upload limits.
const (
	// DefaultAvatarMaxBytes is the largest avatar upload accepted (5MB).
	DefaultAvatarMaxBytes int64 = 5 * 1024 * 1024
)

// DateLayout is the wire and display format of start and end dates.
const DateLayout = "2006-01-02"
