package constants

// Log file names.
const (
	// CLILogFileName is the name of the CLI log file.
	// This file is located in ~/.cliengo/logs/cliengo.log
	CLILogFileName = "cliengo.log"

	// LogMaxSizeMB is the size at which the CLI log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated log files are kept.
	LogMaxAgeDays = 28

	// LogCompress gzips rotated log files.
	LogCompress = true
)

// Configuration and state file names.
const (
	// GlobalConfigName is the name of the global configuration file in the cliengo home.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the directory holding project configuration.
	ProjectConfigDir = ".cliengo"

	// ProjectConfigName is the name of the project configuration file.
	ProjectConfigName = "config.yaml"

	// SessionFileName stores the signed-in principal.
	SessionFileName = "session.yaml"

	// SQLiteFileName is the default database file for the sqlite backend.
	SQLiteFileName = "cliengo.db"
)
