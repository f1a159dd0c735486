package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/cliengo/internal/constants"
	"github.com/mrz1836/cliengo/internal/errors"
)

// HomeDir returns the cliengo home directory. CLIENGO_HOME overrides the
// default of ~/.cliengo.
//
// Returns an error if the home directory cannot be determined.
func HomeDir() (string, error) {
	if dir := os.Getenv(constants.HomeEnvVar); dir != "" {
		return filepath.Abs(expandHome(dir))
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.CliengoHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", errors.Wrap(err, "get global config path")
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .cliengo/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(constants.ProjectConfigDir, constants.ProjectConfigName)
}

// ResolvePaths fills empty store and avatar paths from home and expands a
// leading ~ in configured ones.
func (c *Config) ResolvePaths(home string) {
	if c.Store.File.Dir == "" {
		c.Store.File.Dir = home
	}
	c.Store.File.Dir = expandHome(c.Store.File.Dir)

	if c.Store.SQLite.Path == "" {
		c.Store.SQLite.Path = filepath.Join(home, constants.SQLiteFileName)
	}
	c.Store.SQLite.Path = expandHome(c.Store.SQLite.Path)

	if c.Avatar.Dir == "" {
		c.Avatar.Dir = filepath.Join(home, constants.AvatarsDir)
	}
	c.Avatar.Dir = expandHome(c.Avatar.Dir)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
