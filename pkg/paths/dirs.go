package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvLuadbConfigDir overrides the XDG config directory for luadb
	EnvLuadbConfigDir = "LUADB_CONFIG_DIR"

	// EnvLuadbStateDir overrides the XDG state directory for luadb
	EnvLuadbStateDir = "LUADB_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// LuadbDirName is the directory name for luadb-specific files
	LuadbDirName = "luadb"

	// UserConfigFile is the user configuration file inside ConfigDir
	UserConfigFile = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "luadb.log"
)

// ConfigDir returns the directory holding the user configuration
func ConfigDir() string {
	if dir := os.Getenv(EnvLuadbConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, LuadbDirName)
	}
	return filepath.Join(xdg.ConfigHome, LuadbDirName)
}

// UserConfigPath returns the path of the user configuration file
func UserConfigPath() string {
	return filepath.Join(ConfigDir(), UserConfigFile)
}

// StateDir returns the directory holding luadb's log file
func StateDir() string {
	if dir := os.Getenv(EnvLuadbStateDir); dir != "" {
		return ExpandHome(dir)
	}
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, LuadbDirName)
	}
	if xdg.StateHome != "" {
		return filepath.Join(xdg.StateHome, LuadbDirName)
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "state", LuadbDirName)
}

// LogFilePath returns the path of the log file
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to HOME env var
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
