package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default blendrun data directory name (relative to home).
	DefaultDataDir = ".blendrun"
	// DBFile is the filename for the run journal database.
	DBFile = "blendrun.db"
	// ConfigFile is the filename for the optional executor config file.
	ConfigFile = "config.yaml"

	// Workspace files.

	// WorkspacePattern is the os.MkdirTemp pattern for per-run workspaces.
	WorkspacePattern = "blendrun-*"
	// DefaultScriptName is the staged script name when a request has no
	// usable logical name.
	DefaultScriptName = "script"

	// Environment variables.

	// EnvBlenderExecutable names the Blender binary. Read as a discovery
	// tier and set on every child process with the resolved path.
	EnvBlenderExecutable = "BLENDER_EXECUTABLE"
)

// DataDir returns the blendrun data directory under the given home.
func DataDir(home string) string {
	return filepath.Join(home, DefaultDataDir)
}

// DBPath returns the run journal database path under the given home.
func DBPath(home string) string {
	return filepath.Join(DataDir(home), DBFile)
}

// ConfigPath returns the executor config file path under the given home.
func ConfigPath(home string) string {
	return filepath.Join(DataDir(home), ConfigFile)
}
