package pipeline

import (
	"os"
	"path/filepath"
)

// DefaultPluginDir is the compile-time fallback plugin directory, tried
// after the CLI flag and SNATCH_PLUGIN_DIR have both come up empty.
const DefaultPluginDir = "/usr/local/lib/snatch/plugins"

// UserPluginDirName is the $HOME-relative directory tried last.
const UserPluginDirName = ".snatch/plugins"

// SearchDirs assembles the plugin search path in the exact order the
// spec names: (1) the --plugin-dir CLI argument, (2) SNATCH_PLUGIN_DIR,
// (3) the compile-time default, (4) a $HOME-relative user directory.
// Empty or unset entries are skipped.
func SearchDirs(cliDir string) []string {
	var dirs []string
	if cliDir != "" {
		dirs = append(dirs, cliDir)
	}
	if envDir := os.Getenv("SNATCH_PLUGIN_DIR"); envDir != "" {
		dirs = append(dirs, envDir)
	}
	dirs = append(dirs, DefaultPluginDir)
	if home := os.Getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, UserPluginDirName))
	}
	return dirs
}
