//go:build !windows

package blender

import (
	"fmt"
	"os"
	"path/filepath"
)

// wellKnownPaths returns the conventional Blender install locations.
func wellKnownPaths() []string {
	return []string{
		"/usr/bin/blender",
		"/usr/local/bin/blender",
		"/snap/bin/blender",
		"/Applications/Blender.app/Contents/MacOS/Blender",
	}
}

// executableNames returns the names tried during PATH lookup.
func executableNames() []string {
	return []string{"blender"}
}

// resolveCandidate expands a candidate into an existing regular file path.
// A directory candidate is searched for the executable inside it.
func resolveCandidate(candidate string) (string, bool) {
	info, err := os.Stat(candidate)
	if err != nil {
		return "", false
	}

	if info.Mode().IsRegular() {
		return candidate, true
	}

	if info.IsDir() {
		inner := filepath.Join(candidate, "blender")
		if innerInfo, err := os.Stat(inner); err == nil && innerInfo.Mode().IsRegular() {
			return inner, true
		}
	}

	return "", false
}

// checkExecutable verifies the execute permission bit.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("file mode %s has no execute permission", info.Mode().Perm())
	}

	return nil
}
