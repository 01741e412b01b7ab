//go:build windows

package blender

import (
	"os"
	"path/filepath"
	"strings"
)

// wellKnownPaths returns the conventional Blender install locations.
func wellKnownPaths() []string {
	return []string{
		`C:\Program Files\Blender Foundation\Blender 4.4\blender.exe`,
		`C:\Program Files\Blender Foundation\Blender 4.2\blender.exe`,
		`C:\Program Files\Blender Foundation\Blender 4.1\blender.exe`,
		`C:\Program Files\Blender Foundation\Blender 4.0\blender.exe`,
		`C:\Program Files\Blender Foundation\Blender 3.6\blender.exe`,
	}
}

// executableNames returns the names tried during PATH lookup.
func executableNames() []string {
	return []string{"blender.exe", "blender"}
}

// resolveCandidate expands a candidate into an existing regular file path.
// Candidates without the .exe suffix are also tried with it appended, and a
// directory candidate is searched for the executable inside it.
func resolveCandidate(candidate string) (string, bool) {
	variants := []string{candidate}
	if !strings.EqualFold(filepath.Ext(candidate), ".exe") {
		variants = append(variants, candidate+".exe")
	}

	for _, v := range variants {
		info, err := os.Stat(v)
		if err != nil {
			continue
		}

		if info.Mode().IsRegular() {
			return v, true
		}

		if info.IsDir() {
			for _, name := range executableNames() {
				inner := filepath.Join(v, name)
				if innerInfo, err := os.Stat(inner); err == nil && innerInfo.Mode().IsRegular() {
					return inner, true
				}
			}
		}
	}

	return "", false
}

// checkExecutable is a no-op on Windows, where executability is a matter of
// file extension rather than permission bits.
func checkExecutable(path string) error {
	return nil
}
