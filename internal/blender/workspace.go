package blender

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blendrun/blendrun/internal/conventions"
)

// maxScriptNameLen caps the sanitized script filename stem.
const maxScriptNameLen = 64

// Workspace is the staged per-run temp directory. Every execution gets its
// own workspace; it is removed on every exit path.
type Workspace struct {
	// Dir is the per-run directory, removed by Cleanup.
	Dir string
	// ScriptPath is the staged script file inside Dir.
	ScriptPath string
}

// stageWorkspace writes the script into a fresh collision-free directory
// under tempRoot (the OS temp dir when empty).
func stageWorkspace(tempRoot, name, script string) (*Workspace, error) {
	dir, err := os.MkdirTemp(tempRoot, conventions.WorkspacePattern)
	if err != nil {
		return nil, fmt.Errorf("could not create workspace directory: %w", err)
	}

	scriptPath := filepath.Join(dir, scriptFileName(name))
	if err := os.WriteFile(scriptPath, []byte(script), 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("could not stage script: %w", err)
	}

	return &Workspace{Dir: dir, ScriptPath: scriptPath}, nil
}

// Cleanup removes the workspace directory and everything in it.
func (w *Workspace) Cleanup() {
	_ = os.RemoveAll(w.Dir)
}

// scriptFileName sanitizes a logical name into the staged .py filename.
// Anything outside [A-Za-z0-9._-] is dropped.
func scriptFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	stem := strings.Trim(b.String(), ".")
	if len(stem) > maxScriptNameLen {
		stem = stem[:maxScriptNameLen]
	}
	if stem == "" {
		stem = conventions.DefaultScriptName
	}

	return stem + ".py"
}
