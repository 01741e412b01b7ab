package blender

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blendrun/blendrun/internal/conventions"
	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
)

// smokeTimeout bounds the doctor's end-to-end probe script.
const smokeTimeout = 30 * time.Second

// smokeScript is a minimal bpy script proving Blender can actually run
// staged Python, not just answer --version.
const smokeScript = `import bpy
print("SUCCESS: bpy module available in Blender " + bpy.app.version_string)
`

// Check performs preflight checks for the configured executor.
func (m *Manager) Check(ctx context.Context, cfg model.ExecutorConfig) []model.CheckResult {
	cfg = normalizeConfig(cfg)

	var results []model.CheckResult

	// Check 1: Blender binary discoverable
	exe, found := m.checkBinary(ctx, cfg)
	results = append(results, found)

	// Check 2: version probe (already validated during discovery)
	if exe != nil {
		results = append(results, model.CheckResult{
			ID:      "binary_version",
			Message: exe.Version,
			Status:  model.CheckStatusOK,
		})
	}

	// Check 3: workspace root writable
	results = append(results, checkTempRoot(cfg.TempRoot))

	// Check 4: invocation mode
	results = append(results, checkMode(cfg.Mode))

	// Check 5: end-to-end probe script, headless regardless of cfg.Mode
	if exe != nil {
		results = append(results, m.checkSmoke(ctx, cfg, exe))
	}

	return results
}

// checkBinary resolves the binary through the discovery tiers.
func (m *Manager) checkBinary(ctx context.Context, cfg model.ExecutorConfig) (*model.Executable, model.CheckResult) {
	exe, err := m.locator.Locate(ctx, cfg.BinaryPath)
	if err != nil {
		return nil, model.CheckResult{
			ID:      "binary_found",
			Message: fmt.Sprintf("Blender binary not usable: %v", err),
			Status:  model.CheckStatusError,
		}
	}

	return exe, model.CheckResult{
		ID:      "binary_found",
		Message: fmt.Sprintf("Blender found at %s (%s)", exe.Path, exe.Source),
		Status:  model.CheckStatusOK,
	}
}

// checkTempRoot verifies a per-run workspace can be created under the
// configured temp root.
func checkTempRoot(tempRoot string) model.CheckResult {
	dir, err := os.MkdirTemp(tempRoot, conventions.WorkspacePattern)
	if err != nil {
		return model.CheckResult{
			ID:      "temp_root_writable",
			Message: fmt.Sprintf("Cannot create workspaces under %q: %v", tempRootLabel(tempRoot), err),
			Status:  model.CheckStatusError,
		}
	}
	_ = os.RemoveAll(dir)

	return model.CheckResult{
		ID:      "temp_root_writable",
		Message: fmt.Sprintf("Workspace root %q is writable", tempRootLabel(tempRoot)),
		Status:  model.CheckStatusOK,
	}
}

func tempRootLabel(tempRoot string) string {
	if tempRoot == "" {
		return os.TempDir()
	}
	return tempRoot
}

// checkMode flags interactive mode, which opens a window per run and blocks
// until it is closed.
func checkMode(mode model.InvocationMode) model.CheckResult {
	if mode == model.ModeInteractive {
		return model.CheckResult{
			ID:      "invocation_mode",
			Message: "Interactive mode, every run opens a Blender window and blocks until it closes",
			Status:  model.CheckStatusWarning,
		}
	}

	return model.CheckResult{
		ID:      "invocation_mode",
		Message: "Headless mode, Blender runs without a UI",
		Status:  model.CheckStatusOK,
	}
}

// checkSmoke runs a tiny bpy script end to end through a throwaway headless
// session. It never touches the manager's cached session.
func (m *Manager) checkSmoke(ctx context.Context, cfg model.ExecutorConfig, exe *model.Executable) model.CheckResult {
	smokeCfg := cfg
	smokeCfg.Mode = model.ModeHeadless
	smokeCfg.DefaultTimeout = smokeTimeout

	session := &Session{
		exe:    *exe,
		cfg:    smokeCfg,
		logger: m.logger.WithValues(log.Kv{"check": "smoke_test"}),
	}

	outcome, err := session.Execute(ctx, model.ExecutionRequest{
		Script: smokeScript,
		Name:   "doctor-smoke",
	})
	if err != nil {
		return model.CheckResult{
			ID:      "smoke_test",
			Message: fmt.Sprintf("Probe script could not run: %v", err),
			Status:  model.CheckStatusError,
		}
	}
	if !outcome.OK() {
		return model.CheckResult{
			ID:      "smoke_test",
			Message: fmt.Sprintf("Probe script failed (%s): %s", outcome.Status, outcome.Message),
			Status:  model.CheckStatusError,
		}
	}

	return model.CheckResult{
		ID:      "smoke_test",
		Message: outcome.Message,
		Status:  model.CheckStatusOK,
	}
}
