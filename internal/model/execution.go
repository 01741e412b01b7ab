package model

import (
	"fmt"
	"strings"
	"time"
)

// InvocationMode selects how the Blender process is launched.
type InvocationMode string

const (
	// ModeHeadless runs Blender with --background (no UI).
	ModeHeadless InvocationMode = "headless"
	// ModeInteractive runs Blender with its GUI visible. The execution only
	// finishes when the window is closed or the timeout expires.
	ModeInteractive InvocationMode = "interactive"
)

// ExecutorConfig is the static configuration for building execution sessions.
type ExecutorConfig struct {
	// BinaryPath is the configured Blender executable or command name.
	// Empty triggers discovery (env var, well-known locations, PATH).
	BinaryPath string
	// Mode selects headless or interactive invocation.
	Mode InvocationMode
	// DefaultTimeout bounds script execution when a request carries no override.
	DefaultTimeout time.Duration
	// TempRoot is the parent directory for per-run workspaces.
	// Empty means the OS temp dir.
	TempRoot string
}

// Validate validates the executor configuration.
func (c *ExecutorConfig) Validate() error {
	switch c.Mode {
	case ModeHeadless, ModeInteractive:
	default:
		return fmt.Errorf("invocation mode %q is not valid: %w", c.Mode, ErrNotValid)
	}

	if c.DefaultTimeout < 0 {
		return fmt.Errorf("default timeout must not be negative: %w", ErrNotValid)
	}

	return nil
}

// DiscoverySource tells which discovery tier produced an executable path.
type DiscoverySource string

const (
	// DiscoveryConfigured means the explicitly configured path was valid.
	DiscoveryConfigured DiscoverySource = "configured"
	// DiscoveryEnv means the path came from the BLENDER_EXECUTABLE env var.
	DiscoveryEnv DiscoverySource = "env"
	// DiscoveryWellKnown means a conventional install location matched.
	DiscoveryWellKnown DiscoverySource = "well-known"
	// DiscoveryPath means the executable was found through PATH lookup.
	DiscoveryPath DiscoverySource = "path"
)

// Executable is a located and validated Blender binary.
type Executable struct {
	// Path is the resolved path to the binary.
	Path string
	// Version is the first line of `--version` output (e.g. "Blender 4.2.1").
	Version string
	// Source is the discovery tier that produced the path.
	Source DiscoverySource
}

// ExecutionRequest describes one script to run inside Blender.
type ExecutionRequest struct {
	// Script is the Python source to run.
	Script string
	// Name is the logical name used for the staged file and the run journal.
	Name string
	// Timeout overrides the session default when positive.
	Timeout time.Duration
	// BlendFile is an optional scene file opened before the script runs.
	// A missing file downgrades to factory startup with a warning.
	BlendFile string
	// Env contains extra environment variables for this execution only.
	Env map[string]string
}

// Validate validates the execution request.
func (r *ExecutionRequest) Validate() error {
	if strings.TrimSpace(r.Script) == "" {
		return fmt.Errorf("script cannot be empty or whitespace only: %w", ErrNotValid)
	}

	if r.Timeout < 0 {
		return fmt.Errorf("timeout override must not be negative: %w", ErrNotValid)
	}

	return nil
}

// RawResult is the unclassified result of one Blender process run.
type RawResult struct {
	// ExitCode is the process exit code (best effort when signaled).
	ExitCode int
	// Stdout is the fully captured standard output.
	Stdout string
	// Stderr is the fully captured standard error.
	Stderr string
	// Elapsed is the measured wall-clock duration.
	Elapsed time.Duration
	// TimedOut is true when the wall-clock timeout expired and the process
	// group was terminated.
	TimedOut bool
}

// OutcomeStatus classifies a finished execution.
type OutcomeStatus string

const (
	// OutcomeSuccess means exit 0 plus an explicit SUCCESS marker.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeScriptError means the script failed (non-zero exit or an ERROR
	// marker on a zero exit).
	OutcomeScriptError OutcomeStatus = "script_error"
	// OutcomeTimeout means the wall-clock timeout expired. Overrides
	// everything else found in the output.
	OutcomeTimeout OutcomeStatus = "timeout"
	// OutcomeParseError means the process exited 0 but printed no status
	// marker at all.
	OutcomeParseError OutcomeStatus = "parse_error"
)

// ExecutionOutcome is the classified result of a script execution.
//
// Timeouts, script failures and parse failures are outcomes, not errors:
// the session that produced them stays cached and usable.
type ExecutionOutcome struct {
	// Status is the outcome class.
	Status OutcomeStatus
	// Message is the marker remainder on success, the diagnostic otherwise.
	Message string
	// Payload is the last JSON object line the script printed. Only set on
	// success, may be nil even then.
	Payload map[string]interface{}
	// Binary is the resolved executable that ran the script.
	Binary string
	// Mode is the invocation mode the run used.
	Mode InvocationMode
	// Raw preserves the process-level result this outcome was derived from.
	Raw RawResult
}

// OK reports whether the execution succeeded.
func (o ExecutionOutcome) OK() bool { return o.Status == OutcomeSuccess }
