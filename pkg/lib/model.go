package lib

import (
	"errors"
	"time"

	"github.com/blendrun/blendrun/internal/model"
)

// Mode selects how the Blender process is launched.
type Mode string

const (
	// ModeHeadless runs Blender with --background (no UI). This is the
	// default and the right choice for automation.
	ModeHeadless Mode = "headless"

	// ModeInteractive runs Blender with its GUI visible. The run only
	// finishes when the window is closed or the timeout expires.
	ModeInteractive Mode = "interactive"
)

// OutcomeStatus classifies a finished script run.
type OutcomeStatus string

const (
	// OutcomeSuccess means the script finished with exit 0 and printed an
	// explicit SUCCESS marker.
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeScriptError means the script failed: a non-zero exit, or an
	// ERROR marker on a zero exit.
	OutcomeScriptError OutcomeStatus = "script_error"
	// OutcomeTimeout means the wall-clock timeout expired and the process
	// group was terminated.
	OutcomeTimeout OutcomeStatus = "timeout"
	// OutcomeParseError means the process exited 0 but printed no status
	// marker at all.
	OutcomeParseError OutcomeStatus = "parse_error"
)

// Outcome is the classified result of a script run.
//
// Script failures, timeouts and unparseable output are outcomes, not errors:
// [Client.Run] returns them with a nil error. Check Status (or [Outcome.OK])
// to tell them apart. An error from [Client.Run] means the run itself could
// not happen.
type Outcome struct {
	// RunID is the journal entry recorded for this run. Use it with
	// [Client.GetRun] or [Client.RemoveRun].
	RunID string
	// Status is the outcome class.
	Status OutcomeStatus
	// Message is the marker remainder on success, the diagnostic otherwise.
	Message string
	// Payload is the last JSON object the script printed on stdout. Only set
	// on success, and may be nil even then.
	Payload map[string]interface{}
	// Binary is the resolved Blender executable that ran the script.
	Binary string
	// Mode is the invocation mode the run used.
	Mode Mode
	// ExitCode is the Blender process exit code.
	ExitCode int
	// TimedOut is true when the run was killed by the timeout.
	TimedOut bool
	// Duration is the measured wall-clock duration.
	Duration time.Duration
	// Stdout is the fully captured standard output.
	Stdout string
	// Stderr is the fully captured standard error.
	Stderr string
}

// OK reports whether the run succeeded.
func (o Outcome) OK() bool { return o.Status == OutcomeSuccess }

// RunOpts configures a single script run.
//
// Pass nil to [Client.Run] to use defaults (default name, the client's
// timeout, factory startup scene, no extra environment).
type RunOpts struct {
	// Name is the logical script name used for staging and the run journal.
	// Empty defaults to "script".
	Name string
	// Timeout overrides the client's default timeout when positive.
	Timeout time.Duration
	// BlendFile is an optional .blend scene file opened before the script
	// runs. A missing file downgrades to factory startup.
	BlendFile string
	// Env contains extra environment variables for this run only. They are
	// layered on top of [Config].Env, the per-run value wins on duplicates.
	Env map[string]string
}

// --- Journal types ---

// Run is one journaled script run.
//
// This is a read-only record of a finished run as stored in the journal.
type Run struct {
	// ID is the unique identifier (ULID) assigned when the run was recorded.
	ID string
	// Name is the logical script name from the request.
	Name string
	// Binary is the resolved executable path the run used.
	Binary string
	// Mode is the invocation mode the run used.
	Mode Mode
	// Status is the classified outcome.
	Status OutcomeStatus
	// Message is the success message or the diagnostic.
	Message string
	// ExitCode is the process exit code.
	ExitCode int
	// TimedOut is true when the run was killed by the timeout.
	TimedOut bool
	// Duration is the measured wall-clock duration.
	Duration time.Duration
	// Payload is the success payload as JSON text. Empty when none.
	Payload string
	// CreatedAt is when the run was recorded.
	CreatedAt time.Time
}

// HistoryOpts configures run journal listing.
//
// Pass nil to [Client.History] to list all runs.
type HistoryOpts struct {
	// Limit caps the number of runs returned (newest first).
	// Non-positive means all.
	Limit int
}

// --- Discovery types ---

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

// --- Doctor types ---

// CheckStatus represents the status of a preflight check.
type CheckStatus string

const (
	// CheckStatusOK indicates the check passed.
	CheckStatusOK CheckStatus = "ok"
	// CheckStatusWarning indicates the check passed with a warning.
	CheckStatusWarning CheckStatus = "warning"
	// CheckStatusError indicates the check failed.
	CheckStatusError CheckStatus = "error"
)

// CheckResult represents the result of a single preflight check.
type CheckResult struct {
	// ID is a unique identifier for the check (e.g. "binary_found").
	ID string
	// Message is a human-readable description of the result.
	Message string
	// Status is the check status.
	Status CheckStatus
}

// --- Errors ---

var (
	// ErrNotFound is returned when a resource does not exist: a journaled
	// run, or a usable Blender executable after exhausting every discovery
	// tier.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when an input or configuration is not valid.
	ErrNotValid = errors.New("not valid")
)

// --- Internal conversion helpers ---

func fromInternalOutcome(o model.ExecutionOutcome, runID string) Outcome {
	return Outcome{
		RunID:    runID,
		Status:   OutcomeStatus(o.Status),
		Message:  o.Message,
		Payload:  o.Payload,
		Binary:   o.Binary,
		Mode:     Mode(o.Mode),
		ExitCode: o.Raw.ExitCode,
		TimedOut: o.Raw.TimedOut,
		Duration: o.Raw.Elapsed,
		Stdout:   o.Raw.Stdout,
		Stderr:   o.Raw.Stderr,
	}
}

func fromInternalRun(r model.Run) Run {
	return Run{
		ID:        r.ID,
		Name:      r.Name,
		Binary:    r.Binary,
		Mode:      Mode(r.Mode),
		Status:    OutcomeStatus(r.Status),
		Message:   r.Message,
		ExitCode:  r.ExitCode,
		TimedOut:  r.TimedOut,
		Duration:  r.Duration,
		Payload:   r.Payload,
		CreatedAt: r.CreatedAt,
	}
}

func fromInternalRunList(rs []model.Run) []Run {
	result := make([]Run, len(rs))
	for i, r := range rs {
		result[i] = fromInternalRun(r)
	}
	return result
}

func fromInternalExecutable(e model.Executable) Executable {
	return Executable{
		Path:    e.Path,
		Version: e.Version,
		Source:  DiscoverySource(e.Source),
	}
}

// --- Doctor conversion helpers ---

func fromInternalCheckResults(results []model.CheckResult) []CheckResult {
	out := make([]CheckResult, len(results))
	for i, r := range results {
		out[i] = CheckResult{
			ID:      r.ID,
			Message: r.Message,
			Status:  CheckStatus(r.Status),
		}
	}
	return out
}

// --- Error mapping ---

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case isInternalError(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case isInternalError(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	default:
		return err
	}
}

func isInternalError(err, target error) bool {
	for {
		if err == target {
			return true
		}
		unwrapped := unwrapSingle(err)
		if unwrapped == nil {
			return false
		}
		err = unwrapped
	}
}

func unwrapSingle(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
