package model

import "time"

// Run is one journaled script execution.
type Run struct {
	// ID is the unique identifier (ULID) assigned when the run is recorded.
	ID string
	// Name is the logical script name from the request.
	Name string
	// Binary is the resolved executable path the run used.
	Binary string
	// Mode is the invocation mode the run used.
	Mode InvocationMode
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
