package blender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
)

// invocation is one prepared Blender process run.
type invocation struct {
	binary     string
	mode       model.InvocationMode
	scriptPath string
	blendFile  string
	workDir    string
	env        []string
	timeout    time.Duration
	logger     log.Logger
}

// buildArgs assembles the Blender command line. Headless mode adds
// --background; interactive mode opens the UI and only returns when the
// window closes or the timeout fires.
func (iv *invocation) buildArgs() []string {
	args := []string{}
	if iv.mode == model.ModeHeadless {
		args = append(args, "--background")
	}
	args = append(args, "--factory-startup", "--enable-autoexec")

	if iv.blendFile != "" {
		args = append(args, iv.blendFile)
	}

	args = append(args, "--python", iv.scriptPath, "--")
	return args
}

// run spawns the process in its own group, captures stdout/stderr fully and
// enforces the wall-clock timeout. A timeout kills the whole process group
// and is reported through RawResult.TimedOut, not as an error.
func (iv *invocation) run(ctx context.Context) (*model.RawResult, error) {
	cmd := exec.Command(iv.binary, iv.buildArgs()...)
	cmd.Dir = iv.workDir
	cmd.Env = iv.env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	setProcAttributes(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("could not start blender process: %w", err)
	}

	iv.logger.Debugf("Started blender process pid %d (timeout %s)", cmd.Process.Pid, iv.timeout)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(iv.timeout)
	defer timer.Stop()

	var waitErr error
	timedOut := false

	select {
	case waitErr = <-done:
	case <-timer.C:
		timedOut = true
		iv.logger.Warningf("Execution exceeded %s timeout, terminating process group %d", iv.timeout, cmd.Process.Pid)
		terminateProcessTree(cmd)
		waitErr = <-done
	case <-ctx.Done():
		terminateProcessTree(cmd)
		<-done
		return nil, ctx.Err()
	}

	return &model.RawResult{
		ExitCode: exitCodeFromWait(waitErr),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Elapsed:  time.Since(start),
		TimedOut: timedOut,
	}, nil
}

// exitCodeFromWait maps a Wait error to a process exit code. Signaled
// processes map to 128+signal, matching shell conventions.
func exitCodeFromWait(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}

	return -1
}
