//go:build !windows

package blender

import (
	"os/exec"
	"syscall"
	"time"
)

// killGracePeriod is the pause between SIGTERM and SIGKILL when a timed out
// process group is being torn down.
const killGracePeriod = 2 * time.Second

// setProcAttributes places the child in its own process group so Blender and
// any subprocess it spawns can be signaled together.
func setProcAttributes(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateProcessTree sends SIGTERM to the whole process group, waits for
// the grace period and then SIGKILLs whatever is left. Negative PID targets
// the group.
func terminateProcessTree(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}

	pgid := cmd.Process.Pid
	if err := syscall.Kill(-pgid, syscall.SIGTERM); err != nil {
		// Group already gone or never created, fall back to the child alone.
		_ = cmd.Process.Kill()
		return
	}

	time.Sleep(killGracePeriod)
	_ = syscall.Kill(-pgid, syscall.SIGKILL)
}
