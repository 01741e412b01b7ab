//go:build windows

package blender

import (
	"os/exec"
	"syscall"
)

// setProcAttributes creates the child in a new process group so console
// control events do not propagate back to us.
func setProcAttributes(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// terminateProcessTree kills the child process. Windows has no process
// groups in the POSIX sense, so descendants launched by Blender may outlive
// it, which is acceptable for a timeout path.
func terminateProcessTree(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
