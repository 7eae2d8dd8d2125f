//go:build unix

package launcher

import (
	"os/exec"
	"syscall"
)

// detach starts cmd in its own session so signals sent to the console's
// process group do not reach launched programs.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
