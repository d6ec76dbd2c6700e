//go:build !windows

package process

import (
	"fmt"
	"syscall"
)

// KillGroup sends SIGKILL to the process group led by pid, taking Chrome's
// renderer and GPU children down with the browser.
func KillGroup(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		return fmt.Errorf("killing process group %d: %w", pid, err)
	}
	return nil
}
