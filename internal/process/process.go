// Package process terminates the browser helper processes a session leaves
// behind.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID is returned for PIDs that would target the caller's own
// process group or every process.
var ErrInvalidPID = errors.New("invalid pid")

// KillGroup force-kills pid and every process in its group. A group that
// has already exited is not an error.
func KillGroup(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return killGroup(pid)
}
