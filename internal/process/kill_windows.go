//go:build windows

package process

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// killGroup kills pid and its children with taskkill.
// /F forces, /T walks the tree. Exit code 128 means no such process.
func killGroup(pid int) error {
	err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
	var exitErr *exec.ExitError
	if err == nil || (errors.As(err, &exitErr) && exitErr.ExitCode() == 128) {
		return nil
	}
	return fmt.Errorf("killing process tree %d: %w", pid, err)
}
