//go:build !windows

package process

import (
	"errors"
	"os/exec"
	"syscall"
	"testing"
	"time"
)

func TestKillGroup_KillsGroup(t *testing.T) {
	t.Parallel()

	// A shell leading its own group with a child that would outlive it.
	cmd := exec.Command("sh", "-c", "sleep 30 & wait")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start sh: %v", err)
	}

	if err := KillGroup(cmd.Process.Pid); err != nil {
		t.Fatalf("KillGroup() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("Wait() error = %v, want killed process", err)
		}
		status, ok := exitErr.Sys().(syscall.WaitStatus)
		if ok && (!status.Signaled() || status.Signal() != syscall.SIGKILL) {
			t.Errorf("process ended with %v, want SIGKILL", status)
		}
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("process group still running after KillGroup")
	}

	// The group is gone; killing it again is not an error.
	if err := KillGroup(cmd.Process.Pid); err != nil {
		t.Errorf("second KillGroup() error = %v", err)
	}
}
