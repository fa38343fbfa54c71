//go:build !windows

package main

import (
	"os/exec"
	"syscall"
)

// detachDaemon starts the background daemon in its own session so it
// outlives the terminal UI.
func detachDaemon(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
