//go:build windows

package main

import "os/exec"

// detachDaemon is a no-op on Windows, where child processes already run
// independently of the console that started them.
func detachDaemon(cmd *exec.Cmd) {}
