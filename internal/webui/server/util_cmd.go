package server

import (
	"os/exec"
)

// runCmd starts name without waiting for it to exit.
func runCmd(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}
