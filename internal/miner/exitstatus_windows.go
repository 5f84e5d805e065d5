package miner

import "os/exec"

// exitSignalName is always empty on Windows: there is no POSIX signal to
// report, only an exit code.
func exitSignalName(exitErr *exec.ExitError) string {
	return ""
}
