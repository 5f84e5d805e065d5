package miner

import "os"

// sendStopSignal has no graceful-termination signal equivalent to SIGTERM on
// Windows; the best-effort approach is a direct kill, with the grace period
// in Stop existing mainly to let the health checker and log pumps drain.
func sendStopSignal(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}

// sendKillSignal is identical to sendStopSignal on Windows: there is no
// softer alternative to escalate from.
func sendKillSignal(pid int) error {
	return sendStopSignal(pid)
}
