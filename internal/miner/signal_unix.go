//go:build !windows

package miner

import "golang.org/x/sys/unix"

// sendStopSignal delivers SIGTERM to the child's entire process group
// (negative pid), so grandchildren geth may have spawned go down with it.
func sendStopSignal(pid int) error {
	return unix.Kill(-pid, unix.SIGTERM)
}

// sendKillSignal forces termination of the child's process group.
func sendKillSignal(pid int) error {
	return unix.Kill(-pid, unix.SIGKILL)
}
