package miner

import "syscall"

// sysProcAttr puts the geth child in its own process group so a stop signal
// targeted at the group doesn't also hit the supervisor, and arms
// Pdeathsig as a safety net: if the supervisor itself dies unexpectedly,
// the kernel delivers SIGTERM to the orphaned child instead of leaving it
// mining forever.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
