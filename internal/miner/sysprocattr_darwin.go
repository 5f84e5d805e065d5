package miner

import "syscall"

// sysProcAttr puts the geth child in its own process group, so a stop signal
// targeted at the group doesn't also hit the supervisor. The child is not
// signalled when the supervisor itself exits.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}
