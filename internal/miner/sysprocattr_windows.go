package miner

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// sysProcAttr creates the geth child in its own process group on Windows.
// Stop on Windows terminates the child with os.Process.Kill (see
// signal_windows.go); no console control event is sent.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}
