// Package platform resolves the host's platform key and the deterministic
// on-disk layout under the supervisor's home directory. Every function here
// is pure and side-effect free; directories are created lazily by whichever
// component needs them.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const rootDirName = ".marscredit"

// Key identifies a supported host platform, e.g. "darwin-arm64".
type Key string

const (
	DarwinARM64 Key = "darwin-arm64"
	DarwinX64   Key = "darwin-x64"
	Win32X64    Key = "win32-x64"
	Win32ARM64  Key = "win32-arm64"
	LinuxX64    Key = "linux-x64"
	LinuxARM64  Key = "linux-arm64"
)

// CurrentKey derives the platform key for the running host from GOOS/GOARCH.
// It is resolved once by callers and treated as immutable for the process
// lifetime.
func CurrentKey() (Key, error) {
	var osPart string
	switch runtime.GOOS {
	case "darwin":
		osPart = "darwin"
	case "windows":
		osPart = "win32"
	case "linux":
		osPart = "linux"
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	var archPart string
	switch runtime.GOARCH {
	case "amd64":
		archPart = "x64"
	case "arm64":
		archPart = "arm64"
	default:
		return "", fmt.Errorf("unsupported architecture: %s", runtime.GOARCH)
	}

	return Key(osPart + "-" + archPart), nil
}

// IsWindows reports whether key refers to a Windows host.
func (k Key) IsWindows() bool {
	return len(k) >= 5 && k[:5] == "win32"
}

// Paths resolves the deterministic layout under a root directory, normally
// <home>/.marscredit; tests pass a temp dir as the root itself.
type Paths struct {
	root string
}

// New resolves Paths rooted at os.UserHomeDir joined with ".marscredit".
func New() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewWithRoot(filepath.Join(home, rootDirName)), nil
}

// NewWithRoot resolves Paths rooted at an explicit directory, bypassing
// os.UserHomeDir. Used by tests and by callers honoring a configured
// override.
func NewWithRoot(root string) *Paths {
	return &Paths{root: root}
}

// Root returns the supervisor's root directory.
func (p *Paths) Root() string {
	return p.root
}

func binaryName(k Key) string {
	if k.IsWindows() {
		return "geth.exe"
	}
	return "geth"
}

// GethBinaryPath returns the resolved path of the managed geth binary for
// the given platform key.
func (p *Paths) GethBinaryPath(k Key) string {
	return filepath.Join(p.root, "bin", binaryName(k))
}

// BinDir returns the directory holding the managed geth binary.
func (p *Paths) BinDir() string {
	return filepath.Join(p.root, "bin")
}

// DownloadCacheDir returns the directory used to stage geth archives and
// their extracted contents before the binary is copied into BinDir. It is
// deliberately separate from BinDir so downloading and extracting never
// contends with the file the bin directory already holds.
func (p *Paths) DownloadCacheDir() string {
	return filepath.Join(p.root, "cache")
}

// MinerDir returns the per-instance data directory for the given 1-based
// miner index.
func (p *Paths) MinerDir(i int) string {
	return filepath.Join(p.root, "miners", fmt.Sprintf("%d", i))
}

// MinerKeystoreDir returns the keystore directory for the given miner.
func (p *Paths) MinerKeystoreDir(i int) string {
	return filepath.Join(p.MinerDir(i), "keystore")
}

// MinerLogsDir returns the log directory for the given miner.
func (p *Paths) MinerLogsDir(i int) string {
	return filepath.Join(p.MinerDir(i), "logs")
}

// MinerPidPath returns the PID file path for the given miner.
func (p *Paths) MinerPidPath(i int) string {
	return filepath.Join(p.MinerDir(i), "geth.pid")
}

// MinerChaindataDir returns the geth-managed chain data directory, whose
// presence indicates the miner's data directory has been initialized.
func (p *Paths) MinerChaindataDir(i int) string {
	return filepath.Join(p.MinerDir(i), "geth", "chaindata")
}

// WalletEncPath returns the path of the optional encrypted mnemonic store.
func (p *Paths) WalletEncPath() string {
	return filepath.Join(p.root, "wallet.enc")
}

// MiningAddressPath returns the path of the address-only mining target
// file.
func (p *Paths) MiningAddressPath() string {
	return filepath.Join(p.root, "mining_address.txt")
}

// LogsDir returns the supervisor's own log directory.
func (p *Paths) LogsDir() string {
	return filepath.Join(p.root, "logs")
}

// AppLogPath returns the path of the supervisor's structured log file.
func (p *Paths) AppLogPath() string {
	return filepath.Join(p.LogsDir(), "app.log")
}
