package platform

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestCurrentKey(t *testing.T) {
	key, err := CurrentKey()
	if err != nil {
		t.Skipf("unsupported host for this test: %v", err)
	}
	switch runtime.GOARCH {
	case "amd64":
		if key != LinuxX64 && key != DarwinX64 && key != Win32X64 {
			t.Errorf("unexpected key for amd64: %s", key)
		}
	case "arm64":
		if key != LinuxARM64 && key != DarwinARM64 && key != Win32ARM64 {
			t.Errorf("unexpected key for arm64: %s", key)
		}
	}
}

func TestIsWindows(t *testing.T) {
	if !Win32X64.IsWindows() {
		t.Errorf("expected win32-x64 to be windows")
	}
	if LinuxX64.IsWindows() {
		t.Errorf("expected linux-x64 to not be windows")
	}
}

func TestGethBinaryPath(t *testing.T) {
	p := NewWithRoot("/home/user/.marscredit")

	if got, want := p.GethBinaryPath(LinuxX64), filepath.Join("/home/user/.marscredit", "bin", "geth"); got != want {
		t.Errorf("GethBinaryPath(linux) = %q, want %q", got, want)
	}
	if got, want := p.GethBinaryPath(Win32X64), filepath.Join("/home/user/.marscredit", "bin", "geth.exe"); got != want {
		t.Errorf("GethBinaryPath(windows) = %q, want %q", got, want)
	}
}

func TestMinerPaths(t *testing.T) {
	p := NewWithRoot("/home/user/.marscredit")

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"MinerDir", p.MinerDir(3), filepath.Join("/home/user/.marscredit", "miners", "3")},
		{"MinerKeystoreDir", p.MinerKeystoreDir(3), filepath.Join("/home/user/.marscredit", "miners", "3", "keystore")},
		{"MinerLogsDir", p.MinerLogsDir(3), filepath.Join("/home/user/.marscredit", "miners", "3", "logs")},
		{"MinerPidPath", p.MinerPidPath(3), filepath.Join("/home/user/.marscredit", "miners", "3", "geth.pid")},
		{"MinerChaindataDir", p.MinerChaindataDir(3), filepath.Join("/home/user/.marscredit", "miners", "3", "geth", "chaindata")},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
}

func TestWalletAndAppPaths(t *testing.T) {
	p := NewWithRoot("/home/user/.marscredit")

	if got, want := p.WalletEncPath(), filepath.Join("/home/user/.marscredit", "wallet.enc"); got != want {
		t.Errorf("WalletEncPath() = %q, want %q", got, want)
	}
	if got, want := p.MiningAddressPath(), filepath.Join("/home/user/.marscredit", "mining_address.txt"); got != want {
		t.Errorf("MiningAddressPath() = %q, want %q", got, want)
	}
	if got, want := p.AppLogPath(), filepath.Join("/home/user/.marscredit", "logs", "app.log"); got != want {
		t.Errorf("AppLogPath() = %q, want %q", got, want)
	}
}
