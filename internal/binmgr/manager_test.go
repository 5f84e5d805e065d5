package binmgr

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/powerhive/marscreditd/internal/platform"
)

func TestIsAvailableMissingBinary(t *testing.T) {
	dir := t.TempDir()
	paths := platform.NewWithRoot(dir)
	mgr := New(paths, platform.LinuxX64, 0, nil)

	avail, err := mgr.IsAvailable(context.Background(), "")
	if err != nil {
		t.Fatalf("IsAvailable returned error: %v", err)
	}
	if avail.OK {
		t.Errorf("expected OK=false for a missing binary")
	}
}

func TestIsAvailablePathOverrideNotExecutable(t *testing.T) {
	dir := t.TempDir()
	paths := platform.NewWithRoot(dir)
	mgr := New(paths, platform.LinuxX64, 0, nil)

	fakeDir := filepath.Join(dir, "not-a-binary")
	if err := os.MkdirAll(fakeDir, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	avail, err := mgr.IsAvailable(context.Background(), fakeDir)
	if err != nil {
		t.Fatalf("IsAvailable returned error: %v", err)
	}
	if avail.OK {
		t.Errorf("expected OK=false for a directory path override")
	}
}

func TestLookupArchiveFallbacks(t *testing.T) {
	entry, ok := lookupArchive(platform.DarwinARM64)
	if !ok {
		t.Fatalf("expected an archive entry for darwin-arm64")
	}
	if entry.FallbackKey != platform.DarwinX64 {
		t.Errorf("expected darwin-arm64 to fall back to darwin-x64, got %q", entry.FallbackKey)
	}

	entry, ok = lookupArchive(platform.LinuxX64)
	if !ok {
		t.Fatalf("expected an archive entry for linux-x64")
	}
	if entry.FallbackKey != "" {
		t.Errorf("expected linux-x64 to have no fallback, got %q", entry.FallbackKey)
	}
}

func TestStripFirstComponent(t *testing.T) {
	cases := map[string]string{
		"geth-linux-amd64/geth": "geth",
		"geth-linux-amd64/":     "",
		"geth-linux-amd64":      "",
		"a/b/c":                 "b/c",
	}
	for in, want := range cases {
		if got := stripFirstComponent(in); got != want {
			t.Errorf("stripFirstComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseVersionOutput(t *testing.T) {
	out := "geth version 1.13.15-stable\nVersion: 1.13.15-stable\nGit Commit: abc123\n"
	if got, want := parseVersionOutput(out), "1.13.15-stable"; got != want {
		t.Errorf("parseVersionOutput() = %q, want %q", got, want)
	}

	if got, want := parseVersionOutput("unparseable output\n"), "unparseable output"; got != want {
		t.Errorf("parseVersionOutput() fallback = %q, want %q", got, want)
	}
}
