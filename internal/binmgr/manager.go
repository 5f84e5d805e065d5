package binmgr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/powerhive/marscreditd/internal/apperr"
	"github.com/powerhive/marscreditd/internal/platform"
)

// manager is the default Manager implementation, downloading and extracting
// the geth archive matching the host platform into the supervisor's managed
// bin directory.
type manager struct {
	paths  *platform.Paths
	key    platform.Key
	client *http.Client
	logger *slog.Logger
}

// New builds a Manager rooted at paths for the given platform key, using
// timeout to bound the HTTP client's connection setup. The overall download
// is intentionally unbounded by the client timeout; callers cancel via ctx
// instead.
func New(paths *platform.Paths, key platform.Key, timeout time.Duration, logger *slog.Logger) Manager {
	return &manager{
		paths: paths,
		key:   key,
		client: &http.Client{
			Timeout: 0,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
			},
		},
		logger: logger,
	}
}

func (m *manager) GetPath() string {
	return m.paths.GethBinaryPath(m.key)
}

func (m *manager) IsAvailable(ctx context.Context, pathOverride string) (Availability, error) {
	candidate := pathOverride
	if candidate == "" {
		candidate = m.GetPath()
	}

	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return Availability{OK: false, Path: candidate}, nil
	}

	version, err := probeVersion(ctx, candidate)
	if err != nil {
		return Availability{OK: false, Path: candidate}, nil
	}
	return Availability{OK: true, Path: candidate, Version: version}, nil
}

func (m *manager) Download(ctx context.Context, progress func(Progress)) (Result, error) {
	if avail, _ := m.IsAvailable(ctx, ""); avail.OK {
		return Result{Path: avail.Path, Version: avail.Version}, nil
	}

	entry, ok := lookupArchive(m.key)
	if !ok {
		return Result{}, apperr.New(apperr.KindUnsupportedPlatform, fmt.Sprintf("no geth archive known for platform %s", m.key))
	}

	fellBackFrom := ""
	if entry.FallbackKey != "" {
		fellBackFrom = string(m.key)
	}

	cacheDir := m.paths.DownloadCacheDir()
	filename := string(m.key) + entry.Ext

	if m.logger != nil {
		m.logger.Info("downloading geth", "platform", m.key, "url", entry.URL)
	}

	archivePath, err := downloadArchive(ctx, m.client, entry.URL, cacheDir, filename, progress)
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(archivePath)

	extractDir, err := extractArchive(ctx, archivePath, entry.Ext, cacheDir)
	if err != nil {
		return Result{}, err
	}
	defer os.RemoveAll(extractDir)

	path := m.GetPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Result{}, apperr.Wrap(apperr.KindDownloadFailed, "create bin directory", err)
	}
	if err := copyFile(filepath.Join(extractDir, filepath.Base(path)), path); err != nil {
		return Result{}, apperr.Wrap(apperr.KindDownloadFailed, "copy geth binary into place", err)
	}

	if err := ensureExecutable(m.key, path); err != nil {
		return Result{}, apperr.Wrap(apperr.KindDownloadFailed, "mark geth binary executable", err)
	}

	version, err := probeVersion(ctx, path)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindDownloadFailed, "extracted geth binary failed version probe", err)
	}

	if m.logger != nil {
		m.logger.Info("geth ready", "path", path, "version", version)
	}

	return Result{Path: path, Version: version, FellBackFrom: fellBackFrom}, nil
}

// copyFile copies src to dst, truncating any existing dst. The permission
// bit fixup for executability happens separately in ensureExecutable, since
// the source file's own mode isn't meaningful once it's been unpacked from
// an archive.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}

// ensureExecutable is a no-op on Windows, where the .exe extension alone
// governs executability.
func ensureExecutable(key platform.Key, path string) error {
	if key.IsWindows() {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, info.Mode()|0o111)
}

// probeVersion runs `geth version` and extracts the reported version string
// as a smoke test that the binary is actually runnable, not merely present.
func probeVersion(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, path, "version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("geth version: %w", err)
	}
	return parseVersionOutput(string(out)), nil
}

func parseVersionOutput(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Version:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "Version:"))
		}
	}
	return strings.TrimSpace(out)
}
