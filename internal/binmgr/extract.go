package binmgr

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/powerhive/marscreditd/internal/apperr"
)

// extractArchive unpacks archivePath into a fresh temp directory under
// parentDir, choosing a strategy by extension and stripping the single
// top-level directory every published geth archive wraps its contents in.
// It returns that temp directory; the caller copies whatever it needs out
// of it and is responsible for removing it afterward. Extraction never
// touches the final bin directory directly; the caller copies the binary
// from the temp directory into place.
func extractArchive(ctx context.Context, archivePath, ext, parentDir string) (string, error) {
	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		return "", apperr.Wrap(apperr.KindDownloadFailed, "create extraction parent directory", err)
	}

	tmpDir, err := os.MkdirTemp(parentDir, ".extract-*")
	if err != nil {
		return "", apperr.Wrap(apperr.KindDownloadFailed, "create extraction temp dir", err)
	}

	var extractErr error
	switch ext {
	case ".tar.gz":
		extractErr = extractTarGz(ctx, archivePath, tmpDir)
	case ".zip":
		extractErr = extractZip(archivePath, tmpDir)
	default:
		extractErr = fmt.Errorf("unsupported archive extension %q", ext)
	}
	if extractErr != nil {
		os.RemoveAll(tmpDir)
		return "", apperr.Wrap(apperr.KindDownloadFailed, "extract geth archive", extractErr)
	}
	return tmpDir, nil
}

// extractTarGz shells out to the system tar binary, stripping the archive's
// single top-level directory.
func extractTarGz(ctx context.Context, archivePath, destDir string) error {
	cmd := exec.CommandContext(ctx, "tar", "xzf", archivePath, "-C", destDir, "--strip-components=1")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tar extract: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// extractZip reads the zip in-process with archive/zip, since no pack
// dependency offers in-process zip reading and shelling out to an
// unzip binary would add a platform dependency Windows hosts don't reliably
// carry. The archive's single top-level directory is stripped the same way
// extractTarGz strips it.
func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		rel := stripFirstComponent(f.Name)
		if rel == "" {
			continue
		}
		target := filepath.Join(destDir, rel)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry %q escapes extraction directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create parent directory for %s: %w", target, err)
		}

		src, err := f.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}

		dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
		if err != nil {
			src.Close()
			return fmt.Errorf("create %s: %w", target, err)
		}

		_, copyErr := io.Copy(dst, src)
		src.Close()
		closeErr := dst.Close()
		if copyErr != nil {
			return fmt.Errorf("write %s: %w", target, copyErr)
		}
		if closeErr != nil {
			return fmt.Errorf("close %s: %w", target, closeErr)
		}
	}
	return nil
}

// stripFirstComponent removes the leading path segment from a zip entry
// name, returning "" for the top-level directory entry itself.
func stripFirstComponent(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	idx := strings.IndexByte(name, '/')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}
