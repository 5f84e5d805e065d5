package binmgr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/powerhive/marscreditd/internal/apperr"
)

// progressWriter wraps an io.Writer and reports cumulative bytes written,
// the way a download progress bar is wired in a streaming copy.
type progressWriter struct {
	w          io.Writer
	total      int64
	written    int64
	onProgress func(Progress)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if p.onProgress != nil {
		pct := 0.0
		if p.total > 0 {
			pct = float64(p.written) / float64(p.total) * 100
		}
		p.onProgress(Progress{
			Percent:         pct,
			DownloadedBytes: p.written,
			TotalBytes:      p.total,
		})
	}
	return n, err
}

// downloadArchive fetches url into cacheDir, writing to a temp file and
// renaming into place atomically once the body is fully received. A
// download already present at the destination is reused without a new
// request.
func downloadArchive(ctx context.Context, client *http.Client, url, cacheDir, filename string, onProgress func(Progress)) (string, error) {
	dest := filepath.Join(cacheDir, filename)
	if info, err := os.Stat(dest); err == nil && !info.IsDir() {
		return dest, nil
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", apperr.Wrap(apperr.KindDownloadFailed, "create cache directory", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperr.Wrap(apperr.KindDownloadFailed, "build download request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindDownloadFailed, "request geth archive", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &apperr.Error{
			Kind:    apperr.KindDownloadFailed,
			Message: fmt.Sprintf("download returned HTTP %d for %s", resp.StatusCode, url),
			Status:  resp.StatusCode,
		}
	}

	tmp, err := os.CreateTemp(cacheDir, ".download-*")
	if err != nil {
		return "", apperr.Wrap(apperr.KindDownloadFailed, "create temp file", err)
	}
	tmpPath := tmp.Name()

	pw := &progressWriter{w: tmp, total: resp.ContentLength, onProgress: onProgress}
	_, copyErr := io.Copy(pw, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", apperr.Wrap(apperr.KindDownloadFailed, "write archive", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", apperr.Wrap(apperr.KindDownloadFailed, "close temp file", closeErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", apperr.Wrap(apperr.KindDownloadFailed, "rename archive into place", err)
	}

	return dest, nil
}
