// Package binmgr provisions the managed geth binary: checking whether a
// usable binary already exists, downloading and extracting the correct
// archive for the host platform when it doesn't, and reporting the result.
// The shape of the Manager interface and its download/extract split follows
// this codebase's provisioning pipeline.
package binmgr

import "context"

// Availability is the result of a pre-flight check for a usable geth binary.
type Availability struct {
	OK      bool
	Path    string
	Version string
}

// Progress reports download progress. Percent is 0 when TotalBytes is
// unknown (the server omitted Content-Length).
type Progress struct {
	Percent         float64
	DownloadedBytes int64
	TotalBytes      int64
}

// Result is the outcome of a successful Download.
type Result struct {
	Path    string
	Version string
	// FellBackFrom is set when the host platform has no native archive and
	// a compatible one was substituted, e.g. darwin-arm64 falling back to
	// the darwin-x64 build.
	FellBackFrom string
}

// Manager provisions the managed geth binary for the host platform.
type Manager interface {
	// IsAvailable checks pathOverride if non-empty, otherwise the managed
	// path under the supervisor's home directory; an unusable override is
	// reported as not OK without falling back. A usable binary is one
	// that exists, is executable, and answers `geth version` successfully.
	IsAvailable(ctx context.Context, pathOverride string) (Availability, error)
	// Download fetches and extracts the geth archive for the host
	// platform, reporting progress as bytes arrive. It is idempotent: a
	// binary already in place is left untouched and reported as-is.
	Download(ctx context.Context, progress func(Progress)) (Result, error)
	// GetPath returns the managed binary's path regardless of whether it
	// currently exists.
	GetPath() string
}
