package binmgr

import "github.com/powerhive/marscreditd/internal/platform"

// archiveEntry describes where to fetch the geth archive for a platform key
// and how it is packaged.
type archiveEntry struct {
	URL string
	// Ext is the archive's extension, selecting the extraction strategy:
	// ".tar.gz" shells out to the system tar; ".zip" is read in-process.
	Ext string
	// FallbackKey names another platform key whose archive is compatible
	// when this platform has no native build of its own (notably
	// darwin-arm64 running the darwin-x64 build under Rosetta).
	FallbackKey platform.Key
}

// archiveTable is the fixed download table. URLs are placeholders for the
// upstream Geth release host; the shape (one entry per platform key, explicit
// fallback) is what matters for the supervisor's behavior.
var archiveTable = map[platform.Key]archiveEntry{
	platform.LinuxX64: {
		URL: "https://gethstore.blob.core.windows.net/builds/geth-linux-amd64-latest.tar.gz",
		Ext: ".tar.gz",
	},
	platform.LinuxARM64: {
		URL: "https://gethstore.blob.core.windows.net/builds/geth-linux-arm64-latest.tar.gz",
		Ext: ".tar.gz",
	},
	platform.DarwinX64: {
		URL: "https://gethstore.blob.core.windows.net/builds/geth-darwin-amd64-latest.tar.gz",
		Ext: ".tar.gz",
	},
	platform.DarwinARM64: {
		// No native darwin/arm64 build is published upstream; fall back to
		// the amd64 build, which runs under Rosetta.
		URL:         "https://gethstore.blob.core.windows.net/builds/geth-darwin-amd64-latest.tar.gz",
		Ext:         ".tar.gz",
		FallbackKey: platform.DarwinX64,
	},
	platform.Win32X64: {
		URL: "https://gethstore.blob.core.windows.net/builds/geth-windows-amd64-latest.zip",
		Ext: ".zip",
	},
	platform.Win32ARM64: {
		URL:         "https://gethstore.blob.core.windows.net/builds/geth-windows-amd64-latest.zip",
		Ext:         ".zip",
		FallbackKey: platform.Win32X64,
	},
}

func lookupArchive(key platform.Key) (archiveEntry, bool) {
	entry, ok := archiveTable[key]
	return entry, ok
}
