// Package genesis initializes a miner's chain-data directory from the fixed
// Mars Credit genesis block, following the embed-then-shell-to-geth pattern
// this codebase uses for one-shot child-process setup steps.
package genesis

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/powerhive/marscreditd/internal/apperr"
	"github.com/powerhive/marscreditd/internal/platform"
)

//go:embed assets/genesis.json
var embeddedGenesis []byte

// ResolveGenesisPath picks the genesis file to hand to `geth init`,
// following a fixed search order: an explicit override, then the embedded
// genesis materialized into the supervisor's root, then a development path
// relative to the working directory for contributors running from a source
// checkout.
func ResolveGenesisPath(root, override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("genesis override %s: %w", override, err)
		}
		return override, nil
	}

	materialized := filepath.Join(root, "genesis.json")
	if err := materializeEmbedded(materialized); err == nil {
		return materialized, nil
	}

	devPath := filepath.Join("internal", "genesis", "assets", "genesis.json")
	if _, err := os.Stat(devPath); err == nil {
		return devPath, nil
	}

	return "", fmt.Errorf("no genesis file found: tried override, embedded, and %s", devPath)
}

// materializeEmbedded writes the embedded genesis to dest unless a
// byte-identical copy already exists there, so repeated calls don't rewrite
// the file on every start.
func materializeEmbedded(dest string) error {
	if existing, err := os.ReadFile(dest); err == nil && string(existing) == string(embeddedGenesis) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, embeddedGenesis, 0o644)
}

// InitMinerDataDir ensures miner index i's data directory is initialized
// from the Mars Credit genesis. It is idempotent: if chaindata already
// exists, it returns immediately without touching anything, so previously
// synced chain data survives repeated supervisor restarts.
func InitMinerDataDir(gethBinaryPath string, paths *platform.Paths, minerIndex int, genesisOverride string) error {
	if _, err := os.Stat(paths.MinerChaindataDir(minerIndex)); err == nil {
		return nil
	}

	dataDir := paths.MinerDir(minerIndex)
	for _, dir := range []string{dataDir, paths.MinerKeystoreDir(minerIndex), paths.MinerLogsDir(minerIndex)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperr.Wrap(apperr.KindGenesisInitFailed, fmt.Sprintf("create %s", dir), err)
		}
	}

	genesisPath, err := ResolveGenesisPath(paths.Root(), genesisOverride)
	if err != nil {
		return apperr.Wrap(apperr.KindGenesisInitFailed, "resolve genesis file", err)
	}

	cmd := exec.Command(gethBinaryPath, "--datadir", dataDir, "init", genesisPath)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &apperr.Error{
			Kind:    apperr.KindGenesisInitFailed,
			Message: fmt.Sprintf("geth init exited with error for miner %d", minerIndex),
			Stdout:  strings.TrimSpace(string(out)),
			Cause:   err,
		}
	}

	return nil
}
