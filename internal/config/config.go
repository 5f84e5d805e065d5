// Package config loads ambient supervisor settings from environment
// variables and an optional .env file, following the defaults-then-override
// pattern used throughout this codebase's command-line entrypoints.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings that govern the supervisor's own behavior. Chain
// parameters (network id, bootnodes, genesis) are fixed constants, not
// configuration — see internal/miner and internal/genesis.
type Config struct {
	// HomeDir overrides the default <home>/.marscredit root. Mainly used by
	// tests.
	HomeDir string

	// HealthInterval is the period between net_version health probes.
	HealthInterval time.Duration
	// HealthFailureThreshold is the number of consecutive health-probe
	// failures that trigger a self-stop outside the startup grace window.
	HealthFailureThreshold int
	// StartupGrace is the window after Start during which the failure
	// threshold is doubled.
	StartupGrace time.Duration

	// StopGrace is how long a graceful stop is given before a forced kill.
	StopGrace time.Duration

	// DownloadTimeout bounds the binary-manager HTTP client's TLS handshake
	// and its wait for response headers. The overall download is unbounded
	// by design (§5).
	DownloadTimeout time.Duration

	// RPCTimeout bounds a single JSON-RPC call.
	RPCTimeout time.Duration
	// RemoteRPCURL is the fixed read-only fallback endpoint used for
	// balance queries when no local node is reachable.
	RemoteRPCURL string

	// LogToFile selects file-based structured logging (via a rotating
	// writer) over stdout. Defaults to true.
	LogToFile bool
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// APIAddr is a listen address loaded from MARSCREDIT_API_ADDR. No
	// package in this module listens on it.
	APIAddr string
}

// Default returns a Config with production defaults.
func Default() *Config {
	return &Config{
		HealthInterval:         5 * time.Second,
		HealthFailureThreshold: 3,
		StartupGrace:           60 * time.Second,
		StopGrace:              5 * time.Second,
		DownloadTimeout:        30 * time.Second,
		RPCTimeout:             10 * time.Second,
		RemoteRPCURL:           "https://rpc.marscredit.org",
		LogToFile:              true,
		LogLevel:               "info",
		APIAddr:                "127.0.0.1:8787",
	}
}

// Load applies .env and environment-variable overrides on top of Default().
// Loading the .env file is best-effort: a missing file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv("MARSCREDIT_HOME"); v != "" {
		cfg.HomeDir = v
	}
	if v := os.Getenv("MARSCREDIT_HEALTH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HealthInterval = d
		}
	}
	if v := os.Getenv("MARSCREDIT_HEALTH_FAILURE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HealthFailureThreshold = n
		}
	}
	if v := os.Getenv("MARSCREDIT_STARTUP_GRACE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.StartupGrace = d
		}
	}
	if v := os.Getenv("MARSCREDIT_STOP_GRACE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.StopGrace = d
		}
	}
	if v := os.Getenv("MARSCREDIT_DOWNLOAD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DownloadTimeout = d
		}
	}
	if v := os.Getenv("MARSCREDIT_RPC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RPCTimeout = d
		}
	}
	if v := os.Getenv("MARSCREDIT_REMOTE_RPC_URL"); v != "" {
		cfg.RemoteRPCURL = v
	}
	if v := os.Getenv("MARSCREDIT_LOG_TO_FILE"); v != "" {
		cfg.LogToFile = v == "1" || v == "true"
	}
	if v := os.Getenv("MARSCREDIT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MARSCREDIT_API_ADDR"); v != "" {
		cfg.APIAddr = v
	}

	return cfg
}
