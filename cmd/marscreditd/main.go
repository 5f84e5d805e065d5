// marscreditd is a CLI entrypoint for the Mars Credit miner supervisor,
// giving the otherwise embedding-only core a way to be exercised standalone.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/powerhive/marscreditd/internal/binmgr"
	"github.com/powerhive/marscreditd/internal/config"
	"github.com/powerhive/marscreditd/internal/logging"
	"github.com/powerhive/marscreditd/internal/miner"
	"github.com/powerhive/marscreditd/internal/platform"
	"github.com/powerhive/marscreditd/internal/rpc"
	"github.com/powerhive/marscreditd/internal/supervisor"
	"github.com/powerhive/marscreditd/internal/wallet"
)

const usage = `marscreditd - Mars Credit miner supervisor

Usage:
  marscreditd [command]

Commands:
  start      Provision geth, start tab 1, and run until interrupted
  status     Report geth availability, wallet state, and RPC health for tab 1
  download   Provision the managed geth binary, reporting progress
  help       Show this help message

Environment Variables (or set in a .env file):
  MARSCREDIT_HOME                    Supervisor root directory (default: ~/.marscredit)
  MARSCREDIT_HEALTH_INTERVAL         Health probe interval (default: 5s)
  MARSCREDIT_HEALTH_FAILURE_THRESHOLD  Consecutive failures before self-stop (default: 3)
  MARSCREDIT_STARTUP_GRACE           Startup grace window (default: 60s)
  MARSCREDIT_STOP_GRACE              Grace period before a forced kill (default: 5s)
  MARSCREDIT_DOWNLOAD_TIMEOUT        Binary download TLS handshake / response header timeout (default: 30s)
  MARSCREDIT_RPC_TIMEOUT             Per-call JSON-RPC timeout (default: 10s)
  MARSCREDIT_REMOTE_RPC_URL          Fallback RPC endpoint for balance queries
  MARSCREDIT_LOG_TO_FILE             "true" or "1" logs to a rotating file, any other value to stdout (default: true)
  MARSCREDIT_LOG_LEVEL               debug, info, warn, or error
`

func main() {
	cmd := "start"
	if len(os.Args) >= 2 {
		cmd = os.Args[1]
	}

	cfg := config.Load()

	paths, err := resolvePaths(cfg)
	if err != nil {
		log.Fatalf("resolve supervisor paths: %v", err)
	}

	logger := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		ToFile: cfg.LogToFile,
		Path:   paths.AppLogPath(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	switch cmd {
	case "start":
		runStart(ctx, cfg, paths, logger)
	case "status":
		runStatus(ctx, cfg, paths, logger)
	case "download":
		runDownload(ctx, cfg, paths, logger)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func resolvePaths(cfg *config.Config) (*platform.Paths, error) {
	if cfg.HomeDir != "" {
		return platform.NewWithRoot(cfg.HomeDir), nil
	}
	return platform.New()
}

func currentPlatformKey() platform.Key {
	key, err := platform.CurrentKey()
	if err != nil {
		log.Fatalf("unsupported host platform: %v", err)
	}
	return key
}

func runDownload(ctx context.Context, cfg *config.Config, paths *platform.Paths, logger *slog.Logger) {
	mgr := binmgr.New(paths, currentPlatformKey(), cfg.DownloadTimeout, logger)

	result, err := mgr.Download(ctx, func(p binmgr.Progress) {
		if p.TotalBytes > 0 {
			fmt.Printf("\rdownloading geth... %.0f%%", p.Percent)
		}
	})
	fmt.Println()
	if err != nil {
		log.Fatalf("download geth: %v", err)
	}
	fmt.Printf("geth ready at %s (%s)\n", result.Path, result.Version)
	if result.FellBackFrom != "" {
		fmt.Printf("note: no native archive for %s, used a compatible substitute\n", result.FellBackFrom)
	}
}

func runStatus(ctx context.Context, cfg *config.Config, paths *platform.Paths, logger *slog.Logger) {
	mgr := binmgr.New(paths, currentPlatformKey(), cfg.DownloadTimeout, logger)
	avail, err := mgr.IsAvailable(ctx, "")
	if err != nil {
		log.Fatalf("check geth availability: %v", err)
	}
	if avail.OK {
		fmt.Printf("geth: available at %s (%s)\n", avail.Path, avail.Version)
	} else {
		fmt.Printf("geth: not provisioned (run `marscreditd download`)\n")
	}

	minerIndex := 1
	info, err := wallet.GetWalletInfo(paths, &minerIndex)
	if err != nil {
		fmt.Printf("wallet: error: %v\n", err)
	} else {
		fmt.Printf("wallet: mode=%s address=%s\n", info.Mode, info.Address)
	}

	ports := miner.DerivePorts(minerIndex)
	rpcCtx, cancel := context.WithTimeout(ctx, cfg.RPCTimeout)
	defer cancel()
	client := rpc.NewClient(fmt.Sprintf("http://localhost:%d", ports.HTTP), cfg.RPCTimeout)
	if version, err := client.NetVersion(rpcCtx); err == nil {
		fmt.Printf("rpc: reachable, net_version=%s\n", version)
	} else {
		fmt.Printf("rpc: unreachable (%v)\n", err)
	}
}

func runStart(ctx context.Context, cfg *config.Config, paths *platform.Paths, logger *slog.Logger) {
	mgr := binmgr.New(paths, currentPlatformKey(), cfg.DownloadTimeout, logger)

	avail, err := mgr.IsAvailable(ctx, "")
	if err != nil {
		log.Fatalf("check geth availability: %v", err)
	}
	if !avail.OK {
		logger.Info("geth not provisioned, downloading")
		result, err := mgr.Download(ctx, func(p binmgr.Progress) {
			logger.Debug("download progress", "percent", p.Percent)
		})
		if err != nil {
			log.Fatalf("provision geth: %v", err)
		}
		logger.Info("geth provisioned", "path", result.Path, "version", result.Version)
	}

	svc := supervisor.New(paths, supervisor.Options{
		Health: miner.HealthOptions{
			Interval:         cfg.HealthInterval,
			FailureThreshold: cfg.HealthFailureThreshold,
			StartupGrace:     cfg.StartupGrace,
		},
		StopGrace: cfg.StopGrace,
	}, logger)
	svc.SetGethPath(mgr.GetPath())

	minerIndex := 1
	etherbase, err := wallet.GetStoredMiningAddress(paths, &minerIndex)
	if err != nil {
		logger.Warn("failed to resolve stored mining address", "error", err)
	}

	events, cancelEvents := svc.Subscribe()
	defer cancelEvents()
	go logEvents(logger, events)

	svc.AddTab(miner.Config{Etherbase: etherbase})
	if err := svc.StartMiner(ctx, 1, miner.Config{}); err != nil {
		log.Fatalf("start miner: %v", err)
	}
	logger.Info("miner started", "index", 1)

	<-ctx.Done()

	logger.Info("stopping all miners")
	svc.StopAll()
}

func logEvents(logger *slog.Logger, events <-chan miner.Event) {
	for evt := range events {
		switch evt.Kind {
		case miner.EventLogLine:
			if evt.LogLine != nil {
				logger.Debug("geth output", "miner_index", evt.MinerIndex, "stream", evt.LogLine.Stream, "line", evt.LogLine.Line)
			}
		case miner.EventStateDelta:
			if evt.StateDelta != nil {
				logger.Info("miner state", "miner_index", evt.MinerIndex, "state", evt.StateDelta.State)
			}
		case miner.EventExited:
			if evt.Exited != nil {
				logger.Warn("miner exited", "miner_index", evt.MinerIndex, "exit_code", evt.Exited.ExitCode, "signal", evt.Exited.Signal)
			}
		}
	}
}
