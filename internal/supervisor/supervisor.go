// Package supervisor is the registry and broadcast hub for Miner Instances:
// it mediates create/start/stop/remove by tab index, fans out per-instance
// events onto an aggregate feed, and exposes the batch operations the
// power-event handler needs. Its registry-plus-mutex shape follows this
// codebase's daemon structs, which centralize a mutable map of workers
// behind a single lock rather than scattering state across goroutines.
package supervisor

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/powerhive/marscreditd/internal/genesis"
	"github.com/powerhive/marscreditd/internal/miner"
	"github.com/powerhive/marscreditd/internal/platform"
)

// Options bounds the supervisor's own behavior, independent of any single
// instance's configuration.
type Options struct {
	Health    miner.HealthOptions
	StopGrace time.Duration
}

// entry pairs a Miner Instance with the unsubscribe func for its adoption
// into the aggregate feed, so RemoveTab can tear that subscription down
// instead of leaking a forwarding goroutine for the life of the process.
type entry struct {
	instance *miner.Instance
	detach   func()
}

// Service is the Miner Service: a registry of Miner Instances keyed by a
// 1-based tab index.
type Service struct {
	paths  *platform.Paths
	opts   Options
	logger *slog.Logger

	mu          sync.Mutex
	gethPath    string
	nextIndex   int
	instances   map[int]*entry
	configCache map[int]miner.Config

	aggregate *aggregateBroadcaster

	auditMu   sync.Mutex
	lastState map[int]miner.State
}

// New constructs a Service rooted at paths, bounding health checks and stop
// grace periods per opts. logger receives one audit line per state
// transition and per exit event, following this codebase's audit-trail
// habit of logging state changes rather than only logging failures.
func New(paths *platform.Paths, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		paths:       paths,
		opts:        opts,
		logger:      logger,
		instances:   make(map[int]*entry),
		configCache: make(map[int]miner.Config),
		aggregate:   newAggregateBroadcaster(),
		lastState:   make(map[int]miner.State),
	}
	go s.runAudit()
	return s
}

// runAudit consumes the aggregate feed for the lifetime of the Service and
// writes one structured log line per state transition and per exit event.
// It never unsubscribes — the Service itself is expected to live for the
// process lifetime.
func (s *Service) runAudit() {
	ch, _ := s.aggregate.Subscribe()
	for evt := range ch {
		switch evt.Kind {
		case miner.EventStateDelta:
			if evt.StateDelta == nil {
				continue
			}
			s.auditMu.Lock()
			from := s.lastState[evt.MinerIndex]
			s.lastState[evt.MinerIndex] = evt.StateDelta.State
			s.auditMu.Unlock()
			s.logger.Info("miner state transition",
				"miner_index", evt.MinerIndex,
				"from_state", from,
				"to_state", evt.StateDelta.State,
			)
		case miner.EventExited:
			if evt.Exited == nil {
				continue
			}
			s.logger.Info("miner exited",
				"miner_index", evt.MinerIndex,
				"exit_code", evt.Exited.ExitCode,
				"signal", evt.Exited.Signal,
			)
		}
	}
}

// SetGethPath updates the default binary used by subsequently created
// instances. Instances already running are unaffected.
func (s *Service) SetGethPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gethPath = path
}

// Subscribe returns a channel carrying every instance's events, fanned out
// onto one feed, and a cancel function the caller must invoke when done.
func (s *Service) Subscribe() (<-chan miner.Event, func()) {
	return s.aggregate.Subscribe()
}

// AddTab allocates the next tab index from a monotonic counter, creating
// but not starting an instance. The counter only ever increases: RemoveTab
// forgets an index's instance and cached config but never decrements it, so
// a removed index is never recycled within a session and a stale external
// reference to it can never silently resolve to an unrelated instance.
func (s *Service) AddTab(cfg miner.Config) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextIndex++
	idx := s.nextIndex

	cfg.MinerIndex = idx
	if cfg.GethBinaryPath == "" {
		cfg.GethBinaryPath = s.gethPath
	}

	s.configCache[idx] = cfg
	s.instances[idx] = s.newEntryLocked(cfg)
	return idx
}

func (s *Service) newEntryLocked(cfg miner.Config) *entry {
	in := miner.New(s.paths, cfg, s.opts.Health)
	detach := s.aggregate.adopt(in)
	return &entry{instance: in, detach: detach}
}

// RemoveTab stops the instance at i if running, then forgets it entirely,
// including its cached config and its subscription to the aggregate feed.
func (s *Service) RemoveTab(i int) {
	s.mu.Lock()
	e, ok := s.instances[i]
	if ok {
		delete(s.instances, i)
	}
	delete(s.configCache, i)
	s.mu.Unlock()

	if !ok {
		return
	}
	if e.instance.Running() {
		e.instance.Stop(s.opts.StopGrace)
	}
	e.detach()
}

// StartMiner creates the instance at i if necessary, merges cfg into its
// cached configuration, and starts it.
func (s *Service) StartMiner(ctx context.Context, i int, cfg miner.Config) error {
	s.mu.Lock()
	e, ok := s.instances[i]
	if !ok {
		merged := s.configCache[i]
		merged.MinerIndex = i
		if merged.GethBinaryPath == "" {
			merged.GethBinaryPath = s.gethPath
		}
		e = s.newEntryLocked(merged)
		s.instances[i] = e
		if i > s.nextIndex {
			s.nextIndex = i
		}
	}
	in := e.instance
	s.mu.Unlock()

	in.UpdateConfig(cfg)

	s.mu.Lock()
	merged := s.configCache[i]
	mergeConfig(&merged, cfg)
	merged.MinerIndex = i
	s.configCache[i] = merged
	gethPath := merged.GethBinaryPath
	if gethPath == "" {
		gethPath = s.gethPath
	}
	genesisOverride := merged.GenesisPath
	s.mu.Unlock()

	return in.Start(ctx, func() error {
		return genesis.InitMinerDataDir(gethPath, s.paths, i, genesisOverride)
	})
}

func mergeConfig(dst *miner.Config, partial miner.Config) {
	if partial.GethBinaryPath != "" {
		dst.GethBinaryPath = partial.GethBinaryPath
	}
	if partial.MinerThreads > 0 {
		dst.MinerThreads = partial.MinerThreads
	}
	if partial.CacheMB > 0 {
		dst.CacheMB = partial.CacheMB
	}
	if partial.Etherbase != "" {
		dst.Etherbase = partial.Etherbase
	}
	if partial.GenesisPath != "" {
		dst.GenesisPath = partial.GenesisPath
	}
}

// StopMiner idempotently stops the instance at i, if one exists.
func (s *Service) StopMiner(i int) {
	s.mu.Lock()
	e, ok := s.instances[i]
	s.mu.Unlock()
	if !ok {
		return
	}
	e.instance.Stop(s.opts.StopGrace)
}

// GetMinerState returns the instance's current state, and false if no
// instance exists at i.
func (s *Service) GetMinerState(i int) (miner.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.instances[i]
	if !ok {
		return "", false
	}
	return e.instance.State(), true
}

// GetTabIndices returns every known tab index in ascending order.
func (s *Service) GetTabIndices() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	indices := make([]int, 0, len(s.instances))
	for i := range s.instances {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

// GetRpcUrl returns the local JSON-RPC URL for the instance at i, and false
// if no instance exists at i.
func (s *Service) GetRpcUrl(i int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.instances[i]
	if !ok {
		return "", false
	}
	return e.instance.RPCURL(), true
}

// GetRunningMinerIndices returns the indices of every instance currently
// owning a live child process, in ascending order.
func (s *Service) GetRunningMinerIndices() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var running []int
	for i, e := range s.instances {
		if e.instance.Running() {
			running = append(running, i)
		}
	}
	sort.Ints(running)
	return running
}

// cachedConfig returns the last known configuration for tab i, used by
// Resume to restart a miner with the settings it had before a suspend.
func (s *Service) cachedConfig(i int) miner.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configCache[i]
}

// StopAll stops every instance concurrently, tolerating per-instance
// failures (Stop itself never returns an error, but future instance kinds
// might) so one wedged instance never blocks the rest of the fleet from
// stopping.
func (s *Service) StopAll() {
	s.mu.Lock()
	instances := make([]*miner.Instance, 0, len(s.instances))
	for _, e := range s.instances {
		instances = append(instances, e.instance)
	}
	grace := s.opts.StopGrace
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, in := range instances {
		wg.Add(1)
		go func(in *miner.Instance) {
			defer wg.Done()
			in.Stop(grace)
		}(in)
	}
	wg.Wait()
}
