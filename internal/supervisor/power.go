package supervisor

import "context"

// Suspend snapshots every currently running miner index, stops all of them,
// and returns the snapshot so a later Resume can bring back exactly the set
// that was running. The supervisor itself never calls this — it is the host
// process's responsibility to wire this to whatever OS power-event signal
// it receives (sleep/suspend, battery-saver, etc).
func Suspend(s *Service) []int {
	running := s.GetRunningMinerIndices()
	s.StopAll()
	return running
}

// Resume starts every index in indices, as previously returned by Suspend.
// A miner that fails to start has its error collected in the returned slice
// and does not prevent the remaining indices from being started.
func Resume(ctx context.Context, s *Service, indices []int) []error {
	var errs []error
	for _, i := range indices {
		if err := s.StartMiner(ctx, i, s.cachedConfig(i)); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
