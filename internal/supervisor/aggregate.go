package supervisor

import (
	"sync"

	"github.com/powerhive/marscreditd/internal/miner"
)

// aggregateBroadcaster republishes every adopted instance's events onto a
// single fanned-out feed, the way the supervisor exposes one event stream
// to callers regardless of how many tabs exist.
type aggregateBroadcaster struct {
	mu   sync.Mutex
	subs map[chan miner.Event]struct{}
}

func newAggregateBroadcaster() *aggregateBroadcaster {
	return &aggregateBroadcaster{subs: make(map[chan miner.Event]struct{})}
}

// adopt subscribes to in's own event stream and republishes every event it
// produces onto the aggregate feed. The returned func unsubscribes and lets
// the forwarding goroutine exit; callers must invoke it when the instance
// is removed.
func (a *aggregateBroadcaster) adopt(in *miner.Instance) func() {
	ch, cancel := in.Subscribe()
	go func() {
		for evt := range ch {
			a.publish(evt)
		}
	}()
	return cancel
}

func (a *aggregateBroadcaster) publish(evt miner.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for ch := range a.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribe returns a channel of the aggregate feed and a cancel function.
func (a *aggregateBroadcaster) Subscribe() (<-chan miner.Event, func()) {
	ch := make(chan miner.Event, 128)

	a.mu.Lock()
	a.subs[ch] = struct{}{}
	a.mu.Unlock()

	cancel := func() {
		a.mu.Lock()
		if _, ok := a.subs[ch]; ok {
			delete(a.subs, ch)
			close(ch)
		}
		a.mu.Unlock()
	}
	return ch, cancel
}
