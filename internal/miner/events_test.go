package miner

import "testing"

func TestBroadcasterDeliversToSubscriber(t *testing.T) {
	b := newBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(Event{Kind: EventLogLine, LogLine: &LogLineEvent{Stream: "stdout", Line: "hello"}})

	select {
	case evt := <-ch:
		if evt.LogLine == nil || evt.LogLine.Line != "hello" {
			t.Errorf("unexpected event: %+v", evt)
		}
	default:
		t.Fatalf("expected an event to be immediately available")
	}
}

func TestBroadcasterCancelStopsDelivery(t *testing.T) {
	b := newBroadcaster()
	ch, cancel := b.Subscribe()
	cancel()

	b.Publish(Event{Kind: EventExited, Exited: &ExitedEvent{ExitCode: 0}})

	if _, ok := <-ch; ok {
		t.Errorf("expected channel to be closed after cancel")
	}
}

func TestBroadcasterMultipleSubscribers(t *testing.T) {
	b := newBroadcaster()
	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	b.Publish(Event{Kind: EventStateDelta, StateDelta: &StateDeltaEvent{State: StateRunning}})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt.StateDelta == nil || evt.StateDelta.State != StateRunning {
				t.Errorf("unexpected event: %+v", evt)
			}
		default:
			t.Fatalf("expected every subscriber to receive the event")
		}
	}
}

func TestBroadcasterDropsWhenSubscriberBufferFull(t *testing.T) {
	b := newBroadcaster()
	_, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < 100; i++ {
		b.Publish(Event{Kind: EventLogLine, LogLine: &LogLineEvent{Line: "spam"}})
	}
	// No assertion beyond "did not block or panic" — a full subscriber
	// buffer must never back-pressure the publisher.
}
