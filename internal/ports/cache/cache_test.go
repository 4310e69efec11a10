package cache

import (
	"testing"
	"time"
)

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestSubmitDrainRoundTrip(t *testing.T) {
	c := New(0)
	c.Submit("bg1.png", func() (any, error) { return "loaded:bg1.png", nil })
	waitUntil(t, func() bool { return !c.Pending("bg1.png") })

	results := c.Drain()
	if len(results) != 1 || results[0].Key != "bg1.png" || results[0].Value != "loaded:bg1.png" {
		t.Fatalf("Drain() = %+v, want one bg1.png result", results)
	}
	if more := c.Drain(); len(more) != 0 {
		t.Errorf("second Drain() = %+v, want empty", more)
	}
}

func TestSubmitIsIdempotentWhilePending(t *testing.T) {
	c := New(0)
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	load := func() (any, error) {
		started <- struct{}{}
		<-release
		return nil, nil
	}
	c.Submit("slow.png", load)
	c.Submit("slow.png", load) // should be a no-op; key is already pending
	close(release)
	<-started
	select {
	case <-started:
		t.Fatal("load ran twice for the same pending key")
	default:
	}
}

func TestRingCapacityDropsOldest(t *testing.T) {
	c := New(1)
	c.Submit("a", func() (any, error) { return "a", nil })
	waitUntil(t, func() bool { return !c.Pending("a") })
	c.Submit("b", func() (any, error) { return "b", nil })
	waitUntil(t, func() bool { return !c.Pending("b") })

	results := c.Drain()
	if len(results) != 1 || results[0].Key != "b" {
		t.Fatalf("Drain() = %+v, want only the most recent result (b)", results)
	}
}
