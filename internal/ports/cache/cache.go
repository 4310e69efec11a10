// Package cache implements the one piece of cross-thread shared state the
// runtime needs: the async image/sound cache's job queue. Loader
// goroutines (one per `async_cache_img`/`async_cache_snd` request) run
// off the main thread and post completed results into a small ring the
// main thread drains once per frame. A spinlock would busy-wait here;
// an uncontended sync.Mutex is the idiomatic Go stand-in (see
// DESIGN.md).
package cache

import "sync"

// Result is one completed load.
type Result struct {
	Key   string
	Value any
	Err   error
}

// Cache tracks in-flight and completed async loads, keyed by asset path.
type Cache struct {
	mu        sync.Mutex
	pending   map[string]bool
	completed []Result
	capacity  int
}

// New creates a Cache whose completed-results ring holds at most
// capacity entries before the oldest is dropped (0 means unbounded).
func New(capacity int) *Cache {
	return &Cache{pending: make(map[string]bool), capacity: capacity}
}

// Submit starts an async load for key if one isn't already pending,
// running load on its own goroutine and posting the result into the
// completed ring under the mutex. A no-op if key is already pending or
// already has a completed, undropped result.
func (c *Cache) Submit(key string, load func() (any, error)) {
	c.mu.Lock()
	if c.pending[key] {
		c.mu.Unlock()
		return
	}
	for _, r := range c.completed {
		if r.Key == key {
			c.mu.Unlock()
			return
		}
	}
	c.pending[key] = true
	c.mu.Unlock()

	go func() {
		value, err := load()
		c.mu.Lock()
		delete(c.pending, key)
		c.completed = append(c.completed, Result{Key: key, Value: value, Err: err})
		if c.capacity > 0 && len(c.completed) > c.capacity {
			c.completed = c.completed[len(c.completed)-c.capacity:]
		}
		c.mu.Unlock()
	}()
}

// Drain returns and clears every completed result since the last drain.
// Intended to be called once per frame from the main thread only:
// loader goroutines append results under the cache's mutex, and Drain
// takes them under the same mutex.
func (c *Cache) Drain() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.completed
	c.completed = nil
	return out
}

// Pending reports whether key currently has a load in flight.
func (c *Cache) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[key]
}

// Drop cancels bookkeeping for key (the `drop_cache` command):
// pending/completed state for key is cleared immediately. A load that is
// still running is not cancelled; its result is still appended to the
// completed ring when it finishes and is returned by the next Drain.
func (c *Cache) Drop(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)
	kept := c.completed[:0]
	for _, r := range c.completed {
		if r.Key != key {
			kept = append(kept, r)
		}
	}
	c.completed = kept
}
