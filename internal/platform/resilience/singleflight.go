package resilience

import "sync"

// SingleFlight deduplicates concurrent calls for the same key.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*call
}

// Result carries a completed call's outcome. Shared reports whether the
// value came from a call another caller started.
type Result struct {
	Val    any
	Err    error
	Shared bool
}

type call struct {
	done chan struct{}
	val  any
	err  error
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	c, leader := g.join(key)
	if !leader {
		<-c.done
		return c.val, c.err, true
	}

	g.run(key, c, fn)
	return c.val, c.err, false
}

// DoChan is like Do but returns a channel instead of blocking, so a caller
// can stop waiting (e.g. on context deadline) while the in-flight call keeps
// running for everyone else joined on the same key.
func (g *SingleFlight) DoChan(key string, fn func() (any, error)) <-chan Result {
	out := make(chan Result, 1)

	c, leader := g.join(key)
	if !leader {
		go func() {
			<-c.done
			out <- Result{Val: c.val, Err: c.err, Shared: true}
		}()
		return out
	}

	go func() {
		g.run(key, c, fn)
		out <- Result{Val: c.val, Err: c.err}
	}()
	return out
}

func (g *SingleFlight) join(key string) (*call, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.calls == nil {
		g.calls = make(map[string]*call)
	}
	if c, ok := g.calls[key]; ok {
		return c, false
	}

	c := &call{done: make(chan struct{})}
	g.calls[key] = c
	return c, true
}

func (g *SingleFlight) run(key string, c *call, fn func() (any, error)) {
	c.val, c.err = fn()
	close(c.done)

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
}
