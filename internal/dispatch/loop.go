// Package dispatch runs UI events and request completions on a single goroutine.
package dispatch

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultBuffer is the event queue size used when none is given
	DefaultBuffer = 64

	idlePoll = 5 * time.Millisecond
)

// Loop serializes callbacks onto one goroutine
type Loop struct {
	ctx      context.Context
	events   chan func()
	inflight sync.WaitGroup
	pending  atomic.Int64 // started by Go, completion not yet run
	done     chan struct{}
}

// NewLoop creates a loop bound to ctx. Call Run to start processing.
func NewLoop(ctx context.Context, buffer int) *Loop {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Loop{
		ctx:    ctx,
		events: make(chan func(), buffer),
		done:   make(chan struct{}),
	}
}

// Run processes events until the loop context is cancelled
func (l *Loop) Run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.events:
			l.run(fn)
		case <-l.ctx.Done():
			return
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("dispatch: recovered from panic in event: %v", r)
		}
	}()
	fn()
}

// Post enqueues fn. It reports false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case l.events <- fn:
		return true
	case <-l.ctx.Done():
		return false
	}
}

// Do posts fn and blocks until it has run
func (l *Loop) Do(fn func()) bool {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return false
	}
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// Go runs work on its own goroutine and posts done back to the loop
func (l *Loop) Go(work func(ctx context.Context), done func()) {
	l.pending.Add(1)
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		work(l.ctx)
		posted := l.Post(func() {
			defer l.pending.Add(-1)
			if done != nil {
				done()
			}
		})
		if !posted {
			l.pending.Add(-1)
		}
	}()
}

// Wait blocks until every started request has posted its completion
func (l *Loop) Wait() {
	l.inflight.Wait()
}

// Idle blocks until no request is in flight and every completion, including
// the requests those completions start, has run. It reports false if the loop stopped.
func (l *Loop) Idle() bool {
	for l.pending.Load() > 0 {
		if !l.Do(func() {}) {
			return false
		}
		if l.pending.Load() > 0 {
			time.Sleep(idlePoll)
		}
	}
	return true
}

// Done is closed once Run has returned
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
