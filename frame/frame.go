// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame provides the scheduling primitives the engines consume: a
// run-once-next-frame Scheduler and a cancelable fixed-period Clock.
//
// Loop builds the on-demand redraw policy on top of a Scheduler: a frame is
// requested only when someone asks for an update, and re-requested only
// while the draw callback reports pending work.
package frame

import (
	"sync"
	"time"
)

// Scheduler runs a callback once, on the next presented frame.
type Scheduler interface {
	RequestFrame(fn func())
}

// Clock runs a callback at a fixed period until canceled.
type Clock interface {
	// Every calls fn every d until the returned cancel function is called.
	// Calling cancel more than once is allowed.
	Every(d time.Duration, fn func()) (cancel func())
}

// Loop is a self-cancelling frame loop.
type Loop struct {
	sched Scheduler
	draw  func() bool

	mu      sync.Mutex
	pending bool
}

// NewLoop creates a loop presenting frames through sched. draw renders one
// frame and reports whether another frame is needed, for example while an
// animation is running.
func NewLoop(sched Scheduler, draw func() bool) *Loop {
	return &Loop{sched: sched, draw: draw}
}

// RequestUpdate schedules a frame unless one is already pending.
func (l *Loop) RequestUpdate() {
	l.mu.Lock()
	if l.pending {
		l.mu.Unlock()
		return
	}
	l.pending = true
	l.mu.Unlock()
	l.sched.RequestFrame(l.frame)
}

// Pending reports whether a frame is scheduled.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

func (l *Loop) frame() {
	l.mu.Lock()
	l.pending = false
	l.mu.Unlock()
	if l.draw() {
		l.RequestUpdate()
	}
}

// SystemClock is a Clock backed by time.Ticker. Callbacks run on a
// goroutine per Every call.
type SystemClock struct{}

// Every implements Clock.
func (SystemClock) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// Queue is a Scheduler that collects callbacks until Flush runs them. It
// suits hosts that drive frames from their own event loop, and tests.
type Queue struct {
	mu  sync.Mutex
	fns []func()
}

// RequestFrame implements Scheduler.
func (q *Queue) RequestFrame(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}

// Flush runs the callbacks queued so far. Callbacks queued while flushing
// wait for the next Flush. It returns the number of callbacks run.
func (q *Queue) Flush() int {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

var (
	_ Clock     = SystemClock{}
	_ Scheduler = (*Queue)(nil)
)
