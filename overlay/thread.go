// seehuhn.de/go/facemesh - face mesh overlay rendering
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package overlay

import (
	"context"
	"sync"
)

// Thread serialises jobs onto a single goroutine, the render thread.
//
// Jobs are posted under a key. A job which has not started yet is replaced
// when a new job with the same key is posted, so that a slow render thread
// skips stale frames instead of building up a backlog. Jobs run in the
// order in which their keys were first posted.
//
// Post may be called from any goroutine. Drain and Run must only be
// called from the render thread.
type Thread struct {
	mu        sync.Mutex
	order     []any
	jobs      map[any]func()
	coalesced uint64

	wake chan struct{}

	// scratch space for Drain, owned by the render thread
	running []func()
}

// NewThread returns an empty Thread.
func NewThread() *Thread {
	return &Thread{
		jobs: make(map[any]func()),
		wake: make(chan struct{}, 1),
	}
}

// Post schedules fn to run on the render thread. If a job with the same
// key is still pending, it is replaced by fn and Post returns true.
func (t *Thread) Post(key any, fn func()) (replaced bool) {
	t.mu.Lock()
	if _, replaced = t.jobs[key]; replaced {
		t.coalesced++
	} else {
		t.order = append(t.order, key)
	}
	t.jobs[key] = fn
	t.mu.Unlock()

	select {
	case t.wake <- struct{}{}:
	default:
	}
	return replaced
}

// Pending returns the number of jobs waiting to run.
func (t *Thread) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.order)
}

// Coalesced returns the total number of jobs which were replaced before
// they could run.
func (t *Thread) Coalesced() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.coalesced
}

// Wake returns a channel which receives a value after a job is posted.
func (t *Thread) Wake() <-chan struct{} {
	return t.wake
}

// Drain runs all pending jobs on the calling goroutine and returns how
// many ran. Jobs posted while Drain runs are left for the next call.
// A job may itself call Drain; the nested call runs the jobs posted so far.
func (t *Thread) Drain() int {
	// a nested call from within a job must not reuse the outer batch
	running := t.running[:0]
	t.running = nil

	t.mu.Lock()
	for _, key := range t.order {
		running = append(running, t.jobs[key])
		delete(t.jobs, key)
	}
	clear(t.order)
	t.order = t.order[:0]
	t.mu.Unlock()

	for i, fn := range running {
		fn()
		running[i] = nil
	}
	t.running = running
	return len(running)
}

// Run drains the queue whenever jobs are posted, until ctx is cancelled.
// If idle is not nil, it is called on the render thread after every batch
// of jobs.
func (t *Thread) Run(ctx context.Context, idle func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.wake:
			if t.Drain() > 0 && idle != nil {
				idle()
			}
		}
	}
}
