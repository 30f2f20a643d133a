// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package suspend coordinates the suspension of target threads between the
// threads raising events and the debugger commands that resume them.
//
// A thread that raises an event whose request suspends has its suspend count
// incremented in the same critical section as the event is sent. The thread
// then parks at its next safe point while its count is non-zero. Because a
// resume only ever decrements the count, a resume that arrives after the
// event was sent but before the thread parked still lets the thread run.
package suspend

import (
	"context"
	"fmt"
	"sync"

	"github.com/stepanv/jpf-jdwp-sub001/core/event/task"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
)

// State is the suspension state of a thread.
type State int

const (
	// Running threads have a suspend count of zero.
	Running = State(iota)
	// SuspendPending threads have a non-zero suspend count but have not
	// reached a safe point yet.
	SuspendPending
	// Suspended threads are parked at a safe point.
	Suspended
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case SuspendPending:
		return "SuspendPending"
	case Suspended:
		return "Suspended"
	default:
		return fmt.Sprintf("State<%d>", int(s))
	}
}

// Coordinator holds the suspend counts of the threads of one session.
type Coordinator struct {
	threads func() []*vm.Object

	mu       sync.Mutex
	cond     *sync.Cond
	counts   map[*vm.Object]int
	parked   map[*vm.Object]bool
	released bool
}

// New returns a coordinator. threads returns the live threads affected by
// VM-wide suspends.
func New(threads func() []*vm.Object) *Coordinator {
	c := &Coordinator{
		threads: threads,
		counts:  map[*vm.Object]int{},
		parked:  map[*vm.Object]bool{},
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// DoSuspend calls send and then applies policy, with no resume able to run
// in between. thread is the thread that raised the event and may be nil for
// events without one. If send fails nothing is suspended.
func (c *Coordinator) DoSuspend(thread *vm.Object, policy jdwp.SuspendPolicy, send func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := send(); err != nil {
		return err
	}
	if c.released {
		return nil
	}
	switch policy {
	case jdwp.SuspendEventThread:
		if thread != nil {
			c.counts[thread]++
		}
	case jdwp.SuspendAll:
		c.suspendAllLocked()
	}
	return nil
}

func (c *Coordinator) suspendAllLocked() {
	for _, t := range c.threads() {
		c.counts[t]++
	}
}

// SafePoint parks the calling thread while its suspend count is non-zero. It
// returns early with the context's error if ctx is cancelled.
func (c *Coordinator) SafePoint(ctx context.Context, thread *vm.Object) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts[thread] == 0 {
		return nil
	}
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cond.Broadcast()
	})
	defer stop()

	c.parked[thread] = true
	defer delete(c.parked, thread)
	for c.counts[thread] > 0 {
		if task.Stopped(ctx) {
			return task.StopReason(ctx)
		}
		c.cond.Wait()
	}
	return nil
}

// Suspend increments the suspend count of every live thread.
func (c *Coordinator) Suspend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.released {
		c.suspendAllLocked()
	}
}

// SuspendThread increments the suspend count of thread.
func (c *Coordinator) SuspendThread(thread *vm.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.released {
		c.counts[thread]++
	}
}

// Resume decrements the suspend count of every suspended thread.
func (c *Coordinator) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for t := range c.counts {
		c.decrementLocked(t)
	}
	c.cond.Broadcast()
}

// ResumeThread decrements the suspend count of thread. Resuming a thread that
// is not suspended does nothing.
func (c *Coordinator) ResumeThread(thread *vm.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decrementLocked(thread)
	c.cond.Broadcast()
}

func (c *Coordinator) decrementLocked(thread *vm.Object) {
	switch n := c.counts[thread]; {
	case n > 1:
		c.counts[thread] = n - 1
	case n == 1:
		delete(c.counts, thread)
	}
}

// SuspendCount returns the suspend count of thread.
func (c *Coordinator) SuspendCount(thread *vm.Object) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[thread]
}

// IsSuspended returns true if thread has a non-zero suspend count.
func (c *Coordinator) IsSuspended(thread *vm.Object) bool {
	return c.SuspendCount(thread) > 0
}

// State returns the suspension state of thread.
func (c *Coordinator) State(thread *vm.Object) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.counts[thread] == 0:
		return Running
	case c.parked[thread]:
		return Suspended
	default:
		return SuspendPending
	}
}

// Release resumes every thread and stops any further suspension. It is
// called when the debugger detaches.
func (c *Coordinator) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	c.counts = map[*vm.Object]int{}
	c.cond.Broadcast()
}
