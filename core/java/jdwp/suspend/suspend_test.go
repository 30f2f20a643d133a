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

package suspend_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/event/task"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/suspend"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

var threadClass = &vm.Class{Signature: vm.SigThread, Kind: jdwp.Class}

func newThreads(n int) []*vm.Object {
	out := make([]*vm.Object, n)
	for i := range out {
		out[i] = vm.NewObject(vm.HeapRef(i+1), threadClass)
	}
	return out
}

func waitFor(c *suspend.Coordinator, t *vm.Object, s suspend.State) bool {
	for i := 0; i < 1000; i++ {
		if c.State(t) == s {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func TestSuspendResumeRace(t *testing.T) {
	ctx := log.Testing(t)
	threads := newThreads(1)
	thread := threads[0]
	c := suspend.New(func() []*vm.Object { return threads })

	for i := 0; i < 200; i++ {
		sent := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.DoSuspend(thread, jdwp.SuspendEventThread, func() error {
				close(sent)
				return nil
			})
			c.SafePoint(ctx, thread)
		}()
		go func() {
			defer wg.Done()
			<-sent
			c.ResumeThread(thread)
		}()
		wg.Wait()
		if !assert.For(ctx, "state after round %d", i).That(c.State(thread)).Equals(suspend.Running) {
			return
		}
	}
}

func TestParkUntilResumed(t *testing.T) {
	ctx := log.Testing(t)
	threads := newThreads(2)
	c := suspend.New(func() []*vm.Object { return threads })

	err := c.DoSuspend(threads[0], jdwp.SuspendAll, func() error { return nil })
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "pending").That(c.State(threads[0])).Equals(suspend.SuspendPending)
	assert.For(ctx, "other count").That(c.SuspendCount(threads[1])).Equals(1)

	done := make(chan error)
	go func() { done <- c.SafePoint(ctx, threads[0]) }()
	assert.For(ctx, "parked").That(waitFor(c, threads[0], suspend.Suspended)).Equals(true)

	c.SuspendThread(threads[0])
	c.Resume()
	assert.For(ctx, "still suspended").That(c.State(threads[0])).Equals(suspend.Suspended)
	assert.For(ctx, "other resumed").That(c.IsSuspended(threads[1])).Equals(false)
	c.ResumeThread(threads[0])
	assert.For(ctx, "safe point").ThatError(<-done).Succeeded()
	assert.For(ctx, "running").That(c.State(threads[0])).Equals(suspend.Running)
}

func TestPolicies(t *testing.T) {
	ctx := log.Testing(t)
	threads := newThreads(2)
	c := suspend.New(func() []*vm.Object { return threads })
	send := func() error { return nil }

	c.DoSuspend(threads[0], jdwp.SuspendNone, send)
	assert.For(ctx, "none").That(c.SuspendCount(threads[0])).Equals(0)
	c.DoSuspend(threads[0], jdwp.SuspendEventThread, send)
	assert.For(ctx, "event thread").That(c.SuspendCount(threads[0])).Equals(1)
	assert.For(ctx, "event thread other").That(c.SuspendCount(threads[1])).Equals(0)
	c.DoSuspend(nil, jdwp.SuspendEventThread, send)
	c.DoSuspend(threads[1], jdwp.SuspendAll, send)
	assert.For(ctx, "all").That(c.SuspendCount(threads[0])).Equals(2)
	assert.For(ctx, "all other").That(c.SuspendCount(threads[1])).Equals(1)

	failed := jdwp.ErrVMDead
	err := c.DoSuspend(threads[1], jdwp.SuspendAll, func() error { return failed })
	assert.For(ctx, "send failure").ThatError(err).Equals(failed)
	assert.For(ctx, "not suspended on failure").That(c.SuspendCount(threads[1])).Equals(1)

	c.Release()
	assert.For(ctx, "released").That(c.SuspendCount(threads[0])).Equals(0)
	c.SuspendThread(threads[0])
	assert.For(ctx, "suspend after release").That(c.SuspendCount(threads[0])).Equals(0)
}

func TestSafePointCancelled(t *testing.T) {
	ctx := log.Testing(t)
	threads := newThreads(1)
	c := suspend.New(func() []*vm.Object { return threads })
	c.SuspendThread(threads[0])

	parked, cancel := task.WithCancel(ctx)
	done := make(chan error)
	go func() { done <- c.SafePoint(parked, threads[0]) }()
	waitFor(c, threads[0], suspend.Suspended)
	cancel()
	assert.For(ctx, "cancelled").ThatError(<-done).Equals(context.Canceled)
}
