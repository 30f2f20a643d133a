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

package memvm_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm/memvm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

type recorder struct {
	mu         sync.Mutex
	events     []event.Event
	safePoints int
}

func (r *recorder) Notify(ctx context.Context, thread *vm.Object, events ...event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recorder) SafePoint(ctx context.Context, thread *vm.Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.safePoints++
}

func (r *recorder) count(kind jdwp.EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind() == kind {
			n++
		}
	}
	return n
}

func (r *recorder) find(kind jdwp.EventKind) event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Kind() == kind {
			return e
		}
	}
	return nil
}

func TestDemoRun(t *testing.T) {
	ctx := log.Testing(t)
	d := memvm.NewDemo(2, 0)
	r := &recorder{}
	d.Machine.SetObserver(r)

	code := d.Machine.Run(ctx, d.Main)
	assert.For(ctx, "exit code").That(code).Equals(int32(0))
	assert.For(ctx, "exited").That(d.Machine.Exited()).Equals(true)
	assert.For(ctx, "done").That(d.Machine.Done().Fired()).Equals(true)

	assert.For(ctx, "thread start").That(r.count(jdwp.ThreadStart)).Equals(1)
	assert.For(ctx, "thread death").That(r.count(jdwp.ThreadDeath)).Equals(1)
	assert.For(ctx, "vm death").That(r.count(jdwp.VMDeath)).Equals(1)
	// main, 2 x increment, check
	assert.For(ctx, "method entry").That(r.count(jdwp.MethodEntry)).Equals(4)
	assert.For(ctx, "field modification").That(r.count(jdwp.FieldModification)).Equals(4)
	assert.For(ctx, "steps match breakpoints").That(r.count(jdwp.SingleStep)).Equals(r.count(jdwp.Breakpoint))
	assert.For(ctx, "safe points").That(r.safePoints >= r.count(jdwp.SingleStep)).Equals(true)

	ex, ok := r.find(jdwp.Exception).(event.Exception)
	assert.For(ctx, "exception").That(ok).Equals(true)
	assert.For(ctx, "caught").That(ex.Caught()).Equals(true)
	assert.For(ctx, "catch location").That(ex.Catch.Index).Equals(uint64(7))
	assert.For(ctx, "catch method").That(ex.Catch.Method == d.Main).Equals(true)

	v, _ := d.Counter.Static(d.Total)
	assert.For(ctx, "total").That(v.AsInt()).Equals(int32(2))
}

func TestUncaught(t *testing.T) {
	ctx := log.Testing(t)
	d := memvm.NewDemo(0, 0)
	r := &recorder{}
	d.Machine.SetObserver(r)
	thread := d.Machine.NewThread("checker")
	thread.Start(ctx, d.Check, d.Machine.New(d.Counter))
	assert.For(ctx, "finished").That(thread.Done().TryWait(ctx, 5*time.Second)).Equals(true)

	ex, ok := r.find(jdwp.Exception).(event.Exception)
	assert.For(ctx, "exception").That(ok).Equals(true)
	assert.For(ctx, "uncaught").That(ex.Caught()).Equals(false)
	info, err := d.Machine.ThreadInfo(thread.Object)
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "zombie").That(info.Status).Equals(jdwp.ThreadZombie)
	assert.For(ctx, "not live").ThatSlice(d.Machine.Threads()).IsEmpty()
}

func TestExitInterruptsDelay(t *testing.T) {
	ctx := log.Testing(t)
	d := memvm.NewDemo(-1, time.Hour)
	thread := d.Machine.NewThread("main")
	thread.Start(ctx, d.Main, nil)
	time.Sleep(10 * time.Millisecond)
	d.Machine.Exit(0)
	assert.For(ctx, "finished").That(thread.Done().TryWait(ctx, 5*time.Second)).Equals(true)
	d.Machine.Wait()
}

func TestRuntime(t *testing.T) {
	ctx := log.Testing(t)
	m := memvm.New()
	assert.For(ctx, "string class").That(m.ClassBySignature(vm.SigString) == m.String).Equals(true)
	assert.For(ctx, "class object").That(m.String.Object.Reflected == m.String).Equals(true)
	assert.For(ctx, "object class object").That(m.Object.Object != nil).Equals(true)
	s := m.NewString("hi")
	assert.For(ctx, "string").That(s.String()).Equals("hi")

	ints := m.NewArray("I", 3)
	assert.For(ctx, "array class").That(ints.Class.Name()).Equals("int[]")
	assert.For(ctx, "array len").That(ints.Len()).Equals(3)

	groups := m.TopLevelThreadGroups()
	assert.For(ctx, "groups").ThatSlice(groups).IsLength(1)
	thread := m.NewThread("worker")
	g, err := m.ThreadGroupInfo(groups[0])
	assert.For(ctx, "group err").ThatError(err).Succeeded()
	assert.For(ctx, "group threads").ThatSlice(g.Threads).Equals([]*vm.Object{thread.Object})
	_, err = m.ThreadInfo(s)
	assert.For(ctx, "not a thread").ThatError(err).Equals(jdwp.ErrInvalidThread)
}
