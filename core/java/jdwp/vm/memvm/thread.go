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

package memvm

import (
	"context"
	"sync"

	"github.com/stepanv/jpf-jdwp-sub001/core/app/crash"
	"github.com/stepanv/jpf-jdwp-sub001/core/event/task"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

// Thread is a thread of the machine.
type Thread struct {
	Object *vm.Object
	Name   string

	m      *Machine
	mu     sync.Mutex
	frames []*vm.Frame // outermost first
	status jdwp.ThreadStatus
	done   task.Signal
	finish task.Task
}

// NewThread creates a live thread that has not started yet.
func (m *Machine) NewThread(name string) *Thread {
	t := &Thread{
		Object: m.alloc(m.Thread),
		Name:   name,
		m:      m,
		status: jdwp.ThreadRunning,
	}
	t.done, t.finish = task.NewSignal()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threads = append(m.threads, t)
	m.byObject[t.Object] = t
	return t
}

// Start runs method on the thread. ThreadStart and ThreadDeath are raised
// around the run.
func (t *Thread) Start(ctx context.Context, method *vm.Method, this *vm.Object, args ...vm.Value) {
	t.m.wg.Add(1)
	ctx = log.PutTag(ctx, t.Name)
	crash.Go(func() {
		defer t.m.wg.Done()
		defer t.exit(ctx)
		t.m.notify(ctx, t.Object, event.ThreadStart{Thread: t.Object})
		t.m.safePoint(ctx, t.Object)
		x := &Exec{ctx: ctx, m: t.m, Thread: t}
		if _, err := x.Invoke(method, this, args...); err != nil {
			if ex, ok := err.(*Thrown); ok {
				log.W(ctx, "Uncaught exception %v", ex.Exception.Class.Name())
			} else if err != ErrExited {
				log.W(ctx, "Thread stopped: %v", err)
			}
		}
	})
}

func (t *Thread) exit(ctx context.Context) {
	t.mu.Lock()
	t.status = jdwp.ThreadZombie
	t.frames = nil
	t.mu.Unlock()

	if !t.m.Exited() {
		t.m.notify(ctx, t.Object, event.ThreadDeath{Thread: t.Object})
	}

	t.m.mu.Lock()
	for i, l := range t.m.threads {
		if l == t {
			t.m.threads = append(t.m.threads[:i], t.m.threads[i+1:]...)
			break
		}
	}
	t.m.mu.Unlock()
	t.finish(ctx)
}

// Done returns a signal fired once the thread has finished.
func (t *Thread) Done() task.Signal { return t.done }

func (t *Thread) push(f *vm.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = append(t.frames, f)
}

func (t *Thread) pop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = t.frames[:len(t.frames)-1]
}

// Depth returns the number of frames on the stack.
func (t *Thread) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.frames)
}

// setStatus changes the status while f runs.
func (t *Thread) setStatus(s jdwp.ThreadStatus, f func()) {
	t.mu.Lock()
	old := t.status
	t.status = s
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.status = old
		t.mu.Unlock()
	}()
	f()
}

func (t *Thread) info() *vm.ThreadInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	info := &vm.ThreadInfo{
		Name:   t.Name,
		Status: t.status,
		Group:  t.m.group,
		Frames: make([]*vm.Frame, len(t.frames)),
	}
	for i, f := range t.frames {
		info.Frames[len(t.frames)-1-i] = f
	}
	return info
}
