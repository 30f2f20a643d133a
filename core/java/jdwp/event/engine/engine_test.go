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

package engine_test

import (
	"bytes"
	"testing"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event/engine"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event/filter"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/ids"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/suspend"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

// Fixtures are built in init so that they live on the heap, where the
// registries can hold weak pointers to them.
var objectClass, threadClass, mainClass *vm.Class
var mainMethod *vm.Method

func init() {
	objectClass = &vm.Class{Signature: vm.SigObject, Kind: jdwp.Class}
	threadClass = &vm.Class{Signature: vm.SigThread, Kind: jdwp.Class, Super: objectClass}
	mainClass = &vm.Class{Signature: "LMain;", Kind: jdwp.Class, Super: objectClass}
	mainMethod = &vm.Method{Name: "main", Signature: "()V", Class: mainClass, End: 10}
}

type fixture struct {
	regs    *ids.Registries
	coord   *suspend.Coordinator
	engine  *engine.Engine
	thread  *vm.Object
	threads []*vm.Object
}

func newFixture() *fixture {
	f := &fixture{regs: ids.New(), thread: vm.NewObject(1, threadClass)}
	f.threads = []*vm.Object{f.thread}
	f.coord = suspend.New(func() []*vm.Object { return f.threads })
	f.engine = engine.New(f.regs, f.coord)
	return f
}

func (f *fixture) breakpoint(index uint64) event.Breakpoint {
	return event.Breakpoint{Context: event.Context{
		Thread:   f.thread,
		Location: vm.Location{Class: mainClass, Method: mainMethod, Index: index},
	}}
}

func count(n int32) filter.Filter {
	c, err := filter.NewCount(n)
	if err != nil {
		panic(err)
	}
	return c
}

func TestCompositePacket(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture()
	_, err := f.engine.Register(ctx, jdwp.Breakpoint, jdwp.SuspendEventThread, nil)
	assert.For(ctx, "register 1").ThatError(err).Succeeded()
	_, err = f.engine.Register(ctx, jdwp.Breakpoint, jdwp.SuspendAll, nil)
	assert.For(ctx, "register 2").ThatError(err).Succeeded()

	matches, policy := f.engine.Dispatch(f.breakpoint(3))
	assert.For(ctx, "matches").That(len(matches)).Equals(2)
	assert.For(ctx, "policy").That(policy).Equals(jdwp.SuspendAll)

	buf := &bytes.Buffer{}
	err = f.engine.Assemble(endian.Writer(buf, device.BigEndian), matches, policy)
	assert.For(ctx, "assemble").ThatError(err).Succeeded()
	data := buf.Bytes()
	assert.For(ctx, "header").ThatSlice(data[:5]).Equals([]byte{0x02, 0x00, 0x00, 0x00, 0x02})
	assert.For(ctx, "first record").ThatSlice(data[5:10]).Equals([]byte{byte(jdwp.Breakpoint), 0, 0, 0, 1})
	const record = 1 + 4 + 8 + 25
	assert.For(ctx, "size").That(len(data)).Equals(5 + 2*record)
	assert.For(ctx, "second record").ThatSlice(data[5+record : 10+record]).Equals([]byte{byte(jdwp.Breakpoint), 0, 0, 0, 2})
}

func TestCountExpiryRemovesRequest(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture()
	r, err := f.engine.Register(ctx, jdwp.Breakpoint, jdwp.SuspendNone, []filter.Filter{count(2)})
	assert.For(ctx, "register").ThatError(err).Succeeded()

	matches, _ := f.engine.Dispatch(f.breakpoint(1))
	assert.For(ctx, "first").That(len(matches)).Equals(0)
	matches, _ = f.engine.Dispatch(f.breakpoint(1))
	assert.For(ctx, "second").That(len(matches)).Equals(1)
	assert.For(ctx, "request").That(matches[0].Request).Equals(r.ID)
	assert.For(ctx, "removed").ThatSlice(f.engine.Requests()).IsEmpty()
	matches, _ = f.engine.Dispatch(f.breakpoint(1))
	assert.For(ctx, "third").That(len(matches)).Equals(0)
}

func TestExpiredCountBehindFailingFilter(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture()
	filters := []filter.Filter{count(1), filter.ClassMatch{Pattern: "Other"}}
	f.engine.Register(ctx, jdwp.Breakpoint, jdwp.SuspendNone, filters)
	matches, _ := f.engine.Dispatch(f.breakpoint(1), f.breakpoint(2))
	assert.For(ctx, "matches").That(len(matches)).Equals(0)
	assert.For(ctx, "removed").ThatSlice(f.engine.Requests()).IsEmpty()
}

func TestRegisterValidation(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture()
	only := filter.ThreadOnly{Thread: f.regs.Object(f.thread)}
	_, err := f.engine.Register(ctx, jdwp.ClassUnload, jdwp.SuspendNone, []filter.Filter{count(1), only})
	assert.For(ctx, "class unload").ThatError(err).HasCause(jdwp.ErrIllegalArgument)
	assert.For(ctx, "nothing registered").ThatSlice(f.engine.Requests()).IsEmpty()

	_, err = f.engine.Register(ctx, jdwp.VMStart, jdwp.SuspendNone, nil)
	assert.For(ctx, "vm start").ThatError(err).HasCause(jdwp.ErrInvalidEventType)
	_, err = f.engine.Register(ctx, jdwp.Breakpoint, jdwp.SuspendPolicy(3), nil)
	assert.For(ctx, "policy").ThatError(err).HasCause(jdwp.ErrIllegalArgument)

	a, err := f.engine.Register(ctx, jdwp.Breakpoint, jdwp.SuspendNone, []filter.Filter{only})
	assert.For(ctx, "breakpoint").ThatError(err).Succeeded()
	b, _ := f.engine.Register(ctx, jdwp.ThreadStart, jdwp.SuspendNone, nil)
	assert.For(ctx, "first id").That(a.ID).Equals(int32(1))
	assert.For(ctx, "shared counter").That(b.ID).Equals(int32(2))

	f.engine.Clear(ctx, jdwp.ThreadStart, a.ID)
	assert.For(ctx, "clear wrong kind").ThatSlice(f.engine.Requests()).IsLength(2)
	f.engine.ClearAllBreakpoints(ctx)
	assert.For(ctx, "cleared breakpoints").ThatSlice(f.engine.Requests()).IsLength(1)
	f.engine.Clear(ctx, jdwp.ThreadStart, b.ID)
	assert.For(ctx, "cleared").ThatSlice(f.engine.Requests()).IsEmpty()
}

func TestReportSuspends(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture()
	f.engine.Register(ctx, jdwp.Breakpoint, jdwp.SuspendEventThread, nil)

	sent := [][]byte{}
	send := func(payload []byte) error {
		sent = append(sent, append([]byte{}, payload...))
		return nil
	}
	err := f.engine.Report(ctx, f.thread, send, f.breakpoint(1))
	assert.For(ctx, "report").ThatError(err).Succeeded()
	assert.For(ctx, "sent").That(len(sent)).Equals(1)
	assert.For(ctx, "suspended").That(f.coord.SuspendCount(f.thread)).Equals(1)

	err = f.engine.Report(ctx, f.thread, send, event.ThreadStart{Thread: f.thread})
	assert.For(ctx, "unmatched").ThatError(err).Succeeded()
	assert.For(ctx, "nothing sent").That(len(sent)).Equals(1)
}

func TestUnwritableEventAbortsPacket(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture()
	f.engine.Register(ctx, jdwp.FieldAccess, jdwp.SuspendAll, nil)

	sent := 0
	send := func([]byte) error {
		sent++
		return nil
	}
	broken := event.FieldAccess{Context: f.breakpoint(0).Context}
	err := f.engine.Report(ctx, f.thread, send, broken)
	assert.For(ctx, "report").ThatError(err).HasCause(jdwp.ErrInternal)
	assert.For(ctx, "sent").That(sent).Equals(0)
	assert.For(ctx, "not suspended").That(f.coord.SuspendCount(f.thread)).Equals(0)
}

func TestReportAutomatic(t *testing.T) {
	ctx := log.Testing(t)
	f := newFixture()
	var payload []byte
	send := func(p []byte) error {
		payload = p
		return nil
	}
	err := f.engine.ReportAutomatic(ctx, f.thread, send, jdwp.SuspendAll, event.VMStart{Thread: f.thread})
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "payload").ThatSlice(payload).Equals([]byte{
		0x02, 0, 0, 0, 1,
		byte(jdwp.VMStart), 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 1,
	})
	assert.For(ctx, "suspended").That(f.coord.SuspendCount(f.thread)).Equals(1)

	f.engine.Register(ctx, jdwp.VMDeath, jdwp.SuspendNone, nil)
	err = f.engine.ReportAutomatic(ctx, nil, send, jdwp.SuspendNone, event.VMDeath{})
	assert.For(ctx, "death err").ThatError(err).Succeeded()
	assert.For(ctx, "death").ThatSlice(payload).Equals([]byte{
		0x00, 0, 0, 0, 2,
		byte(jdwp.VMDeath), 0, 0, 0, 0,
		byte(jdwp.VMDeath), 0, 0, 0, 1,
	})
}
