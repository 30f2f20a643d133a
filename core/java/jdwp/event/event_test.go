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

package event_test

import (
	"bytes"
	"testing"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/ids"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

func payload(e event.Event, r *ids.Registries) []byte {
	buf := &bytes.Buffer{}
	e.Write(endian.Writer(buf, device.BigEndian), r)
	return buf.Bytes()
}

func TestPayloads(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	object := &vm.Class{Signature: vm.SigObject, Kind: jdwp.Class}
	threadClass := &vm.Class{Signature: vm.SigThread, Kind: jdwp.Class, Super: object}
	main := &vm.Class{Signature: "LMain;", Kind: jdwp.Class, Super: object, Status: jdwp.StatusPrepared}
	count := &vm.Field{Name: "count", Signature: "I", Class: main}
	run := &vm.Method{Name: "run", Signature: "()V", Class: main, End: 4}
	thread := vm.NewObject(1, threadClass)
	loc := vm.Location{Class: main, Method: run, Index: 2}
	at := event.Context{Thread: thread, Location: loc}

	const (
		id       = 8
		location = 1 + 8 + 8 + 8
		tagged   = 1 + 8
	)
	for _, test := range []struct {
		event event.Event
		size  int
	}{
		{event.VMDeath{}, 0},
		{event.VMStart{Thread: thread}, id},
		{event.ThreadStart{Thread: thread}, id},
		{event.Breakpoint{Context: at}, id + location},
		{event.SingleStep{Context: at, Depth: 1}, id + location},
		{event.MethodExitWithReturnValue{Context: at, Value: vm.Int(3)}, id + location + 1 + 4},
		{event.Exception{Context: at}, id + location + tagged + location},
		{event.ClassUnload{Signature: "LMain;"}, 4 + 6},
		{event.ClassPrepare{Thread: thread, Class: main}, id + 1 + 8 + 4 + 6 + 4},
		{event.FieldAccess{Context: at, Field: count}, id + location + 1 + 8 + 8 + tagged},
		{event.FieldModification{Context: at, Field: count, Value: vm.Long(1)}, id + location + 1 + 8 + 8 + tagged + 1 + 8},
		{event.MonitorWait{Monitor: event.Monitor{Context: at}, Timeout: 10}, id + tagged + location + 8},
		{event.MonitorWaited{Monitor: event.Monitor{Context: at}}, id + tagged + location + 1},
	} {
		got := payload(test.event, r)
		assert.For(ctx, "%v size", test.event.Kind()).That(len(got)).Equals(test.size)
	}

	got := payload(event.Breakpoint{Context: at}, r)
	assert.For(ctx, "thread id").ThatSlice(got[:8]).Equals([]byte{0, 0, 0, 0, 0, 0, 0, 1})
	assert.For(ctx, "type tag").That(got[8]).Equals(byte(jdwp.Class))
	assert.For(ctx, "index").ThatSlice(got[25:]).Equals([]byte{0, 0, 0, 0, 0, 0, 0, 2})
}

func TestAccessors(t *testing.T) {
	ctx := log.Testing(t)
	main := &vm.Class{Signature: "Lcom/example/Main;", Kind: jdwp.Class}
	var e event.Event = event.Exception{Context: event.Context{Location: vm.Location{Class: main}}}

	typed, ok := e.(event.Typed)
	assert.For(ctx, "typed").That(ok).Equals(true)
	assert.For(ctx, "class").That(typed.EventClass() == main).Equals(true)
	assert.For(ctx, "uncaught").That(e.(event.Exception).Caught()).Equals(false)

	_, ok = event.Event(event.ThreadStart{}).(event.Located)
	assert.For(ctx, "thread start has no location").That(ok).Equals(false)
	assert.For(ctx, "unload name").That(event.ClassUnload{Signature: "Lcom/example/Main;"}.ClassName()).Equals("com.example.Main")
}
