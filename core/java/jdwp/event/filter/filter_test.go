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

package filter_test

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event/filter"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/ids"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

// Fixtures are built in init so that they live on the heap, where the
// registries can hold weak pointers to them.
var objectClass, threadClass, throwableClass, errorClass, fooClass *vm.Class
var run *vm.Method

func init() {
	objectClass = &vm.Class{Signature: vm.SigObject, Kind: jdwp.Class}
	threadClass = &vm.Class{Signature: vm.SigThread, Kind: jdwp.Class, Super: objectClass}
	throwableClass = &vm.Class{Signature: vm.SigThrowable, Kind: jdwp.Class, Super: objectClass}
	errorClass = &vm.Class{Signature: "Ljava/lang/Error;", Kind: jdwp.Class, Super: throwableClass}
	fooClass = &vm.Class{Signature: "Lcom/example/Foo;", Kind: jdwp.Class, Super: objectClass, SourceFile: "Foo.java"}
	run = &vm.Method{
		Name: "run", Signature: "()V", Class: fooClass, End: 20,
		Lines: []vm.Line{{Index: 0, Line: 1}, {Index: 10, Line: 2}},
	}
}

// fakeRuntime answers ThreadInfo with a fixed stack.
type fakeRuntime struct {
	vm.Runtime
	frames []*vm.Frame
}

func (r fakeRuntime) ThreadInfo(*vm.Object) (*vm.ThreadInfo, error) {
	return &vm.ThreadInfo{Name: "main", Status: jdwp.ThreadRunning, Frames: r.frames}, nil
}

func at(thread *vm.Object, index uint64) event.Context {
	return event.Context{Thread: thread, Location: vm.Location{Class: fooClass, Method: run, Index: index}}
}

func TestCount(t *testing.T) {
	ctx := log.Testing(t)
	c, err := filter.NewCount(3)
	assert.For(ctx, "err").ThatError(err).Succeeded()
	e := event.VMDeath{}
	assert.For(ctx, "1st").That(c.Matches(e)).Equals(false)
	assert.For(ctx, "2nd").That(c.Matches(e)).Equals(false)
	assert.For(ctx, "3rd").That(c.Matches(e)).Equals(true)
	assert.For(ctx, "expired").That(c.Expired()).Equals(true)

	panicked := func() (p interface{}) {
		defer func() { p = recover() }()
		c.Matches(e)
		return nil
	}()
	assert.For(ctx, "evaluated after expiry").That(panicked).Equals(filter.ErrCountExpired)

	_, err = filter.NewCount(0)
	assert.For(ctx, "count 0").ThatError(err).HasCause(jdwp.ErrIllegalArgument)
}

func TestShortCircuit(t *testing.T) {
	ctx := log.Testing(t)
	c, _ := filter.NewCount(1)
	thread := vm.NewObject(1, threadClass)
	e := event.Breakpoint{Context: at(thread, 0)}
	chain := []filter.Filter{filter.ClassMatch{Pattern: "org.*"}, c}
	assert.For(ctx, "rejected").That(filter.Match(chain, e)).Equals(false)
	assert.For(ctx, "count untouched").That(c.Expired()).Equals(false)

	chain[0] = filter.ClassMatch{Pattern: "com.example.*"}
	assert.For(ctx, "accepted").That(filter.Match(chain, e)).Equals(true)
	assert.For(ctx, "count expired").That(c.Expired()).Equals(true)
}

func TestPattern(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		pattern string
		name    string
		expect  bool
	}{
		{"*.Foo", "com.example.Foo", true},
		{"*.Foo", "com.example.Bar", false},
		{"java.*", "java.lang.String", true},
		{"java.*", "javax.swing.JFrame", false},
		{"Foo", "Foo", true},
		{"Foo", "com.Foo", false},
		{"*", "anything", true},
	} {
		assert.For(ctx, "%v ~ %v", test.pattern, test.name).
			That(filter.Pattern(test.pattern).Matches(test.name)).Equals(test.expect)
	}
}

func TestValidate(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	thread := vm.NewObject(1, threadClass)
	only := filter.ThreadOnly{Thread: r.Object(thread)}

	err := filter.Validate(jdwp.ClassUnload, []filter.Filter{only})
	assert.For(ctx, "thread-only on class unload").ThatError(err).HasCause(jdwp.ErrIllegalArgument)
	err = filter.Validate(jdwp.Breakpoint, []filter.Filter{only})
	assert.For(ctx, "thread-only on breakpoint").ThatError(err).Succeeded()
	err = filter.Validate(jdwp.Breakpoint, []filter.Filter{filter.Conditional{}})
	assert.For(ctx, "conditional").ThatError(err).HasCause(jdwp.ErrNotImplemented)
	err = filter.Validate(jdwp.ThreadStart, []filter.Filter{filter.ExceptionOnly{}})
	assert.For(ctx, "exception-only on thread start").ThatError(err).HasCause(jdwp.ErrIllegalArgument)

	assert.For(ctx, "source name on prepare").That(filter.Compatible(jdwp.ModSourceNameMatch, jdwp.ClassPrepare)).Equals(true)
	assert.For(ctx, "instance on prepare").That(filter.Compatible(jdwp.ModInstanceOnly, jdwp.ClassPrepare)).Equals(false)
	assert.For(ctx, "class match on unload").That(filter.Compatible(jdwp.ModClassMatch, jdwp.ClassUnload)).Equals(true)
}

func TestThreadAndInstance(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	main, other := vm.NewObject(1, threadClass), vm.NewObject(2, threadClass)
	this := vm.NewObject(3, fooClass)

	onMain := filter.ThreadOnly{Thread: r.Object(main)}
	assert.For(ctx, "main").That(onMain.Matches(event.Breakpoint{Context: at(main, 0)})).Equals(true)
	assert.For(ctx, "other").That(onMain.Matches(event.Breakpoint{Context: at(other, 0)})).Equals(false)

	static := filter.InstanceOnly{Object: r.Object(nil)}
	instance := filter.InstanceOnly{Object: r.Object(this)}
	inStatic := event.MethodEntry{Context: at(main, 0)}
	inInstance := event.MethodEntry{Context: event.Context{Thread: main, Receiver: this}}
	assert.For(ctx, "null object in static").That(static.Matches(inStatic)).Equals(true)
	assert.For(ctx, "null object in instance").That(static.Matches(inInstance)).Equals(false)
	assert.For(ctx, "object in instance").That(instance.Matches(inInstance)).Equals(true)
	assert.For(ctx, "object in static").That(instance.Matches(inStatic)).Equals(false)
}

// gc runs collections until done returns true or the attempts run out.
func gc(done func() bool) bool {
	for i := 0; i < 50; i++ {
		runtime.GC()
		if done() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func TestCollectedReferent(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	onThread := filter.ThreadOnly{Thread: r.Object(vm.NewObject(1, threadClass))}
	onObject := filter.InstanceOnly{Object: r.Object(vm.NewObject(2, fooClass))}
	collected := gc(func() bool {
		_, threadErr := onThread.Thread.Get()
		_, objectErr := onObject.Object.Get()
		return threadErr != nil && objectErr != nil
	})
	if !assert.For(ctx, "collected").That(collected).Equals(true) {
		return
	}
	_, err := onThread.Thread.Get()
	assert.For(ctx, "thread").ThatError(err).HasCause(jdwp.ErrInvalidThread)
	_, err = onObject.Object.Get()
	assert.For(ctx, "object").ThatError(err).HasCause(jdwp.ErrInvalidObject)

	e := event.MethodEntry{Context: event.Context{
		Thread:   vm.NewObject(3, threadClass),
		Receiver: vm.NewObject(4, fooClass),
	}}
	assert.For(ctx, "thread-only").That(onThread.Matches(e)).Equals(false)
	assert.For(ctx, "instance-only").That(onObject.Matches(e)).Equals(false)
	assert.For(ctx, "chain").That(filter.Match([]filter.Filter{onThread}, e)).Equals(false)
}

func TestClassOnly(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	thread := vm.NewObject(1, threadClass)
	e := event.Breakpoint{Context: at(thread, 0)}
	assert.For(ctx, "supertype").That(filter.ClassOnly{Type: r.Type(objectClass)}.Matches(e)).Equals(true)
	assert.For(ctx, "same").That(filter.ClassOnly{Type: r.Type(fooClass)}.Matches(e)).Equals(true)
	assert.For(ctx, "unrelated").That(filter.ClassOnly{Type: r.Type(threadClass)}.Matches(e)).Equals(false)
	assert.For(ctx, "exclude").That(filter.ClassExclude{Pattern: "com.*"}.Matches(e)).Equals(false)
	assert.For(ctx, "unload").That(filter.ClassMatch{Pattern: "*.Foo"}.Matches(event.ClassUnload{Signature: "Lorg/Foo;"})).Equals(true)
}

func TestExceptionOnly(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	thread := vm.NewObject(1, threadClass)
	thrown := vm.NewObject(2, errorClass)
	caught := event.Exception{Context: at(thread, 0), Exception: thrown, Catch: vm.Location{Class: fooClass, Method: run, Index: 15}}
	uncaught := event.Exception{Context: at(thread, 0), Exception: thrown}

	anyType := filter.ExceptionOnly{Type: r.Type(nil), Caught: true, Uncaught: true}
	assert.For(ctx, "any caught").That(anyType.Matches(caught)).Equals(true)
	assert.For(ctx, "any uncaught").That(anyType.Matches(uncaught)).Equals(true)

	onlyCaught := filter.ExceptionOnly{Type: r.Type(throwableClass), Caught: true}
	assert.For(ctx, "caught").That(onlyCaught.Matches(caught)).Equals(true)
	assert.For(ctx, "uncaught").That(onlyCaught.Matches(uncaught)).Equals(false)

	threads := filter.ExceptionOnly{Type: r.Type(threadClass), Caught: true, Uncaught: true}
	assert.For(ctx, "wrong type").That(threads.Matches(caught)).Equals(false)
}

func TestStep(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	thread := vm.NewObject(1, threadClass)
	top := vm.NewFrame(thread, vm.Location{Class: fooClass, Method: run, Index: 2}, nil, 0)
	caller := vm.NewFrame(thread, vm.Location{Class: fooClass, Method: run, Index: 12}, nil, 0)
	rt := fakeRuntime{frames: []*vm.Frame{top, caller}}

	step := func(index uint64, depth int) event.SingleStep {
		return event.SingleStep{Context: at(thread, index), Depth: depth}
	}

	over, err := filter.NewStep(r, rt, thread, jdwp.StepLine, jdwp.StepOver)
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "same line").That(over.Matches(step(5, 2))).Equals(false)
	assert.For(ctx, "next line").That(over.Matches(step(10, 2))).Equals(true)
	assert.For(ctx, "callee").That(over.Matches(step(0, 3))).Equals(false)
	assert.For(ctx, "returned").That(over.Matches(step(13, 1))).Equals(true)

	into, _ := filter.NewStep(r, rt, thread, jdwp.StepLine, jdwp.StepInto)
	assert.For(ctx, "into callee").That(into.Matches(step(0, 3))).Equals(true)

	out, _ := filter.NewStep(r, rt, thread, jdwp.StepMin, jdwp.StepOut)
	assert.For(ctx, "out same depth").That(out.Matches(step(3, 2))).Equals(false)
	assert.For(ctx, "out returned").That(out.Matches(step(13, 1))).Equals(true)

	minStep, _ := filter.NewStep(r, rt, thread, jdwp.StepMin, jdwp.StepOver)
	assert.For(ctx, "min").That(minStep.Matches(step(3, 2))).Equals(true)

	_, err = filter.NewStep(r, rt, thread, jdwp.StepSize(7), jdwp.StepOver)
	assert.For(ctx, "bad size").ThatError(err).HasCause(jdwp.ErrIllegalArgument)
}

func TestRead(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	read := func(data ...byte) (filter.Filter, error) {
		return filter.Read(endian.Reader(bytes.NewReader(data), device.BigEndian), r, fakeRuntime{})
	}

	f, err := read(1, 0, 0, 0, 2)
	assert.For(ctx, "count err").ThatError(err).Succeeded()
	assert.For(ctx, "count kind").That(f.Kind()).Equals(jdwp.ModCount)

	f, err = read(5, 0, 0, 0, 3, 'a', '.', '*')
	assert.For(ctx, "match err").ThatError(err).Succeeded()
	assert.For(ctx, "match").That(f).Equals(filter.Filter(filter.ClassMatch{Pattern: "a.*"}))

	_, err = read(1, 0, 0, 0, 0)
	assert.For(ctx, "count 0").ThatError(err).HasCause(jdwp.ErrIllegalArgument)
	_, err = read(99)
	assert.For(ctx, "unknown kind").ThatError(err).HasCause(jdwp.ErrIllegalArgument)
	_, err = read(3, 0, 0, 0, 0, 0, 0, 0, 7)
	assert.For(ctx, "unknown thread").ThatError(err).HasCause(jdwp.ErrInvalidThread)
	_, err = read(1, 0)
	assert.For(ctx, "truncated").ThatError(err).Failed()
}
