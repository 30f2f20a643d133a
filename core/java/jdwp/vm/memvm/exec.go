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
	"fmt"

	"github.com/stepanv/jpf-jdwp-sub001/core/fault"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
)

// ErrExited is returned by instructions run after the machine exited.
const ErrExited = fault.Const("Machine exited")

// Instr is one instruction of a method.
type Instr func(x *Exec) error

// Handler catches exceptions of Class, or of any class if Class is nil,
// thrown by the instructions in [Start, End], continuing at Target.
type Handler struct {
	Start, End uint64
	Target     uint64
	Class      *vm.Class
}

// Code is the body of a method.
type Code struct {
	Instrs   []Instr
	Handlers []Handler
}

// Thrown is the error returned by instructions that threw an exception.
type Thrown struct {
	Exception *vm.Object
	// handler is the frame that catches the exception, nil if uncaught.
	handler *vm.Frame
	target  uint64
}

func (t *Thrown) Error() string {
	return fmt.Sprintf("Exception %v", t.Exception.Class.Name())
}

// Exec is the state of the method executing on a thread.
type Exec struct {
	Thread *Thread
	Frame  *vm.Frame

	ctx  context.Context
	m    *Machine
	ret  vm.Value
	done bool
	next int
}

// Context returns the context of the executing thread.
func (x *Exec) Context() context.Context { return x.ctx }

// Machine returns the machine executing the method.
func (x *Exec) Machine() *Machine { return x.m }

// This returns the receiver of the method, nil for static methods.
func (x *Exec) This() *vm.Object { return x.Frame.This() }

// Local returns the value of a local variable slot.
func (x *Exec) Local(slot int) vm.Value {
	v, _ := x.Frame.Local(slot)
	return v
}

// SetLocal assigns a local variable slot.
func (x *Exec) SetLocal(slot int, v vm.Value) { x.Frame.SetLocal(slot, v) }

// Return ends the method with the value v.
func (x *Exec) Return(v vm.Value) {
	x.ret = v
	x.done = true
}

// Goto continues execution at the instruction index.
func (x *Exec) Goto(index int) { x.next = index }

func (x *Exec) context() event.Context {
	return event.Context{
		Thread:   x.Thread.Object,
		Location: x.Frame.Location(),
		Receiver: x.Frame.This(),
	}
}

func (x *Exec) notify(events ...event.Event) {
	x.m.notify(x.ctx, x.Thread.Object, events...)
}

// Invoke runs method on the thread of x and returns its result.
func (x *Exec) Invoke(method *vm.Method, this *vm.Object, args ...vm.Value) (vm.Value, error) {
	code, ok := x.m.codeOf(method)
	if !ok {
		return vm.Value{}, fmt.Errorf("Method %v.%v has no code", method.Class.Name(), method.Name)
	}
	slots := method.ArgSlots()
	for _, v := range method.Variables {
		if int(v.Slot) >= slots {
			slots = int(v.Slot) + 1
		}
	}
	loc := vm.Location{Class: method.Class, Method: method, Index: method.Start}
	frame := vm.NewFrame(x.Thread.Object, loc, this, slots)
	slot := 0
	if !method.Modifiers.Static() {
		frame.SetLocal(slot, vm.Ref(this))
		slot++
	}
	for _, a := range args {
		frame.SetLocal(slot, a)
		slot++
		if a.Tag == jdwp.TagLong || a.Tag == jdwp.TagDouble {
			slot++
		}
	}

	inner := &Exec{ctx: x.ctx, m: x.m, Thread: x.Thread, Frame: frame}
	x.Thread.push(frame)
	defer x.Thread.pop()

	inner.notify(event.MethodEntry{Context: inner.context()})
	err := inner.run(code)
	if err == ErrExited {
		return vm.Value{}, err
	}
	ret := inner.ret
	if sig, perr := vm.ParseMethodSignature(method.Signature); err != nil || perr != nil || sig.Return == "V" {
		ret = vm.Void()
	}
	exit := inner.context()
	inner.notify(event.MethodExit{Context: exit}, event.MethodExitWithReturnValue{Context: exit, Value: ret})
	return inner.ret, err
}

func (x *Exec) run(code Code) error {
	for pc := 0; pc < len(code.Instrs) && !x.done; {
		if x.m.Exited() {
			return ErrExited
		}
		loc := x.Frame.Location()
		loc.Index = uint64(pc)
		x.Frame.SetLocation(loc)
		at := x.context()
		x.notify(event.SingleStep{Context: at, Depth: x.Thread.Depth()}, event.Breakpoint{Context: at})
		x.m.safePoint(x.ctx, x.Thread.Object)
		if x.m.Exited() {
			return ErrExited
		}

		x.next = pc + 1
		err := code.Instrs[pc](x)
		if thrown, ok := err.(*Thrown); ok && thrown.handler == x.Frame {
			x.next = int(thrown.target)
			err = nil
		}
		if err != nil {
			return err
		}
		pc = x.next
	}
	return nil
}

// Throw raises the exception ex. The returned error must be returned by the
// instruction so that the exception unwinds to its handler.
func (x *Exec) Throw(ex *vm.Object) error {
	thrown := &Thrown{Exception: ex}
	catch := vm.Location{}
	info := x.Thread.info()
	for _, f := range info.Frames {
		loc := f.Location()
		code, _ := x.m.codeOf(loc.Method)
		for _, h := range code.Handlers {
			if loc.Index < h.Start || loc.Index > h.End {
				continue
			}
			if h.Class != nil && !ex.Class.IsAssignableTo(h.Class) {
				continue
			}
			thrown.handler, thrown.target = f, h.Target
			catch = vm.Location{Class: loc.Class, Method: loc.Method, Index: h.Target}
			break
		}
		if thrown.handler != nil {
			break
		}
	}
	x.notify(event.Exception{Context: x.context(), Exception: ex, Catch: catch})
	return thrown
}

// GetField reads a field of o, or a static field if o is nil.
func (x *Exec) GetField(o *vm.Object, f *vm.Field) vm.Value {
	x.notify(event.FieldAccess{Context: x.context(), Field: f, Object: o})
	if o == nil {
		v, _ := f.Class.Static(f)
		return v
	}
	v, _ := o.Field(f)
	return v
}

// PutField writes a field of o, or a static field if o is nil.
func (x *Exec) PutField(o *vm.Object, f *vm.Field, v vm.Value) {
	x.notify(event.FieldModification{Context: x.context(), Field: f, Object: o, Value: v})
	if o == nil {
		f.Class.SetStatic(f, v)
		return
	}
	o.SetField(f, v)
}

// Enter acquires monitor after contending for it.
func (x *Exec) Enter(monitor *vm.Object) {
	m := event.Monitor{Context: x.context(), Object: monitor}
	x.Thread.setStatus(jdwp.ThreadMonitor, func() {
		x.notify(event.MonitorContendedEnter{Monitor: m})
	})
	x.notify(event.MonitorContendedEntered{Monitor: m})
}

// Wait waits on monitor for timeout milliseconds.
func (x *Exec) Wait(monitor *vm.Object, timeout int64) {
	m := event.Monitor{Context: x.context(), Object: monitor}
	x.Thread.setStatus(jdwp.ThreadWait, func() {
		x.notify(event.MonitorWait{Monitor: m, Timeout: timeout})
	})
	x.notify(event.MonitorWaited{Monitor: m, TimedOut: timeout > 0})
}

// Prepare raises ClassPrepare for a class defined while the thread runs.
func (x *Exec) Prepare(c *vm.Class) {
	x.notify(event.ClassPrepare{Thread: x.Thread.Object, Class: c})
}

// Exit terminates the machine.
func (x *Exec) Exit(code int32) error {
	x.m.exit(x.ctx, code)
	return ErrExited
}
