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

// Package memvm is a small in-memory target runtime. Its threads execute
// methods whose instructions are Go functions, raising the events a debugger
// can observe and stopping at a safe point after each one.
package memvm

import (
	"context"
	"sync"

	"github.com/stepanv/jpf-jdwp-sub001/core/event/task"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

// Observer is notified of the events raised by a machine.
type Observer interface {
	// Notify is called with the events raised together by thread. thread is
	// nil for events raised outside a thread.
	Notify(ctx context.Context, thread *vm.Object, events ...event.Event)
	// SafePoint is called by a thread between instructions. It may block to
	// hold the thread.
	SafePoint(ctx context.Context, thread *vm.Object)
}

// Machine is an in-memory target runtime. It implements vm.Runtime.
type Machine struct {
	// Well-known classes.
	Object      *vm.Class
	String      *vm.Class
	Class       *vm.Class
	Thread      *vm.Class
	ThreadGroup *vm.Class
	ClassLoader *vm.Class
	Throwable   *vm.Class
	Exception   *vm.Class

	mu       sync.Mutex
	nextRef  vm.HeapRef
	classes  []*vm.Class
	bySig    map[string]*vm.Class
	code     map[*vm.Method]Code
	threads  []*Thread
	byObject map[*vm.Object]*Thread
	group    *vm.Object
	observer Observer
	exited   bool
	exitCode int32
	done     task.Signal
	fireDone task.Task
	wg       sync.WaitGroup
}

var _ vm.Runtime = (*Machine)(nil)

// New returns a machine with the well-known classes loaded.
func New() *Machine {
	m := &Machine{
		bySig:    map[string]*vm.Class{},
		code:     map[*vm.Method]Code{},
		byObject: map[*vm.Object]*Thread{},
	}
	m.done, m.fireDone = task.NewSignal()
	m.Object = m.NewClass(vm.SigObject, nil)
	m.Class = m.NewClass(vm.SigClass, m.Object)
	// The class objects created before java.lang.Class existed.
	m.Object.Object = m.classObject(m.Object)
	m.Class.Object = m.classObject(m.Class)
	m.String = m.NewClass(vm.SigString, m.Object)
	m.Thread = m.NewClass(vm.SigThread, m.Object)
	m.ThreadGroup = m.NewClass(vm.SigThreadGroup, m.Object)
	m.ClassLoader = m.NewClass(vm.SigClassLoader, m.Object)
	m.Throwable = m.NewClass(vm.SigThrowable, m.Object)
	m.Exception = m.NewClass("Ljava/lang/Exception;", m.Throwable)
	m.group = m.alloc(m.ThreadGroup)
	return m
}

// SetObserver installs the observer of the machine's events. A nil observer
// removes it.
func (m *Machine) SetObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = o
}

func (m *Machine) getObserver() Observer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.observer
}

func (m *Machine) notify(ctx context.Context, thread *vm.Object, events ...event.Event) {
	if o := m.getObserver(); o != nil {
		o.Notify(ctx, thread, events...)
	}
}

func (m *Machine) safePoint(ctx context.Context, thread *vm.Object) {
	if o := m.getObserver(); o != nil {
		o.SafePoint(ctx, thread)
	}
}

func (m *Machine) ref() vm.HeapRef {
	m.nextRef++
	return m.nextRef
}

func (m *Machine) alloc(class *vm.Class) *vm.Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	return vm.NewObject(m.ref(), class)
}

func (m *Machine) classObject(c *vm.Class) *vm.Object {
	o := m.alloc(m.Class)
	o.Reflected = c
	return o
}

// NewClass defines a prepared class extending super.
func (m *Machine) NewClass(signature string, super *vm.Class, interfaces ...*vm.Class) *vm.Class {
	c := &vm.Class{
		Signature:  signature,
		Kind:       jdwp.Class,
		Modifiers:  jdwp.ModPublic,
		Super:      super,
		Interfaces: interfaces,
		Status:     jdwp.StatusVerified | jdwp.StatusPrepared | jdwp.StatusInitialized,
	}
	if m.Class != nil {
		c.Object = m.classObject(c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes = append(m.classes, c)
	m.bySig[signature] = c
	return c
}

// NewInterface defines an interface.
func (m *Machine) NewInterface(signature string, interfaces ...*vm.Class) *vm.Class {
	c := m.NewClass(signature, nil, interfaces...)
	c.Kind = jdwp.Interface
	c.Modifiers |= jdwp.ModInterface | jdwp.ModAbstract
	return c
}

// ArrayClass returns the array type with the given component signature,
// defining it on first use.
func (m *Machine) ArrayClass(component string) *vm.Class {
	sig := "[" + component
	if c := m.ClassBySignature(sig); c != nil {
		return c
	}
	c := m.NewClass(sig, m.Object)
	c.Kind = jdwp.Array
	c.Component = m.ClassBySignature(component)
	return c
}

// ClassBySignature returns the loaded class with the signature, or nil.
func (m *Machine) ClassBySignature(signature string) *vm.Class {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bySig[signature]
}

// Unload removes a class from the loaded classes.
func (m *Machine) Unload(ctx context.Context, c *vm.Class) {
	m.mu.Lock()
	for i, l := range m.classes {
		if l == c {
			m.classes = append(m.classes[:i], m.classes[i+1:]...)
			break
		}
	}
	delete(m.bySig, c.Signature)
	m.mu.Unlock()
	m.notify(ctx, nil, event.ClassUnload{Signature: c.Signature})
}

// AddField declares a field of c.
func (m *Machine) AddField(c *vm.Class, name, signature string, modifiers jdwp.ModBits) *vm.Field {
	f := &vm.Field{Name: name, Signature: signature, Modifiers: modifiers, Class: c}
	c.Fields = append(c.Fields, f)
	return f
}

// AddMethod declares a method of c executing code. lines maps code indices
// to source lines.
func (m *Machine) AddMethod(c *vm.Class, name, signature string, modifiers jdwp.ModBits, code Code, lines ...vm.Line) *vm.Method {
	method := &vm.Method{
		Name:      name,
		Signature: signature,
		Modifiers: modifiers,
		Class:     c,
		Lines:     lines,
	}
	if n := len(code.Instrs); n > 0 {
		method.End = uint64(n - 1)
	}
	c.Methods = append(c.Methods, method)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.code[method] = code
	return method
}

func (m *Machine) codeOf(method *vm.Method) (Code, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.code[method]
	return c, ok
}

// New allocates an instance of class.
func (m *Machine) New(class *vm.Class) *vm.Object { return m.alloc(class) }

// NewArray allocates an array with length elements of the component type.
func (m *Machine) NewArray(component string, length int) *vm.Object {
	class := m.ArrayClass(component)
	m.mu.Lock()
	defer m.mu.Unlock()
	return vm.NewArray(m.ref(), class, length)
}

// NewString allocates a java.lang.String.
func (m *Machine) NewString(s string) *vm.Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	return vm.NewString(m.ref(), m.String, s)
}

// Version describes the machine.
func (m *Machine) Version() vm.Version {
	return vm.Version{
		Description: "memvm in-memory runtime",
		Major:       1,
		Minor:       8,
		VMVersion:   "1.8.0",
		VMName:      "memvm",
	}
}

// Classes returns the loaded classes.
func (m *Machine) Classes() []*vm.Class {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*vm.Class{}, m.classes...)
}

// Threads returns the live threads.
func (m *Machine) Threads() []*vm.Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*vm.Object, 0, len(m.threads))
	for _, t := range m.threads {
		out = append(out, t.Object)
	}
	return out
}

// TopLevelThreadGroups returns the single main thread group.
func (m *Machine) TopLevelThreadGroups() []*vm.Object {
	return []*vm.Object{m.group}
}

// ThreadInfo returns the control block of a thread.
func (m *Machine) ThreadInfo(thread *vm.Object) (*vm.ThreadInfo, error) {
	m.mu.Lock()
	t, ok := m.byObject[thread]
	m.mu.Unlock()
	if !ok {
		return nil, jdwp.ErrInvalidThread
	}
	return t.info(), nil
}

// ThreadGroupInfo describes the main thread group.
func (m *Machine) ThreadGroupInfo(group *vm.Object) (*vm.ThreadGroupInfo, error) {
	if group != m.group {
		return nil, jdwp.ErrInvalidThreadGroup
	}
	return &vm.ThreadGroupInfo{Name: "main", Threads: m.Threads()}, nil
}

// Exit terminates the machine. Running threads stop at their next
// instruction. VMDeath is raised once.
func (m *Machine) Exit(code int32) {
	m.exit(context.Background(), code)
}

func (m *Machine) exit(ctx context.Context, code int32) {
	m.mu.Lock()
	if m.exited {
		m.mu.Unlock()
		return
	}
	m.exited = true
	m.exitCode = code
	m.mu.Unlock()
	log.I(ctx, "Exited with code %d", code)
	m.notify(ctx, nil, event.VMDeath{})
	m.fireDone(ctx)
}

// Exited returns true once the machine has exited.
func (m *Machine) Exited() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exited
}

// Done returns a signal fired once the machine has exited and VMDeath has
// been raised.
func (m *Machine) Done() task.Signal { return m.done }

// ExitCode returns the code passed to Exit.
func (m *Machine) ExitCode() int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exitCode
}

// Run starts method on a new thread named main, waits for every thread to
// finish and then exits the machine.
func (m *Machine) Run(ctx context.Context, method *vm.Method, args ...vm.Value) int32 {
	t := m.NewThread("main")
	t.Start(ctx, method, nil, args...)
	m.Wait()
	m.exit(ctx, 0)
	return m.ExitCode()
}

// Wait blocks until every started thread has finished.
func (m *Machine) Wait() { m.wg.Wait() }
