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

// Package event holds the events raised by the target runtime and their wire
// encoding.
//
// Each kind of event is its own struct type. The properties that event
// filters test (thread, location, class, this object, exception, field) are
// exposed through small accessor interfaces so a filter can ask an event for
// a property without switching on its kind.
package event

import (
	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/ids"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
)

// Event is an occurrence in the target runtime that may be reported to the
// debugger.
type Event interface {
	// Kind returns the kind of the event.
	Kind() jdwp.EventKind
	// Write writes the kind specific part of the event record.
	Write(w binary.Writer, r *ids.Registries)
}

type (
	// Threaded is implemented by events raised on a thread.
	Threaded interface {
		EventThread() *vm.Object
	}
	// Located is implemented by events raised at a code location.
	Located interface {
		EventLocation() vm.Location
	}
	// Typed is implemented by events that concern a reference type.
	Typed interface {
		EventClass() *vm.Class
	}
	// Instanced is implemented by events raised in a frame that may have a
	// receiver. This returns nil for static contexts.
	Instanced interface {
		This() *vm.Object
	}
)

// Context is the part shared by events raised by a thread at a location.
type Context struct {
	Thread   *vm.Object
	Location vm.Location
	// Receiver is the this object of the active frame, nil for static
	// methods.
	Receiver *vm.Object
}

func (c Context) EventThread() *vm.Object    { return c.Thread }
func (c Context) EventLocation() vm.Location { return c.Location }
func (c Context) EventClass() *vm.Class      { return c.Location.Class }
func (c Context) This() *vm.Object           { return c.Receiver }

func (c Context) write(w binary.Writer, r *ids.Registries) {
	r.WriteObject(w, c.Thread)
	r.WriteLocation(w, c.Location)
}

// SingleStep is raised when a thread has executed a step.
type SingleStep struct {
	Context
	// Depth is the number of frames on the stack of the thread.
	Depth int
}

// Breakpoint is raised when a thread reaches a code location.
type Breakpoint struct{ Context }

// MethodEntry is raised when a thread enters a method.
type MethodEntry struct{ Context }

// MethodExit is raised when a thread leaves a method.
type MethodExit struct{ Context }

// MethodExitWithReturnValue is MethodExit with the value returned.
type MethodExitWithReturnValue struct {
	Context
	Value vm.Value
}

// Exception is raised when a thread throws an exception.
type Exception struct {
	Context
	Exception *vm.Object
	// Catch is the location of the handler, zero if the exception is
	// uncaught.
	Catch vm.Location
}

// Caught returns true if a handler will catch the exception.
func (e Exception) Caught() bool { return !e.Catch.IsZero() }

// ThreadStart is raised when a thread starts.
type ThreadStart struct{ Thread *vm.Object }

// ThreadDeath is raised when a thread ends.
type ThreadDeath struct{ Thread *vm.Object }

// ClassPrepare is raised when a class is prepared.
type ClassPrepare struct {
	Thread *vm.Object
	Class  *vm.Class
}

// ClassUnload is raised when a class is unloaded.
type ClassUnload struct{ Signature string }

// ClassName returns the dotted name of the unloaded class.
func (e ClassUnload) ClassName() string { return vm.Name(e.Signature) }

// FieldAccess is raised when a field is read.
type FieldAccess struct {
	Context
	Field *vm.Field
	// Object holds the field, nil for static fields.
	Object *vm.Object
}

// FieldModification is raised when a field is written.
type FieldModification struct {
	Context
	Field  *vm.Field
	Object *vm.Object
	Value  vm.Value
}

// Monitor is the part shared by monitor events.
type Monitor struct {
	Context
	Object *vm.Object
}

func (m Monitor) write(w binary.Writer, r *ids.Registries) {
	r.WriteObject(w, m.Thread)
	r.WriteTaggedObject(w, m.Object)
	r.WriteLocation(w, m.Location)
}

// MonitorContendedEnter is raised when a thread blocks on a monitor held by
// another thread.
type MonitorContendedEnter struct{ Monitor }

// MonitorContendedEntered is raised when a thread acquires a monitor it was
// blocked on.
type MonitorContendedEntered struct{ Monitor }

// MonitorWait is raised when a thread starts waiting on a monitor.
type MonitorWait struct {
	Monitor
	Timeout int64
}

// MonitorWaited is raised when a thread finishes waiting on a monitor.
type MonitorWaited struct {
	Monitor
	TimedOut bool
}

// VMStart is raised once the runtime has initialized.
type VMStart struct{ Thread *vm.Object }

// VMDeath is raised when the runtime terminates.
type VMDeath struct{}

func (SingleStep) Kind() jdwp.EventKind                { return jdwp.SingleStep }
func (Breakpoint) Kind() jdwp.EventKind                { return jdwp.Breakpoint }
func (MethodEntry) Kind() jdwp.EventKind               { return jdwp.MethodEntry }
func (MethodExit) Kind() jdwp.EventKind                { return jdwp.MethodExit }
func (MethodExitWithReturnValue) Kind() jdwp.EventKind { return jdwp.MethodExitWithReturnValue }
func (Exception) Kind() jdwp.EventKind                 { return jdwp.Exception }
func (ThreadStart) Kind() jdwp.EventKind               { return jdwp.ThreadStart }
func (ThreadDeath) Kind() jdwp.EventKind               { return jdwp.ThreadDeath }
func (ClassPrepare) Kind() jdwp.EventKind              { return jdwp.ClassPrepare }
func (ClassUnload) Kind() jdwp.EventKind               { return jdwp.ClassUnload }
func (FieldAccess) Kind() jdwp.EventKind               { return jdwp.FieldAccess }
func (FieldModification) Kind() jdwp.EventKind         { return jdwp.FieldModification }
func (MonitorContendedEnter) Kind() jdwp.EventKind     { return jdwp.MonitorContendedEnter }
func (MonitorContendedEntered) Kind() jdwp.EventKind   { return jdwp.MonitorContendedEntered }
func (MonitorWait) Kind() jdwp.EventKind               { return jdwp.MonitorWait }
func (MonitorWaited) Kind() jdwp.EventKind             { return jdwp.MonitorWaited }
func (VMStart) Kind() jdwp.EventKind                   { return jdwp.VMStart }
func (VMDeath) Kind() jdwp.EventKind                   { return jdwp.VMDeath }

func (e ThreadStart) EventThread() *vm.Object  { return e.Thread }
func (e ThreadDeath) EventThread() *vm.Object  { return e.Thread }
func (e ClassPrepare) EventThread() *vm.Object { return e.Thread }
func (e ClassPrepare) EventClass() *vm.Class   { return e.Class }
func (e VMStart) EventThread() *vm.Object      { return e.Thread }

func (e SingleStep) Write(w binary.Writer, r *ids.Registries)  { e.write(w, r) }
func (e Breakpoint) Write(w binary.Writer, r *ids.Registries)  { e.write(w, r) }
func (e MethodEntry) Write(w binary.Writer, r *ids.Registries) { e.write(w, r) }
func (e MethodExit) Write(w binary.Writer, r *ids.Registries)  { e.write(w, r) }
func (e ThreadStart) Write(w binary.Writer, r *ids.Registries) { r.WriteObject(w, e.Thread) }
func (e ThreadDeath) Write(w binary.Writer, r *ids.Registries) { r.WriteObject(w, e.Thread) }
func (e VMStart) Write(w binary.Writer, r *ids.Registries)     { r.WriteObject(w, e.Thread) }
func (e VMDeath) Write(w binary.Writer, r *ids.Registries)     {}
func (e ClassUnload) Write(w binary.Writer, r *ids.Registries) { w.String(e.Signature) }

func (e MethodExitWithReturnValue) Write(w binary.Writer, r *ids.Registries) {
	e.write(w, r)
	r.WriteValue(w, e.Value)
}

func (e Exception) Write(w binary.Writer, r *ids.Registries) {
	e.write(w, r)
	r.WriteTaggedObject(w, e.Exception)
	r.WriteLocation(w, e.Catch)
}

func (e ClassPrepare) Write(w binary.Writer, r *ids.Registries) {
	r.WriteObject(w, e.Thread)
	r.WriteTaggedType(w, e.Class)
	w.String(e.Class.Signature)
	w.Int32(int32(e.Class.Status))
}

func (e FieldAccess) Write(w binary.Writer, r *ids.Registries) {
	e.write(w, r)
	r.WriteTaggedType(w, e.Field.Class)
	r.WriteField(w, e.Field)
	r.WriteTaggedObject(w, e.Object)
}

func (e FieldModification) Write(w binary.Writer, r *ids.Registries) {
	e.write(w, r)
	r.WriteTaggedType(w, e.Field.Class)
	r.WriteField(w, e.Field)
	r.WriteTaggedObject(w, e.Object)
	r.WriteValue(w, e.Value)
}

func (e MonitorContendedEnter) Write(w binary.Writer, r *ids.Registries)   { e.write(w, r) }
func (e MonitorContendedEntered) Write(w binary.Writer, r *ids.Registries) { e.write(w, r) }

func (e MonitorWait) Write(w binary.Writer, r *ids.Registries) {
	e.write(w, r)
	w.Int64(e.Timeout)
}

func (e MonitorWaited) Write(w binary.Writer, r *ids.Registries) {
	e.write(w, r)
	w.Bool(e.TimedOut)
}
