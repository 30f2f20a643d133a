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

// Package vm describes the target runtime debugged by the agent: the heap
// model handed across the introspection interface and the Runtime interface
// itself.
package vm

import (
	"sync"

	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
)

// Signatures of the classes the agent gives special treatment.
const (
	SigObject      = "Ljava/lang/Object;"
	SigString      = "Ljava/lang/String;"
	SigClass       = "Ljava/lang/Class;"
	SigThread      = "Ljava/lang/Thread;"
	SigThreadGroup = "Ljava/lang/ThreadGroup;"
	SigClassLoader = "Ljava/lang/ClassLoader;"
	SigThrowable   = "Ljava/lang/Throwable;"
)

// HeapRef is the runtime's own reference to a heap object. It is stable for
// the lifetime of the object but may be reused once the object is collected.
type HeapRef uint32

// Object is a heap object of the target.
type Object struct {
	Ref   HeapRef
	Class *Class
	// Reflected is the type represented by a java.lang.Class instance.
	Reflected *Class

	mu       sync.Mutex
	fields   map[*Field]Value
	elements []Value
	str      string
}

// NewObject returns an instance of class with every instance field zeroed.
func NewObject(ref HeapRef, class *Class) *Object {
	o := &Object{Ref: ref, Class: class, fields: map[*Field]Value{}}
	for c := class; c != nil; c = c.Super {
		for _, f := range c.Fields {
			if !f.Modifiers.Static() {
				o.fields[f] = Zero(f.Signature)
			}
		}
	}
	return o
}

// NewArray returns an array of class with length zeroed elements.
func NewArray(ref HeapRef, class *Class, length int) *Object {
	o := &Object{Ref: ref, Class: class, elements: make([]Value, length)}
	sig := class.ComponentSignature()
	for i := range o.elements {
		o.elements[i] = Zero(sig)
	}
	return o
}

// NewString returns a java.lang.String instance holding s.
func NewString(ref HeapRef, class *Class, s string) *Object {
	o := NewObject(ref, class)
	o.str = s
	return o
}

// String returns the characters of a java.lang.String instance.
func (o *Object) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.str
}

// Field returns the value of the instance field f.
func (o *Object) Field(f *Field) (Value, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.fields[f]
	return v, ok
}

// SetField assigns the instance field f, returning false if o has no such
// field.
func (o *Object) SetField(f *Field, v Value) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.fields[f]; !ok {
		return false
	}
	o.fields[f] = v
	return true
}

// Len returns the number of elements of an array.
func (o *Object) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.elements)
}

// Elements returns a copy of the array elements in [first, first+count).
func (o *Object) Elements(first, count int) ([]Value, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if first < 0 || count < 0 || first+count > len(o.elements) {
		return nil, false
	}
	return append([]Value{}, o.elements[first:first+count]...), true
}

// SetElements assigns the array elements starting at first.
func (o *Object) SetElements(first int, values []Value) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if first < 0 || first+len(values) > len(o.elements) {
		return false
	}
	copy(o.elements[first:], values)
	return true
}

// Field is a field declared by a class.
type Field struct {
	Name      string
	Signature string
	Generic   string
	Modifiers jdwp.ModBits
	Class     *Class
}

// Line maps the code index at which a source line starts.
type Line struct {
	Index uint64
	Line  int32
}

// Variable is a local variable slot of a method, live for
// [Start, Start+Length).
type Variable struct {
	Start     uint64
	Length    uint32
	Name      string
	Signature string
	Generic   string
	Slot      int32
}

// Method is a method declared by a class.
type Method struct {
	Name      string
	Signature string
	Generic   string
	Modifiers jdwp.ModBits
	Class     *Class
	// Start and End bound the code indices of the method.
	Start, End uint64
	Lines      []Line
	Variables  []Variable
}

// ArgSlots returns the number of local slots taken by the arguments,
// including this for instance methods.
func (m *Method) ArgSlots() int {
	n := ArgSlots(m.Signature)
	if !m.Modifiers.Static() {
		n++
	}
	return n
}

// Line returns the source line of the code index, or -1 if the method has no
// line information.
func (m *Method) Line(index uint64) int32 {
	line := int32(-1)
	for _, l := range m.Lines {
		if l.Index > index {
			break
		}
		line = l.Line
	}
	return line
}

// Location is a code position.
type Location struct {
	Class  *Class
	Method *Method
	Index  uint64
}

// Line returns the source line of the location, or -1 if unknown.
func (l Location) Line() int32 {
	if l.Method == nil {
		return -1
	}
	return l.Method.Line(l.Index)
}

// IsZero returns true for the unset location.
func (l Location) IsZero() bool { return l.Method == nil }

// Frame is an activation record on a thread's stack.
type Frame struct {
	Thread *Object

	mu     sync.Mutex
	loc    Location
	this   *Object
	locals []Value
}

// NewFrame returns a frame for method with slots local variable slots.
func NewFrame(thread *Object, loc Location, this *Object, slots int) *Frame {
	return &Frame{Thread: thread, loc: loc, this: this, locals: make([]Value, slots)}
}

// Location returns the current code position of the frame.
func (f *Frame) Location() Location {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loc
}

// SetLocation moves the frame to a new code index.
func (f *Frame) SetLocation(l Location) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loc = l
}

// This returns the receiver of the frame, nil for static methods.
func (f *Frame) This() *Object { return f.this }

// Local returns the value of a local variable slot.
func (f *Frame) Local(slot int) (Value, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot < 0 || slot >= len(f.locals) {
		return Value{}, false
	}
	return f.locals[slot], true
}

// SetLocal assigns a local variable slot.
func (f *Frame) SetLocal(slot int, v Value) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot < 0 || slot >= len(f.locals) {
		return false
	}
	f.locals[slot] = v
	return true
}

// ThreadInfo is the runtime's control block of a thread at the moment it was
// requested.
type ThreadInfo struct {
	Name   string
	Status jdwp.ThreadStatus
	Group  *Object
	// Frames holds the stack, innermost frame first.
	Frames []*Frame
}

// ThreadGroupInfo describes a thread group at the moment it was requested.
type ThreadGroupInfo struct {
	Name    string
	Parent  *Object
	Threads []*Object
	Groups  []*Object
}

// Version describes the target runtime.
type Version struct {
	Description string
	Major       int32
	Minor       int32
	VMVersion   string
	VMName      string
}

// Runtime is the introspection interface of the target.
type Runtime interface {
	// Version describes the runtime.
	Version() Version
	// Classes returns every loaded class.
	Classes() []*Class
	// Threads returns the live threads.
	Threads() []*Object
	// TopLevelThreadGroups returns the thread groups without a parent.
	TopLevelThreadGroups() []*Object
	// ThreadInfo returns the current control block of a live thread.
	ThreadInfo(thread *Object) (*ThreadInfo, error)
	// ThreadGroupInfo returns the current state of a thread group.
	ThreadGroupInfo(group *Object) (*ThreadGroupInfo, error)
	// NewString allocates a java.lang.String.
	NewString(s string) *Object
	// Exit terminates the target.
	Exit(code int32)
}
