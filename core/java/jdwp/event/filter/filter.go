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

// Package filter implements the modifiers that restrict which events an
// event request reports.
package filter

import (
	"github.com/pkg/errors"

	"github.com/stepanv/jpf-jdwp-sub001/core/fault"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/ids"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
)

// ErrCountExpired is the panic value raised when an expired Count filter is
// evaluated.
const ErrCountExpired = fault.Const("Count filter evaluated after expiry")

// Filter restricts the events reported by a request.
type Filter interface {
	// Kind returns the modifier kind of the filter.
	Kind() jdwp.ModKind
	// Matches returns true if the event passes the filter.
	Matches(e event.Event) bool
}

// Match evaluates filters in order and returns false at the first filter
// that rejects e. Filters after a rejecting filter are not evaluated.
func Match(filters []Filter, e event.Event) bool {
	for _, f := range filters {
		if !f.Matches(e) {
			return false
		}
	}
	return true
}

// Count passes the event on its n-th evaluation. It expires once it has
// passed an event and must not be evaluated again.
type Count struct{ remaining int32 }

// NewCount returns a Count filter that passes on the n-th evaluation.
func NewCount(n int32) (*Count, error) {
	if n <= 0 {
		return nil, errors.Wrapf(jdwp.ErrIllegalArgument, "Count of %d", n)
	}
	return &Count{remaining: n}, nil
}

func (c *Count) Matches(event.Event) bool {
	if c.remaining <= 0 {
		panic(ErrCountExpired)
	}
	c.remaining--
	return c.remaining == 0
}

// Expired returns true once the filter has passed its event.
func (c *Count) Expired() bool { return c.remaining <= 0 }

// Conditional is reserved by the protocol. It is decoded but requests that
// use it are rejected.
type Conditional struct{ ExprID int32 }

func (Conditional) Matches(event.Event) bool { return true }

// ThreadOnly passes events raised on one thread.
type ThreadOnly struct{ Thread *ids.ObjectID }

func (f ThreadOnly) Matches(e event.Event) bool {
	t, ok := e.(event.Threaded)
	if !ok {
		return false
	}
	thread, err := f.Thread.Get()
	return err == nil && thread != nil && t.EventThread() == thread
}

// ClassOnly passes events whose class is the type or one of its subtypes.
type ClassOnly struct{ Type *ids.TypeID }

func (f ClassOnly) Matches(e event.Event) bool {
	t, ok := e.(event.Typed)
	if !ok {
		return false
	}
	class, err := f.Type.Get()
	if err != nil || class == nil {
		return false
	}
	return t.EventClass().IsAssignableTo(class)
}

// className returns the dotted name of the class an event concerns.
func className(e event.Event) (string, bool) {
	switch e := e.(type) {
	case event.ClassUnload:
		return e.ClassName(), true
	case event.Typed:
		if c := e.EventClass(); c != nil {
			return c.Name(), true
		}
	}
	return "", false
}

// ClassMatch passes events whose class name matches the pattern.
type ClassMatch struct{ Pattern string }

func (f ClassMatch) Matches(e event.Event) bool {
	name, ok := className(e)
	return ok && Pattern(f.Pattern).Matches(name)
}

// ClassExclude rejects events whose class name matches the pattern.
type ClassExclude struct{ Pattern string }

func (f ClassExclude) Matches(e event.Event) bool {
	name, ok := className(e)
	return !ok || !Pattern(f.Pattern).Matches(name)
}

// LocationOnly passes events raised at one code location.
type LocationOnly struct {
	Method *ids.MethodID
	Index  uint64
}

func (f LocationOnly) Matches(e event.Event) bool {
	l, ok := e.(event.Located)
	if !ok {
		return false
	}
	method, err := f.Method.Get()
	if err != nil || method == nil {
		return false
	}
	loc := l.EventLocation()
	return loc.Method == method && loc.Index == f.Index
}

// ExceptionOnly passes exceptions of a type, caught or uncaught. A null type
// passes exceptions of every type.
type ExceptionOnly struct {
	Type     *ids.TypeID
	Caught   bool
	Uncaught bool
}

func (f ExceptionOnly) Matches(e event.Event) bool {
	ex, ok := e.(event.Exception)
	if !ok {
		return false
	}
	if !f.Type.IsNull() {
		class, err := f.Type.Get()
		if err != nil || class == nil || ex.Exception == nil {
			return false
		}
		if !ex.Exception.Class.IsAssignableTo(class) {
			return false
		}
	}
	if ex.Caught() {
		return f.Caught
	}
	return f.Uncaught
}

// FieldOnly passes accesses and modifications of one field.
type FieldOnly struct {
	Type  *ids.TypeID
	Field *ids.FieldID
}

func (f FieldOnly) Matches(e event.Event) bool {
	var got *vm.Field
	switch e := e.(type) {
	case event.FieldAccess:
		got = e.Field
	case event.FieldModification:
		got = e.Field
	default:
		return false
	}
	field, err := f.Field.Get()
	return err == nil && field != nil && got == field
}

// InstanceOnly passes events whose active this object is the object. The
// null object passes events raised in static contexts.
type InstanceOnly struct{ Object *ids.ObjectID }

func (f InstanceOnly) Matches(e event.Event) bool {
	i, ok := e.(event.Instanced)
	if !ok {
		return false
	}
	if f.Object.IsNull() {
		return i.This() == nil
	}
	o, err := f.Object.Get()
	return err == nil && o != nil && i.This() == o
}

// SourceNameMatch passes class prepare events of classes whose source file
// name matches the pattern.
type SourceNameMatch struct{ Pattern string }

func (f SourceNameMatch) Matches(e event.Event) bool {
	p, ok := e.(event.ClassPrepare)
	return ok && p.Class != nil && Pattern(f.Pattern).Matches(p.Class.SourceFile)
}

func (*Count) Kind() jdwp.ModKind          { return jdwp.ModCount }
func (Conditional) Kind() jdwp.ModKind     { return jdwp.ModConditional }
func (ThreadOnly) Kind() jdwp.ModKind      { return jdwp.ModThreadOnly }
func (ClassOnly) Kind() jdwp.ModKind       { return jdwp.ModClassOnly }
func (ClassMatch) Kind() jdwp.ModKind      { return jdwp.ModClassMatch }
func (ClassExclude) Kind() jdwp.ModKind    { return jdwp.ModClassExclude }
func (LocationOnly) Kind() jdwp.ModKind    { return jdwp.ModLocationOnly }
func (ExceptionOnly) Kind() jdwp.ModKind   { return jdwp.ModExceptionOnly }
func (FieldOnly) Kind() jdwp.ModKind       { return jdwp.ModFieldOnly }
func (*Step) Kind() jdwp.ModKind           { return jdwp.ModStep }
func (InstanceOnly) Kind() jdwp.ModKind    { return jdwp.ModInstanceOnly }
func (SourceNameMatch) Kind() jdwp.ModKind { return jdwp.ModSourceNameMatch }
