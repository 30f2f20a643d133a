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

package jdwp

import (
	"context"

	"github.com/stepanv/jpf-jdwp-sub001/core/event/task"
)

// EventRequestID is an identifier of an event request.
// Events raised automatically by the agent use the request id 0.
type EventRequestID int

// SetEvent sets an event request.
func (c *Connection) SetEvent(kind EventKind, suspendPolicy SuspendPolicy, modifiers ...EventModifier) (EventRequestID, error) {
	req := struct {
		Kind          EventKind
		SuspendPolicy SuspendPolicy
		Modifiers     []EventModifier
	}{
		Kind:          kind,
		SuspendPolicy: suspendPolicy,
		Modifiers:     modifiers,
	}
	var res EventRequestID
	err := c.get(CmdEventRequestSet, req, &res)
	return res, err
}

// ClearEvent cancels an event request.
func (c *Connection) ClearEvent(kind EventKind, id EventRequestID) error {
	req := struct {
		Kind EventKind
		ID   EventRequestID
	}{
		Kind: kind,
		ID:   id,
	}
	return c.get(CmdEventRequestClear, req, nil)
}

// ClearAllBreakpoints cancels every breakpoint request.
func (c *Connection) ClearAllBreakpoints() error {
	return c.get(CmdEventRequestClearAllBreakpoints, nil, nil)
}

// WatchEvents sets an event request and calls onEvent for each event it
// raises. Watching stops, and the request is cleared, once onEvent returns
// false or ctx is stopped.
func (c *Connection) WatchEvents(ctx context.Context, kind EventKind, suspendPolicy SuspendPolicy, onEvent func(Event) bool, modifiers ...EventModifier) error {
	id, err := c.SetEvent(kind, suspendPolicy, modifiers...)
	if err != nil {
		return err
	}
	events := c.claim(id)
	defer func() {
		c.unclaim(id)
		c.ClearEvent(kind, id)
	}()
	for {
		select {
		case event := <-events:
			if !onEvent(event) {
				return nil
			}
		case <-c.closed:
			return ErrVMDead
		case <-task.ShouldStop(ctx):
			return task.StopReason(ctx)
		}
	}
}

// WaitForVMStart blocks until the automatically generated VMStart event is
// received.
func (c *Connection) WaitForVMStart(ctx context.Context) (*EventVMStart, error) {
	events := c.claim(0)
	defer c.unclaim(0)
	for {
		select {
		case event := <-events:
			if start, ok := event.(*EventVMStart); ok {
				return start, nil
			}
		case <-c.closed:
			return nil, ErrVMDead
		case <-task.ShouldStop(ctx):
			return nil, task.StopReason(ctx)
		}
	}
}

// EventModifier is the interface implemented by all event modifier types.
// These are filters on the events that are raised.
// See http://docs.oracle.com/javase/1.5.0/docs/guide/jpda/jdwp/jdwp-protocol.html#JDWP_EventRequest_Set
// for detailed descriptions and rules for each of the EventModifiers.
type EventModifier interface {
	modKind() ModKind
}

// CountEventModifier is an EventModifier that limits the number of times an
// event is fired. For example, using a CountEventModifier of 2 will only let
// the second event fire.
type CountEventModifier int

// ConditionalEventModifier is reserved by the protocol for future use.
type ConditionalEventModifier int

// ThreadOnlyEventModifier is an EventModifier that filters the events to those
// that are raised on the specified thread.
type ThreadOnlyEventModifier ThreadID

// ClassOnlyEventModifier is an EventModifier that filters the events to those
// that are associated with the specified class.
type ClassOnlyEventModifier ClassID

// ClassMatchEventModifier is an EventModifier that filters the events to those
// that are associated with class names that match the pattern. The pattern can
// be an exact class name match, for use a '*' wildcard at the start or end of
// the string. Examples:
// • "java.lang.String"
// • "*.String"
// • "java.lang.*"
type ClassMatchEventModifier string

// ClassExcludeEventModifier is an EventModifier that filters the events to
// those that are not associated with class names that match the pattern.
// See ClassMatchEventModifier for the permitted patterns.
type ClassExcludeEventModifier string

// LocationOnlyEventModifier is an EventModifier that filters the events to
// those that only originate at the specified location.
type LocationOnlyEventModifier Location

// ExceptionOnlyEventModifier is an EventModifier that filters exception events.
// Can only be used for exception events.
type ExceptionOnlyEventModifier struct {
	ExceptionOrNull ReferenceTypeID // If not nil, only permit exceptions of this type.
	Caught          bool            // Report caught exceptions
	Uncaught        bool            // Report uncaught exceptions
}

// FieldOnlyEventModifier is an EventModifier that filters events to those
// relating to the specified field.
// Can only be used for field access or field modified events.
type FieldOnlyEventModifier struct {
	Type  ReferenceTypeID
	Field FieldID
}

// StepEventModifier is an EventModifier that filters step events to those which
// satisfy depth and size constraints.
// Can only be used with step events.
type StepEventModifier struct {
	Thread ThreadID
	Size   StepSize
	Depth  StepDepth
}

// InstanceOnlyEventModifier is an EventModifier that filters events to those
// which have the specified 'this' object.
type InstanceOnlyEventModifier ObjectID

// SourceNameMatchEventModifier is an EventModifier that filters class prepare
// events to those whose source file name matches the pattern.
type SourceNameMatchEventModifier string

func (CountEventModifier) modKind() ModKind           { return ModCount }
func (ConditionalEventModifier) modKind() ModKind     { return ModConditional }
func (ThreadOnlyEventModifier) modKind() ModKind      { return ModThreadOnly }
func (ClassOnlyEventModifier) modKind() ModKind       { return ModClassOnly }
func (ClassMatchEventModifier) modKind() ModKind      { return ModClassMatch }
func (ClassExcludeEventModifier) modKind() ModKind    { return ModClassExclude }
func (LocationOnlyEventModifier) modKind() ModKind    { return ModLocationOnly }
func (ExceptionOnlyEventModifier) modKind() ModKind   { return ModExceptionOnly }
func (FieldOnlyEventModifier) modKind() ModKind       { return ModFieldOnly }
func (StepEventModifier) modKind() ModKind            { return ModStep }
func (InstanceOnlyEventModifier) modKind() ModKind    { return ModInstanceOnly }
func (SourceNameMatchEventModifier) modKind() ModKind { return ModSourceNameMatch }
