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

// Package engine holds the live event requests of a session, matches the
// events raised by the target against them and assembles the composite event
// packets sent to the debugger.
package engine

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/fault"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event/filter"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/ids"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/suspend"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

// AutomaticRequest is the request id of events reported without a request.
const AutomaticRequest = int32(0)

// Request is an event request set by the debugger.
type Request struct {
	ID      int32
	Kind    jdwp.EventKind
	Policy  jdwp.SuspendPolicy
	Filters []filter.Filter
}

// Matches evaluates the filters of the request against e.
func (r *Request) Matches(e event.Event) bool {
	return r.Kind == e.Kind() && filter.Match(r.Filters, e)
}

// expired returns true once a Count filter of the request has passed its
// event.
func (r *Request) expired() bool {
	for _, f := range r.Filters {
		if c, ok := f.(*filter.Count); ok && c.Expired() {
			return true
		}
	}
	return false
}

// Match pairs an event with the request it matched.
type Match struct {
	Event   event.Event
	Request int32
}

// Engine holds the event requests of one session.
type Engine struct {
	regs   *ids.Registries
	coord  *suspend.Coordinator
	nextID atomic.Int32

	mu       sync.Mutex
	requests []*Request
}

// New returns an engine with no requests.
func New(regs *ids.Registries, coord *suspend.Coordinator) *Engine {
	return &Engine{regs: regs, coord: coord}
}

// Register validates and adds a request, returning it with its new id. Ids
// start at 1 and are shared by all kinds. Nothing is registered if any filter
// cannot restrict events of kind.
func (e *Engine) Register(ctx context.Context, kind jdwp.EventKind, policy jdwp.SuspendPolicy, filters []filter.Filter) (*Request, error) {
	if !kind.Requestable() {
		return nil, errors.Wrapf(jdwp.ErrInvalidEventType, "Requesting %v events", kind)
	}
	if !policy.Valid() {
		return nil, errors.Wrapf(jdwp.ErrIllegalArgument, "Suspend policy %v", policy)
	}
	if err := filter.Validate(kind, filters); err != nil {
		return nil, err
	}
	r := &Request{
		ID:      e.nextID.Add(1),
		Kind:    kind,
		Policy:  policy,
		Filters: filters,
	}
	e.mu.Lock()
	e.requests = append(e.requests, r)
	e.mu.Unlock()
	log.D(ctx, "Registered %v request %d (policy: %v, filters: %d)", kind, r.ID, policy, len(filters))
	return r, nil
}

// Clear removes the request of kind with the given id. Clearing a request
// that does not exist does nothing.
func (e *Engine) Clear(ctx context.Context, kind jdwp.EventKind, id int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.remove(func(r *Request) bool { return r.Kind == kind && r.ID == id })
	log.D(ctx, "Cleared %v request %d", kind, id)
}

// ClearAllBreakpoints removes every breakpoint request.
func (e *Engine) ClearAllBreakpoints(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.remove(func(r *Request) bool { return r.Kind == jdwp.Breakpoint })
	log.D(ctx, "Cleared all breakpoints")
}

// ClearAll removes every request.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = nil
}

func (e *Engine) remove(pred func(*Request) bool) {
	out := e.requests[:0]
	for _, r := range e.requests {
		if !pred(r) {
			out = append(out, r)
		}
	}
	for i := len(out); i < len(e.requests); i++ {
		e.requests[i] = nil
	}
	e.requests = out
}

// Requests returns the live requests in registration order.
func (e *Engine) Requests() []*Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Request{}, e.requests...)
}

// Dispatch matches each event against the live requests of its kind, in
// registration order. It returns every (event, request) pair that matched
// and the most restrictive suspend policy among them. Requests whose Count
// filter expired are removed.
func (e *Engine) Dispatch(events ...event.Event) ([]Match, jdwp.SuspendPolicy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	matches := []Match{}
	policy := jdwp.SuspendNone
	for _, ev := range events {
		expired := false
		for _, r := range e.requests {
			if r.Kind != ev.Kind() {
				continue
			}
			if r.Matches(ev) {
				matches = append(matches, Match{ev, r.ID})
				policy = policy.Max(r.Policy)
			}
			expired = expired || r.expired()
		}
		if expired {
			e.remove((*Request).expired)
		}
	}
	return matches, policy
}

// Assemble writes the composite event packet payload for matches. An event
// that cannot be written fails the whole packet with ErrInternal.
func (e *Engine) Assemble(w binary.Writer, matches []Match, policy jdwp.SuspendPolicy) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Wrapf(jdwp.ErrInternal, "Panic writing event: %v", fault.From(p))
		}
	}()
	w.Uint8(uint8(policy))
	w.Uint32(uint32(len(matches)))
	for _, m := range matches {
		w.Uint8(uint8(m.Event.Kind()))
		w.Int32(m.Request)
		m.Event.Write(w, e.regs)
	}
	return w.Error()
}

// Sender transmits an assembled composite event payload.
type Sender func(payload []byte) error

// Report dispatches events raised by thread and, if any request matched,
// sends the composite packet and applies the suspend policy. thread may be
// nil for events raised outside a thread.
func (e *Engine) Report(ctx context.Context, thread *vm.Object, send Sender, events ...event.Event) error {
	matches, policy := e.Dispatch(events...)
	return e.send(ctx, thread, send, matches, policy)
}

// ReportAutomatic reports ev under request id 0 with policy, together with
// any requests that also match it.
func (e *Engine) ReportAutomatic(ctx context.Context, thread *vm.Object, send Sender, policy jdwp.SuspendPolicy, ev event.Event) error {
	matches, requested := e.Dispatch(ev)
	matches = append([]Match{{ev, AutomaticRequest}}, matches...)
	return e.send(ctx, thread, send, matches, policy.Max(requested))
}

func (e *Engine) send(ctx context.Context, thread *vm.Object, send Sender, matches []Match, policy jdwp.SuspendPolicy) error {
	if len(matches) == 0 {
		return nil
	}
	buf := &bytes.Buffer{}
	if err := e.Assemble(endian.Writer(buf, device.BigEndian), matches, policy); err != nil {
		return errors.Wrap(err, "Assembling composite event")
	}
	ctx = log.V{"policy": policy, "events": len(matches)}.Bind(ctx)
	log.D(ctx, "Sending composite event")
	return e.coord.DoSuspend(thread, policy, func() error { return send(buf.Bytes()) })
}
