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

// Package agent implements the target side of a JDWP connection: it accepts
// the debugger's handshake, answers its commands and reports the events of
// the target runtime.
package agent

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/event/task"
	"github.com/stepanv/jpf-jdwp-sub001/core/fault"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event/engine"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/ids"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/suspend"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

// ErrDetached is returned when sending to a session without a debugger.
const ErrDetached = fault.Const("Debugger not attached")

// Config holds the options of a session.
type Config struct {
	// Suspend holds every thread when the debugger attaches, until it
	// resumes them.
	Suspend bool
}

// Session is the state of one debugger connection to a target runtime.
// Session implements the observer interface of the runtime: events the
// runtime raises are matched against the debugger's requests and threads
// park at their safe points while suspended.
type Session struct {
	cfg    Config
	rt     vm.Runtime
	regs   *ids.Registries
	engine *engine.Engine
	coord  *suspend.Coordinator

	mu      sync.Mutex // guards writes to the connection
	conn    io.ReadWriteCloser
	r       binary.Reader
	w       binary.Writer
	flush   func() error
	eventID jdwp.PacketID
	ending  bool
}

// New returns a session over the runtime rt with no debugger attached.
func New(rt vm.Runtime, cfg Config) *Session {
	coord := suspend.New(rt.Threads)
	regs := ids.New()
	return &Session{
		cfg:    cfg,
		rt:     rt,
		regs:   regs,
		engine: engine.New(regs, coord),
		coord:  coord,
	}
}

// Serve attaches the debugger on conn and then answers its commands until
// it disposes the session, the connection closes or ctx is stopped.
func (s *Session) Serve(ctx context.Context, conn io.ReadWriteCloser) error {
	if err := s.Attach(ctx, conn); err != nil {
		conn.Close()
		return err
	}
	return s.Run(ctx)
}

// Attach performs the handshake on conn and reports VMStart. If the session
// is configured to suspend, every live thread is suspended by the event.
func (s *Session) Attach(ctx context.Context, conn io.ReadWriteCloser) error {
	if err := jdwp.AcceptHandshake(conn); err != nil {
		return errors.Wrap(err, "Handshake")
	}
	buf := bufio.NewWriterSize(conn, 1024)
	s.mu.Lock()
	s.conn = conn
	s.r = endian.Reader(conn, device.BigEndian)
	s.w = endian.Writer(buf, device.BigEndian)
	s.flush = buf.Flush
	s.ending = false
	s.mu.Unlock()
	log.I(ctx, "Debugger attached")

	policy := jdwp.SuspendNone
	if s.cfg.Suspend {
		policy = jdwp.SuspendAll
	}
	var thread *vm.Object
	if threads := s.rt.Threads(); len(threads) > 0 {
		thread = threads[0]
	}
	return s.engine.ReportAutomatic(ctx, thread, s.sendEvent, policy, event.VMStart{Thread: thread})
}

// Run answers commands from the attached debugger. It returns nil once the
// debugger disposes the session, exits the target or hangs up.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	conn, r := s.conn, s.r
	s.mu.Unlock()
	if conn == nil {
		return ErrDetached
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer s.detach(ctx)

	for {
		p, err := jdwp.ReadPacket(r)
		if err != nil {
			if task.Stopped(ctx) {
				return task.StopReason(ctx)
			}
			if hungUp(err) {
				return nil
			}
			return errors.Wrap(err, "Reading packet")
		}
		switch p := p.(type) {
		case jdwp.CmdPacket:
			data, code := s.Dispatch(ctx, p.Cmd, p.Data)
			if err := s.write(jdwp.ReplyPacket{ID: p.ID, Err: code, Data: data}); err != nil {
				return errors.Wrapf(err, "Replying to %v", p.Cmd)
			}
			if s.isEnding() {
				return nil
			}
		case jdwp.ReplyPacket:
			log.W(ctx, "Unexpected reply for packet %d", p.ID)
		}
	}
}

func hungUp(err error) bool {
	return err == io.EOF || err == io.ErrClosedPipe || errors.Is(err, net.ErrClosed)
}

// detach forgets the debugger: its requests and pins are dropped and every
// suspended thread resumes.
func (s *Session) detach(ctx context.Context) {
	s.engine.ClearAll()
	s.regs.Release()
	s.coord.Release()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.conn, s.r, s.w, s.flush = nil, nil, nil, nil
	log.I(ctx, "Debugger detached")
}

// end makes Run return after the current reply.
func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ending = true
}

func (s *Session) isEnding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ending
}

func (s *Session) write(p interface{ Write(binary.Writer) error }) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return ErrDetached
	}
	if err := p.Write(s.w); err != nil {
		return err
	}
	return s.flush()
}

// sendEvent transmits a composite event payload as a command packet.
func (s *Session) sendEvent(payload []byte) error {
	s.mu.Lock()
	s.eventID++
	id := s.eventID
	s.mu.Unlock()
	return s.write(jdwp.CmdPacket{ID: id, Cmd: jdwp.CmdEventComposite, Data: payload})
}

// Notify reports the events raised together by thread. VMDeath is reported
// whether or not it was requested.
func (s *Session) Notify(ctx context.Context, thread *vm.Object, events ...event.Event) {
	var err error
	if len(events) == 1 && events[0].Kind() == jdwp.VMDeath {
		err = s.engine.ReportAutomatic(ctx, nil, s.sendEvent, jdwp.SuspendNone, events[0])
	} else {
		err = s.engine.Report(ctx, thread, s.sendEvent, events...)
	}
	switch {
	case err == nil:
	case errors.Cause(err) == ErrDetached:
		log.D(ctx, "Dropped %d events: %v", len(events), err)
	default:
		log.W(ctx, "Failed to report %v: %v", events[0].Kind(), err)
	}
}

// SafePoint parks thread while it is suspended.
func (s *Session) SafePoint(ctx context.Context, thread *vm.Object) {
	if err := s.coord.SafePoint(ctx, thread); err != nil {
		log.D(ctx, "Safe point abandoned: %v", err)
	}
}
