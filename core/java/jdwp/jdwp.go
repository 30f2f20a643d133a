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

// Package jdwp implements the types and wire framing of the Java Debug Wire
// Protocol, along with a debugger-side Connection used to drive an agent.
package jdwp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"reflect"
	"sync"
	"time"

	"github.com/stepanv/jpf-jdwp-sub001/core/app/crash"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/fault"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

// ErrBadHandshake is returned when the peer does not send the handshake.
const ErrBadHandshake = fault.Const("Bad handshake")

var (
	handshake = []byte("JDWP-Handshake")

	defaultIDSizes = IDSizes{
		FieldIDSize:         8,
		MethodIDSize:        8,
		ObjectIDSize:        8,
		ReferenceTypeIDSize: 8,
		FrameIDSize:         8,
	}

	replyTimeout = time.Second * 120
)

// DefaultIDSizes returns the identifier sizes used by this package's agent.
func DefaultIDSizes() IDSizes { return defaultIDSizes }

// Connection represents a JDWP connection.
type Connection struct {
	ctx          context.Context
	in           io.Reader
	r            binary.Reader
	w            binary.Writer
	flush        func() error
	idSizes      IDSizes
	nextPacketID PacketID
	events       map[EventRequestID]chan<- Event
	unclaimed    map[EventRequestID][]Event
	replies      map[PacketID]chan<- ReplyPacket
	closed       chan struct{}
	sync.Mutex
}

// Open creates a Connection using conn for I/O.
func Open(ctx context.Context, conn io.ReadWriteCloser) (*Connection, error) {
	if err := exchangeHandshakes(conn); err != nil {
		return nil, err
	}

	buf := bufio.NewWriterSize(conn, 1024)
	r := endian.Reader(conn, device.BigEndian)
	w := endian.Writer(buf, device.BigEndian)
	c := &Connection{
		ctx:       log.PutTag(ctx, "jdwp"),
		in:        conn,
		r:         r,
		w:         w,
		flush:     buf.Flush,
		idSizes:   defaultIDSizes,
		events:    map[EventRequestID]chan<- Event{},
		unclaimed: map[EventRequestID][]Event{},
		replies:   map[PacketID]chan<- ReplyPacket{},
		closed:    make(chan struct{}),
	}

	crash.Go(func() {
		defer close(c.closed)
		c.recv(c.ctx)
	})
	var err error
	c.idSizes, err = c.GetIDSizes()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Closed returns a channel that is closed once the connection stops
// receiving packets.
func (c *Connection) Closed() <-chan struct{} { return c.closed }

func exchangeHandshakes(conn io.ReadWriter) error {
	if _, err := conn.Write(handshake); err != nil {
		return err
	}
	ok, err := expect(conn, handshake)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadHandshake
	}
	return nil
}

// AcceptHandshake performs the agent side of the handshake: the debugger's
// handshake string is read and echoed back.
func AcceptHandshake(conn io.ReadWriter) error {
	ok, err := expect(conn, handshake)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadHandshake
	}
	_, err = conn.Write(handshake)
	return err
}

// expect reads conn, expecting the specfified sequence of bytes. If the read
// data doesn't match, then the function returns immediately with false.
func expect(conn io.Reader, expected []byte) (bool, error) {
	got := make([]byte, len(expected))
	for len(expected) > 0 {
		n, err := conn.Read(got)
		if err != nil {
			return false, err
		}
		for i := 0; i < n; i++ {
			if got[i] != expected[i] {
				return false, nil
			}
		}
		got, expected = got[n:], expected[n:]
	}
	return true, nil
}

func (c *Connection) dbg(msg string, args ...interface{}) {
	log.D(c.ctx, msg, args...)
}

// get sends the specified command and waits for a reply.
func (c *Connection) get(cmd Cmd, req interface{}, out interface{}) error {
	p, err := c.req(cmd, req)
	if err != nil {
		return err
	}
	return p.wait(out)
}

// req sends the specified command and returns a pending.
func (c *Connection) req(cmd Cmd, req interface{}) (*pending, error) {
	data := bytes.Buffer{}
	if req != nil {
		e := endian.Writer(&data, device.BigEndian)
		if err := c.encode(e, reflect.ValueOf(req)); err != nil {
			return nil, err
		}
	}

	id, replyChan := c.newReplyHandler()

	p := CmdPacket{ID: id, Cmd: cmd, Data: data.Bytes()}

	c.Lock()
	defer c.Unlock()

	if err := p.Write(c.w); err != nil {
		return nil, err
	}
	if err := c.flush(); err != nil {
		return nil, err
	}

	c.dbg("<%v> send: %v, %+v", id, cmd, req)

	return &pending{c, replyChan, id}, nil
}

type pending struct {
	c  *Connection
	p  <-chan ReplyPacket
	id PacketID
}

// wait blocks until the pending response is received, filling out with the
// response data.
func (p *pending) wait(out interface{}) error {
	select {
	case reply := <-p.p:
		return p.handle(reply, out)
	case <-p.c.closed:
		select {
		case reply := <-p.p:
			return p.handle(reply, out)
		default:
			return fmt.Errorf("Connection closed")
		}
	case <-time.After(replyTimeout):
		return fmt.Errorf("timeout")
	}
}

func (p *pending) handle(reply ReplyPacket, out interface{}) error {
	if reply.Err != ErrNone {
		p.c.dbg("<%v> recv err: %+v", p.id, reply.Err)
		return reply.Err
	}
	if out == nil {
		return nil
	}
	r := bytes.NewReader(reply.Data)
	d := endian.Reader(r, device.BigEndian)
	if err := p.c.decode(d, reflect.ValueOf(out)); err != nil {
		return err
	}
	p.c.dbg("<%v> recv: %+v", p.id, out)
	if offset, _ := r.Seek(0, 1); offset != int64(len(reply.Data)) {
		return fmt.Errorf("Only %d/%d bytes read from reply packet", offset, len(reply.Data))
	}
	return nil
}

func (c *Connection) newReplyHandler() (PacketID, <-chan ReplyPacket) {
	reply := make(chan ReplyPacket, 1)
	c.Lock()
	id := c.nextPacketID
	c.nextPacketID++
	c.replies[id] = reply
	c.Unlock()
	return id, reply
}
