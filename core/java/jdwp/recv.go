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
	"bytes"
	"context"
	"io"
	"reflect"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/event/task"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

// recv decodes all the incoming reply or command packets, forwarding them on
// to the corresponding chans. recv is blocking and should be run on a new
// go routine.
// recv returns when ctx is stopped or there's an IO error.
func (c *Connection) recv(ctx context.Context) {
	for !task.Stopped(ctx) {
		packet, err := ReadPacket(c.r)
		switch err {
		case nil:
		case io.EOF:
			return
		default:
			if !task.Stopped(ctx) {
				log.W(ctx, "Failed to read packet. Error: %v", err)
			}
			return
		}

		switch packet := packet.(type) {
		case ReplyPacket:
			c.Lock()
			out, ok := c.replies[packet.ID]
			delete(c.replies, packet.ID)
			c.Unlock()
			if !ok {
				log.W(ctx, "Unexpected reply for packet %d", packet.ID)
				continue
			}
			out <- packet

		case CmdPacket:
			switch packet.Cmd {
			case CmdEventComposite:
				d := endian.Reader(bytes.NewReader(packet.Data), device.BigEndian)
				l := events{}
				if err := c.decode(d, reflect.ValueOf(&l)); err != nil {
					log.E(ctx, "Couldn't decode composite event data. Error: %v", err)
					continue
				}

				for _, ev := range l.Events {
					c.dbg("<%v> event: %T %+v", ev.request(), ev, ev)

					c.Lock()
					handler, ok := c.events[ev.request()]
					if !ok {
						c.unclaimed[ev.request()] = append(c.unclaimed[ev.request()], ev)
					}
					c.Unlock()

					if ok {
						handler <- ev
					} else {
						c.dbg("No event handler registered for %+v", ev)
					}
				}

			default:
				c.dbg("received unknown packet %+v", packet)
				// Unknown packet. Ignore.
			}
		}
	}
}

// claim registers a handler for the events of the request id, first
// delivering any that arrived before the handler existed.
func (c *Connection) claim(id EventRequestID) <-chan Event {
	c.Lock()
	defer c.Unlock()
	out := make(chan Event, 16+len(c.unclaimed[id]))
	for _, ev := range c.unclaimed[id] {
		out <- ev
	}
	delete(c.unclaimed, id)
	c.events[id] = out
	return out
}

func (c *Connection) unclaim(id EventRequestID) {
	c.Lock()
	delete(c.events, id)
	c.Unlock()
}
