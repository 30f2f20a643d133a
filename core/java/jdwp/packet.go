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
	"fmt"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
)

// PacketID is the identifier used to pair a reply with its command.
type PacketID uint32

// PacketFlags is the flag byte of a packet header.
type PacketFlags uint8

// PacketIsReply is set on every reply packet.
const PacketIsReply = PacketFlags(0x80)

// HeaderSize is the size in bytes of the header common to all packets.
const HeaderSize = 11

// CmdPacket is a command sent by either side of the connection. The agent
// sends composite events as commands.
type CmdPacket struct {
	ID    PacketID
	Flags PacketFlags
	Cmd   Cmd
	Data  []byte
}

// ReplyPacket is the answer to a CmdPacket with the same ID.
type ReplyPacket struct {
	ID   PacketID
	Err  Error
	Data []byte
}

// JDWP uses the following structs for all communication:
//
// struct cmdPacket {
//   length uint32       4 bytes
//   id     PacketID     4 bytes
//   flags  PacketFlags  1 bytes
//   cmdSet CmdSet       1 bytes
//   cmd    CmdID        1 bytes
//   data   []byte       N bytes
// }
//
// struct reply {
//   length uint32       4 bytes
//   id     PacketID     4 bytes
//   flags  PacketFlags  1 bytes
//   err    Error        2 bytes
//   data   []byte       N bytes
// }

// Write encodes the packet to w. An empty payload issues no write, as a
// zero length write on a synchronous pipe blocks until the peer reads.
func (p CmdPacket) Write(w binary.Writer) error {
	w.Uint32(HeaderSize + uint32(len(p.Data)))
	w.Uint32(uint32(p.ID))
	w.Uint8(uint8(p.Flags &^ PacketIsReply))
	w.Uint8(uint8(p.Cmd.Set))
	w.Uint8(uint8(p.Cmd.ID))
	if len(p.Data) > 0 {
		w.Data(p.Data)
	}
	return w.Error()
}

// Write encodes the packet to w. The payload of an error reply is dropped.
func (p ReplyPacket) Write(w binary.Writer) error {
	data := p.Data
	if p.Err != ErrNone {
		data = nil
	}
	w.Uint32(HeaderSize + uint32(len(data)))
	w.Uint32(uint32(p.ID))
	w.Uint8(uint8(PacketIsReply))
	w.Uint16(uint16(p.Err))
	if len(data) > 0 {
		w.Data(data)
	}
	return w.Error()
}

// ReadPacket decodes the next packet from r, returning either a CmdPacket or a
// ReplyPacket.
func ReadPacket(r binary.Reader) (interface{}, error) {
	len := r.Uint32()
	if err := r.Error(); err != nil {
		return nil, err
	}
	if len < HeaderSize {
		return nil, fmt.Errorf("Packet length too short (%d)", len)
	}
	id := PacketID(r.Uint32())
	flags := PacketFlags(r.Uint8())
	if flags&PacketIsReply != 0 {
		out := ReplyPacket{
			ID:  id,
			Err: Error(r.Uint16()),
		}
		out.Data = make([]byte, len-HeaderSize)
		r.Data(out.Data)
		return out, r.Error()
	}
	out := CmdPacket{
		ID:    id,
		Flags: flags,
		Cmd:   Cmd{CmdSet(r.Uint8()), CmdID(r.Uint8())},
	}
	out.Data = make([]byte, len-HeaderSize)
	r.Data(out.Data)
	return out, r.Error()
}
