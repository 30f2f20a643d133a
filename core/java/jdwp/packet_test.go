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

package jdwp_test

import (
	"net"
	"testing"

	"github.com/pkg/errors"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

func TestErrorText(t *testing.T) {
	ctx := log.Testing(t)
	assert.For(ctx, "known").That(jdwp.ErrInvalidObject.Error()).Equals("JDWP error 20 (InvalidObject)")
	assert.For(ctx, "unknown").That(jdwp.Error(9999).Error()).Equals("JDWP error 9999 (Error<9999>)")
	err := errors.Wrap(jdwp.ErrInvalidObject, "Object 7")
	assert.For(ctx, "wrapped").That(err.Error()).Equals("Object 7: JDWP error 20 (InvalidObject)")
	assert.For(ctx, "cause").That(errors.Cause(err)).Equals(jdwp.ErrInvalidObject)
}

// writeSizes records the size of every write it receives.
type writeSizes []int

func (w *writeSizes) Write(p []byte) (int, error) {
	*w = append(*w, len(p))
	return len(p), nil
}

func TestEmptyPayloadWrites(t *testing.T) {
	ctx := log.Testing(t)
	sizes := writeSizes{}
	w := endian.Writer(&sizes, device.BigEndian)
	cmd := jdwp.CmdPacket{ID: 1, Cmd: jdwp.Cmd{Set: 1, ID: 7}}
	assert.For(ctx, "cmd").ThatError(cmd.Write(w)).Succeeded()
	reply := jdwp.ReplyPacket{ID: 1, Err: jdwp.ErrNotImplemented}
	assert.For(ctx, "reply").ThatError(reply.Write(w)).Succeeded()
	for i, n := range sizes {
		assert.For(ctx, "write %d", i).That(n).NotEquals(0)
	}
}

func TestEmptyPayloadOverPipe(t *testing.T) {
	ctx := log.Testing(t)
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	got := make(chan interface{}, 1)
	go func() {
		r := endian.Reader(server, device.BigEndian)
		p, err := jdwp.ReadPacket(r)
		if err != nil {
			got <- err
			return
		}
		got <- p
		reply := jdwp.ReplyPacket{ID: 5, Err: jdwp.ErrNotImplemented}
		reply.Write(endian.Writer(server, device.BigEndian))
	}()

	cmd := jdwp.CmdPacket{ID: 5, Cmd: jdwp.Cmd{Set: 99, ID: 1}}
	assert.For(ctx, "write").ThatError(cmd.Write(endian.Writer(client, device.BigEndian))).Succeeded()
	assert.For(ctx, "command").That(<-got).DeepEquals(jdwp.CmdPacket{ID: 5, Cmd: jdwp.Cmd{Set: 99, ID: 1}, Data: []byte{}})

	p, err := jdwp.ReadPacket(endian.Reader(client, device.BigEndian))
	assert.For(ctx, "read").ThatError(err).Succeeded()
	assert.For(ctx, "reply").That(p).DeepEquals(jdwp.ReplyPacket{ID: 5, Err: jdwp.ErrNotImplemented, Data: []byte{}})
}
