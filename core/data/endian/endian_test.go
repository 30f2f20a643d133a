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

package endian_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

func TestBigEndianLayout(t *testing.T) {
	ctx := log.Testing(t)
	buf := &bytes.Buffer{}
	w := endian.Writer(buf, device.BigEndian)
	w.Uint8(0x01)
	w.Uint16(0x0203)
	w.Uint32(0x04050607)
	w.Uint64(0x08090a0b0c0d0e0f)
	w.String("hi")
	assert.For(ctx, "err").ThatError(w.Error()).Succeeded()
	assert.For(ctx, "bytes").ThatSlice(buf.Bytes()).Equals([]byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
		0x00, 0x00, 0x00, 0x02, 'h', 'i',
	})
}

func TestRoundTrip(t *testing.T) {
	ctx := log.Testing(t)
	buf := &bytes.Buffer{}
	w := endian.Writer(buf, device.BigEndian)
	w.Bool(true)
	w.Int16(-2)
	w.Int32(-3)
	w.Int64(-4)
	w.Float32(1.5)
	w.Float64(-2.25)
	w.String("")

	r := endian.Reader(buf, device.BigEndian)
	assert.For(ctx, "bool").That(r.Bool()).Equals(true)
	assert.For(ctx, "int16").That(r.Int16()).Equals(int16(-2))
	assert.For(ctx, "int32").That(r.Int32()).Equals(int32(-3))
	assert.For(ctx, "int64").That(r.Int64()).Equals(int64(-4))
	assert.For(ctx, "float32").That(r.Float32()).Equals(float32(1.5))
	assert.For(ctx, "float64").That(r.Float64()).Equals(float64(-2.25))
	assert.For(ctx, "string").That(r.String()).Equals("")
	assert.For(ctx, "err").ThatError(r.Error()).Succeeded()
}

func TestShortReadSticks(t *testing.T) {
	ctx := log.Testing(t)
	r := endian.Reader(bytes.NewReader([]byte{0x01, 0x02}), device.BigEndian)
	assert.For(ctx, "uint32").That(r.Uint32()).Equals(uint32(0))
	assert.For(ctx, "err").ThatError(r.Error()).Equals(io.ErrUnexpectedEOF)
	assert.For(ctx, "uint8").That(r.Uint8()).Equals(uint8(0))
}
