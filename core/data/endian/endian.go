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

// Package endian implements binary.Reader and binary.Writer for a fixed byte
// order.
package endian

import (
	eb "encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

func byteOrder(endian device.Endian) eb.ByteOrder {
	switch endian {
	case device.BigEndian:
		return eb.BigEndian
	default:
		return eb.LittleEndian
	}
}

// Reader creates a binary.Reader that reads from the provided io.Reader, with
// the specified byte order.
func Reader(r io.Reader, endian device.Endian) binary.Reader {
	return &reader{reader: r, byteOrder: byteOrder(endian)}
}

// Writer creates a binary.Writer that writes to the supplied stream, with the
// specified byte order.
func Writer(w io.Writer, endian device.Endian) binary.Writer {
	return &writer{writer: w, byteOrder: byteOrder(endian)}
}

type reader struct {
	reader    io.Reader
	tmp       [8]byte
	byteOrder eb.ByteOrder
	err       error
}

type writer struct {
	writer    io.Writer
	tmp       [8]byte
	byteOrder eb.ByteOrder
	err       error
}

func (r *reader) Read(p []byte) (n int, err error) {
	return r.reader.Read(p)
}

func (r *reader) Data(p []byte) {
	if r.err != nil {
		return
	}
	if n, err := io.ReadFull(r.reader, p); err != nil {
		r.err = fmt.Errorf("%v after reading %d bytes", err, n)
	}
}

func (w *writer) Data(data []byte) {
	if w.err != nil {
		return
	}
	n, err := w.writer.Write(data)
	if err != nil {
		w.err = err
	} else if n != len(data) {
		w.err = io.ErrShortWrite
	}
}

func (r *reader) fill(n int) []byte {
	if r.err != nil {
		return nil
	}
	if _, err := io.ReadFull(r.reader, r.tmp[:n]); err != nil {
		r.err = err
		return nil
	}
	return r.tmp[:n]
}

func (r *reader) Bool() bool       { return r.Uint8() != 0 }
func (r *reader) Int8() int8       { return int8(r.Uint8()) }
func (r *reader) Int16() int16     { return int16(r.Uint16()) }
func (r *reader) Int32() int32     { return int32(r.Uint32()) }
func (r *reader) Int64() int64     { return int64(r.Uint64()) }
func (r *reader) Count() uint32    { return r.Uint32() }
func (r *reader) Error() error     { return r.err }
func (r *reader) Float32() float32 { return math.Float32frombits(r.Uint32()) }
func (r *reader) Float64() float64 { return math.Float64frombits(r.Uint64()) }

func (r *reader) Uint8() uint8 {
	if b := r.fill(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) Uint16() uint16 {
	if b := r.fill(2); b != nil {
		return r.byteOrder.Uint16(b)
	}
	return 0
}

func (r *reader) Uint32() uint32 {
	if b := r.fill(4); b != nil {
		return r.byteOrder.Uint32(b)
	}
	return 0
}

func (r *reader) Uint64() uint64 {
	if b := r.fill(8); b != nil {
		return r.byteOrder.Uint64(b)
	}
	return 0
}

// String reads a 4 byte length followed by that many bytes of UTF-8.
func (r *reader) String() string {
	n := r.Uint32()
	if r.err != nil || n == 0 {
		return ""
	}
	data := make([]byte, n)
	r.Data(data)
	if r.err != nil {
		return ""
	}
	return string(data)
}

func (r *reader) SetError(err error) {
	if r.err != nil {
		return
	}
	r.err = err
}

func (w *writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

func (w *writer) Int8(v int8)       { w.Uint8(uint8(v)) }
func (w *writer) Int16(v int16)     { w.Uint16(uint16(v)) }
func (w *writer) Int32(v int32)     { w.Uint32(uint32(v)) }
func (w *writer) Int64(v int64)     { w.Uint64(uint64(v)) }
func (w *writer) Float32(v float32) { w.Uint32(math.Float32bits(v)) }
func (w *writer) Float64(v float64) { w.Uint64(math.Float64bits(v)) }
func (w *writer) Error() error      { return w.err }

func (w *writer) Uint8(v uint8) {
	w.tmp[0] = v
	w.Data(w.tmp[:1])
}

func (w *writer) Uint16(v uint16) {
	w.byteOrder.PutUint16(w.tmp[:], v)
	w.Data(w.tmp[:2])
}

func (w *writer) Uint32(v uint32) {
	w.byteOrder.PutUint32(w.tmp[:], v)
	w.Data(w.tmp[:4])
}

func (w *writer) Uint64(v uint64) {
	w.byteOrder.PutUint64(w.tmp[:], v)
	w.Data(w.tmp[:8])
}

// String writes a 4 byte length followed by the UTF-8 bytes of v, with no
// terminator.
func (w *writer) String(v string) {
	w.Uint32(uint32(len(v)))
	w.Data([]byte(v))
}

func (w *writer) SetError(err error) {
	if w.err != nil {
		return
	}
	w.err = err
}
