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

package vm

import (
	"fmt"
	"math"

	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
)

// Value is a primitive or reference value of the target. Primitives are held
// in Bits, references in Object.
type Value struct {
	Tag    jdwp.Tag
	Bits   uint64
	Object *Object
}

func Boolean(v bool) Value {
	if v {
		return Value{Tag: jdwp.TagBoolean, Bits: 1}
	}
	return Value{Tag: jdwp.TagBoolean}
}

func Byte(v int8) Value      { return Value{Tag: jdwp.TagByte, Bits: uint64(uint8(v))} }
func Char(v uint16) Value    { return Value{Tag: jdwp.TagChar, Bits: uint64(v)} }
func Short(v int16) Value    { return Value{Tag: jdwp.TagShort, Bits: uint64(uint16(v))} }
func Int(v int32) Value      { return Value{Tag: jdwp.TagInt, Bits: uint64(uint32(v))} }
func Long(v int64) Value     { return Value{Tag: jdwp.TagLong, Bits: uint64(v)} }
func Float(v float32) Value  { return Value{Tag: jdwp.TagFloat, Bits: uint64(math.Float32bits(v))} }
func Double(v float64) Value { return Value{Tag: jdwp.TagDouble, Bits: math.Float64bits(v)} }
func Ref(o *Object) Value    { return Value{Tag: jdwp.TagObject, Object: o} }
func Void() Value            { return Value{Tag: jdwp.TagVoid} }

func (v Value) AsBoolean() bool   { return v.Bits != 0 }
func (v Value) AsByte() int8      { return int8(v.Bits) }
func (v Value) AsChar() uint16    { return uint16(v.Bits) }
func (v Value) AsShort() int16    { return int16(v.Bits) }
func (v Value) AsInt() int32      { return int32(v.Bits) }
func (v Value) AsLong() int64     { return int64(v.Bits) }
func (v Value) AsFloat() float32  { return math.Float32frombits(uint32(v.Bits)) }
func (v Value) AsDouble() float64 { return math.Float64frombits(v.Bits) }

// IsObject returns true if the value is a reference, possibly null.
func (v Value) IsObject() bool { return v.Tag.IsObject() }

// Zero returns the default value of a variable with the type signature sig.
func Zero(sig string) Value {
	tag := jdwp.TagOf(sig)
	if tag.IsObject() {
		return Value{Tag: jdwp.TagObject}
	}
	return Value{Tag: tag}
}

// AssignableTo returns true if v can be stored in a variable with the type
// signature sig.
func (v Value) AssignableTo(sig string) bool {
	tag := jdwp.TagOf(sig)
	if !tag.IsObject() {
		return v.Tag == tag
	}
	if !v.IsObject() {
		return false
	}
	if v.Object == nil {
		return true
	}
	return v.Object.Class.Is(sig)
}

func (v Value) String() string {
	switch v.Tag {
	case jdwp.TagBoolean:
		return fmt.Sprint(v.AsBoolean())
	case jdwp.TagByte:
		return fmt.Sprint(v.AsByte())
	case jdwp.TagChar:
		return fmt.Sprintf("%q", rune(v.AsChar()))
	case jdwp.TagShort:
		return fmt.Sprint(v.AsShort())
	case jdwp.TagInt:
		return fmt.Sprint(v.AsInt())
	case jdwp.TagLong:
		return fmt.Sprint(v.AsLong())
	case jdwp.TagFloat:
		return fmt.Sprint(v.AsFloat())
	case jdwp.TagDouble:
		return fmt.Sprint(v.AsDouble())
	case jdwp.TagVoid:
		return "void"
	}
	if v.Object == nil {
		return "null"
	}
	return fmt.Sprintf("%v@%d", v.Object.Class.Name(), v.Object.Ref)
}
