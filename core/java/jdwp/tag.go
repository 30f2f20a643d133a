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

import "fmt"

// Tag is the single byte type prefix of a tagged value.
type Tag uint8

const (
	TagArray       = Tag('[')
	TagByte        = Tag('B')
	TagChar        = Tag('C')
	TagObject      = Tag('L')
	TagFloat       = Tag('F')
	TagDouble      = Tag('D')
	TagInt         = Tag('I')
	TagLong        = Tag('J')
	TagShort       = Tag('S')
	TagVoid        = Tag('V')
	TagBoolean     = Tag('Z')
	TagString      = Tag('s')
	TagThread      = Tag('t')
	TagThreadGroup = Tag('g')
	TagClassLoader = Tag('l')
	TagClassObject = Tag('c')
)

func (t Tag) String() string {
	switch t {
	case TagArray:
		return "Array"
	case TagByte:
		return "Byte"
	case TagChar:
		return "Char"
	case TagObject:
		return "Object"
	case TagFloat:
		return "Float"
	case TagDouble:
		return "Double"
	case TagInt:
		return "Int"
	case TagLong:
		return "Long"
	case TagShort:
		return "Short"
	case TagVoid:
		return "Void"
	case TagBoolean:
		return "Boolean"
	case TagString:
		return "String"
	case TagThread:
		return "Thread"
	case TagThreadGroup:
		return "ThreadGroup"
	case TagClassLoader:
		return "ClassLoader"
	case TagClassObject:
		return "ClassObject"
	default:
		return fmt.Sprintf("Tag<%d>", int(t))
	}
}

// Valid returns true if t is one of the tags defined by the protocol.
func (t Tag) Valid() bool {
	switch t {
	case TagArray, TagByte, TagChar, TagObject, TagFloat, TagDouble, TagInt,
		TagLong, TagShort, TagVoid, TagBoolean, TagString, TagThread,
		TagThreadGroup, TagClassLoader, TagClassObject:
		return true
	}
	return false
}

// IsObject returns true if values of this tag are encoded as an object
// identifier.
func (t Tag) IsObject() bool {
	switch t {
	case TagArray, TagObject, TagString, TagThread, TagThreadGroup,
		TagClassLoader, TagClassObject:
		return true
	}
	return false
}

// Size returns the number of bytes used by the untagged encoding of a value
// with this tag. Object tags use the 8 byte object identifier size.
func (t Tag) Size() int {
	switch t {
	case TagByte, TagBoolean:
		return 1
	case TagChar, TagShort:
		return 2
	case TagInt, TagFloat:
		return 4
	case TagLong, TagDouble:
		return 8
	case TagVoid:
		return 0
	default:
		return 8
	}
}

// TagOf returns the tag for the first character of the JNI type signature sig.
func TagOf(sig string) Tag {
	if len(sig) == 0 {
		return TagVoid
	}
	return Tag(sig[0])
}
