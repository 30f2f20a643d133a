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

// ModKind is the single byte selector of an event request modifier on the
// wire.
type ModKind uint8

const (
	ModCount           = ModKind(1)
	ModConditional     = ModKind(2)
	ModThreadOnly      = ModKind(3)
	ModClassOnly       = ModKind(4)
	ModClassMatch      = ModKind(5)
	ModClassExclude    = ModKind(6)
	ModLocationOnly    = ModKind(7)
	ModExceptionOnly   = ModKind(8)
	ModFieldOnly       = ModKind(9)
	ModStep            = ModKind(10)
	ModInstanceOnly    = ModKind(11)
	ModSourceNameMatch = ModKind(12)
)

func (k ModKind) String() string {
	switch k {
	case ModCount:
		return "Count"
	case ModConditional:
		return "Conditional"
	case ModThreadOnly:
		return "ThreadOnly"
	case ModClassOnly:
		return "ClassOnly"
	case ModClassMatch:
		return "ClassMatch"
	case ModClassExclude:
		return "ClassExclude"
	case ModLocationOnly:
		return "LocationOnly"
	case ModExceptionOnly:
		return "ExceptionOnly"
	case ModFieldOnly:
		return "FieldOnly"
	case ModStep:
		return "Step"
	case ModInstanceOnly:
		return "InstanceOnly"
	case ModSourceNameMatch:
		return "SourceNameMatch"
	default:
		return fmt.Sprintf("ModKind<%d>", int(k))
	}
}
