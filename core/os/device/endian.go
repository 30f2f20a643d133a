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

package device

// Endian is the byte ordering used by an encoder or decoder.
type Endian int

const (
	// UnknownEndian is the zero value; codecs treat it as LittleEndian.
	UnknownEndian = Endian(iota)
	// LittleEndian stores the least significant byte first.
	LittleEndian
	// BigEndian stores the most significant byte first. JDWP is big-endian.
	BigEndian
)

func (e Endian) String() string {
	switch e {
	case LittleEndian:
		return "LittleEndian"
	case BigEndian:
		return "BigEndian"
	default:
		return "UnknownEndian"
	}
}
