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

// Error is a JDWP error code. The zero value, ErrNone, is success.
type Error uint16

const (
	ErrNone                    = Error(0)
	ErrInvalidThread           = Error(10)
	ErrInvalidThreadGroup      = Error(11)
	ErrInvalidPriority         = Error(12)
	ErrThreadNotSuspended      = Error(13)
	ErrThreadSuspended         = Error(14)
	ErrThreadNotAlive          = Error(15)
	ErrInvalidObject           = Error(20)
	ErrInvalidClass            = Error(21)
	ErrClassNotPrepared        = Error(22)
	ErrInvalidMethodID         = Error(23)
	ErrInvalidLocation         = Error(24)
	ErrInvalidFieldID          = Error(25)
	ErrInvalidFrameID          = Error(30)
	ErrNoMoreFrames            = Error(31)
	ErrOpaqueFrame             = Error(32)
	ErrNotCurrentFrame         = Error(33)
	ErrTypeMismatch            = Error(34)
	ErrInvalidSlot             = Error(35)
	ErrDuplicate               = Error(40)
	ErrNotFound                = Error(41)
	ErrInvalidMonitor          = Error(50)
	ErrNotMonitorOwner         = Error(51)
	ErrInterrupt               = Error(52)
	ErrInvalidClassFormat      = Error(60)
	ErrCircularClassDefinition = Error(61)
	ErrFailsVerification       = Error(62)
	ErrAddMethodNotImplemented = Error(63)
	ErrSchemaChangeNotImpl     = Error(64)
	ErrInvalidTypestate        = Error(65)
	ErrNotImplemented          = Error(99)
	ErrNullPointer             = Error(100)
	ErrAbsentInformation       = Error(101)
	ErrInvalidEventType        = Error(102)
	ErrIllegalArgument         = Error(103)
	ErrOutOfMemory             = Error(110)
	ErrAccessDenied            = Error(111)
	ErrVMDead                  = Error(112)
	ErrInternal                = Error(113)
	ErrUnattachedThread        = Error(115)
	ErrInvalidTag              = Error(500)
	ErrAlreadyInvoking         = Error(502)
	ErrInvalidIndex            = Error(503)
	ErrInvalidLength           = Error(504)
	ErrInvalidString           = Error(506)
	ErrInvalidClassLoader      = Error(507)
	ErrInvalidArray            = Error(508)
	ErrTransportLoad           = Error(509)
	ErrTransportInit           = Error(510)
	ErrNativeMethod            = Error(511)
	ErrInvalidCount            = Error(512)
)

var errorNames = map[Error]string{
	ErrNone:                    "None",
	ErrInvalidThread:           "InvalidThread",
	ErrInvalidThreadGroup:      "InvalidThreadGroup",
	ErrInvalidPriority:         "InvalidPriority",
	ErrThreadNotSuspended:      "ThreadNotSuspended",
	ErrThreadSuspended:         "ThreadSuspended",
	ErrThreadNotAlive:          "ThreadNotAlive",
	ErrInvalidObject:           "InvalidObject",
	ErrInvalidClass:            "InvalidClass",
	ErrClassNotPrepared:        "ClassNotPrepared",
	ErrInvalidMethodID:         "InvalidMethodID",
	ErrInvalidLocation:         "InvalidLocation",
	ErrInvalidFieldID:          "InvalidFieldID",
	ErrInvalidFrameID:          "InvalidFrameID",
	ErrNoMoreFrames:            "NoMoreFrames",
	ErrOpaqueFrame:             "OpaqueFrame",
	ErrNotCurrentFrame:         "NotCurrentFrame",
	ErrTypeMismatch:            "TypeMismatch",
	ErrInvalidSlot:             "InvalidSlot",
	ErrDuplicate:               "Duplicate",
	ErrNotFound:                "NotFound",
	ErrInvalidMonitor:          "InvalidMonitor",
	ErrNotMonitorOwner:         "NotMonitorOwner",
	ErrInterrupt:               "Interrupt",
	ErrInvalidClassFormat:      "InvalidClassFormat",
	ErrCircularClassDefinition: "CircularClassDefinition",
	ErrFailsVerification:       "FailsVerification",
	ErrAddMethodNotImplemented: "AddMethodNotImplemented",
	ErrSchemaChangeNotImpl:     "SchemaChangeNotImplemented",
	ErrInvalidTypestate:        "InvalidTypestate",
	ErrNotImplemented:          "NotImplemented",
	ErrNullPointer:             "NullPointer",
	ErrAbsentInformation:       "AbsentInformation",
	ErrInvalidEventType:        "InvalidEventType",
	ErrIllegalArgument:         "IllegalArgument",
	ErrOutOfMemory:             "OutOfMemory",
	ErrAccessDenied:            "AccessDenied",
	ErrVMDead:                  "VMDead",
	ErrInternal:                "Internal",
	ErrUnattachedThread:        "UnattachedThread",
	ErrInvalidTag:              "InvalidTag",
	ErrAlreadyInvoking:         "AlreadyInvoking",
	ErrInvalidIndex:            "InvalidIndex",
	ErrInvalidLength:           "InvalidLength",
	ErrInvalidString:           "InvalidString",
	ErrInvalidClassLoader:      "InvalidClassLoader",
	ErrInvalidArray:            "InvalidArray",
	ErrTransportLoad:           "TransportLoad",
	ErrTransportInit:           "TransportInit",
	ErrNativeMethod:            "NativeMethod",
	ErrInvalidCount:            "InvalidCount",
}

func (e Error) String() string {
	if name, ok := errorNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Error<%d>", int(e))
}

func (e Error) Error() string {
	return fmt.Sprintf("JDWP error %d (%v)", int(e), e.String())
}
