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

// CmdSet is the namespace for a command identifier.
type CmdSet uint8

// CmdID is a command identifier within a CmdSet.
type CmdID uint8

// Cmd is a fully qualified command.
type Cmd struct {
	Set CmdSet
	ID  CmdID
}

const (
	CmdSetVirtualMachine       = CmdSet(1)
	CmdSetReferenceType        = CmdSet(2)
	CmdSetClassType            = CmdSet(3)
	CmdSetArrayType            = CmdSet(4)
	CmdSetInterfaceType        = CmdSet(5)
	CmdSetMethod               = CmdSet(6)
	CmdSetField                = CmdSet(8)
	CmdSetObjectReference      = CmdSet(9)
	CmdSetStringReference      = CmdSet(10)
	CmdSetThreadReference      = CmdSet(11)
	CmdSetThreadGroupReference = CmdSet(12)
	CmdSetArrayReference       = CmdSet(13)
	CmdSetClassLoaderReference = CmdSet(14)
	CmdSetEventRequest         = CmdSet(15)
	CmdSetStackFrame           = CmdSet(16)
	CmdSetClassObjectReference = CmdSet(17)
	CmdSetEvent                = CmdSet(64)
)

var (
	CmdVirtualMachineVersion               = Cmd{CmdSetVirtualMachine, 1}
	CmdVirtualMachineClassesBySignature    = Cmd{CmdSetVirtualMachine, 2}
	CmdVirtualMachineAllClasses            = Cmd{CmdSetVirtualMachine, 3}
	CmdVirtualMachineAllThreads            = Cmd{CmdSetVirtualMachine, 4}
	CmdVirtualMachineTopLevelThreadGroups  = Cmd{CmdSetVirtualMachine, 5}
	CmdVirtualMachineDispose               = Cmd{CmdSetVirtualMachine, 6}
	CmdVirtualMachineIDSizes               = Cmd{CmdSetVirtualMachine, 7}
	CmdVirtualMachineSuspend               = Cmd{CmdSetVirtualMachine, 8}
	CmdVirtualMachineResume                = Cmd{CmdSetVirtualMachine, 9}
	CmdVirtualMachineExit                  = Cmd{CmdSetVirtualMachine, 10}
	CmdVirtualMachineCreateString          = Cmd{CmdSetVirtualMachine, 11}
	CmdVirtualMachineCapabilities          = Cmd{CmdSetVirtualMachine, 12}
	CmdVirtualMachineClassPaths            = Cmd{CmdSetVirtualMachine, 13}
	CmdVirtualMachineDisposeObjects        = Cmd{CmdSetVirtualMachine, 14}
	CmdVirtualMachineHoldEvents            = Cmd{CmdSetVirtualMachine, 15}
	CmdVirtualMachineReleaseEvents         = Cmd{CmdSetVirtualMachine, 16}
	CmdVirtualMachineCapabilitiesNew       = Cmd{CmdSetVirtualMachine, 17}
	CmdVirtualMachineRedefineClasses       = Cmd{CmdSetVirtualMachine, 18}
	CmdVirtualMachineSetDefaultStratum     = Cmd{CmdSetVirtualMachine, 19}
	CmdVirtualMachineAllClassesWithGeneric = Cmd{CmdSetVirtualMachine, 20}
	CmdVirtualMachineInstanceCounts        = Cmd{CmdSetVirtualMachine, 21}

	CmdReferenceTypeSignature            = Cmd{CmdSetReferenceType, 1}
	CmdReferenceTypeClassLoader          = Cmd{CmdSetReferenceType, 2}
	CmdReferenceTypeModifiers            = Cmd{CmdSetReferenceType, 3}
	CmdReferenceTypeFields               = Cmd{CmdSetReferenceType, 4}
	CmdReferenceTypeMethods              = Cmd{CmdSetReferenceType, 5}
	CmdReferenceTypeGetValues            = Cmd{CmdSetReferenceType, 6}
	CmdReferenceTypeSourceFile           = Cmd{CmdSetReferenceType, 7}
	CmdReferenceTypeNestedTypes          = Cmd{CmdSetReferenceType, 8}
	CmdReferenceTypeStatus               = Cmd{CmdSetReferenceType, 9}
	CmdReferenceTypeInterfaces           = Cmd{CmdSetReferenceType, 10}
	CmdReferenceTypeClassObject          = Cmd{CmdSetReferenceType, 11}
	CmdReferenceTypeSourceDebugExtension = Cmd{CmdSetReferenceType, 12}
	CmdReferenceTypeSignatureWithGeneric = Cmd{CmdSetReferenceType, 13}
	CmdReferenceTypeFieldsWithGeneric    = Cmd{CmdSetReferenceType, 14}
	CmdReferenceTypeMethodsWithGeneric   = Cmd{CmdSetReferenceType, 15}
	CmdReferenceTypeInstances            = Cmd{CmdSetReferenceType, 16}
	CmdReferenceTypeClassFileVersion     = Cmd{CmdSetReferenceType, 17}
	CmdReferenceTypeConstantPool         = Cmd{CmdSetReferenceType, 18}

	CmdClassTypeSuperclass   = Cmd{CmdSetClassType, 1}
	CmdClassTypeSetValues    = Cmd{CmdSetClassType, 2}
	CmdClassTypeInvokeMethod = Cmd{CmdSetClassType, 3}
	CmdClassTypeNewInstance  = Cmd{CmdSetClassType, 4}

	CmdArrayTypeNewInstance = Cmd{CmdSetArrayType, 1}

	CmdMethodLineTable                = Cmd{CmdSetMethod, 1}
	CmdMethodVariableTable            = Cmd{CmdSetMethod, 2}
	CmdMethodBytecodes                = Cmd{CmdSetMethod, 3}
	CmdMethodIsObsolete               = Cmd{CmdSetMethod, 4}
	CmdMethodVariableTableWithGeneric = Cmd{CmdSetMethod, 5}

	CmdObjectReferenceReferenceType     = Cmd{CmdSetObjectReference, 1}
	CmdObjectReferenceGetValues         = Cmd{CmdSetObjectReference, 2}
	CmdObjectReferenceSetValues         = Cmd{CmdSetObjectReference, 3}
	CmdObjectReferenceMonitorInfo       = Cmd{CmdSetObjectReference, 5}
	CmdObjectReferenceInvokeMethod      = Cmd{CmdSetObjectReference, 6}
	CmdObjectReferenceDisableCollection = Cmd{CmdSetObjectReference, 7}
	CmdObjectReferenceEnableCollection  = Cmd{CmdSetObjectReference, 8}
	CmdObjectReferenceIsCollected       = Cmd{CmdSetObjectReference, 9}
	CmdObjectReferenceReferringObjects  = Cmd{CmdSetObjectReference, 10}

	CmdStringReferenceValue = Cmd{CmdSetStringReference, 1}

	CmdThreadReferenceName                    = Cmd{CmdSetThreadReference, 1}
	CmdThreadReferenceSuspend                 = Cmd{CmdSetThreadReference, 2}
	CmdThreadReferenceResume                  = Cmd{CmdSetThreadReference, 3}
	CmdThreadReferenceStatus                  = Cmd{CmdSetThreadReference, 4}
	CmdThreadReferenceThreadGroup             = Cmd{CmdSetThreadReference, 5}
	CmdThreadReferenceFrames                  = Cmd{CmdSetThreadReference, 6}
	CmdThreadReferenceFrameCount              = Cmd{CmdSetThreadReference, 7}
	CmdThreadReferenceOwnedMonitors           = Cmd{CmdSetThreadReference, 8}
	CmdThreadReferenceCurrentContendedMonitor = Cmd{CmdSetThreadReference, 9}
	CmdThreadReferenceStop                    = Cmd{CmdSetThreadReference, 10}
	CmdThreadReferenceInterrupt               = Cmd{CmdSetThreadReference, 11}
	CmdThreadReferenceSuspendCount            = Cmd{CmdSetThreadReference, 12}

	CmdThreadGroupReferenceName     = Cmd{CmdSetThreadGroupReference, 1}
	CmdThreadGroupReferenceParent   = Cmd{CmdSetThreadGroupReference, 2}
	CmdThreadGroupReferenceChildren = Cmd{CmdSetThreadGroupReference, 3}

	CmdArrayReferenceLength    = Cmd{CmdSetArrayReference, 1}
	CmdArrayReferenceGetValues = Cmd{CmdSetArrayReference, 2}
	CmdArrayReferenceSetValues = Cmd{CmdSetArrayReference, 3}

	CmdClassLoaderReferenceVisibleClasses = Cmd{CmdSetClassLoaderReference, 1}

	CmdEventRequestSet                 = Cmd{CmdSetEventRequest, 1}
	CmdEventRequestClear               = Cmd{CmdSetEventRequest, 2}
	CmdEventRequestClearAllBreakpoints = Cmd{CmdSetEventRequest, 3}

	CmdStackFrameGetValues  = Cmd{CmdSetStackFrame, 1}
	CmdStackFrameSetValues  = Cmd{CmdSetStackFrame, 2}
	CmdStackFrameThisObject = Cmd{CmdSetStackFrame, 3}
	CmdStackFramePopFrames  = Cmd{CmdSetStackFrame, 4}

	CmdClassObjectReferenceReflectedType = Cmd{CmdSetClassObjectReference, 1}

	CmdEventComposite = Cmd{CmdSetEvent, 100}
)

var cmdSetNames = map[CmdSet]string{
	CmdSetVirtualMachine:       "VirtualMachine",
	CmdSetReferenceType:        "ReferenceType",
	CmdSetClassType:            "ClassType",
	CmdSetArrayType:            "ArrayType",
	CmdSetInterfaceType:        "InterfaceType",
	CmdSetMethod:               "Method",
	CmdSetField:                "Field",
	CmdSetObjectReference:      "ObjectReference",
	CmdSetStringReference:      "StringReference",
	CmdSetThreadReference:      "ThreadReference",
	CmdSetThreadGroupReference: "ThreadGroupReference",
	CmdSetArrayReference:       "ArrayReference",
	CmdSetClassLoaderReference: "ClassLoaderReference",
	CmdSetEventRequest:         "EventRequest",
	CmdSetStackFrame:           "StackFrame",
	CmdSetClassObjectReference: "ClassObjectReference",
	CmdSetEvent:                "Event",
}

func (s CmdSet) String() string {
	if name, ok := cmdSetNames[s]; ok {
		return name
	}
	return fmt.Sprintf("CmdSet<%d>", int(s))
}

func (c Cmd) String() string { return fmt.Sprintf("%v.%d", c.Set, int(c.ID)) }
