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

package agent

import (
	"bytes"
	"context"

	"github.com/pkg/errors"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/fault"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

// ErrInvalidCommandSet is returned for commands of a set the agent does not
// know. It is reported to the debugger as ErrNotImplemented.
const ErrInvalidCommandSet = fault.Const("Invalid command set")

// handler answers one command, reading its arguments from r and writing the
// reply payload to w.
type handler func(s *Session, ctx context.Context, r binary.Reader, w binary.Writer) error

// handlers holds every command the agent knows. A nil handler is a known
// command that is not implemented.
var handlers = map[jdwp.Cmd]handler{
	jdwp.CmdVirtualMachineVersion:               (*Session).vmVersion,
	jdwp.CmdVirtualMachineClassesBySignature:    (*Session).vmClassesBySignature,
	jdwp.CmdVirtualMachineAllClasses:            (*Session).vmAllClasses,
	jdwp.CmdVirtualMachineAllThreads:            (*Session).vmAllThreads,
	jdwp.CmdVirtualMachineTopLevelThreadGroups:  (*Session).vmTopLevelThreadGroups,
	jdwp.CmdVirtualMachineDispose:               (*Session).vmDispose,
	jdwp.CmdVirtualMachineIDSizes:               (*Session).vmIDSizes,
	jdwp.CmdVirtualMachineSuspend:               (*Session).vmSuspend,
	jdwp.CmdVirtualMachineResume:                (*Session).vmResume,
	jdwp.CmdVirtualMachineExit:                  (*Session).vmExit,
	jdwp.CmdVirtualMachineCreateString:          (*Session).vmCreateString,
	jdwp.CmdVirtualMachineCapabilities:          (*Session).vmCapabilities,
	jdwp.CmdVirtualMachineClassPaths:            nil,
	jdwp.CmdVirtualMachineDisposeObjects:        (*Session).vmDisposeObjects,
	jdwp.CmdVirtualMachineHoldEvents:            nil,
	jdwp.CmdVirtualMachineReleaseEvents:         nil,
	jdwp.CmdVirtualMachineCapabilitiesNew:       (*Session).vmCapabilitiesNew,
	jdwp.CmdVirtualMachineRedefineClasses:       nil,
	jdwp.CmdVirtualMachineSetDefaultStratum:     nil,
	jdwp.CmdVirtualMachineAllClassesWithGeneric: (*Session).vmAllClassesWithGeneric,
	jdwp.CmdVirtualMachineInstanceCounts:        nil,

	jdwp.CmdReferenceTypeSignature:            (*Session).typeSignature,
	jdwp.CmdReferenceTypeClassLoader:          (*Session).typeClassLoader,
	jdwp.CmdReferenceTypeModifiers:            (*Session).typeModifiers,
	jdwp.CmdReferenceTypeFields:               (*Session).typeFields,
	jdwp.CmdReferenceTypeMethods:              (*Session).typeMethods,
	jdwp.CmdReferenceTypeGetValues:            (*Session).typeGetValues,
	jdwp.CmdReferenceTypeSourceFile:           (*Session).typeSourceFile,
	jdwp.CmdReferenceTypeNestedTypes:          nil,
	jdwp.CmdReferenceTypeStatus:               (*Session).typeStatus,
	jdwp.CmdReferenceTypeInterfaces:           (*Session).typeInterfaces,
	jdwp.CmdReferenceTypeClassObject:          (*Session).typeClassObject,
	jdwp.CmdReferenceTypeSourceDebugExtension: nil,
	jdwp.CmdReferenceTypeSignatureWithGeneric: (*Session).typeSignatureWithGeneric,
	jdwp.CmdReferenceTypeFieldsWithGeneric:    (*Session).typeFieldsWithGeneric,
	jdwp.CmdReferenceTypeMethodsWithGeneric:   (*Session).typeMethodsWithGeneric,
	jdwp.CmdReferenceTypeInstances:            nil,
	jdwp.CmdReferenceTypeClassFileVersion:     nil,
	jdwp.CmdReferenceTypeConstantPool:         nil,

	jdwp.CmdClassTypeSuperclass:   (*Session).classSuperclass,
	jdwp.CmdClassTypeSetValues:    nil,
	jdwp.CmdClassTypeInvokeMethod: nil,
	jdwp.CmdClassTypeNewInstance:  nil,

	jdwp.CmdArrayTypeNewInstance: nil,

	jdwp.CmdMethodLineTable:                (*Session).methodLineTable,
	jdwp.CmdMethodVariableTable:            (*Session).methodVariableTable,
	jdwp.CmdMethodBytecodes:                nil,
	jdwp.CmdMethodIsObsolete:               nil,
	jdwp.CmdMethodVariableTableWithGeneric: (*Session).methodVariableTableWithGeneric,

	jdwp.CmdObjectReferenceReferenceType:     (*Session).objectReferenceType,
	jdwp.CmdObjectReferenceGetValues:         (*Session).objectGetValues,
	jdwp.CmdObjectReferenceSetValues:         (*Session).objectSetValues,
	jdwp.CmdObjectReferenceMonitorInfo:       nil,
	jdwp.CmdObjectReferenceInvokeMethod:      nil,
	jdwp.CmdObjectReferenceDisableCollection: (*Session).objectDisableCollection,
	jdwp.CmdObjectReferenceEnableCollection:  (*Session).objectEnableCollection,
	jdwp.CmdObjectReferenceIsCollected:       (*Session).objectIsCollected,
	jdwp.CmdObjectReferenceReferringObjects:  nil,

	jdwp.CmdStringReferenceValue: (*Session).stringValue,

	jdwp.CmdThreadReferenceName:                    (*Session).threadName,
	jdwp.CmdThreadReferenceSuspend:                 (*Session).threadSuspend,
	jdwp.CmdThreadReferenceResume:                  (*Session).threadResume,
	jdwp.CmdThreadReferenceStatus:                  (*Session).threadStatus,
	jdwp.CmdThreadReferenceThreadGroup:             (*Session).threadThreadGroup,
	jdwp.CmdThreadReferenceFrames:                  (*Session).threadFrames,
	jdwp.CmdThreadReferenceFrameCount:              (*Session).threadFrameCount,
	jdwp.CmdThreadReferenceOwnedMonitors:           nil,
	jdwp.CmdThreadReferenceCurrentContendedMonitor: nil,
	jdwp.CmdThreadReferenceStop:                    nil,
	jdwp.CmdThreadReferenceInterrupt:               nil,
	jdwp.CmdThreadReferenceSuspendCount:            (*Session).threadSuspendCount,

	jdwp.CmdThreadGroupReferenceName:     (*Session).groupName,
	jdwp.CmdThreadGroupReferenceParent:   (*Session).groupParent,
	jdwp.CmdThreadGroupReferenceChildren: (*Session).groupChildren,

	jdwp.CmdArrayReferenceLength:    (*Session).arrayLength,
	jdwp.CmdArrayReferenceGetValues: (*Session).arrayGetValues,
	jdwp.CmdArrayReferenceSetValues: (*Session).arraySetValues,

	jdwp.CmdClassLoaderReferenceVisibleClasses: (*Session).loaderVisibleClasses,

	jdwp.CmdEventRequestSet:                 (*Session).eventRequestSet,
	jdwp.CmdEventRequestClear:               (*Session).eventRequestClear,
	jdwp.CmdEventRequestClearAllBreakpoints: (*Session).eventRequestClearAllBreakpoints,

	jdwp.CmdStackFrameGetValues:  (*Session).frameGetValues,
	jdwp.CmdStackFrameSetValues:  (*Session).frameSetValues,
	jdwp.CmdStackFrameThisObject: (*Session).frameThisObject,
	jdwp.CmdStackFramePopFrames:  nil,

	jdwp.CmdClassObjectReferenceReflectedType: (*Session).classObjectReflectedType,
}

// commandSets holds the sets with at least one known command.
var commandSets = map[jdwp.CmdSet]bool{}

func init() {
	for cmd := range handlers {
		commandSets[cmd.Set] = true
	}
}

// Dispatch answers the command cmd with the arguments payload. It returns the
// reply payload, or the error code to reply with. No partial payload is ever
// returned with an error.
func (s *Session) Dispatch(ctx context.Context, cmd jdwp.Cmd, payload []byte) ([]byte, jdwp.Error) {
	ctx = log.Enter(ctx, cmd.String())
	r := endian.Reader(bytes.NewReader(payload), device.BigEndian)
	buf := &bytes.Buffer{}
	w := endian.Writer(buf, device.BigEndian)

	err := s.call(ctx, cmd, r, w)
	if err == nil {
		err = r.Error()
	}
	if err == nil {
		err = w.Error()
	}
	if code := errorCode(err, r); code != jdwp.ErrNone {
		if code == jdwp.ErrInternal {
			log.E(ctx, "Command failed: %v", err)
		} else {
			log.D(ctx, "Command failed: %v", err)
		}
		return nil, code
	}
	return buf.Bytes(), jdwp.ErrNone
}

// call runs the handler of cmd, turning panics into errors.
func (s *Session) call(ctx context.Context, cmd jdwp.Cmd, r binary.Reader, w binary.Writer) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Wrapf(jdwp.ErrInternal, "Panic in %v: %v", cmd, fault.From(p))
		}
	}()
	h, known := handlers[cmd]
	switch {
	case !commandSets[cmd.Set]:
		return errors.Wrapf(ErrInvalidCommandSet, "%v", cmd.Set)
	case !known || h == nil:
		return errors.Wrapf(jdwp.ErrNotImplemented, "%v", cmd)
	}
	return h(s, ctx, r, w)
}

// errorCode returns the code replied for err. Errors reading the arguments
// are malformed requests.
func errorCode(err error, r binary.Reader) jdwp.Error {
	if err == nil {
		return jdwp.ErrNone
	}
	switch cause := errors.Cause(err).(type) {
	case jdwp.Error:
		return cause
	case fault.Const:
		if cause == ErrInvalidCommandSet {
			return jdwp.ErrNotImplemented
		}
	}
	if r.Error() != nil {
		return jdwp.ErrIllegalArgument
	}
	return jdwp.ErrInternal
}

// argErr returns the error of reading the command arguments so far.
func argErr(r binary.Reader) error {
	if err := r.Error(); err != nil {
		return errors.Wrapf(jdwp.ErrIllegalArgument, "Reading arguments: %v", err)
	}
	return nil
}
