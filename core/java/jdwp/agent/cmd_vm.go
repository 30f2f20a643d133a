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
	"context"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

// idSize is the size in bytes of every identifier the agent sends.
const idSize = 8

func (s *Session) vmVersion(ctx context.Context, r binary.Reader, w binary.Writer) error {
	v := s.rt.Version()
	w.String(v.Description)
	w.Int32(v.Major)
	w.Int32(v.Minor)
	w.String(v.VMVersion)
	w.String(v.VMName)
	return nil
}

func (s *Session) vmClassesBySignature(ctx context.Context, r binary.Reader, w binary.Writer) error {
	sig := r.String()
	if err := argErr(r); err != nil {
		return err
	}
	matches := []*vm.Class{}
	for _, c := range s.rt.Classes() {
		if c.Signature == sig {
			matches = append(matches, c)
		}
	}
	w.Uint32(uint32(len(matches)))
	for _, c := range matches {
		s.regs.WriteTaggedType(w, c)
		w.Int32(int32(c.Status))
	}
	return nil
}

func (s *Session) writeClasses(w binary.Writer, generic bool) {
	classes := s.rt.Classes()
	w.Uint32(uint32(len(classes)))
	for _, c := range classes {
		s.regs.WriteTaggedType(w, c)
		w.String(c.Signature)
		if generic {
			w.String(c.Generic)
		}
		w.Int32(int32(c.Status))
	}
}

func (s *Session) vmAllClasses(ctx context.Context, r binary.Reader, w binary.Writer) error {
	s.writeClasses(w, false)
	return nil
}

func (s *Session) vmAllClassesWithGeneric(ctx context.Context, r binary.Reader, w binary.Writer) error {
	s.writeClasses(w, true)
	return nil
}

func (s *Session) writeObjects(w binary.Writer, objects []*vm.Object) {
	w.Uint32(uint32(len(objects)))
	for _, o := range objects {
		s.regs.WriteObject(w, o)
	}
}

func (s *Session) vmAllThreads(ctx context.Context, r binary.Reader, w binary.Writer) error {
	s.writeObjects(w, s.rt.Threads())
	return nil
}

func (s *Session) vmTopLevelThreadGroups(ctx context.Context, r binary.Reader, w binary.Writer) error {
	s.writeObjects(w, s.rt.TopLevelThreadGroups())
	return nil
}

// vmDispose ends the session. The requests of the debugger are cleared and
// the target resumes.
func (s *Session) vmDispose(ctx context.Context, r binary.Reader, w binary.Writer) error {
	log.I(ctx, "Debugger disposed the session")
	s.end()
	return nil
}

func (s *Session) vmIDSizes(ctx context.Context, r binary.Reader, w binary.Writer) error {
	for i := 0; i < 5; i++ { // field, method, object, reference type, frame
		w.Int32(idSize)
	}
	return nil
}

func (s *Session) vmSuspend(ctx context.Context, r binary.Reader, w binary.Writer) error {
	s.coord.Suspend()
	return nil
}

func (s *Session) vmResume(ctx context.Context, r binary.Reader, w binary.Writer) error {
	s.coord.Resume()
	return nil
}

func (s *Session) vmExit(ctx context.Context, r binary.Reader, w binary.Writer) error {
	code := r.Int32()
	if err := argErr(r); err != nil {
		return err
	}
	log.I(ctx, "Debugger exited the target with code %d", code)
	s.rt.Exit(code)
	s.coord.Release()
	s.end()
	return nil
}

func (s *Session) vmCreateString(ctx context.Context, r binary.Reader, w binary.Writer) error {
	str := r.String()
	if err := argErr(r); err != nil {
		return err
	}
	s.regs.WriteObject(w, s.rt.NewString(str))
	return nil
}

// capabilities lists the answers to VirtualMachine.CapabilitiesNew in wire
// order. The first seven are also the reply of VirtualMachine.Capabilities.
var capabilities = [32]bool{
	0:  true, // canWatchFieldModification
	1:  true, // canWatchFieldAccess
	11: true, // canUseInstanceFilters
	13: true, // canRequestVMDeathEvent
	16: true, // canRequestMonitorEvents
	18: true, // canUseSourceNameFilters
}

func (s *Session) vmCapabilities(ctx context.Context, r binary.Reader, w binary.Writer) error {
	for _, c := range capabilities[:7] {
		w.Bool(c)
	}
	return nil
}

func (s *Session) vmCapabilitiesNew(ctx context.Context, r binary.Reader, w binary.Writer) error {
	for _, c := range capabilities {
		w.Bool(c)
	}
	return nil
}

// vmDisposeObjects releases the collection pins the debugger holds on the
// listed objects.
func (s *Session) vmDisposeObjects(ctx context.Context, r binary.Reader, w binary.Writer) error {
	n := int(r.Int32())
	type dispose struct {
		id    uint64
		count int
	}
	list := []dispose{}
	for i := 0; i < n && r.Error() == nil; i++ {
		list = append(list, dispose{r.Uint64(), int(r.Int32())})
	}
	if err := argErr(r); err != nil {
		return err
	}
	for _, d := range list {
		s.regs.Objects.Unpin(d.id, d.count)
	}
	return nil
}

// readThread reads a thread identifier and returns the thread with its
// current control block.
func (s *Session) readThread(r binary.Reader) (*vm.Object, *vm.ThreadInfo, error) {
	thread, err := s.regs.ReadThread(r)
	if err != nil {
		return nil, nil, err
	}
	if thread == nil {
		return nil, nil, jdwp.ErrInvalidThread
	}
	info, err := s.rt.ThreadInfo(thread)
	if err != nil {
		return nil, nil, err
	}
	return thread, info, nil
}
