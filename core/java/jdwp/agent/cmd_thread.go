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

	"github.com/pkg/errors"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
)

func (s *Session) threadName(ctx context.Context, r binary.Reader, w binary.Writer) error {
	_, info, err := s.readThread(r)
	if err != nil {
		return err
	}
	w.String(info.Name)
	return nil
}

func (s *Session) threadSuspend(ctx context.Context, r binary.Reader, w binary.Writer) error {
	thread, _, err := s.readThread(r)
	if err != nil {
		return err
	}
	s.coord.SuspendThread(thread)
	return nil
}

func (s *Session) threadResume(ctx context.Context, r binary.Reader, w binary.Writer) error {
	thread, _, err := s.readThread(r)
	if err != nil {
		return err
	}
	s.coord.ResumeThread(thread)
	return nil
}

func (s *Session) threadStatus(ctx context.Context, r binary.Reader, w binary.Writer) error {
	thread, info, err := s.readThread(r)
	if err != nil {
		return err
	}
	suspended := jdwp.SuspendStatus(0)
	if s.coord.IsSuspended(thread) {
		suspended = jdwp.SuspendStatusSuspended
	}
	w.Int32(int32(info.Status))
	w.Int32(int32(suspended))
	return nil
}

func (s *Session) threadThreadGroup(ctx context.Context, r binary.Reader, w binary.Writer) error {
	_, info, err := s.readThread(r)
	if err != nil {
		return err
	}
	s.regs.WriteObject(w, info.Group)
	return nil
}

// readSuspendedThread reads a thread that must be suspended for its stack to
// be inspected.
func (s *Session) readSuspendedThread(r binary.Reader) (*vm.Object, *vm.ThreadInfo, error) {
	thread, info, err := s.readThread(r)
	if err != nil {
		return nil, nil, err
	}
	if !s.coord.IsSuspended(thread) {
		return nil, nil, errors.Wrapf(jdwp.ErrThreadNotSuspended, "Thread %v", info.Name)
	}
	return thread, info, nil
}

// threadFrames replies with a run of frames, innermost first. A length of -1
// returns every frame from start.
func (s *Session) threadFrames(ctx context.Context, r binary.Reader, w binary.Writer) error {
	_, info, err := s.readSuspendedThread(r)
	if err != nil {
		return err
	}
	start, length := int(r.Int32()), int(r.Int32())
	if err := argErr(r); err != nil {
		return err
	}
	count := len(info.Frames)
	if start < 0 || start > count {
		return errors.Wrapf(jdwp.ErrInvalidIndex, "Frame %d of %d", start, count)
	}
	if length == -1 {
		length = count - start
	}
	if length < 0 || start+length > count {
		return errors.Wrapf(jdwp.ErrInvalidLength, "%d frames from %d of %d", length, start, count)
	}
	frames := info.Frames[start : start+length]
	w.Uint32(uint32(len(frames)))
	for _, f := range frames {
		s.regs.WriteFrame(w, f)
		s.regs.WriteLocation(w, f.Location())
	}
	return nil
}

func (s *Session) threadFrameCount(ctx context.Context, r binary.Reader, w binary.Writer) error {
	_, info, err := s.readSuspendedThread(r)
	if err != nil {
		return err
	}
	w.Int32(int32(len(info.Frames)))
	return nil
}

func (s *Session) threadSuspendCount(ctx context.Context, r binary.Reader, w binary.Writer) error {
	thread, _, err := s.readThread(r)
	if err != nil {
		return err
	}
	w.Int32(int32(s.coord.SuspendCount(thread)))
	return nil
}

// readGroup reads a thread group and returns its current state.
func (s *Session) readGroup(r binary.Reader) (*vm.ThreadGroupInfo, error) {
	group, err := s.regs.ReadThreadGroup(r)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, jdwp.ErrInvalidThreadGroup
	}
	return s.rt.ThreadGroupInfo(group)
}

func (s *Session) groupName(ctx context.Context, r binary.Reader, w binary.Writer) error {
	info, err := s.readGroup(r)
	if err != nil {
		return err
	}
	w.String(info.Name)
	return nil
}

func (s *Session) groupParent(ctx context.Context, r binary.Reader, w binary.Writer) error {
	info, err := s.readGroup(r)
	if err != nil {
		return err
	}
	s.regs.WriteObject(w, info.Parent)
	return nil
}

func (s *Session) groupChildren(ctx context.Context, r binary.Reader, w binary.Writer) error {
	info, err := s.readGroup(r)
	if err != nil {
		return err
	}
	s.writeObjects(w, info.Threads)
	s.writeObjects(w, info.Groups)
	return nil
}

// readFrame reads a suspended thread and one of its frames.
func (s *Session) readFrame(r binary.Reader) (*vm.Frame, error) {
	thread, info, err := s.readSuspendedThread(r)
	if err != nil {
		return nil, err
	}
	f, err := s.regs.ReadFrame(r)
	if err != nil {
		return nil, err
	}
	if f == nil || f.Thread != thread {
		return nil, jdwp.ErrInvalidFrameID
	}
	for _, live := range info.Frames {
		if live == f {
			return f, nil
		}
	}
	return nil, errors.Wrap(jdwp.ErrInvalidFrameID, "Frame is no longer on the stack")
}

// frameGetValues replies with the values of local variable slots, each
// requested with the tag of its type.
func (s *Session) frameGetValues(ctx context.Context, r binary.Reader, w binary.Writer) error {
	f, err := s.readFrame(r)
	if err != nil {
		return err
	}
	n := int(r.Int32())
	if err := argErr(r); err != nil {
		return err
	}
	values := []vm.Value{}
	for i := 0; i < n; i++ {
		slot, tag := int(r.Int32()), jdwp.Tag(r.Uint8())
		if err := argErr(r); err != nil {
			return err
		}
		if !tag.Valid() {
			return errors.Wrapf(jdwp.ErrInvalidTag, "Slot %d", slot)
		}
		v, ok := f.Local(slot)
		if !ok {
			return errors.Wrapf(jdwp.ErrInvalidSlot, "Slot %d", slot)
		}
		switch {
		case v.Tag == 0 && tag.IsObject():
			v = vm.Ref(nil)
		case v.Tag == 0:
			v = vm.Value{Tag: tag}
		case v.IsObject() != tag.IsObject(), !tag.IsObject() && v.Tag != tag:
			return errors.Wrapf(jdwp.ErrTypeMismatch, "Slot %d holds %v, not %v", slot, v.Tag, tag)
		}
		values = append(values, v)
	}
	w.Uint32(uint32(len(values)))
	for _, v := range values {
		s.regs.WriteValue(w, v)
	}
	return nil
}

// frameSetValues assigns local variable slots from tagged values.
func (s *Session) frameSetValues(ctx context.Context, r binary.Reader, w binary.Writer) error {
	f, err := s.readFrame(r)
	if err != nil {
		return err
	}
	n := int(r.Int32())
	if err := argErr(r); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		slot := int(r.Int32())
		v, err := s.regs.ReadValue(r)
		if err != nil {
			return err
		}
		if !f.SetLocal(slot, v) {
			return errors.Wrapf(jdwp.ErrInvalidSlot, "Slot %d", slot)
		}
	}
	return nil
}

func (s *Session) frameThisObject(ctx context.Context, r binary.Reader, w binary.Writer) error {
	f, err := s.readFrame(r)
	if err != nil {
		return err
	}
	s.regs.WriteTaggedObject(w, f.This())
	return nil
}
