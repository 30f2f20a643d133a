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

// readObject reads an object identifier that must not be null.
func (s *Session) readObject(r binary.Reader) (*vm.Object, error) {
	o, err := s.regs.ReadObject(r)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, jdwp.ErrInvalidObject
	}
	return o, nil
}

func (s *Session) objectReferenceType(ctx context.Context, r binary.Reader, w binary.Writer) error {
	o, err := s.readObject(r)
	if err != nil {
		return err
	}
	s.regs.WriteTaggedType(w, o.Class)
	return nil
}

// instanceField checks that f is an instance field of o.
func instanceField(o *vm.Object, f *vm.Field) error {
	if f.Modifiers.Static() || !o.Class.IsAssignableTo(f.Class) {
		return errors.Wrapf(jdwp.ErrInvalidFieldID, "%v is not an instance field of %v", f.Name, o.Class.Name())
	}
	return nil
}

func (s *Session) objectGetValues(ctx context.Context, r binary.Reader, w binary.Writer) error {
	o, err := s.readObject(r)
	if err != nil {
		return err
	}
	fields, err := s.readFields(r)
	if err != nil {
		return err
	}
	values := make([]vm.Value, len(fields))
	for i, f := range fields {
		if err := instanceField(o, f); err != nil {
			return err
		}
		v, ok := o.Field(f)
		if !ok {
			v = vm.Zero(f.Signature)
		}
		values[i] = v
	}
	w.Uint32(uint32(len(values)))
	for _, v := range values {
		s.regs.WriteValue(w, v)
	}
	return nil
}

// objectSetValues assigns instance fields. Values are untagged, their type
// given by the field. Nothing is assigned unless every value is valid.
func (s *Session) objectSetValues(ctx context.Context, r binary.Reader, w binary.Writer) error {
	o, err := s.readObject(r)
	if err != nil {
		return err
	}
	n := int(r.Int32())
	if err := argErr(r); err != nil {
		return err
	}
	type assignment struct {
		field *vm.Field
		value vm.Value
	}
	list := []assignment{}
	for i := 0; i < n; i++ {
		f, err := s.regs.ReadField(r)
		if err != nil {
			return err
		}
		if f == nil {
			return jdwp.ErrInvalidFieldID
		}
		if err := instanceField(o, f); err != nil {
			return err
		}
		v, err := s.regs.ReadUntaggedValue(r, jdwp.TagOf(f.Signature))
		if err != nil {
			return err
		}
		if !v.AssignableTo(f.Signature) {
			return errors.Wrapf(jdwp.ErrTypeMismatch, "Assigning %v to %v", v, f.Name)
		}
		list = append(list, assignment{f, v})
	}
	for _, a := range list {
		o.SetField(a.field, a.value)
	}
	return nil
}

func (s *Session) readObjectID(r binary.Reader) (uint64, error) {
	id := r.Uint64()
	if err := argErr(r); err != nil {
		return 0, err
	}
	return id, nil
}

// objectDisableCollection pins the object until collection is enabled again.
func (s *Session) objectDisableCollection(ctx context.Context, r binary.Reader, w binary.Writer) error {
	id, err := s.readObjectID(r)
	if err != nil {
		return err
	}
	return s.regs.Objects.Pin(id)
}

func (s *Session) objectEnableCollection(ctx context.Context, r binary.Reader, w binary.Writer) error {
	id, err := s.readObjectID(r)
	if err != nil {
		return err
	}
	if _, err := s.regs.Objects.IsCollected(id); err != nil {
		return err
	}
	s.regs.Objects.Unpin(id, 1)
	return nil
}

func (s *Session) objectIsCollected(ctx context.Context, r binary.Reader, w binary.Writer) error {
	id, err := s.readObjectID(r)
	if err != nil {
		return err
	}
	collected, err := s.regs.Objects.IsCollected(id)
	if err != nil {
		return err
	}
	w.Bool(collected)
	return nil
}

func (s *Session) stringValue(ctx context.Context, r binary.Reader, w binary.Writer) error {
	o, err := s.regs.ReadString(r)
	if err != nil {
		return err
	}
	if o == nil {
		return jdwp.ErrInvalidString
	}
	w.String(o.String())
	return nil
}

// readArray reads an array identifier that must not be null.
func (s *Session) readArray(r binary.Reader) (*vm.Object, error) {
	a, err := s.regs.ReadArray(r)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, jdwp.ErrInvalidArray
	}
	return a, nil
}

func (s *Session) arrayLength(ctx context.Context, r binary.Reader, w binary.Writer) error {
	a, err := s.readArray(r)
	if err != nil {
		return err
	}
	w.Int32(int32(a.Len()))
	return nil
}

// readRegion reads the first index and length of a region of a, checking it
// lies within the array.
func readRegion(r binary.Reader, a *vm.Object) (first, length int, err error) {
	first, length = int(r.Int32()), int(r.Int32())
	if err := argErr(r); err != nil {
		return 0, 0, err
	}
	switch {
	case first < 0 || first > a.Len():
		return 0, 0, errors.Wrapf(jdwp.ErrInvalidIndex, "Index %d of array of length %d", first, a.Len())
	case length < 0 || first+length > a.Len():
		return 0, 0, errors.Wrapf(jdwp.ErrInvalidLength, "%d elements from %d of array of length %d", length, first, a.Len())
	}
	return first, length, nil
}

// arrayGetValues replies with an array region: the component tag, the count
// and the elements, tagged only if the component type is a reference type.
func (s *Session) arrayGetValues(ctx context.Context, r binary.Reader, w binary.Writer) error {
	a, err := s.readArray(r)
	if err != nil {
		return err
	}
	first, length, err := readRegion(r, a)
	if err != nil {
		return err
	}
	sig := a.Class.ComponentSignature()
	tag := jdwp.TagOf(sig)
	values, _ := a.Elements(first, length)
	w.Uint8(uint8(tag))
	w.Uint32(uint32(len(values)))
	for _, v := range values {
		if v.Tag == 0 {
			v = vm.Zero(sig)
		}
		if tag.IsObject() {
			s.regs.WriteValue(w, v)
		} else {
			s.regs.WriteUntaggedValue(w, v)
		}
	}
	return nil
}

// arraySetValues assigns a region of the array from untagged values.
// Nothing is assigned unless every value is valid.
func (s *Session) arraySetValues(ctx context.Context, r binary.Reader, w binary.Writer) error {
	a, err := s.readArray(r)
	if err != nil {
		return err
	}
	first, length, err := readRegion(r, a)
	if err != nil {
		return err
	}
	sig := a.Class.ComponentSignature()
	tag := jdwp.TagOf(sig)
	values := make([]vm.Value, length)
	for i := range values {
		v, err := s.regs.ReadUntaggedValue(r, tag)
		if err != nil {
			return err
		}
		if !v.AssignableTo(sig) {
			return errors.Wrapf(jdwp.ErrTypeMismatch, "Storing %v in %v", v, a.Class.Name())
		}
		values[i] = v
	}
	a.SetElements(first, values)
	return nil
}
