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

// readType reads a reference type identifier that must not be null.
func (s *Session) readType(r binary.Reader) (*vm.Class, error) {
	c, err := s.regs.ReadType(r)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, jdwp.ErrInvalidClass
	}
	return c, nil
}

func (s *Session) typeSignature(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	w.String(c.Signature)
	return nil
}

func (s *Session) typeSignatureWithGeneric(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	w.String(c.Signature)
	w.String(c.Generic)
	return nil
}

func (s *Session) typeClassLoader(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	s.regs.WriteObject(w, c.Loader)
	return nil
}

func (s *Session) typeModifiers(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	w.Int32(int32(c.Modifiers))
	return nil
}

func (s *Session) writeFields(w binary.Writer, c *vm.Class, generic bool) {
	w.Uint32(uint32(len(c.Fields)))
	for _, f := range c.Fields {
		s.regs.WriteField(w, f)
		w.String(f.Name)
		w.String(f.Signature)
		if generic {
			w.String(f.Generic)
		}
		w.Int32(int32(f.Modifiers))
	}
}

func (s *Session) typeFields(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	s.writeFields(w, c, false)
	return nil
}

func (s *Session) typeFieldsWithGeneric(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	s.writeFields(w, c, true)
	return nil
}

func (s *Session) writeMethods(w binary.Writer, c *vm.Class, generic bool) {
	w.Uint32(uint32(len(c.Methods)))
	for _, m := range c.Methods {
		s.regs.WriteMethod(w, m)
		w.String(m.Name)
		w.String(m.Signature)
		if generic {
			w.String(m.Generic)
		}
		w.Int32(int32(m.Modifiers))
	}
}

func (s *Session) typeMethods(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	s.writeMethods(w, c, false)
	return nil
}

func (s *Session) typeMethodsWithGeneric(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	s.writeMethods(w, c, true)
	return nil
}

// readFields reads a counted list of field identifiers.
func (s *Session) readFields(r binary.Reader) ([]*vm.Field, error) {
	n := int(r.Int32())
	if err := argErr(r); err != nil {
		return nil, err
	}
	fields := []*vm.Field{}
	for i := 0; i < n; i++ {
		f, err := s.regs.ReadField(r)
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, jdwp.ErrInvalidFieldID
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// typeGetValues returns the values of static fields of the type or its
// supertypes.
func (s *Session) typeGetValues(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	fields, err := s.readFields(r)
	if err != nil {
		return err
	}
	values := make([]vm.Value, len(fields))
	for i, f := range fields {
		if !f.Modifiers.Static() || !c.IsAssignableTo(f.Class) {
			return errors.Wrapf(jdwp.ErrInvalidFieldID, "%v is not a static field of %v", f.Name, c.Name())
		}
		v, ok := f.Class.Static(f)
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

func (s *Session) typeSourceFile(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	if c.SourceFile == "" {
		return errors.Wrapf(jdwp.ErrAbsentInformation, "No source file for %v", c.Name())
	}
	w.String(c.SourceFile)
	return nil
}

func (s *Session) typeStatus(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	w.Int32(int32(c.Status))
	return nil
}

func (s *Session) typeInterfaces(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	w.Uint32(uint32(len(c.Interfaces)))
	for _, i := range c.Interfaces {
		s.regs.WriteType(w, i)
	}
	return nil
}

func (s *Session) typeClassObject(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	s.regs.WriteObject(w, c.Object)
	return nil
}

func (s *Session) classSuperclass(ctx context.Context, r binary.Reader, w binary.Writer) error {
	c, err := s.readType(r)
	if err != nil {
		return err
	}
	if c.Kind == jdwp.Interface {
		return errors.Wrapf(jdwp.ErrInvalidClass, "%v is an interface", c.Name())
	}
	s.regs.WriteType(w, c.Super)
	return nil
}

// readMethod reads a reference type and a method declared by it.
func (s *Session) readMethod(r binary.Reader) (*vm.Method, error) {
	c, err := s.readType(r)
	if err != nil {
		return nil, err
	}
	m, err := s.regs.ReadMethod(r)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Class != c {
		return nil, jdwp.ErrInvalidMethodID
	}
	return m, nil
}

func (s *Session) methodLineTable(ctx context.Context, r binary.Reader, w binary.Writer) error {
	m, err := s.readMethod(r)
	if err != nil {
		return err
	}
	if len(m.Lines) == 0 {
		return errors.Wrapf(jdwp.ErrAbsentInformation, "No line table for %v", m.Name)
	}
	w.Uint64(m.Start)
	w.Uint64(m.End)
	w.Uint32(uint32(len(m.Lines)))
	for _, l := range m.Lines {
		w.Uint64(l.Index)
		w.Int32(l.Line)
	}
	return nil
}

func (s *Session) writeVariables(w binary.Writer, m *vm.Method, generic bool) error {
	if len(m.Variables) == 0 {
		return errors.Wrapf(jdwp.ErrAbsentInformation, "No variable table for %v", m.Name)
	}
	w.Int32(int32(m.ArgSlots()))
	w.Uint32(uint32(len(m.Variables)))
	for _, v := range m.Variables {
		w.Uint64(v.Start)
		w.String(v.Name)
		w.String(v.Signature)
		if generic {
			w.String(v.Generic)
		}
		w.Uint32(v.Length)
		w.Int32(v.Slot)
	}
	return nil
}

func (s *Session) methodVariableTable(ctx context.Context, r binary.Reader, w binary.Writer) error {
	m, err := s.readMethod(r)
	if err != nil {
		return err
	}
	return s.writeVariables(w, m, false)
}

func (s *Session) methodVariableTableWithGeneric(ctx context.Context, r binary.Reader, w binary.Writer) error {
	m, err := s.readMethod(r)
	if err != nil {
		return err
	}
	return s.writeVariables(w, m, true)
}

// loaderVisibleClasses lists the classes defined by the loader. The null
// loader is the bootstrap loader.
func (s *Session) loaderVisibleClasses(ctx context.Context, r binary.Reader, w binary.Writer) error {
	loader, err := s.regs.ReadClassLoader(r)
	if err != nil {
		return err
	}
	visible := []*vm.Class{}
	for _, c := range s.rt.Classes() {
		if c.Loader == loader {
			visible = append(visible, c)
		}
	}
	w.Uint32(uint32(len(visible)))
	for _, c := range visible {
		s.regs.WriteTaggedType(w, c)
	}
	return nil
}

func (s *Session) classObjectReflectedType(ctx context.Context, r binary.Reader, w binary.Writer) error {
	o, err := s.regs.ReadClassObject(r)
	if err != nil {
		return err
	}
	if o == nil || o.Reflected == nil {
		return jdwp.ErrInvalidObject
	}
	s.regs.WriteTaggedType(w, o.Reflected)
	return nil
}
