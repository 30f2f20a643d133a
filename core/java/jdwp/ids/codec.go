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

package ids

import (
	"github.com/pkg/errors"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
)

func readID(r binary.Reader) (uint64, error) {
	id := r.Uint64()
	if err := r.Error(); err != nil {
		return 0, errors.Wrap(err, "Reading identifier")
	}
	return id, nil
}

// ReadObject reads an object identifier of any category and returns the
// object. The null identifier returns nil.
func (r *Registries) ReadObject(rd binary.Reader) (*vm.Object, error) {
	id, err := readID(rd)
	if err != nil {
		return nil, err
	}
	return r.Objects.Resolve(id)
}

// readTagged reads an object identifier that must be of the category tag,
// failing with invalid otherwise.
func (r *Registries) readTagged(rd binary.Reader, tag jdwp.Tag, invalid jdwp.Error) (*vm.Object, error) {
	id, err := readID(rd)
	if err != nil {
		return nil, err
	}
	i, err := r.Objects.Lookup(id)
	switch {
	case err == jdwp.ErrInvalidObject:
		return nil, invalid
	case err != nil:
		return nil, err
	case i.IsNull():
		return nil, nil
	case i.Tag() != tag:
		return nil, invalid
	}
	return i.Get()
}

// ReadThread reads a thread identifier.
func (r *Registries) ReadThread(rd binary.Reader) (*vm.Object, error) {
	return r.readTagged(rd, jdwp.TagThread, jdwp.ErrInvalidThread)
}

// ReadThreadGroup reads a thread group identifier.
func (r *Registries) ReadThreadGroup(rd binary.Reader) (*vm.Object, error) {
	return r.readTagged(rd, jdwp.TagThreadGroup, jdwp.ErrInvalidThreadGroup)
}

// ReadString reads a string identifier.
func (r *Registries) ReadString(rd binary.Reader) (*vm.Object, error) {
	return r.readTagged(rd, jdwp.TagString, jdwp.ErrInvalidString)
}

// ReadArray reads an array identifier.
func (r *Registries) ReadArray(rd binary.Reader) (*vm.Object, error) {
	return r.readTagged(rd, jdwp.TagArray, jdwp.ErrInvalidArray)
}

// ReadClassLoader reads a class loader identifier. The null identifier is the
// bootstrap loader.
func (r *Registries) ReadClassLoader(rd binary.Reader) (*vm.Object, error) {
	return r.readTagged(rd, jdwp.TagClassLoader, jdwp.ErrInvalidClassLoader)
}

// ReadClassObject reads the identifier of a java.lang.Class instance.
func (r *Registries) ReadClassObject(rd binary.Reader) (*vm.Object, error) {
	return r.readTagged(rd, jdwp.TagClassObject, jdwp.ErrInvalidObject)
}

// ReadType reads a reference type identifier.
func (r *Registries) ReadType(rd binary.Reader) (*vm.Class, error) {
	id, err := readID(rd)
	if err != nil {
		return nil, err
	}
	return r.Types.Resolve(id)
}

// ReadField reads a field identifier.
func (r *Registries) ReadField(rd binary.Reader) (*vm.Field, error) {
	id, err := readID(rd)
	if err != nil {
		return nil, err
	}
	return r.Fields.Resolve(id)
}

// ReadMethod reads a method identifier.
func (r *Registries) ReadMethod(rd binary.Reader) (*vm.Method, error) {
	id, err := readID(rd)
	if err != nil {
		return nil, err
	}
	return r.Methods.Resolve(id)
}

// ReadFrame reads a frame identifier.
func (r *Registries) ReadFrame(rd binary.Reader) (*vm.Frame, error) {
	id, err := readID(rd)
	if err != nil {
		return nil, err
	}
	return r.Frames.Resolve(id)
}

// ReadLocation reads a code location. A location naming neither class nor
// method is the zero location.
func (r *Registries) ReadLocation(rd binary.Reader) (vm.Location, error) {
	rd.Uint8() // type tag, implied by the class.
	class, err := r.ReadType(rd)
	if err != nil {
		return vm.Location{}, err
	}
	method, err := r.ReadMethod(rd)
	if err != nil {
		return vm.Location{}, err
	}
	index := rd.Uint64()
	if err := rd.Error(); err != nil {
		return vm.Location{}, errors.Wrap(err, "Reading location")
	}
	if class == nil && method == nil {
		return vm.Location{}, nil
	}
	if class == nil || method == nil || method.Class != class {
		return vm.Location{}, jdwp.ErrInvalidLocation
	}
	if index < method.Start || index > method.End {
		return vm.Location{}, jdwp.ErrInvalidLocation
	}
	return vm.Location{Class: class, Method: method, Index: index}, nil
}

// ReadValue reads a tagged value.
func (r *Registries) ReadValue(rd binary.Reader) (vm.Value, error) {
	tag := jdwp.Tag(rd.Uint8())
	if err := rd.Error(); err != nil {
		return vm.Value{}, errors.Wrap(err, "Reading value tag")
	}
	return r.ReadUntaggedValue(rd, tag)
}

// ReadUntaggedValue reads a value of the type tag.
func (r *Registries) ReadUntaggedValue(rd binary.Reader, tag jdwp.Tag) (vm.Value, error) {
	if !tag.Valid() {
		return vm.Value{}, jdwp.ErrInvalidTag
	}
	if tag.IsObject() {
		o, err := r.ReadObject(rd)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.Ref(o), nil
	}
	v := vm.Value{Tag: tag}
	switch tag.Size() {
	case 1:
		v.Bits = uint64(rd.Uint8())
	case 2:
		v.Bits = uint64(rd.Uint16())
	case 4:
		v.Bits = uint64(rd.Uint32())
	case 8:
		v.Bits = rd.Uint64()
	}
	if err := rd.Error(); err != nil {
		return vm.Value{}, errors.Wrapf(err, "Reading %v value", tag)
	}
	return v, nil
}

// WriteObject writes the identifier of o.
func (r *Registries) WriteObject(w binary.Writer, o *vm.Object) {
	w.Uint64(r.Object(o).ID())
}

// WriteTaggedObject writes the category tag and identifier of o.
func (r *Registries) WriteTaggedObject(w binary.Writer, o *vm.Object) {
	i := r.Object(o)
	if i.IsNull() {
		w.Uint8(uint8(jdwp.TagObject))
	} else {
		w.Uint8(uint8(i.Tag()))
	}
	w.Uint64(i.ID())
}

// WriteType writes the identifier of c.
func (r *Registries) WriteType(w binary.Writer, c *vm.Class) {
	w.Uint64(r.Type(c).ID())
}

// WriteTaggedType writes the type tag and identifier of c.
func (r *Registries) WriteTaggedType(w binary.Writer, c *vm.Class) {
	w.Uint8(uint8(TypeTag(c)))
	w.Uint64(r.Type(c).ID())
}

// WriteField writes the identifier of f.
func (r *Registries) WriteField(w binary.Writer, f *vm.Field) {
	w.Uint64(r.Field(f).ID())
}

// WriteMethod writes the identifier of m.
func (r *Registries) WriteMethod(w binary.Writer, m *vm.Method) {
	w.Uint64(r.Method(m).ID())
}

// WriteFrame writes the identifier of f.
func (r *Registries) WriteFrame(w binary.Writer, f *vm.Frame) {
	w.Uint64(r.Frame(f).ID())
}

// WriteLocation writes a code location. The zero location is written as
// zeros.
func (r *Registries) WriteLocation(w binary.Writer, l vm.Location) {
	if l.IsZero() {
		w.Uint8(0)
		w.Uint64(0)
		w.Uint64(0)
		w.Uint64(0)
		return
	}
	class := l.Class
	if class == nil {
		class = l.Method.Class
	}
	r.WriteTaggedType(w, class)
	r.WriteMethod(w, l.Method)
	w.Uint64(l.Index)
}

// WriteValue writes a tagged value. References are tagged with the category
// of the object.
func (r *Registries) WriteValue(w binary.Writer, v vm.Value) {
	if v.IsObject() {
		r.WriteTaggedObject(w, v.Object)
		return
	}
	w.Uint8(uint8(v.Tag))
	r.WriteUntaggedValue(w, v)
}

// WriteUntaggedValue writes a value without its tag.
func (r *Registries) WriteUntaggedValue(w binary.Writer, v vm.Value) {
	if v.IsObject() {
		r.WriteObject(w, v.Object)
		return
	}
	switch v.Tag.Size() {
	case 0:
	case 1:
		w.Uint8(uint8(v.Bits))
	case 2:
		w.Uint16(uint16(v.Bits))
	case 4:
		w.Uint32(uint32(v.Bits))
	default:
		w.Uint64(v.Bits)
	}
}
