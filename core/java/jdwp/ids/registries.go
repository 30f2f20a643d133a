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
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
)

type (
	// ObjectID is the identifier of a heap object. Its tag is the object's
	// category as computed by Classify.
	ObjectID = Identifier[vm.Object]
	// TypeID is the identifier of a reference type.
	TypeID = Identifier[vm.Class]
	// FieldID is the identifier of a field.
	FieldID = Identifier[vm.Field]
	// MethodID is the identifier of a method.
	MethodID = Identifier[vm.Method]
	// FrameID is the identifier of a stack frame.
	FrameID = Identifier[vm.Frame]
)

// Registries holds the identifier registries of one debugging session.
type Registries struct {
	Objects *Registry[vm.Object]
	Types   *Registry[vm.Class]
	Fields  *Registry[vm.Field]
	Methods *Registry[vm.Method]
	Frames  *Registry[vm.Frame]
}

// New returns the empty registries of a new session.
func New() *Registries {
	return &Registries{
		Objects: NewRegistry(Config[vm.Object]{
			Name:      "Object",
			Invalid:   jdwp.ErrInvalidObject,
			Tag:       Classify,
			Collected: objectCollected,
		}),
		Types: NewRegistry(Config[vm.Class]{
			Name:    "ReferenceType",
			Invalid: jdwp.ErrInvalidClass,
		}),
		Fields: NewRegistry(Config[vm.Field]{
			Name:    "Field",
			Invalid: jdwp.ErrInvalidFieldID,
		}),
		Methods: NewRegistry(Config[vm.Method]{
			Name:    "Method",
			Invalid: jdwp.ErrInvalidMethodID,
		}),
		Frames: NewRegistry(Config[vm.Frame]{
			Name:    "Frame",
			Invalid: jdwp.ErrInvalidFrameID,
		}),
	}
}

// objectCollected is the collected policy of object identifiers. A collected
// class loader reads as the bootstrap loader.
func objectCollected(tag jdwp.Tag) error {
	switch tag {
	case jdwp.TagThread:
		return jdwp.ErrInvalidThread
	case jdwp.TagClassLoader:
		return nil
	default:
		return jdwp.ErrInvalidObject
	}
}

// Release drops every pin held by the session.
func (r *Registries) Release() {
	r.Objects.Release()
}

// Object returns the identifier of o.
func (r *Registries) Object(o *vm.Object) *ObjectID { return r.Objects.GetOrCreate(o) }

// Type returns the identifier of c.
func (r *Registries) Type(c *vm.Class) *TypeID { return r.Types.GetOrCreate(c) }

// Field returns the identifier of f.
func (r *Registries) Field(f *vm.Field) *FieldID { return r.Fields.GetOrCreate(f) }

// Method returns the identifier of m.
func (r *Registries) Method(m *vm.Method) *MethodID { return r.Methods.GetOrCreate(m) }

// Frame returns the identifier of f.
func (r *Registries) Frame(f *vm.Frame) *FrameID { return r.Frames.GetOrCreate(f) }
