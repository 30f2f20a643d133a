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

package vm

import (
	"sync"

	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
)

// Class is a loaded reference type: a class, an interface or an array type.
type Class struct {
	Signature  string
	Generic    string
	Kind       jdwp.TypeTag
	Modifiers  jdwp.ModBits
	Super      *Class
	Interfaces []*Class
	// Component is the element type of an array type.
	Component *Class
	// Loader is the defining class loader, nil for the bootstrap loader.
	Loader     *Object
	SourceFile string
	Status     jdwp.ClassStatus
	Fields     []*Field
	Methods    []*Method
	// Object is the java.lang.Class instance of the type.
	Object *Object

	mu      sync.Mutex
	statics map[*Field]Value
}

// Name returns the class name in the dotted form used by class patterns, such
// as java.lang.String or int[].
func (c *Class) Name() string { return Name(c.Signature) }

// IsArray returns true for array types.
func (c *Class) IsArray() bool {
	return c.Kind == jdwp.Array || (len(c.Signature) > 0 && c.Signature[0] == '[')
}

// ComponentSignature returns the signature of the elements of an array type.
func (c *Class) ComponentSignature() string {
	if len(c.Signature) > 1 && c.Signature[0] == '[' {
		return c.Signature[1:]
	}
	return ""
}

// Is returns true if c is the type with the given signature, or a subtype of
// it.
func (c *Class) Is(signature string) bool {
	if c == nil {
		return false
	}
	if c.Signature == signature {
		return true
	}
	if c.IsArray() {
		return signature == SigObject
	}
	if c.Super.Is(signature) {
		return true
	}
	for _, i := range c.Interfaces {
		if i.Is(signature) {
			return true
		}
	}
	return false
}

// IsAssignableTo returns true if a value of type c can be assigned to a
// variable of type o.
func (c *Class) IsAssignableTo(o *Class) bool {
	if c == nil || o == nil {
		return false
	}
	if c == o {
		return true
	}
	if c.IsArray() && o.IsArray() {
		if c.Component != nil && o.Component != nil {
			return c.Component.IsAssignableTo(o.Component)
		}
		return c.Signature == o.Signature
	}
	return c.Is(o.Signature)
}

// Field returns the field declared by c with the given name, or nil.
func (c *Class) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Method returns the method declared by c with the given name and signature,
// or nil.
func (c *Class) Method(name, signature string) *Method {
	for _, m := range c.Methods {
		if m.Name == name && m.Signature == signature {
			return m
		}
	}
	return nil
}

// Static returns the value of the static field f.
func (c *Class) Static(f *Field) (Value, bool) {
	if f.Class != c || !f.Modifiers.Static() {
		return Value{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.statics[f]; ok {
		return v, true
	}
	return Zero(f.Signature), true
}

// SetStatic assigns the static field f.
func (c *Class) SetStatic(f *Field, v Value) bool {
	if f.Class != c || !f.Modifiers.Static() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statics == nil {
		c.statics = map[*Field]Value{}
	}
	c.statics[f] = v
	return true
}
