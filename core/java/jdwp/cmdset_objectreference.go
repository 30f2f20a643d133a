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

// ObjectType describes a Java type.
type ObjectType struct {
	Kind TypeTag
	Type ReferenceTypeID
}

// GetObjectType returns the type of the specified object.
func (c *Connection) GetObjectType(object ObjectID) (ObjectType, error) {
	var res ObjectType
	err := c.get(CmdObjectReferenceReferenceType, object, &res)
	return res, err
}

// GetFieldValues returns the values of all the instance fields.
func (c *Connection) GetFieldValues(obj ObjectID, fields ...FieldID) ([]Value, error) {
	var res []Value
	err := c.get(CmdObjectReferenceGetValues, struct {
		Obj    ObjectID
		Fields []FieldID
	}{obj, fields}, &res)
	return res, err
}

// FieldValue is a field and the value to assign to it. Value is encoded
// without a tag, so it must be the Go type matching the field's signature.
type FieldValue struct {
	Field FieldID
	Value interface{}
}

// SetFieldValues assigns the instance fields of obj.
func (c *Connection) SetFieldValues(obj ObjectID, values ...FieldValue) error {
	return c.get(CmdObjectReferenceSetValues, struct {
		Obj    ObjectID
		Values []FieldValue
	}{obj, values}, nil)
}

// DisableGC disables garbage collection for the specified object.
func (c *Connection) DisableGC(object ObjectID) error {
	return c.get(CmdObjectReferenceDisableCollection, object, nil)
}

// EnableGC enables garbage collection for the specified object.
func (c *Connection) EnableGC(object ObjectID) error {
	return c.get(CmdObjectReferenceEnableCollection, object, nil)
}

// IsCollected returns true if the object has been garbage collected.
func (c *Connection) IsCollected(object ObjectID) (bool, error) {
	var res bool
	err := c.get(CmdObjectReferenceIsCollected, object, &res)
	return res, err
}
