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

// ReflectedType returns the reference type of the java.lang.Class object.
func (c *Connection) ReflectedType(class ClassObjectID) (ReferenceTypeID, error) {
	var res struct {
		Kind TypeTag
		ID   ReferenceTypeID
	}
	err := c.get(CmdClassObjectReferenceReflectedType, class, &res)
	return res.ID, err
}
