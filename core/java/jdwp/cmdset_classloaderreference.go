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

// VisibleClass is a reference type visible through a class loader.
type VisibleClass struct {
	Kind   TypeTag
	TypeID ReferenceTypeID
}

// GetVisibleClasses returns the classes for which the loader is an initiating
// loader.
func (c *Connection) GetVisibleClasses(loader ClassLoaderID) ([]VisibleClass, error) {
	var res []VisibleClass
	err := c.get(CmdClassLoaderReferenceVisibleClasses, loader, &res)
	return res, err
}
