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

// classifiers are tested in order, the first match wins.
var classifiers = []struct {
	sig string
	tag jdwp.Tag
}{
	{vm.SigThread, jdwp.TagThread},
	{vm.SigString, jdwp.TagString},
	{vm.SigClass, jdwp.TagClassObject},
	{vm.SigThreadGroup, jdwp.TagThreadGroup},
	{vm.SigClassLoader, jdwp.TagClassLoader},
}

// Classify returns the tag of the object's category: array, thread, string,
// class object, thread group, class loader or plain object. Subclasses of the
// well-known classes take the tag of the class they extend.
func Classify(o *vm.Object) jdwp.Tag {
	if o == nil || o.Class == nil {
		return jdwp.TagObject
	}
	if o.Class.IsArray() {
		return jdwp.TagArray
	}
	for _, c := range classifiers {
		if o.Class.Is(c.sig) {
			return c.tag
		}
	}
	return jdwp.TagObject
}

// TypeTag returns the JDWP type tag of a reference type.
func TypeTag(c *vm.Class) jdwp.TypeTag {
	switch {
	case c.IsArray():
		return jdwp.Array
	case c.Kind == jdwp.Interface || c.Modifiers.Interface():
		return jdwp.Interface
	default:
		return jdwp.Class
	}
}
