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

package filter

import (
	"github.com/pkg/errors"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/ids"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
)

// Read decodes a filter record: a 1-byte modifier kind followed by the kind's
// fields. Identifiers are resolved through r, the step filter captures the
// stepping thread's position from rt.
func Read(rd binary.Reader, r *ids.Registries, rt vm.Runtime) (Filter, error) {
	mod := jdwp.ModKind(rd.Uint8())
	if err := rd.Error(); err != nil {
		return nil, errors.Wrap(err, "Reading modifier kind")
	}
	f, err := read(mod, rd, r, rt)
	if err != nil {
		return nil, err
	}
	if err := rd.Error(); err != nil {
		return nil, errors.Wrapf(err, "Reading %v modifier", mod)
	}
	return f, nil
}

func read(mod jdwp.ModKind, rd binary.Reader, r *ids.Registries, rt vm.Runtime) (Filter, error) {
	switch mod {
	case jdwp.ModCount:
		c, err := NewCount(rd.Int32())
		if err != nil {
			return nil, err
		}
		return c, nil

	case jdwp.ModConditional:
		return Conditional{ExprID: rd.Int32()}, nil

	case jdwp.ModThreadOnly:
		thread, err := r.ReadThread(rd)
		if err != nil {
			return nil, err
		}
		if thread == nil {
			return nil, jdwp.ErrInvalidThread
		}
		return ThreadOnly{Thread: r.Object(thread)}, nil

	case jdwp.ModClassOnly:
		class, err := r.ReadType(rd)
		if err != nil {
			return nil, err
		}
		if class == nil {
			return nil, jdwp.ErrInvalidClass
		}
		return ClassOnly{Type: r.Type(class)}, nil

	case jdwp.ModClassMatch:
		return ClassMatch{Pattern: rd.String()}, nil

	case jdwp.ModClassExclude:
		return ClassExclude{Pattern: rd.String()}, nil

	case jdwp.ModLocationOnly:
		loc, err := r.ReadLocation(rd)
		if err != nil {
			return nil, err
		}
		if loc.IsZero() {
			return nil, jdwp.ErrInvalidLocation
		}
		return LocationOnly{Method: r.Method(loc.Method), Index: loc.Index}, nil

	case jdwp.ModExceptionOnly:
		class, err := r.ReadType(rd)
		if err != nil {
			return nil, err
		}
		f := ExceptionOnly{Type: r.Type(class)}
		f.Caught = rd.Bool()
		f.Uncaught = rd.Bool()
		return f, nil

	case jdwp.ModFieldOnly:
		class, err := r.ReadType(rd)
		if err != nil {
			return nil, err
		}
		field, err := r.ReadField(rd)
		if err != nil {
			return nil, err
		}
		if field == nil {
			return nil, jdwp.ErrInvalidFieldID
		}
		return FieldOnly{Type: r.Type(class), Field: r.Field(field)}, nil

	case jdwp.ModStep:
		thread, err := r.ReadThread(rd)
		if err != nil {
			return nil, err
		}
		size := jdwp.StepSize(rd.Int32())
		depth := jdwp.StepDepth(rd.Int32())
		if err := rd.Error(); err != nil {
			return nil, err
		}
		s, err := NewStep(r, rt, thread, size, depth)
		if err != nil {
			return nil, err
		}
		return s, nil

	case jdwp.ModInstanceOnly:
		o, err := r.ReadObject(rd)
		if err != nil {
			return nil, err
		}
		return InstanceOnly{Object: r.Object(o)}, nil

	case jdwp.ModSourceNameMatch:
		return SourceNameMatch{Pattern: rd.String()}, nil

	default:
		return nil, errors.Wrapf(jdwp.ErrIllegalArgument, "Unknown modifier kind %v", mod)
	}
}
