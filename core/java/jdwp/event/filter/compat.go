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

	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
)

// kinds is a set of event kinds.
type kinds map[jdwp.EventKind]bool

func only(k ...jdwp.EventKind) kinds {
	out := kinds{}
	for _, k := range k {
		out[k] = true
	}
	return out
}

func except(k ...jdwp.EventKind) kinds {
	out := kinds{}
	for _, e := range []jdwp.EventKind{
		jdwp.SingleStep, jdwp.Breakpoint, jdwp.Exception, jdwp.ThreadStart,
		jdwp.ThreadDeath, jdwp.ClassPrepare, jdwp.ClassUnload, jdwp.FieldAccess,
		jdwp.FieldModification, jdwp.MethodEntry, jdwp.MethodExit,
		jdwp.MethodExitWithReturnValue, jdwp.MonitorContendedEnter,
		jdwp.MonitorContendedEntered, jdwp.MonitorWait, jdwp.MonitorWaited,
		jdwp.VMStart, jdwp.VMDeath,
	} {
		out[e] = true
	}
	for _, k := range k {
		delete(out, k)
	}
	return out
}

// compatible lists the event kinds each modifier kind may be attached to.
var compatible = map[jdwp.ModKind]kinds{
	jdwp.ModCount:       except(),
	jdwp.ModConditional: except(),
	jdwp.ModThreadOnly:  except(jdwp.ClassUnload, jdwp.VMStart, jdwp.VMDeath),
	jdwp.ModClassOnly: except(jdwp.ClassUnload, jdwp.ThreadStart, jdwp.ThreadDeath,
		jdwp.VMStart, jdwp.VMDeath),
	jdwp.ModClassMatch:   except(jdwp.ThreadStart, jdwp.ThreadDeath, jdwp.VMStart, jdwp.VMDeath),
	jdwp.ModClassExclude: except(jdwp.ThreadStart, jdwp.ThreadDeath, jdwp.VMStart, jdwp.VMDeath),
	jdwp.ModLocationOnly: only(jdwp.Breakpoint, jdwp.FieldAccess, jdwp.FieldModification,
		jdwp.SingleStep, jdwp.Exception),
	jdwp.ModExceptionOnly: only(jdwp.Exception),
	jdwp.ModFieldOnly:     only(jdwp.FieldAccess, jdwp.FieldModification),
	jdwp.ModStep:          only(jdwp.SingleStep),
	jdwp.ModInstanceOnly: except(jdwp.ClassPrepare, jdwp.ClassUnload, jdwp.ThreadStart,
		jdwp.ThreadDeath, jdwp.VMStart, jdwp.VMDeath),
	jdwp.ModSourceNameMatch: only(jdwp.ClassPrepare),
}

// Compatible returns true if a filter of kind mod may restrict events of
// kind.
func Compatible(mod jdwp.ModKind, kind jdwp.EventKind) bool {
	return compatible[mod][kind]
}

// Validate checks that every filter can be attached to a request for events
// of kind. The first incompatible filter fails with IllegalArgument.
// Conditional filters fail with NotImplemented.
func Validate(kind jdwp.EventKind, filters []Filter) error {
	for i, f := range filters {
		if !Compatible(f.Kind(), kind) {
			return errors.Wrapf(jdwp.ErrIllegalArgument, "Filter %d (%v) cannot restrict %v events", i, f.Kind(), kind)
		}
		if f.Kind() == jdwp.ModConditional {
			return errors.Wrap(jdwp.ErrNotImplemented, "Conditional filter")
		}
	}
	return nil
}
