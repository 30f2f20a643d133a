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
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/ids"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
)

// Step passes the single step events of one thread that complete a step of
// the requested size and depth, relative to the position of the thread when
// the filter was created.
type Step struct {
	Thread *ids.ObjectID
	Size   jdwp.StepSize
	Depth  jdwp.StepDepth

	depth  int
	method *vm.Method
	index  uint64
	line   int32
}

// NewStep returns a Step filter for thread, capturing the thread's current
// stack depth and position from rt.
func NewStep(r *ids.Registries, rt vm.Runtime, thread *vm.Object, size jdwp.StepSize, depth jdwp.StepDepth) (*Step, error) {
	if thread == nil {
		return nil, jdwp.ErrInvalidThread
	}
	if size != jdwp.StepMin && size != jdwp.StepLine {
		return nil, errors.Wrapf(jdwp.ErrIllegalArgument, "Step size %v", size)
	}
	if depth != jdwp.StepInto && depth != jdwp.StepOver && depth != jdwp.StepOut {
		return nil, errors.Wrapf(jdwp.ErrIllegalArgument, "Step depth %v", depth)
	}
	info, err := rt.ThreadInfo(thread)
	if err != nil {
		return nil, err
	}
	s := &Step{Thread: r.Object(thread), Size: size, Depth: depth, depth: len(info.Frames), line: -1}
	if len(info.Frames) > 0 {
		loc := info.Frames[0].Location()
		s.method, s.index, s.line = loc.Method, loc.Index, loc.Line()
	}
	return s, nil
}

func (s *Step) Matches(e event.Event) bool {
	step, ok := e.(event.SingleStep)
	if !ok {
		return false
	}
	thread, err := s.Thread.Get()
	if err != nil || thread == nil || step.Thread != thread {
		return false
	}
	switch s.Depth {
	case jdwp.StepOver:
		if step.Depth > s.depth {
			return false
		}
	case jdwp.StepOut:
		if step.Depth >= s.depth {
			return false
		}
	}
	if s.Size == jdwp.StepMin || step.Depth != s.depth {
		return true
	}
	loc := step.Location
	if loc.Method != s.method {
		return true
	}
	if s.line < 0 {
		return loc.Index != s.index
	}
	return loc.Line() != s.line
}
