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

package agent

import (
	"context"

	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/event/filter"
)

// eventRequestSet registers an event request and replies with its id.
func (s *Session) eventRequestSet(ctx context.Context, r binary.Reader, w binary.Writer) error {
	kind := jdwp.EventKind(r.Uint8())
	policy := jdwp.SuspendPolicy(r.Uint8())
	n := int(r.Int32())
	if err := argErr(r); err != nil {
		return err
	}
	filters := []filter.Filter{}
	for i := 0; i < n; i++ {
		f, err := filter.Read(r, s.regs, s.rt)
		if err != nil {
			return err
		}
		filters = append(filters, f)
	}
	req, err := s.engine.Register(ctx, kind, policy, filters)
	if err != nil {
		return err
	}
	w.Int32(req.ID)
	return nil
}

func (s *Session) eventRequestClear(ctx context.Context, r binary.Reader, w binary.Writer) error {
	kind := jdwp.EventKind(r.Uint8())
	id := r.Int32()
	if err := argErr(r); err != nil {
		return err
	}
	s.engine.Clear(ctx, kind, id)
	return nil
}

func (s *Session) eventRequestClearAllBreakpoints(ctx context.Context, r binary.Reader, w binary.Writer) error {
	s.engine.ClearAllBreakpoints(ctx)
	return nil
}
