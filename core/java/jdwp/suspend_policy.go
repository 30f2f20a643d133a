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

import "fmt"

// SuspendPolicy describes what threads are suspended when an event is raised.
// Policies are ordered by restrictiveness, SuspendAll being the most
// restrictive.
type SuspendPolicy uint8

const (
	// SuspendNone suspends no threads.
	SuspendNone = SuspendPolicy(0)
	// SuspendEventThread suspends the thread that raised the event.
	SuspendEventThread = SuspendPolicy(1)
	// SuspendAll suspends every thread.
	SuspendAll = SuspendPolicy(2)
)

func (p SuspendPolicy) String() string {
	switch p {
	case SuspendNone:
		return "SuspendNone"
	case SuspendEventThread:
		return "SuspendEventThread"
	case SuspendAll:
		return "SuspendAll"
	default:
		return fmt.Sprintf("SuspendPolicy<%d>", int(p))
	}
}

// Valid returns true if p is a policy defined by the protocol.
func (p SuspendPolicy) Valid() bool { return p <= SuspendAll }

// Max returns the more restrictive of p and o.
func (p SuspendPolicy) Max(o SuspendPolicy) SuspendPolicy {
	if o > p {
		return o
	}
	return p
}
