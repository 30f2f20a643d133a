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

// GetThreadName returns the name of the thread.
func (c *Connection) GetThreadName(id ThreadID) (string, error) {
	var res string
	err := c.get(CmdThreadReferenceName, id, &res)
	return res, err
}

// Suspend suspends the specified thread.
func (c *Connection) Suspend(id ThreadID) error {
	return c.get(CmdThreadReferenceSuspend, id, nil)
}

// Resume resumes the specified thread.
func (c *Connection) Resume(id ThreadID) error {
	return c.get(CmdThreadReferenceResume, id, nil)
}

// ThreadStatusInfo is the reply of ThreadReference.Status.
type ThreadStatusInfo struct {
	Status        ThreadStatus
	SuspendStatus SuspendStatus
}

// Suspended returns true if the thread was suspended.
func (s ThreadStatusInfo) Suspended() bool {
	return s.SuspendStatus&SuspendStatusSuspended != 0
}

// GetThreadStatus returns the execution and suspension state of the thread.
func (c *Connection) GetThreadStatus(id ThreadID) (ThreadStatusInfo, error) {
	var res ThreadStatusInfo
	err := c.get(CmdThreadReferenceStatus, id, &res)
	return res, err
}

// GetThreadGroup returns the thread group of the thread.
func (c *Connection) GetThreadGroup(id ThreadID) (ThreadGroupID, error) {
	var res ThreadGroupID
	err := c.get(CmdThreadReferenceThreadGroup, id, &res)
	return res, err
}

// FrameInfo describes a single stack frame.
type FrameInfo struct {
	Frame    FrameID
	Location Location
}

// GetFrames returns a number of stack frames. A count of -1 returns all the
// frames from start.
func (c *Connection) GetFrames(thread ThreadID, start, count int) ([]FrameInfo, error) {
	req := struct {
		Thread       ThreadID
		Start, Count int
	}{thread, start, count}
	var res []FrameInfo
	err := c.get(CmdThreadReferenceFrames, req, &res)
	return res, err
}

// GetFrameCount returns the number of frames on the thread's stack.
func (c *Connection) GetFrameCount(thread ThreadID) (int, error) {
	var res int
	err := c.get(CmdThreadReferenceFrameCount, thread, &res)
	return res, err
}

// GetSuspendCount returns the number of outstanding suspends of the thread.
func (c *Connection) GetSuspendCount(thread ThreadID) (int, error) {
	var res int
	err := c.get(CmdThreadReferenceSuspendCount, thread, &res)
	return res, err
}
