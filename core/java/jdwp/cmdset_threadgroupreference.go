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

// GetThreadGroupName returns the name of the thread group.
func (c *Connection) GetThreadGroupName(id ThreadGroupID) (string, error) {
	var res string
	err := c.get(CmdThreadGroupReferenceName, id, &res)
	return res, err
}

// GetThreadGroupParent returns the parent of the thread group, or 0 for a top
// level group.
func (c *Connection) GetThreadGroupParent(id ThreadGroupID) (ThreadGroupID, error) {
	var res ThreadGroupID
	err := c.get(CmdThreadGroupReferenceParent, id, &res)
	return res, err
}

// ThreadGroupChildren holds the live threads and groups directly contained in
// a thread group.
type ThreadGroupChildren struct {
	Threads []ThreadID
	Groups  []ThreadGroupID
}

// GetThreadGroupChildren returns the direct children of the thread group.
func (c *Connection) GetThreadGroupChildren(id ThreadGroupID) (ThreadGroupChildren, error) {
	var res ThreadGroupChildren
	err := c.get(CmdThreadGroupReferenceChildren, id, &res)
	return res, err
}
