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

import "strings"

// Pattern is a class or source name pattern. It is either an exact name, or
// a name with a single '*' at its start or its end. "*" alone matches every
// name.
type Pattern string

// Matches returns true if name matches the pattern.
func (p Pattern) Matches(name string) bool {
	s := string(p)
	switch {
	case s == "*":
		return true
	case strings.HasPrefix(s, "*"):
		return strings.HasSuffix(name, s[1:])
	case strings.HasSuffix(s, "*"):
		return strings.HasPrefix(name, s[:len(s)-1])
	default:
		return name == s
	}
}
