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

package vm

import (
	"fmt"
	"strings"
)

var primitiveNames = map[byte]string{
	'V': "void",
	'Z': "boolean",
	'B': "byte",
	'C': "char",
	'S': "short",
	'I': "int",
	'J': "long",
	'F': "float",
	'D': "double",
}

// Name returns the source form of the type signature sig.
// For example "Ljava/lang/String;" is returned as "java.lang.String" and "[I"
// is returned as "int[]".
func Name(sig string) string {
	dims := 0
	for dims < len(sig) && sig[dims] == '[' {
		dims++
	}
	el := sig[dims:]
	name := el
	switch {
	case len(el) == 1:
		if n, ok := primitiveNames[el[0]]; ok {
			name = n
		}
	case len(el) > 2 && el[0] == 'L' && el[len(el)-1] == ';':
		name = strings.ReplaceAll(el[1:len(el)-1], "/", ".")
	}
	return name + strings.Repeat("[]", dims)
}

// parseSignature returns the length of the single type signature starting at
// offset.
func parseSignature(sig string, offset int) (int, error) {
	if offset >= len(sig) {
		return 0, fmt.Errorf("Signature %q ended unexpectedly", sig)
	}
	switch r := sig[offset]; r {
	case 'V', 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D':
		return 1, nil
	case 'L':
		end := strings.IndexByte(sig[offset:], ';')
		if end < 0 {
			return 0, fmt.Errorf("Fully qualified class missing terminating ';'")
		}
		return end + 1, nil
	case '[':
		n, err := parseSignature(sig, offset+1)
		return n + 1, err
	default:
		return 0, fmt.Errorf("Unknown signature type tag '%c'", r)
	}
}

// MethodSignature is a parsed method signature.
type MethodSignature struct {
	Parameters []string
	Return     string
}

// ParseMethodSignature splits a method signature such as "(ILjava/lang/String;)V"
// into its parameter and return type signatures.
func ParseMethodSignature(str string) (MethodSignature, error) {
	s := MethodSignature{}
	if len(str) == 0 || str[0] != '(' {
		return MethodSignature{}, fmt.Errorf("Method signature doesn't start with '('")
	}
	i := 1
	for i < len(str) && str[i] != ')' {
		n, err := parseSignature(str, i)
		if err != nil {
			return MethodSignature{}, err
		}
		s.Parameters = append(s.Parameters, str[i:i+n])
		i += n
	}
	i++
	n, err := parseSignature(str, i)
	if err != nil {
		return MethodSignature{}, err
	}
	s.Return = str[i : i+n]
	return s, nil
}

// ArgSlots returns the number of local variable slots taken by the parameters
// of the method signature sig. Longs and doubles take two slots. Malformed
// signatures take none.
func ArgSlots(sig string) int {
	s, err := ParseMethodSignature(sig)
	if err != nil {
		return 0
	}
	n := 0
	for _, p := range s.Parameters {
		switch p {
		case "J", "D":
			n += 2
		default:
			n++
		}
	}
	return n
}
