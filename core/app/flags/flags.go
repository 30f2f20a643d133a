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
package flags

import (
	"flag"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Set is a set of command line flags bound to the fields of option structs.
type Set struct {
	// Raw is the underlying flag set.
	Raw flag.FlagSet
}

// New returns an empty set for the named command. Parse errors are returned
// rather than exiting.
func New(name string) *Set {
	s := &Set{}
	s.Raw.Init(name, flag.ContinueOnError)
	return s
}

// Bind uses reflection to bind flag values to value.
// It will recurse into nested structures adding all leaf fields. A field's
// flag is named by its `name` tag or its lower cased name, prefixed with the
// name of the enclosing struct. A `fullname` tag replaces the whole name.
func (s *Set) Bind(name string, value interface{}, help string) {
	switch val := value.(type) {
	case *bool:
		s.Raw.BoolVar(val, name, *val, help)
		return
	case *int:
		s.Raw.IntVar(val, name, *val, help)
		return
	case *int64:
		s.Raw.Int64Var(val, name, *val, help)
		return
	case *uint:
		s.Raw.UintVar(val, name, *val, help)
		return
	case *uint64:
		s.Raw.Uint64Var(val, name, *val, help)
		return
	case *float64:
		s.Raw.Float64Var(val, name, *val, help)
		return
	case *string:
		s.Raw.StringVar(val, name, *val, help)
		return
	case *time.Duration:
		s.Raw.DurationVar(val, name, *val, help)
		return
	case Choosable:
		chooser := val.Chooser()
		s.Raw.Var(chooser, name, fmt.Sprintf("%s [one of: %s]", help, chooser.Choices))
		return
	case Enum:
		chooser := ForEnum(val)
		s.Raw.Var(chooser, name, fmt.Sprintf("%s [one of: %s]", help, chooser.Choices))
		return
	case flag.Value:
		s.Raw.Var(val, name, help)
		return
	}
	rv := reflect.ValueOf(value)

	if rv.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("Flag value not a pointer: %v", rv.Type()))
	}

	switch e := rv.Elem(); e.Kind() {
	case reflect.Slice:
		s.Raw.Var(newRepeatedFlag(e), name, help)
	case reflect.Struct:
		t := e.Type()
		for i := 0; i < e.NumField(); i++ {
			tf := t.Field(i)
			if tf.PkgPath != "" {
				continue // Unexported.
			}
			field := e.Field(i)
			tags := tf.Tag
			fname := strings.ToLower(tf.Name)
			fullname := tags.Get("fullname")
			if tf.Anonymous {
				fname = ""
			}
			if partial := tags.Get("name"); partial != "" {
				fname = partial
			}
			switch {
			case fullname != "":
			case fname == "":
				fullname = name
			case name == "":
				fullname = fname
			default:
				fullname = name + "-" + fname
			}
			s.Bind(fullname, field.Addr().Interface(), tags.Get("help"))
		}
	default:
		panic(fmt.Sprintf("Unhandled flag type: %v", rv.Type()))
	}
}

// Parse processes the args to fill in the bound values.
func (s *Set) Parse(args ...string) error {
	return s.Raw.Parse(args)
}

// Args returns the unprocessed part of the command line passed to Parse.
func (s *Set) Args() []string {
	return s.Raw.Args()
}

// Visited returns the names of the flags set on the command line.
func (s *Set) Visited() map[string]bool {
	out := map[string]bool{}
	s.Raw.Visit(func(f *flag.Flag) { out[f.Name] = true })
	return out
}

// Usage returns the usage string for the flags.
func (s *Set) Usage() string {
	result := ""
	s.Raw.VisitAll(func(fl *flag.Flag) {
		name, usage := flag.UnquoteUsage(fl)
		if result != "" {
			result += "\n"
		}
		result += fmt.Sprintf("  -%s %s\n\t%s", fl.Name, name, usage)
		if fl.DefValue != "" && fl.DefValue != "false" && fl.DefValue != "0" {
			result += fmt.Sprintf(" (default %v)", fl.DefValue)
		}
	})
	return result
}
