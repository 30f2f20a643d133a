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

package flags_test

import (
	"io"
	"testing"
	"time"

	"github.com/stepanv/jpf-jdwp-sub001/core/app/flags"
	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
)

type color int

const (
	red color = iota
	green
	blue
)

func (c color) String() string {
	switch c {
	case red:
		return "red"
	case green:
		return "green"
	case blue:
		return "blue"
	default:
		return ""
	}
}

func (c *color) Choose(v interface{}) { *c = v.(color) }

type options struct {
	Name    string        `help:"the name"`
	Wait    time.Duration `name:"wait-for" help:"how long"`
	Color   color         `help:"a color"`
	Nested  struct{ Depth int }
	Ignored bool `fullname:"skip"`
}

func TestBindStruct(t *testing.T) {
	assert := assert.To(t)

	opts := &options{Name: "default", Color: green}
	set := flags.New("test")
	set.Raw.SetOutput(io.Discard)
	set.Bind("", opts, "")
	err := set.Parse("-wait-for", "2s", "-color", "BLUE", "-nested-depth", "3", "-skip", "rest")
	assert.For("err").ThatError(err).Succeeded()
	assert.For("name").ThatString(opts.Name).Equals("default")
	assert.For("wait").That(opts.Wait).Equals(2 * time.Second)
	assert.For("color").That(opts.Color).Equals(blue)
	assert.For("depth").ThatInteger(opts.Nested.Depth).Equals(3)
	assert.For("skip").That(opts.Ignored).Equals(true)
	assert.For("args").ThatSlice(set.Args()).Equals([]string{"rest"})

	visited := set.Visited()
	assert.For("visited wait").That(visited["wait-for"]).Equals(true)
	assert.For("visited name").That(visited["name"]).Equals(false)
}

func TestBadChoice(t *testing.T) {
	assert := assert.To(t)

	opts := &options{}
	set := flags.New("test")
	set.Raw.SetOutput(io.Discard)
	set.Bind("", opts, "")
	assert.For("err").ThatError(set.Parse("-color", "purple")).Failed()
	assert.For("usage").ThatString(set.Usage()).Contains(`"red", "green", "blue"`)
}
