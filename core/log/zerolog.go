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

package log

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
)

// Zerolog returns a Handler that forwards every message to l as a structured
// event. Tag, process, trace and bound values become event fields.
func Zerolog(l zerolog.Logger) Handler {
	return handler{
		handle: func(m *Message) {
			e := l.WithLevel(zerologLevel(m.Severity))
			if e == nil {
				return
			}
			e = e.Time(zerolog.TimestampFieldName, m.Time)
			if m.Tag != "" {
				e = e.Str("tag", m.Tag)
			}
			if m.Process != "" {
				e = e.Str("process", m.Process)
			}
			if len(m.Trace) > 0 {
				e = e.Strs("trace", m.Trace)
			}
			for _, v := range m.Values {
				e = e.Interface(v.Name, v.Value)
			}
			if m.StopProcess {
				e = e.Bool("stop", true)
			}
			e.Msg(m.Text)
		},
		close: func() {},
	}
}

// JSON returns a Handler writing one JSON object per message to w.
func JSON(w io.Writer) Handler {
	return Zerolog(zerolog.New(w))
}

// Console returns a Handler writing human readable lines to f.
// When color is true the output is routed through a colorable writer so
// escape sequences also work on Windows consoles.
func Console(f *os.File, color bool) Handler {
	var out io.Writer = f
	if color {
		out = colorable.NewColorable(f)
	}
	return Zerolog(zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !color,
		TimeFormat: time.StampMilli,
	}))
}

func zerologLevel(s Severity) zerolog.Level {
	switch {
	case s <= Verbose:
		return zerolog.TraceLevel
	case s == Debug:
		return zerolog.DebugLevel
	case s == Info:
		return zerolog.InfoLevel
	case s == Warning:
		return zerolog.WarnLevel
	case s == Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.FatalLevel
	}
}
