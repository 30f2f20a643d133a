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

package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

var testClock = log.FixedClock(time.Date(2000, 1, 22, 12, 34, 56, 789000000, time.Local))

type testMessage struct {
	msg      string
	args     []interface{}
	values   log.V
	severity log.Severity
	tag      string

	raw      string
	brief    string
	detailed string
}

func (m testMessage) send(h log.Handler) {
	ctx := context.Background()
	ctx = log.PutHandler(ctx, h)
	ctx = log.PutTag(ctx, m.tag)
	ctx = log.PutClock(ctx, testClock)
	ctx = m.values.Bind(ctx)
	log.From(ctx).Logf(m.severity, false, m.msg, m.args...)
}

var testMessages = []testMessage{
	{
		msg:      "plain warning",
		severity: log.Warning,

		raw:      "plain warning",
		brief:    "W: plain warning",
		detailed: "12:34:56.789 Warning: plain warning",
	}, {
		msg:      "info with values",
		severity: log.Info,
		values:   log.V{"cat": "meow", "dog": "woof"},

		raw:      "info with values",
		brief:    "I: info with values",
		detailed: "12:34:56.789 Info: info with values \n  cat: meow\n  dog: woof",
	}, {
		msg:      "tagged %v",
		args:     []interface{}{42},
		severity: log.Error,
		tag:      "jdwp",

		raw:      "tagged 42",
		brief:    "E: tagged 42",
		detailed: "12:34:56.789 Error: [jdwp] tagged 42",
	},
}

func TestStyles(t *testing.T) {
	for _, test := range []struct {
		style  log.Style
		expect func(testMessage) string
	}{
		{log.Raw, func(m testMessage) string { return m.raw }},
		{log.Brief, func(m testMessage) string { return m.brief }},
		{log.Detailed, func(m testMessage) string { return m.detailed }},
	} {
		for _, m := range testMessages {
			w, buf := log.Buffer()
			m.send(test.style.Handler(w))
			if got, expect := buf.String(), test.expect(m); got != expect {
				t.Errorf("%v style printed %q, expected %q", test.style, got, expect)
			}
		}
	}
}

func TestSeverityFilter(t *testing.T) {
	w, buf := log.Buffer()
	ctx := log.PutHandler(context.Background(), log.Brief.Handler(w))
	ctx = log.PutFilter(ctx, log.SeverityFilter(log.Warning))
	log.D(ctx, "hidden")
	log.I(ctx, "hidden")
	log.W(ctx, "shown")
	if got := buf.String(); got != "W: shown" {
		t.Errorf("Filtered output was %q", got)
	}
}

func TestInnerValuesShadowOuter(t *testing.T) {
	w, buf := log.Buffer()
	ctx := log.PutHandler(context.Background(), log.Style{Name: "values", Values: log.ValuesSingleLine}.Handler(w))
	ctx = log.V{"session": 1, "kind": "outer"}.Bind(ctx)
	ctx = log.V{"kind": "inner"}.Bind(ctx)
	log.I(ctx, "msg")
	if got, expect := buf.String(), "msg (kind: inner, session: 1)"; got != expect {
		t.Errorf("Got %q, expected %q", got, expect)
	}
}

func TestParseSeverity(t *testing.T) {
	for _, test := range []struct {
		name   string
		expect log.Severity
	}{
		{"debug", log.Debug},
		{"INFO", log.Info},
		{"W", log.Warning},
		{"error", log.Error},
	} {
		got, err := log.ParseSeverity(test.name)
		if err != nil || got != test.expect {
			t.Errorf("ParseSeverity(%q) returned %v, %v", test.name, got, err)
		}
	}
	if _, err := log.ParseSeverity("loud"); err == nil {
		t.Errorf("ParseSeverity accepted an unknown name")
	}
}

func TestErrKeepsCause(t *testing.T) {
	cause := errors.New("broken pipe")
	err := log.Errf(context.Background(), cause, "Failed to send %v", "reply")
	if !errors.Is(err, cause) {
		t.Errorf("log.Errf lost the cause: %v", err)
	}
	if got, expect := err.Error(), "Failed to send reply\n   Cause: broken pipe"; got != expect {
		t.Errorf("Got %q, expected %q", got, expect)
	}
}

func TestNoHandlerIsSilent(t *testing.T) {
	log.E(context.Background(), "nobody is listening")
}

func TestJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	m := testMessage{
		msg:      "attached %v",
		args:     []interface{}{"debugger"},
		severity: log.Info,
		tag:      "jdwp",
		values:   log.V{"port": 8000},
	}
	m.send(log.JSON(buf))
	got := map[string]interface{}{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Output %q is not JSON: %v", buf.String(), err)
	}
	for key, expect := range map[string]interface{}{
		"level":   "info",
		"message": "attached debugger",
		"tag":     "jdwp",
		"port":    float64(8000),
	} {
		if got[key] != expect {
			t.Errorf("%v: got %v, expected %v", key, got[key], expect)
		}
	}
}

func TestChannelFlushesOnClose(t *testing.T) {
	mu := sync.Mutex{}
	got := []string{}
	closed := false
	to := log.NewHandler(func(m *log.Message) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, m.Text)
	}, func() { closed = true })

	h := log.Channel(to, 2)
	ctx := log.PutHandler(context.Background(), h)
	wg := sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				log.I(ctx, "message")
			}
		}()
	}
	wg.Wait()
	h.Close()
	log.I(ctx, "dropped after close")

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 20 {
		t.Errorf("Got %d messages, expected 20", len(got))
	}
	if !closed {
		t.Errorf("Channel did not close the handler it forwards to")
	}
}

func TestTrace(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := log.PutHandler(context.Background(), log.JSON(buf))
	ctx = log.Enter(ctx, "Session")
	ctx = log.Enter(ctx, "ThreadReference.Frames")
	log.W(ctx, "Thread not suspended")

	got := struct{ Trace []string }{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Output %q is not JSON: %v", buf.String(), err)
	}
	if expect := []string{"ThreadReference.Frames", "Session"}; !reflect.DeepEqual(got.Trace, expect) {
		t.Errorf("Got trace %v, expected %v", got.Trace, expect)
	}
}
