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

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "jdwpd.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigOverlay(t *testing.T) {
	ctx := log.Testing(t)
	path := writeConfig(t, `
listen = "127.0.0.1:9000"
suspend = false
delay = "10ms"
log_format = "JSON"
`)
	cfg, err := LoadConfig(ctx, path)
	assert.For(ctx, "err").ThatError(err).Succeeded()
	def := DefaultConfig()
	assert.For(ctx, "listen").That(cfg.Listen).Equals("127.0.0.1:9000")
	assert.For(ctx, "suspend").That(cfg.Suspend).Equals(false)
	assert.For(ctx, "delay").That(cfg.Delay).Equals(10 * time.Millisecond)
	assert.For(ctx, "log format").That(cfg.LogFormat).Equals(JSONFormat)
	assert.For(ctx, "log level").That(cfg.LogLevel).Equals(def.LogLevel)
	assert.For(ctx, "iterations").That(cfg.Iterations).Equals(def.Iterations)
}

func TestLoadConfigInvalid(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name string
		body string
	}{
		{"syntax", `listen = `},
		{"level", `log_level = "loud"`},
		{"format", `log_format = "xml"`},
		{"format type", `log_format = 3`},
		{"delay", `delay = "soon"`},
		{"empty listen", `listen = ""`},
	} {
		t.Run(test.name, func(t *testing.T) {
			ctx := log.SubTest(ctx, t)
			_, err := LoadConfig(ctx, writeConfig(t, test.body))
			assert.For(ctx, "err").ThatError(err).Failed()
		})
	}
}

func TestConfigureFlagsOverFile(t *testing.T) {
	ctx := log.Testing(t)
	path := writeConfig(t, `
listen = "127.0.0.1:9000"
iterations = 5
`)
	cfg, err := configure(ctx, []string{"-config", path, "-iterations", "7", "-log-format", "json"})
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "listen").That(cfg.Listen).Equals("127.0.0.1:9000")
	assert.For(ctx, "iterations").That(cfg.Iterations).Equals(7)
	assert.For(ctx, "log format").That(cfg.LogFormat).Equals(JSONFormat)
	assert.For(ctx, "suspend").That(cfg.Suspend).Equals(true)
}
