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
	"context"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/stepanv/jpf-jdwp-sub001/core/app/flags"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

// LogFormat selects how log messages are written.
type LogFormat int

const (
	// AutoFormat writes to a console when stderr is a terminal and JSON
	// otherwise.
	AutoFormat LogFormat = iota
	// ConsoleFormat writes human readable lines.
	ConsoleFormat
	// JSONFormat writes one JSON object per message.
	JSONFormat
)

func (f LogFormat) String() string {
	switch f {
	case AutoFormat:
		return "auto"
	case ConsoleFormat:
		return "console"
	case JSONFormat:
		return "json"
	default:
		return ""
	}
}

// Choose sets the format to v, one of the LogFormat values.
func (f *LogFormat) Choose(v interface{}) { *f = v.(LogFormat) }

// UnmarshalText parses a format name from the config file.
func (f *LogFormat) UnmarshalText(text []byte) error {
	return flags.ForEnum(f).Set(string(text))
}

// Config holds the settings of the daemon.
type Config struct {
	// Listen is the TCP address debuggers connect to.
	Listen string
	// Suspend holds the program until the first debugger resumes it.
	Suspend bool
	// LogLevel is the lowest severity logged.
	LogLevel string
	// LogFormat selects the log output.
	LogFormat LogFormat
	// Iterations is the number of loops the demo program runs. Negative
	// loops until the target exits.
	Iterations int
	// Delay is the pause between loops of the demo program.
	Delay time.Duration
}

// DefaultConfig returns the settings used for keys absent from the file.
func DefaultConfig() Config {
	return Config{
		Listen:     "localhost:8000",
		Suspend:    true,
		LogLevel:   "info",
		LogFormat:  AutoFormat,
		Iterations: -1,
		Delay:      time.Second,
	}
}

// jdwpd.toml key mapping.
type fileConfig struct {
	Listen     string    `toml:"listen"`
	Suspend    bool      `toml:"suspend"`
	LogLevel   string    `toml:"log_level"`
	LogFormat  LogFormat `toml:"log_format"`
	Iterations int       `toml:"iterations"`
	Delay      string    `toml:"delay"`
}

// LoadConfig reads the TOML file at path over the defaults.
func LoadConfig(ctx context.Context, path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrapf(err, "Loading config %v", path)
	}
	if meta.IsDefined("listen") {
		cfg.Listen = raw.Listen
	}
	if meta.IsDefined("suspend") {
		cfg.Suspend = raw.Suspend
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = raw.LogFormat
	}
	if meta.IsDefined("iterations") {
		cfg.Iterations = raw.Iterations
	}
	if meta.IsDefined("delay") {
		if cfg.Delay, err = time.ParseDuration(raw.Delay); err != nil {
			return Config{}, errors.Wrapf(err, "Parsing delay in %v", path)
		}
	}
	for _, key := range meta.Undecoded() {
		log.W(ctx, "Unknown key %v in %v", key, path)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Listen == "" {
		return errors.New("Listen address is empty")
	}
	if _, err := log.ParseSeverity(c.LogLevel); err != nil {
		return err
	}
	if c.Delay < 0 {
		return errors.Errorf("Negative delay %v", c.Delay)
	}
	return nil
}
