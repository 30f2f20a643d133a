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

// The jdwpd command serves JDWP debugger connections to a demo program run
// by an in-memory target runtime.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/stepanv/jpf-jdwp-sub001/core/app/crash"
	"github.com/stepanv/jpf-jdwp-sub001/core/app/flags"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/agent"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm/memvm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

type options struct {
	Config     string        `help:"path of the TOML config file"`
	Listen     string        `help:"TCP address debuggers connect to"`
	Suspend    bool          `help:"hold the program until the first debugger resumes it"`
	LogLevel   string        `name:"log-level" help:"lowest severity logged"`
	LogFormat  LogFormat     `name:"log-format" help:"log output"`
	Iterations int           `help:"loops of the demo program, negative loops forever"`
	Delay      time.Duration `help:"pause between loops of the demo program"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.PutHandler(ctx, log.Console(os.Stderr, false))

	cfg, err := configure(ctx, os.Args[1:])
	if err != nil {
		log.E(ctx, "%v", err)
		os.Exit(2)
	}
	ctx, h := logging(ctx, cfg)
	err = serve(ctx, cfg)
	if err != nil {
		log.E(ctx, "%v", err)
	}
	h.Close()
	if err != nil {
		os.Exit(1)
	}
}

// configure loads the config file named on the command line and applies the
// flags that were set over it.
func configure(ctx context.Context, args []string) (Config, error) {
	def := DefaultConfig()
	opts := options{
		Listen:     def.Listen,
		Suspend:    def.Suspend,
		LogLevel:   def.LogLevel,
		LogFormat:  def.LogFormat,
		Iterations: def.Iterations,
		Delay:      def.Delay,
	}
	set := flags.New("jdwpd")
	set.Bind("", &opts, "")
	if err := set.Parse(args...); err != nil {
		return Config{}, err
	}

	cfg := def
	if opts.Config != "" {
		var err error
		if cfg, err = LoadConfig(ctx, opts.Config); err != nil {
			return Config{}, err
		}
	}
	for name := range set.Visited() {
		switch name {
		case "listen":
			cfg.Listen = opts.Listen
		case "suspend":
			cfg.Suspend = opts.Suspend
		case "log-level":
			cfg.LogLevel = opts.LogLevel
		case "log-format":
			cfg.LogFormat = opts.LogFormat
		case "iterations":
			cfg.Iterations = opts.Iterations
		case "delay":
			cfg.Delay = opts.Delay
		}
	}
	return cfg, cfg.validate()
}

// logging installs the log handler and severity filter of cfg. Messages from
// the program threads and the session are serialized through a channel, the
// returned handler must be closed to flush it.
func logging(ctx context.Context, cfg Config) (context.Context, log.Handler) {
	tty := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	var h log.Handler
	switch {
	case cfg.LogFormat == JSONFormat, cfg.LogFormat == AutoFormat && !tty:
		h = log.JSON(os.Stderr)
	default:
		h = log.Console(os.Stderr, tty)
	}
	h = log.Channel(h, 64)
	ctx = log.PutHandler(ctx, h)
	severity, _ := log.ParseSeverity(cfg.LogLevel)
	return log.PutFilter(ctx, log.SeverityFilter(severity)), h
}

// serve runs the demo program and accepts one debugger at a time until the
// program exits or ctx is stopped.
func serve(ctx context.Context, cfg Config) error {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return errors.Wrap(err, "Listening")
	}
	defer ln.Close()
	log.I(ctx, "Listening on %v", ln.Addr())

	d := memvm.NewDemo(cfg.Iterations, cfg.Delay)
	m := d.Machine
	stopListening := context.AfterFunc(ctx, func() { ln.Close() })
	defer stopListening()
	crash.Go(func() {
		<-m.Done()
		ln.Close()
	})

	thread := m.NewThread("main")
	started := false
	start := func() {
		started = true
		thread.Start(ctx, d.Main, nil, vm.Ref(m.NewArray("Ljava/lang/String;", 0)))
		crash.Go(func() {
			<-thread.Done()
			m.Exit(0)
		})
	}
	if !cfg.Suspend {
		start()
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || m.Exited() {
				m.Exit(0)
				m.Wait()
				return nil
			}
			return errors.Wrap(err, "Accepting")
		}
		ctx := log.V{"debugger": conn.RemoteAddr().String()}.Bind(ctx)
		s := agent.New(m, agent.Config{Suspend: !started})
		m.SetObserver(s)
		if err := s.Attach(ctx, conn); err != nil {
			log.W(ctx, "Attach failed: %v", err)
			m.SetObserver(nil)
			conn.Close()
			continue
		}
		if !started {
			start()
		}
		if err := s.Run(ctx); err != nil {
			log.W(ctx, "Session failed: %v", err)
		}
		m.SetObserver(nil)
	}
}
