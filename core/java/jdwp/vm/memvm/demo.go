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

package memvm

import (
	"time"

	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
)

// Demo is a small program loaded into a machine: a counter incremented in a
// loop by its main method, which then throws and catches an exception.
type Demo struct {
	Machine   *Machine
	Counter   *vm.Class
	Failure   *vm.Class
	Count     *vm.Field
	Total     *vm.Field
	Main      *vm.Method
	Increment *vm.Method
	Check     *vm.Method
}

// NewDemo loads the demo program. main loops iterations times, sleeping for
// delay between iterations. A negative iterations loops until the machine
// exits.
func NewDemo(iterations int, delay time.Duration) *Demo {
	m := New()
	d := &Demo{Machine: m}
	d.Failure = m.NewClass("Ljava/lang/IllegalStateException;", m.Exception)
	d.Counter = m.NewClass("Lcom/example/Counter;", m.Object)
	d.Counter.SourceFile = "Counter.java"
	d.Count = m.AddField(d.Counter, "count", "I", jdwp.ModPrivate)
	d.Total = m.AddField(d.Counter, "total", "I", jdwp.ModPrivate|jdwp.ModStatic)

	d.Increment = m.AddMethod(d.Counter, "increment", "()I", jdwp.ModPublic, Code{Instrs: []Instr{
		func(x *Exec) error {
			v := x.GetField(x.This(), d.Count)
			x.PutField(x.This(), d.Count, vm.Int(v.AsInt()+1))
			return nil
		},
		func(x *Exec) error {
			v := x.GetField(nil, d.Total)
			x.PutField(nil, d.Total, vm.Int(v.AsInt()+1))
			return nil
		},
		func(x *Exec) error {
			x.Return(x.GetField(x.This(), d.Count))
			return nil
		},
	}}, vm.Line{Index: 0, Line: 21}, vm.Line{Index: 1, Line: 22}, vm.Line{Index: 2, Line: 23})
	d.Increment.Variables = []vm.Variable{
		{Start: 0, Length: 3, Name: "this", Signature: "Lcom/example/Counter;", Slot: 0},
	}

	d.Check = m.AddMethod(d.Counter, "check", "()V", jdwp.ModPublic, Code{Instrs: []Instr{
		func(x *Exec) error { return x.Throw(m.New(d.Failure)) },
	}}, vm.Line{Index: 0, Line: 26})

	const (
		counter = 1
		index   = 2
		message = 3
	)
	d.Main = m.AddMethod(d.Counter, "main", "([Ljava/lang/String;)V", jdwp.ModPublic|jdwp.ModStatic, Code{
		Instrs: []Instr{
			/* 0 */ func(x *Exec) error {
				x.SetLocal(counter, vm.Ref(m.New(d.Counter)))
				return nil
			},
			/* 1 */ func(x *Exec) error {
				x.SetLocal(index, vm.Int(0))
				return nil
			},
			/* 2 */ func(x *Exec) error {
				if iterations >= 0 && int(x.Local(index).AsInt()) >= iterations {
					x.Goto(6)
				}
				return nil
			},
			/* 3 */ func(x *Exec) error {
				_, err := x.Invoke(d.Increment, x.Local(counter).Object)
				return err
			},
			/* 4 */ func(x *Exec) error {
				x.SetLocal(index, vm.Int(x.Local(index).AsInt()+1))
				if delay > 0 {
					m.Done().TryWait(x.ctx, delay)
				}
				return nil
			},
			/* 5 */ func(x *Exec) error {
				x.Goto(2)
				return nil
			},
			/* 6 */ func(x *Exec) error {
				_, err := x.Invoke(d.Check, x.Local(counter).Object)
				return err
			},
			/* 7 */ func(x *Exec) error {
				x.SetLocal(message, vm.Ref(m.NewString("caught")))
				return nil
			},
			/* 8 */ func(x *Exec) error {
				x.Return(vm.Void())
				return nil
			},
		},
		Handlers: []Handler{{Start: 6, End: 6, Target: 7, Class: m.Exception}},
	},
		vm.Line{Index: 0, Line: 10}, vm.Line{Index: 1, Line: 11}, vm.Line{Index: 2, Line: 12},
		vm.Line{Index: 3, Line: 13}, vm.Line{Index: 4, Line: 14}, vm.Line{Index: 6, Line: 16},
		vm.Line{Index: 7, Line: 17}, vm.Line{Index: 8, Line: 18},
	)
	d.Main.Variables = []vm.Variable{
		{Start: 0, Length: 9, Name: "args", Signature: "[Ljava/lang/String;", Slot: 0},
		{Start: 1, Length: 8, Name: "counter", Signature: "Lcom/example/Counter;", Slot: counter},
		{Start: 2, Length: 7, Name: "i", Signature: "I", Slot: index},
		{Start: 8, Length: 1, Name: "message", Signature: "Ljava/lang/String;", Slot: message},
	}
	return d
}
