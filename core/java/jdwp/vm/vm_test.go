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

package vm_test

import (
	"testing"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

func TestName(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		sig  string
		name string
	}{
		{"Ljava/lang/String;", "java.lang.String"},
		{"I", "int"},
		{"[I", "int[]"},
		{"[[Ljava/lang/Object;", "java.lang.Object[][]"},
		{"LFoo;", "Foo"},
	} {
		assert.For(ctx, "Name(%v)", test.sig).That(vm.Name(test.sig)).Equals(test.name)
	}
}

func TestParseMethodSignature(t *testing.T) {
	ctx := log.Testing(t)
	s, err := vm.ParseMethodSignature("(I[JLjava/lang/String;)V")
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "params").ThatSlice(s.Parameters).Equals([]string{"I", "[J", "Ljava/lang/String;"})
	assert.For(ctx, "return").That(s.Return).Equals("V")

	_, err = vm.ParseMethodSignature("(Ljava/lang/String)V")
	assert.For(ctx, "unterminated").ThatError(err).Failed()

	assert.For(ctx, "slots").That(vm.ArgSlots("(IJDLjava/lang/Object;)V")).Equals(6)
}

func TestClassHierarchy(t *testing.T) {
	ctx := log.Testing(t)
	object := &vm.Class{Signature: vm.SigObject, Kind: jdwp.Class}
	runnable := &vm.Class{Signature: "Ljava/lang/Runnable;", Kind: jdwp.Interface}
	thread := &vm.Class{Signature: vm.SigThread, Kind: jdwp.Class, Super: object, Interfaces: []*vm.Class{runnable}}
	worker := &vm.Class{Signature: "LWorker;", Kind: jdwp.Class, Super: thread}
	ints := &vm.Class{Signature: "[I", Kind: jdwp.Array}

	assert.For(ctx, "worker is thread").That(worker.Is(vm.SigThread)).Equals(true)
	assert.For(ctx, "worker is runnable").That(worker.IsAssignableTo(runnable)).Equals(true)
	assert.For(ctx, "thread is worker").That(thread.IsAssignableTo(worker)).Equals(false)
	assert.For(ctx, "array is object").That(ints.Is(vm.SigObject)).Equals(true)
	assert.For(ctx, "array name").That(ints.Name()).Equals("int[]")
	assert.For(ctx, "component").That(ints.ComponentSignature()).Equals("I")
}

func TestObjectFields(t *testing.T) {
	ctx := log.Testing(t)
	base := &vm.Class{Signature: "LBase;", Kind: jdwp.Class}
	count := &vm.Field{Name: "count", Signature: "I", Class: base}
	total := &vm.Field{Name: "total", Signature: "J", Class: base, Modifiers: jdwp.ModStatic}
	base.Fields = []*vm.Field{count, total}
	derived := &vm.Class{Signature: "LDerived;", Kind: jdwp.Class, Super: base}

	o := vm.NewObject(1, derived)
	v, ok := o.Field(count)
	assert.For(ctx, "inherited field").That(ok).Equals(true)
	assert.For(ctx, "zeroed").That(v).Equals(vm.Int(0))
	assert.For(ctx, "set").That(o.SetField(count, vm.Int(42))).Equals(true)
	v, _ = o.Field(count)
	assert.For(ctx, "value").That(v.AsInt()).Equals(int32(42))

	_, ok = o.Field(total)
	assert.For(ctx, "static is not an instance field").That(ok).Equals(false)
	assert.For(ctx, "set static").That(base.SetStatic(total, vm.Long(-7))).Equals(true)
	v, _ = base.Static(total)
	assert.For(ctx, "static").That(v.AsLong()).Equals(int64(-7))
}

func TestArrayElements(t *testing.T) {
	ctx := log.Testing(t)
	ints := &vm.Class{Signature: "[I", Kind: jdwp.Array}
	a := vm.NewArray(2, ints, 4)
	assert.For(ctx, "len").That(a.Len()).Equals(4)
	assert.For(ctx, "set").That(a.SetElements(1, []vm.Value{vm.Int(5), vm.Int(6)})).Equals(true)
	got, ok := a.Elements(0, 4)
	assert.For(ctx, "ok").That(ok).Equals(true)
	assert.For(ctx, "elements").ThatSlice(got).Equals([]vm.Value{vm.Int(0), vm.Int(5), vm.Int(6), vm.Int(0)})
	_, ok = a.Elements(3, 2)
	assert.For(ctx, "out of range").That(ok).Equals(false)
}

func TestMethodLines(t *testing.T) {
	ctx := log.Testing(t)
	m := &vm.Method{
		Name: "run", Signature: "(J)V", Start: 0, End: 9,
		Lines: []vm.Line{{Index: 0, Line: 10}, {Index: 4, Line: 11}, {Index: 7, Line: 13}},
	}
	assert.For(ctx, "line 0").That(m.Line(0)).Equals(int32(10))
	assert.For(ctx, "line 5").That(m.Line(5)).Equals(int32(11))
	assert.For(ctx, "line 9").That(m.Line(9)).Equals(int32(13))
	assert.For(ctx, "slots").That(m.ArgSlots()).Equals(3)
}
