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

package ids_test

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/binary"
	"github.com/stepanv/jpf-jdwp-sub001/core/data/endian"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/ids"
	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp/vm"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
	"github.com/stepanv/jpf-jdwp-sub001/core/os/device"
)

// Fixtures are built in init so that they live on the heap, where the
// registries can hold weak pointers to them.
var objectClass, threadClass, workerClass, stringClass, loaderClass, groupClass, classClass, intsClass *vm.Class

func init() {
	objectClass = &vm.Class{Signature: vm.SigObject, Kind: jdwp.Class}
	threadClass = &vm.Class{Signature: vm.SigThread, Kind: jdwp.Class, Super: objectClass}
	workerClass = &vm.Class{Signature: "LWorker;", Kind: jdwp.Class, Super: threadClass}
	stringClass = &vm.Class{Signature: vm.SigString, Kind: jdwp.Class, Super: objectClass}
	loaderClass = &vm.Class{Signature: vm.SigClassLoader, Kind: jdwp.Class, Super: objectClass}
	groupClass = &vm.Class{Signature: vm.SigThreadGroup, Kind: jdwp.Class, Super: objectClass}
	classClass = &vm.Class{Signature: vm.SigClass, Kind: jdwp.Class, Super: objectClass}
	intsClass = &vm.Class{Signature: "[I", Kind: jdwp.Array, Super: objectClass}
}

// gc runs collections until done returns true or the attempts run out.
func gc(done func() bool) bool {
	for i := 0; i < 50; i++ {
		runtime.GC()
		if done() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

// garbage registers a new object and returns only its id.
func garbage(r *ids.Registries, class *vm.Class) uint64 {
	return r.Object(vm.NewObject(1, class)).ID()
}

func TestStability(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	o := vm.NewObject(1, objectClass)
	a, b := r.Object(o), r.Object(o)
	assert.For(ctx, "same identifier").That(a == b).Equals(true)
	assert.For(ctx, "first id").That(a.ID()).Equals(uint64(1))
	got, err := r.Objects.Resolve(a.ID())
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "resolved").That(got == o).Equals(true)

	other := vm.NewObject(2, objectClass)
	assert.For(ctx, "next id").That(r.Object(other).ID()).Equals(uint64(2))
	runtime.KeepAlive(o)
	runtime.KeepAlive(other)
}

func TestCategoriesNumberIndependently(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	f := &vm.Field{Name: "f", Signature: "I"}
	m := &vm.Method{Name: "m", Signature: "()V"}
	assert.For(ctx, "object").That(r.Object(vm.NewObject(1, objectClass)).ID()).Equals(uint64(1))
	assert.For(ctx, "type").That(r.Type(objectClass).ID()).Equals(uint64(1))
	assert.For(ctx, "field").That(r.Field(f).ID()).Equals(uint64(1))
	assert.For(ctx, "method").That(r.Method(m).ID()).Equals(uint64(1))
}

func TestNull(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	null := r.Object(nil)
	assert.For(ctx, "null").That(null.IsNull()).Equals(true)
	assert.For(ctx, "shared").That(null == r.Objects.Null()).Equals(true)

	i, err := r.Objects.Lookup(0)
	assert.For(ctx, "lookup err").ThatError(err).Succeeded()
	assert.For(ctx, "lookup").That(i == null).Equals(true)
	o, err := i.Get()
	assert.For(ctx, "get err").ThatError(err).Succeeded()
	assert.For(ctx, "get").That(o == nil).Equals(true)

	buf := &bytes.Buffer{}
	r.WriteTaggedObject(endian.Writer(buf, device.BigEndian), nil)
	assert.For(ctx, "bytes").ThatSlice(buf.Bytes()).Equals([]byte{'L', 0, 0, 0, 0, 0, 0, 0, 0})
	got, err := r.ReadObject(endian.Reader(bytes.NewReader(buf.Bytes()[1:]), device.BigEndian))
	assert.For(ctx, "read err").ThatError(err).Succeeded()
	assert.For(ctx, "read").That(got == nil).Equals(true)
}

func TestUnknownID(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	_, err := r.Objects.Resolve(42)
	assert.For(ctx, "object").ThatError(err).Equals(jdwp.ErrInvalidObject)
	_, err = r.Types.Resolve(42)
	assert.For(ctx, "type").ThatError(err).Equals(jdwp.ErrInvalidClass)
	_, err = r.Fields.Resolve(42)
	assert.For(ctx, "field").ThatError(err).Equals(jdwp.ErrInvalidFieldID)
	_, err = r.Methods.Resolve(42)
	assert.For(ctx, "method").ThatError(err).Equals(jdwp.ErrInvalidMethodID)
	_, err = r.Frames.Resolve(42)
	assert.For(ctx, "frame").ThatError(err).Equals(jdwp.ErrInvalidFrameID)
}

func TestNoReuseAfterCollection(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	id := garbage(r, objectClass)
	collected := gc(func() bool {
		_, err := r.Objects.Resolve(id)
		return err == jdwp.ErrInvalidObject
	})
	assert.For(ctx, "collected").That(collected).Equals(true)
	isCollected, err := r.Objects.IsCollected(id)
	assert.For(ctx, "is collected err").ThatError(err).Succeeded()
	assert.For(ctx, "is collected").That(isCollected).Equals(true)

	o := vm.NewObject(1, objectClass)
	next := r.Object(o).ID()
	assert.For(ctx, "new id").That(next > id).Equals(true)
	runtime.KeepAlive(o)
}

func TestCollectedPolicy(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	thread := r.Object(vm.NewObject(1, workerClass))
	loader := r.Object(vm.NewObject(2, loaderClass))
	object := r.Object(vm.NewObject(3, objectClass))
	done := gc(func() bool {
		_, err := object.Get()
		return err != nil
	})
	assert.For(ctx, "collected").That(done).Equals(true)
	gc(func() bool {
		_, err := thread.Get()
		return err != nil
	})

	_, err := thread.Get()
	assert.For(ctx, "thread").ThatError(err).Equals(jdwp.ErrInvalidThread)
	_, err = object.Get()
	assert.For(ctx, "object").ThatError(err).Equals(jdwp.ErrInvalidObject)
	o, err := loader.Get()
	assert.For(ctx, "loader err").ThatError(err).Succeeded()
	assert.For(ctx, "loader").That(o == nil).Equals(true)
}

func TestDroppedIdentifierPolicy(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	loader := garbage(r, loaderClass)
	thread := garbage(r, workerClass)
	done := gc(func() bool { return r.Objects.Len() == 0 })
	if !assert.For(ctx, "collected").That(done).Equals(true) {
		return
	}
	// Let the identifiers themselves go too.
	gc(func() bool { return false })

	id := func(v uint64) binary.Reader {
		buf := &bytes.Buffer{}
		w := endian.Writer(buf, device.BigEndian)
		w.Uint64(v)
		return endian.Reader(bytes.NewReader(buf.Bytes()), device.BigEndian)
	}
	o, err := r.ReadClassLoader(id(loader))
	assert.For(ctx, "loader err").ThatError(err).Succeeded()
	assert.For(ctx, "loader").That(o == nil).Equals(true)
	_, err = r.ReadThread(id(thread))
	assert.For(ctx, "thread").ThatError(err).HasCause(jdwp.ErrInvalidThread)
	_, err = r.Objects.Resolve(thread)
	assert.For(ctx, "resolve thread").ThatError(err).HasCause(jdwp.ErrInvalidThread)
}

func TestPinSurvivesCollection(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	id := garbage(r, objectClass)
	assert.For(ctx, "pin").ThatError(r.Objects.Pin(id)).Succeeded()
	assert.For(ctx, "pin again").ThatError(r.Objects.Pin(id)).Succeeded()
	assert.For(ctx, "pinned").That(r.Objects.Pinned(id)).Equals(2)

	for i := 0; i < 3; i++ {
		runtime.GC()
	}
	alive := func() bool {
		o, err := r.Objects.Resolve(id)
		return err == nil && o != nil
	}
	assert.For(ctx, "alive").That(alive()).Equals(true)

	r.Objects.Unpin(id, 1)
	assert.For(ctx, "pinned after unpin").That(r.Objects.Pinned(id)).Equals(1)
	r.Objects.Unpin(id, 0)
	assert.For(ctx, "released").That(r.Objects.Pinned(id)).Equals(0)
	collected := gc(func() bool {
		_, err := r.Objects.Resolve(id)
		return err != nil
	})
	assert.For(ctx, "collected").That(collected).Equals(true)
}

func TestClassify(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name  string
		class *vm.Class
		tag   jdwp.Tag
	}{
		{"object", objectClass, jdwp.TagObject},
		{"thread", threadClass, jdwp.TagThread},
		{"thread subclass", workerClass, jdwp.TagThread},
		{"string", stringClass, jdwp.TagString},
		{"class", classClass, jdwp.TagClassObject},
		{"group", groupClass, jdwp.TagThreadGroup},
		{"loader", loaderClass, jdwp.TagClassLoader},
		{"array", intsClass, jdwp.TagArray},
	} {
		got := ids.Classify(vm.NewObject(1, test.class))
		assert.For(ctx, "%s", test.name).That(got).Equals(test.tag)
	}
}

func TestTypedReaders(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	thread := vm.NewObject(1, workerClass)
	str := vm.NewString(2, stringClass, "hello")

	encode := func(o *vm.Object) []byte {
		buf := &bytes.Buffer{}
		r.WriteObject(endian.Writer(buf, device.BigEndian), o)
		return buf.Bytes()
	}
	decode := func(data []byte) *bytes.Reader { return bytes.NewReader(data) }

	got, err := r.ReadThread(endian.Reader(decode(encode(thread)), device.BigEndian))
	assert.For(ctx, "thread err").ThatError(err).Succeeded()
	assert.For(ctx, "thread").That(got == thread).Equals(true)

	_, err = r.ReadThread(endian.Reader(decode(encode(str)), device.BigEndian))
	assert.For(ctx, "string as thread").ThatError(err).Equals(jdwp.ErrInvalidThread)
	_, err = r.ReadArray(endian.Reader(decode(encode(str)), device.BigEndian))
	assert.For(ctx, "string as array").ThatError(err).Equals(jdwp.ErrInvalidArray)
	_, err = r.ReadString(endian.Reader(decode([]byte{0, 0, 0, 0, 0, 0, 0, 99}), device.BigEndian))
	assert.For(ctx, "unknown string").ThatError(err).Equals(jdwp.ErrInvalidString)
	s, err := r.ReadString(endian.Reader(decode(encode(str)), device.BigEndian))
	assert.For(ctx, "string err").ThatError(err).Succeeded()
	assert.For(ctx, "string").That(s.String()).Equals("hello")
}

func TestValues(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	str := vm.NewString(1, stringClass, "x")
	for _, v := range []vm.Value{
		vm.Boolean(true),
		vm.Byte(-3),
		vm.Char('q'),
		vm.Short(-300),
		vm.Int(-70000),
		vm.Long(1 << 40),
		vm.Float(1.5),
		vm.Double(-2.25),
		vm.Ref(str),
		vm.Ref(nil),
	} {
		buf := &bytes.Buffer{}
		r.WriteValue(endian.Writer(buf, device.BigEndian), v)
		got, err := r.ReadValue(endian.Reader(bytes.NewReader(buf.Bytes()), device.BigEndian))
		assert.For(ctx, "%v err", v).ThatError(err).Succeeded()
		assert.For(ctx, "%v", v).That(got).Equals(v)
	}

	buf := &bytes.Buffer{}
	r.WriteValue(endian.Writer(buf, device.BigEndian), vm.Ref(str))
	assert.For(ctx, "string tag").That(jdwp.Tag(buf.Bytes()[0])).Equals(jdwp.TagString)

	_, err := r.ReadValue(endian.Reader(bytes.NewReader([]byte{'Q', 0}), device.BigEndian))
	assert.For(ctx, "bad tag").ThatError(err).Equals(jdwp.ErrInvalidTag)
}

func TestLocation(t *testing.T) {
	ctx := log.Testing(t)
	r := ids.New()
	class := &vm.Class{Signature: "LMain;", Kind: jdwp.Class}
	method := &vm.Method{Name: "main", Signature: "()V", Class: class, End: 10}
	class.Methods = []*vm.Method{method}
	l := vm.Location{Class: class, Method: method, Index: 4}

	buf := &bytes.Buffer{}
	r.WriteLocation(endian.Writer(buf, device.BigEndian), l)
	assert.For(ctx, "size").That(buf.Len()).Equals(25)
	got, err := r.ReadLocation(endian.Reader(bytes.NewReader(buf.Bytes()), device.BigEndian))
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "location").That(got).Equals(l)

	buf.Reset()
	r.WriteLocation(endian.Writer(buf, device.BigEndian), vm.Location{Class: class, Method: method, Index: 11})
	_, err = r.ReadLocation(endian.Reader(bytes.NewReader(buf.Bytes()), device.BigEndian))
	assert.For(ctx, "out of range").ThatError(err).Equals(jdwp.ErrInvalidLocation)
}
