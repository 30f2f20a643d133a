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

package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
	"github.com/stepanv/jpf-jdwp-sub001/core/event/task"
	"github.com/stepanv/jpf-jdwp-sub001/core/log"
)

const ExpectBlocking = time.Millisecond * 100

func TestSignalFire(t *testing.T) {
	ctx := log.Testing(t)
	signal, fire := task.NewSignal()
	assert.For(ctx, "Signal before fire").ThatBoolean(signal.Fired()).IsFalse()
	fire(ctx)
	assert.For(ctx, "Signal after fire").ThatBoolean(signal.Fired()).IsTrue()
}

func TestSignalWait(t *testing.T) {
	ctx := log.Testing(t)
	inSignal, inFire := task.NewSignal()
	outSignal, outFire := task.NewSignal()
	done := make(chan bool)
	go func() {
		inFire(ctx)
		done <- outSignal.Wait(ctx)
	}()
	inSignal.Wait(ctx)
	outFire(ctx)
	assert.For(ctx, "Out after wait").ThatBoolean(<-done).IsTrue()
}

func TestSignalTryWaitTimeout(t *testing.T) {
	ctx := log.Testing(t)
	signal, _ := task.NewSignal()
	assert.For(ctx, "wait").ThatBoolean(signal.TryWait(ctx, ExpectBlocking)).IsFalse()
	assert.For(ctx, "fired").ThatBoolean(task.FiredSignal.TryWait(ctx, ExpectBlocking)).IsTrue()
}

func TestSignalWaitCancelled(t *testing.T) {
	ctx, cancel := task.WithCancel(log.Testing(t))
	signal, _ := task.NewSignal()
	cancel()
	assert.For(ctx, "wait").ThatBoolean(signal.Wait(ctx)).IsFalse()
	assert.For(ctx, "stopped").ThatBoolean(task.Stopped(ctx)).IsTrue()
	assert.For(ctx, "reason").ThatError(task.StopReason(ctx)).Equals(context.Canceled)
}

func TestRetry(t *testing.T) {
	ctx := log.Testing(t)
	calls := 0
	err := task.Retry(ctx, 3, time.Millisecond, func(context.Context) (bool, error) {
		calls++
		return calls == 2, nil
	})
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "calls").ThatInteger(calls).Equals(2)
}
