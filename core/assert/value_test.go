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

package assert_test

import (
	"errors"
	"fmt"
	"os"

	"github.com/stepanv/jpf-jdwp-sub001/core/assert"
)

func ExampleAssertion() {
	assert := assert.To(nil)
	assert.For("A message").That(false).Equals(true)
	fmt.Fprintf(os.Stdout, "Test complete")
	// Output:
	// Error:A message
	//     Got       false
	//     Expect == true
	// Test complete
}

func ExampleAssertion_Critical() {
	defer func() { recover() }() // Consume the critical level panic
	assert := assert.To(nil)
	assert.For("A message").Critical().That(false).Equals(true)
	fmt.Fprintf(os.Stdout, "Test complete")
	// Output:
	// Critical:A message
	//     Got       false
	//     Expect == true
}

func ExampleOnValue_IsNil() {
	var typedNil *int
	assert := assert.To(nil)
	assert.For("nil is nil").That(nil).IsNil()
	assert.For("typed_nil is nil").That(typedNil).IsNil()
	assert.For("typed_nil is not nil").That(typedNil).IsNotNil()
	// Output:
	// Error:typed_nil is not nil
	//     Got       <nil>
	//     Expect != `nil`
}

func ExampleOnValue_Equals() {
	assert := assert.To(nil)
	assert.For("1 Equals 1").That(1).Equals(1)
	assert.For("2 Equals 3").That(2).Equals(3)
	// Output:
	// Error:2 Equals 3
	//     Got       2
	//     Expect == 3
}

func ExampleOnValue_DeepEquals() {
	a := []string{"1", "2"}
	values := []struct{ V []string }{{a}, {[]string{"1", "2"}}, {[]string{"1", "3"}}}
	assert := assert.To(nil)
	assert.For("deep equals same value").That(values[0]).DeepEquals(values[1])
	assert.For("deep equals different value").That(values[0]).DeepEquals(values[2])
	// Output:
	// Error:deep equals different value
	//     Got            {[1 2]}
	//     Expect deep == {[1 3]}
}

func ExampleOnValue_DeepNotEquals() {
	a := []string{"1", "2"}
	values := []struct{ V []string }{{a}, {[]string{"1", "2"}}, {[]string{"1", "3"}}}
	assert := assert.To(nil)
	assert.For("deep not equals same value").That(values[0]).DeepNotEquals(values[1])
	assert.For("deep not equals different value").That(values[0]).DeepNotEquals(values[2])
	// Output:
	// Error:deep not equals same value
	//     Got            {[1 2]}
	//     Expect deep != {[1 2]}
}

func ExampleOnError_Succeeded() {
	err := errors.New("failed")
	assert := assert.To(nil)
	assert.For("nil succeeded").ThatError(nil).Succeeded()
	assert.For("err failed").ThatError(err).Failed()
	assert.For("nil failed").ThatError(nil).Failed()
	// Output:
	// Error:nil failed
	//     Expect  failure
}
