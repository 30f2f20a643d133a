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

// Package ids maps the volatile entities of the target runtime to the stable
// identifiers sent over the wire.
//
// Every category of entity (objects, reference types, fields, methods and
// frames) has its own Registry with its own numbering. A Registry never keeps
// an entity alive: the entity side of the mapping is keyed by weak pointer
// and the identifier side holds weak pointers to the identifiers, with both
// sides pruned by runtime cleanups once their referent is collected.
package ids

import (
	"fmt"
	"runtime"
	"sync"
	"weak"

	"github.com/stepanv/jpf-jdwp-sub001/core/java/jdwp"
)

// Identifier is the wire handle of one entity of type T. An Identifier is
// created once per entity and its id is never reused within a Registry.
type Identifier[T any] struct {
	id  uint64
	tag jdwp.Tag
	ref weak.Pointer[T]
	reg *Registry[T]
}

// ID returns the wire value of the identifier.
func (i *Identifier[T]) ID() uint64 {
	if i == nil {
		return 0
	}
	return i.id
}

// Tag returns the category tag computed when the identifier was created.
func (i *Identifier[T]) Tag() jdwp.Tag {
	if i == nil {
		return 0
	}
	return i.tag
}

// IsNull returns true for the null identifier.
func (i *Identifier[T]) IsNull() bool { return i == nil || i.id == 0 }

// Get returns the entity the identifier names. The null identifier returns
// nil. If the entity has been collected, the registry's collected policy
// decides between an error and a nil entity.
func (i *Identifier[T]) Get() (*T, error) {
	if i.IsNull() {
		return nil, nil
	}
	if v := i.ref.Value(); v != nil {
		return v, nil
	}
	return nil, i.reg.collected(i.tag)
}

func (i *Identifier[T]) String() string {
	if i.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%v<%d>", i.reg.name, i.id)
}

// Config describes one category of identifiers.
type Config[T any] struct {
	// Name is used in diagnostics.
	Name string
	// Invalid is returned for ids that were never issued.
	Invalid jdwp.Error
	// Tag computes the category tag of a new identifier. Optional.
	Tag func(*T) jdwp.Tag
	// Collected returns the error reported when the entity of an issued
	// identifier has been collected. A nil error makes Get return a nil
	// entity. Optional, defaults to Invalid.
	Collected func(tag jdwp.Tag) error
}

// Registry issues and resolves the identifiers of one category of entity.
type Registry[T any] struct {
	name      string
	invalid   jdwp.Error
	tagOf     func(*T) jdwp.Tag
	onCollect func(jdwp.Tag) error
	null      *Identifier[T]

	mu       sync.Mutex
	next     uint64
	byEntity map[weak.Pointer[T]]*Identifier[T]
	byID     map[uint64]weak.Pointer[Identifier[T]]
	pins     map[uint64]*pin[T]
	tags     map[uint64]jdwp.Tag // outlives the identifier
}

// pin is a strong reference held while the debugger has disabled collection
// of an entity.
type pin[T any] struct {
	entity *T
	ident  *Identifier[T]
	count  int
}

// NewRegistry returns an empty registry. The first identifier issued is 1.
func NewRegistry[T any](cfg Config[T]) *Registry[T] {
	r := &Registry[T]{
		name:      cfg.Name,
		invalid:   cfg.Invalid,
		tagOf:     cfg.Tag,
		onCollect: cfg.Collected,
		next:      1,
		byEntity:  map[weak.Pointer[T]]*Identifier[T]{},
		byID:      map[uint64]weak.Pointer[Identifier[T]]{},
		pins:      map[uint64]*pin[T]{},
		tags:      map[uint64]jdwp.Tag{},
	}
	r.null = &Identifier[T]{reg: r}
	return r
}

// Null returns the shared null identifier of the registry.
func (r *Registry[T]) Null() *Identifier[T] { return r.null }

// Invalid returns the error reported for unknown ids.
func (r *Registry[T]) Invalid() jdwp.Error { return r.invalid }

func (r *Registry[T]) collected(tag jdwp.Tag) error {
	if r.onCollect == nil {
		return r.invalid
	}
	return r.onCollect(tag)
}

// GetOrCreate returns the identifier of entity, issuing a new one if the
// entity has not been seen before. A nil entity returns the null identifier.
// entity must be heap allocated: weak pointers cannot be made to statically
// allocated values.
func (r *Registry[T]) GetOrCreate(entity *T) *Identifier[T] {
	if entity == nil {
		return r.null
	}
	key := weak.Make(entity)

	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byEntity[key]; ok {
		return i
	}
	i := &Identifier[T]{id: r.next, ref: key, reg: r}
	r.next++
	if r.tagOf != nil {
		i.tag = r.tagOf(entity)
		r.tags[i.id] = i.tag
	}
	r.byEntity[key] = i
	r.byID[i.id] = weak.Make(i)
	runtime.AddCleanup(entity, r.forgetEntity, key)
	runtime.AddCleanup(i, r.forgetID, i.id)
	return i
}

func (r *Registry[T]) forgetEntity(key weak.Pointer[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byEntity, key)
}

func (r *Registry[T]) forgetID(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wp, ok := r.byID[id]; ok && wp.Value() == nil {
		delete(r.byID, id)
	}
}

// Lookup returns the identifier with the given id. Id 0 returns the null
// identifier. An id that was issued but whose identifier no longer exists
// reports the collected error, an id that was never issued reports the
// registry's invalid error.
func (r *Registry[T]) Lookup(id uint64) (*Identifier[T], error) {
	if id == 0 {
		return r.null, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if wp, ok := r.byID[id]; ok {
		if i := wp.Value(); i != nil {
			return i, nil
		}
	}
	if id < r.next {
		if err := r.collected(r.tags[id]); err != nil {
			return nil, err
		}
		return r.null, nil
	}
	return nil, r.invalid
}

// Resolve returns the entity named by id.
func (r *Registry[T]) Resolve(id uint64) (*T, error) {
	i, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	return i.Get()
}

// IsCollected returns true if id was issued and its entity has since been
// collected.
func (r *Registry[T]) IsCollected(id uint64) (bool, error) {
	if id == 0 {
		return false, r.invalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id >= r.next {
		return false, r.invalid
	}
	if wp, ok := r.byID[id]; ok {
		if i := wp.Value(); i != nil {
			return i.ref.Value() == nil, nil
		}
	}
	return true, nil
}

// Pin keeps the entity named by id alive until a matching Unpin. Pins nest.
func (r *Registry[T]) Pin(id uint64) error {
	i, err := r.Lookup(id)
	if err != nil {
		return err
	}
	if i.IsNull() {
		return r.invalid
	}
	entity, err := i.Get()
	if err != nil {
		return err
	}
	if entity == nil {
		return r.collected(i.tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pins[id]
	if !ok {
		p = &pin[T]{entity: entity, ident: i}
		r.pins[id] = p
	}
	p.count++
	return nil
}

// Unpin releases count pins of id, or every pin if count is not positive.
// Unpinning an id that is not pinned does nothing.
func (r *Registry[T]) Unpin(id uint64, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pins[id]
	if !ok {
		return
	}
	p.count -= count
	if count <= 0 || p.count <= 0 {
		delete(r.pins, id)
	}
}

// Pinned returns the number of outstanding pins of id.
func (r *Registry[T]) Pinned(id uint64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pins[id]; ok {
		return p.count
	}
	return 0
}

// Release drops every pin. It is called when the session ends.
func (r *Registry[T]) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pins = map[uint64]*pin[T]{}
}

// Len returns the number of live identifiers.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEntity)
}
