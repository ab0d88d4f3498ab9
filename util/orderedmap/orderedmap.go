// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

// Package orderedmap provides a map that remembers insertion order, giving
// deterministic iteration and deterministic Gob encoding. The bindings IR
// relies on both so that identical inputs serialize to identical bytes.
package orderedmap

import (
	"bytes"
	"encoding/gob"
	"io"
)

// Pair is one key/value entry.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// OrderedMap is a map with stable insertion-order iteration. The zero value
// is not usable; call New.
type OrderedMap[K comparable, V any] struct {
	// Pairs holds the entries in insertion order.
	Pairs []Pair[K, V]
	index map[K]int
}

// New returns an empty OrderedMap.
func New[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{index: make(map[K]int)}
}

// Load returns the value stored for key; ok reports whether it was present.
func (m *OrderedMap[K, V]) Load(key K) (value V, ok bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.Pairs[i].Value, true
}

// Value returns the value stored for key, or the zero value.
func (m *OrderedMap[K, V]) Value(key K) V {
	v, _ := m.Load(key)
	return v
}

// Store sets the value for key, keeping the key's original position if it
// already exists.
func (m *OrderedMap[K, V]) Store(key K, value V) {
	if i, ok := m.index[key]; ok {
		m.Pairs[i].Value = value
		return
	}
	m.index[key] = len(m.Pairs)
	m.Pairs = append(m.Pairs, Pair[K, V]{Key: key, Value: value})
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.Pairs)
}

// OrderedRange calls f for each entry in insertion order until f returns
// false.
func (m *OrderedMap[K, V]) OrderedRange(f func(key K, value V) bool) {
	for _, p := range m.Pairs {
		if !f(p.Key, p.Value) {
			return
		}
	}
}

// GobEncode encodes the entries in insertion order, so equal maps built in
// the same order produce identical bytes.
func (m *OrderedMap[K, V]) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, p := range m.Pairs {
		if err := enc.Encode(p.Key); err != nil {
			return nil, err
		}
		if err := enc.Encode(p.Value); err != nil {
			return nil, err
		}
	}
	if buf.Len() == 0 {
		return nil, nil
	}
	return buf.Bytes(), nil
}

// GobDecode restores the map from a GobEncode stream.
func (m *OrderedMap[K, V]) GobDecode(b []byte) error {
	if m.index == nil {
		m.index = make(map[K]int)
	}
	dec := gob.NewDecoder(bytes.NewBuffer(b))
	for {
		var k K
		if err := dec.Decode(&k); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return err
		}
		m.Store(k, v)
	}
}
