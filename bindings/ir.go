// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

// Package bindings converts declarations into the intermediate
// representation consumed by the cross-language code generators. It uses the
// same declared nullability signatures the verification engine computes, but
// never runs the flow-sensitive analysis: a declaration the importer cannot
// translate becomes an unsupported item with a reason, reported independently
// of nullability diagnostics.
package bindings

import (
	"bytes"
	"encoding/gob"
	"errors"

	"github.com/danakj/crubit/ir"
	"github.com/danakj/crubit/typesig"
	"github.com/danakj/crubit/util/orderedmap"
	"github.com/klauspost/compress/s2"
)

// FuncParam is one parameter of an imported function.
type FuncParam struct {
	Name string
	// Type is the canonical type identity string.
	Type string
	// Nullability is the declared structural signature of the type.
	Nullability typesig.Vector
}

// Func is an imported function declaration.
type Func struct {
	Name              string
	Pos               ir.Pos
	Params            []FuncParam
	ReturnType        string
	ReturnNullability typesig.Vector
}

// Field is one data member of an imported record.
type Field struct {
	Name        string
	Type        string
	Nullability typesig.Vector
}

// Record is an imported concrete struct or class.
type Record struct {
	Name   string
	Pos    ir.Pos
	Fields []Field
}

// UnsupportedItem describes a declaration the importer could not translate,
// with a human-readable reason. These are expected results at this boundary,
// not errors and not nullability diagnostics.
type UnsupportedItem struct {
	Name    string
	Message string
	Pos     ir.Pos
}

// IR is the importer's output for one translation unit. Items are keyed by
// declaration name in declaration order so the encoding is deterministic.
type IR struct {
	Funcs       *orderedmap.OrderedMap[string, Func]
	Records     *orderedmap.OrderedMap[string, Record]
	Unsupported []UnsupportedItem
}

// NewIR returns an empty IR.
func NewIR() *IR {
	return &IR{
		Funcs:   orderedmap.New[string, Func](),
		Records: orderedmap.New[string, Record](),
	}
}

// GobEncode serializes the IR through an s2-compressed gob stream.
func (x *IR) GobEncode() (b []byte, err error) {
	var buf bytes.Buffer
	writer := s2.NewWriter(&buf)
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	enc := gob.NewEncoder(writer)
	if err := enc.Encode(x.Funcs); err != nil {
		return nil, err
	}
	if err := enc.Encode(x.Records); err != nil {
		return nil, err
	}
	if err := enc.Encode(x.Unsupported); err != nil {
		return nil, err
	}

	// Close the s2 writer before taking the bytes so the stream is complete.
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores an IR from a GobEncode stream.
func (x *IR) GobDecode(input []byte) error {
	x.Funcs = orderedmap.New[string, Func]()
	x.Records = orderedmap.New[string, Record]()
	x.Unsupported = nil

	dec := gob.NewDecoder(s2.NewReader(bytes.NewBuffer(input)))
	if err := dec.Decode(&x.Funcs); err != nil {
		return err
	}
	if err := dec.Decode(&x.Records); err != nil {
		return err
	}
	return dec.Decode(&x.Unsupported)
}
